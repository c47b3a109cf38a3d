// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package question

import "sync"

// Set wraps multiple questions into a single one-shot quiz submission.
// Answers for the whole set are accepted atomically: every sub-answer is
// validated before any is recorded, so a student is never left with a
// half-submitted quiz.
type Set struct {
	ID           int64
	Title        string
	Instructions string
	Questions    []*Question

	monitor Monitor
	roster  Roster

	mu       sync.Mutex
	answered map[int]bool
}

// NewSet builds a quiz over the given questions.
func NewSet(id int64, title, instructions string, qs []*Question) *Set {
	return &Set{
		ID:           id,
		Title:        title,
		Instructions: instructions,
		Questions:    qs,
		answered:     make(map[int]bool),
	}
}

// Bind attaches collaborators to the set and all sub-questions.
func (s *Set) Bind(roster Roster, monitor Monitor) {
	s.mu.Lock()
	s.roster = roster
	s.monitor = monitor
	s.mu.Unlock()
	// Sub-questions report no per-question progress; the set reports one
	// aggregate count per submission instead.
	for _, q := range s.Questions {
		q.Bind(roster, nil)
	}
}

// Answer accepts one student's answers to every question in the set, in
// question order. Quiz answers carry no per-question confidence. A student
// who has already submitted is rejected; a validation failure on any
// sub-answer rejects the whole set without recording anything.
func (s *Set) Answer(uid int, inputs []AnswerInput) error {
	if len(inputs) != len(s.Questions) {
		return ErrMissingInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.answered[uid] {
		return ErrAlreadySubmitted
	}

	conf := ConfidenceGuessing
	for i := range inputs {
		if inputs[i].Confidence == nil {
			inputs[i].Confidence = &conf
		}
	}
	for i, q := range s.Questions {
		if err := q.validateAnswer(inputs[i]); err != nil {
			return err
		}
		if _, dup := q.Response(uid); dup {
			return ErrAlreadySubmitted
		}
	}
	for i, q := range s.Questions {
		if err := q.Answer(uid, inputs[i]); err != nil {
			return err
		}
	}
	s.answered[uid] = true

	if s.monitor != nil {
		total := 0
		if s.roster != nil {
			total = s.roster.ActiveCount()
		}
		s.monitor.Progress("answers", len(s.answered), total)
	}
	return nil
}

// Answered reports how many students have submitted the full set.
func (s *Set) Answered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answered)
}
