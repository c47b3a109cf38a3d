// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"errors"
	"sort"
	"sync"

	"github.com/danielhkuo/classpoll/monitor"
	"github.com/danielhkuo/classpoll/question"
	"github.com/danielhkuo/classpoll/roster"
)

var (
	ErrNoQuestion      = errors.New("no question is being served")
	ErrUnknownQuestion = errors.New("unknown question id")
)

// State is the live classroom session: the roster, the pool of prepared
// questions, and whichever question (or quiz set) is currently served to
// students. Swapping the served question is explicit and guarded; handlers
// always resolve the current question through State rather than holding
// their own pointer.
type State struct {
	roster   *roster.Roster
	notifier *monitor.Notifier

	mu        sync.RWMutex
	questions map[int64]*question.Question
	current   *question.Question
	quiz      *question.Set
}

func New(r *roster.Roster, n *monitor.Notifier) *State {
	return &State{
		roster:    r,
		notifier:  n,
		questions: make(map[int64]*question.Question),
	}
}

func (s *State) Roster() *roster.Roster { return s.roster }

// AddQuestion registers a prepared question in the pool. It does not serve it.
func (s *State) AddQuestion(q *question.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[q.ID] = q
}

// Question looks up a prepared question by id.
func (s *State) Question(id int64) (*question.Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	return q, ok
}

// Questions returns the prepared pool ordered by id.
func (s *State) Questions() []*question.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*question.Question, 0, len(s.questions))
	for _, q := range s.questions {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Serve makes the question with the given id the one students see, binding
// it to the roster and monitor and resetting the elapsed clock. Any quiz
// set in progress is cleared.
func (s *State) Serve(id int64) (*question.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok {
		return nil, ErrUnknownQuestion
	}
	q.Bind(s.roster, s.notifier)
	q.StartTimer()
	s.notifier.Reset()
	s.current = q
	s.quiz = nil
	return q, nil
}

// Current returns the served question, or ErrNoQuestion when nothing is
// being served or the session is in quiz mode.
func (s *State) Current() (*question.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNoQuestion
	}
	return s.current, nil
}

// ServeQuiz switches the session into quiz mode over the given sub-question
// ids, in order. The single-question serving pointer is cleared.
func (s *State) ServeQuiz(title, instructions string, ids []int64) (*question.Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subs := make([]*question.Question, 0, len(ids))
	for _, id := range ids {
		q, ok := s.questions[id]
		if !ok {
			return nil, ErrUnknownQuestion
		}
		subs = append(subs, q)
	}
	set := question.NewSet(0, title, instructions, subs)
	set.Bind(s.roster, s.notifier)
	s.notifier.Reset()
	s.quiz = set
	s.current = nil
	return set, nil
}

// Quiz returns the active quiz set, or ErrNoQuestion outside quiz mode.
func (s *State) Quiz() (*question.Set, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.quiz == nil {
		return nil, ErrNoQuestion
	}
	return s.quiz, nil
}

// QuizMode reports whether a quiz set is currently served.
func (s *State) QuizMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quiz != nil
}
