// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package question

import (
	"sort"
	"time"
)

// StartTimer marks the moment the instructor put the question to the room.
func (q *Question) StartTimer() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.started = time.Now()
	q.timerOn = true
}

// Elapsed returns the time since StartTimer. The second return is false if
// the timer was never started.
func (q *Question) Elapsed() (time.Duration, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if !q.timerOn {
		return 0, false
	}
	return time.Since(q.started), true
}

// ResponseView is the plain per-response data handed to the presentation
// layer (prototype paging, instructor response listings). Copied out under
// the lock so callers never hold live references.
type ResponseView struct {
	StudentID  int    `json:"student_id"`
	Answer     string `json:"answer"`
	Confidence int    `json:"confidence"`
	Reasons    string `json:"reasons,omitempty"`
}

func viewOf(r *Response) ResponseView {
	return ResponseView{
		StudentID:  r.StudentID,
		Answer:     r.Answer(),
		Confidence: r.Confidence,
		Reasons:    r.Reasons,
	}
}

// CountUnclustered returns the number of responses not yet assigned to any
// category. Always equals total responses minus clustered responses.
func (q *Question) CountUnclustered() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.responses) - len(q.isClustered)
}

// Unclustered returns one page of uncategorized responses plus the total
// count. The page is cut from a snapshot ordered by student id taken at call
// time, so responses arriving mid-paging never cause skips or duplicates
// within a page.
func (q *Question) Unclustered(offset, limit int) ([]ResponseView, int) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	snapshot := make([]*Response, 0, len(q.responses)-len(q.isClustered))
	for _, r := range q.responses {
		if !r.Clustered {
			snapshot = append(snapshot, r)
		}
	}
	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].StudentID < snapshot[j].StudentID
	})
	total := len(snapshot)

	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	page := make([]ResponseView, 0, end-offset)
	for _, r := range snapshot[offset:end] {
		page = append(page, viewOf(r))
	}
	return page, total
}

// AddPrototypes promotes each listed student's response to the prototype of a
// new category, republishes the choice slate, opens the clustering stage for
// students, and resets the no-match set for the next round. Already-clustered
// or unknown students are skipped; the count of categories actually added is
// returned.
func (q *Question) AddPrototypes(uids ...int) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	added := 0
	for _, uid := range uids {
		r, ok := q.responses[uid]
		if !ok || r.Clustered {
			continue
		}
		q.index.setPrototype(r, nil)
		q.isClustered[uid] = true
		added++
	}
	q.publishSlate()
	q.clusterOpen = true
	for uid := range q.noMatch {
		delete(q.noMatch, uid)
	}
	q.notifyClustered()
	return added
}

// CategoryView is one entry of the published choice list, in slate order.
type CategoryView struct {
	Index        int      `json:"index"`
	Answer       string   `json:"answer"`
	Count        int      `json:"count"`
	Correct      bool     `json:"correct"`
	CorrectKnown bool     `json:"correct_known"`
	Reasons      []string `json:"reasons,omitempty"`
}

// maxReasonsShown caps how many member arguments accompany each category in
// the choice list.
const maxReasonsShown = 2

// ChoiceList returns the published slate version and its categories with live
// member counts and a few member-given reasons. Returns ok=false before any
// slate has been published.
func (q *Question) ChoiceList() (version uint64, views []CategoryView, ok bool) {
	slate := q.slate.Load()
	if slate == nil {
		return 0, nil, false
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	views = make([]CategoryView, 0, len(slate.Keys))
	for i, key := range slate.Keys {
		cat, found := q.index.get(key)
		if !found {
			continue
		}
		v := CategoryView{
			Index:  i,
			Answer: cat.Prototype.Answer(),
			Count:  len(cat.Members),
		}
		if q.hasCorrect {
			v.CorrectKnown = true
			v.Correct = key == q.correct.Key()
		}
		for _, m := range cat.Members {
			if m.Reasons == "" {
				continue
			}
			v.Reasons = append(v.Reasons, m.Reasons)
			if len(v.Reasons) == maxReasonsShown {
				break
			}
		}
		views = append(views, v)
	}
	return slate.Version, views, true
}

// ClusterOpen reports whether the instructor has published categories for
// students to cluster against.
func (q *Question) ClusterOpen() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.clusterOpen
}

// VoteOpen reports whether the final vote has been opened.
func (q *Question) VoteOpen() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.voteOpen
}

// MarkCorrect designates the category at the given slate index as the correct
// answer and opens the final vote.
func (q *Question) MarkCorrect(choice int, slateVersion uint64) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	key, ok := q.resolveChoice(choice, slateVersion)
	if !ok {
		return ErrStaleChoices
	}
	cat, ok := q.index.get(key)
	if !ok {
		return ErrStaleChoices
	}
	q.correct = cat.Prototype
	q.hasCorrect = true
	q.initVote()
	return nil
}

// AddCorrect restores the instructor's own answer as the correct-answer
// category (with zero members if nobody matched it) and opens the final vote.
// Idempotent: re-adding an already-present correct category is a no-op beyond
// republishing the slate.
func (q *Question) AddCorrect() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.instructorAnswer == nil {
		return ErrNoCorrectAnswer
	}
	q.correct = q.instructorAnswer
	q.hasCorrect = true
	q.index.seed(q.instructorAnswer)
	q.initVote()
	return nil
}

// InitVote publishes the current category ordering as the vote slate and
// unlocks the vote stage for students. Until this runs, vote submissions are
// rejected with a resubmit-later message.
func (q *Question) InitVote() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.initVote()
}

// initVote requires q.mu held.
func (q *Question) initVote() {
	q.publishSlate()
	q.voteOpen = true
}

// publishSlate requires q.mu held. The slate is a copy: readers resolve
// indices against it without taking the question lock, and it is replaced
// wholesale rather than edited in place.
func (q *Question) publishSlate() {
	keys := q.index.sortedKeys()
	snapshot := make([]ClusterKey, len(keys))
	copy(snapshot, keys)
	q.slate.Store(&Slate{Version: q.index.version, Keys: snapshot})
}

// IsCorrect reports whether the response currently falls in the designated
// correct category. known is false when no correct answer is designated.
func (q *Question) IsCorrect(r *Response) (correct, known bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.isCorrect(r)
}

// isCorrect requires q.mu held (read or write).
func (q *Question) isCorrect(r *Response) (correct, known bool) {
	if !q.hasCorrect {
		return false, false
	}
	return r.Key() == q.correct.Key(), true
}
