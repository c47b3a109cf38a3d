// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package question

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Sentinel errors returned by student-facing mutators. None of these are
// fatal: the handler layer maps each one to a corrective message so the
// student can fix their form and resubmit.
var (
	ErrMissingInput     = errors.New("missing required input")
	ErrInvalidInput     = errors.New("invalid input")
	ErrAlreadyAnswered  = errors.New("question already answered")
	ErrNoResponse       = errors.New("no answer recorded yet")
	ErrUnknownPartner   = errors.New("unknown partner username")
	ErrPartnerNoAnswer  = errors.New("partner has not answered yet")
	ErrAlreadyClustered = errors.New("answer already categorized")
	ErrStaleChoices     = errors.New("choice list changed since it was shown")
	ErrAssessMismatch   = errors.New("answer does not match the correct choice")
	ErrAlreadySubmitted = errors.New("answer set already submitted")
	ErrNoCorrectAnswer  = errors.New("correct answer not designated")
)

// Roster supplies the student directory the state machine consults when a
// student reports switching to a partner's answer, and the live login count
// used as the denominator in progress reporting.
type Roster interface {
	LookupUsername(username string) (int, error)
	ActiveCount() int
}

// Monitor receives advisory progress updates as students move through the
// protocol. Implementations must never block: updates fire while the question
// lock is held by the triggering request.
type Monitor interface {
	Progress(stage string, done, total int)
}

// Question owns all live state for one question being served to a room: the
// response map, the category index, the round-progress sets, and the published
// choice slate. A single mutex serializes every mutation; the slate is an
// immutable snapshot swapped atomically so cluster/vote reads never observe a
// half-updated ordering.
type Question struct {
	ID          int64
	Kind        Kind
	Title       string
	Text        string
	Explanation string
	Choices     []string
	ErrorModels []string
	ErrorIDs    []int64 // persisted error_model row ids, parallel to ErrorModels

	roster  Roster
	monitor Monitor

	mu        sync.RWMutex
	responses map[int]*Response
	index     *categoryIndex

	correct          *Response // prototype of the designated correct category
	hasCorrect       bool
	instructorAnswer *Response // the instructor's own answer, restorable via AddCorrect

	// Round-progress sets, keyed by student id. Recomputable from response
	// fields; kept as sets for O(1) progress counts.
	hasReasons   map[int]bool
	isClustered  map[int]bool
	noMatch      map[int]bool
	hasFinalVote map[int]bool
	hasCritique  map[int]bool

	slate       atomic.Pointer[Slate]
	clusterOpen bool
	voteOpen    bool

	started time.Time
	timerOn bool
}

func newQuestion(id int64, kind Kind, title, text, explanation string, errorModels []string) *Question {
	return &Question{
		ID:           id,
		Kind:         kind,
		Title:        title,
		Text:         text,
		Explanation:  explanation,
		ErrorModels:  errorModels,
		responses:    make(map[int]*Response),
		index:        newCategoryIndex(),
		hasReasons:   make(map[int]bool),
		isClustered:  make(map[int]bool),
		noMatch:      make(map[int]bool),
		hasFinalVote: make(map[int]bool),
		hasCritique:  make(map[int]bool),
	}
}

// NewChoice builds a multiple-choice question. Every choice is pre-seeded as
// a category so the vote and the report always enumerate all options, not
// just the ones somebody picked.
func NewChoice(id int64, title, text, explanation string, correctChoice int, choices []string, errorModels ...string) (*Question, error) {
	if len(choices) < 2 {
		return nil, fmt.Errorf("question %d: need at least 2 choices, got %d", id, len(choices))
	}
	if correctChoice < 0 || correctChoice >= len(choices) {
		return nil, fmt.Errorf("question %d: correct choice %d out of range", id, correctChoice)
	}
	q := newQuestion(id, KindChoice, title, text, explanation, errorModels)
	q.Choices = choices
	for i := range choices {
		proto := &Response{
			QuestionID: id,
			Kind:       KindChoice,
			Choice:     i,
			Clustered:  true,
			Prototype:  ClusterKey{Mode: ByValue, N: i},
		}
		cat := q.index.seed(proto)
		if i == correctChoice {
			q.correct = cat.Prototype
			q.instructorAnswer = cat.Prototype
			q.hasCorrect = true
		}
	}
	return q, nil
}

// NewText builds a free-text question. The explanation doubles as the
// prototype of the correct-answer category, seeded with zero members so
// percentage-correct can always be computed.
func NewText(id int64, title, text, explanation string, errorModels ...string) *Question {
	q := newQuestion(id, KindText, title, text, explanation, errorModels)
	proto := &Response{
		QuestionID: id,
		Kind:       KindText,
		Text:       explanation,
		Clustered:  true,
		Prototype:  ClusterKey{Mode: ByPrototype, N: 0},
	}
	q.index.seed(proto)
	q.correct = proto
	q.instructorAnswer = proto
	q.hasCorrect = true
	return q
}

// NewImage builds an image-upload question with the instructor's reference
// image as the correct-answer prototype.
func NewImage(id int64, title, text, explanation, correctFile string, errorModels ...string) *Question {
	q := newQuestion(id, KindImage, title, text, explanation, errorModels)
	proto := &Response{
		QuestionID: id,
		Kind:       KindImage,
		ImagePath:  correctFile,
		Clustered:  true,
		Prototype:  ClusterKey{Mode: ByPrototype, N: 0},
	}
	q.index.seed(proto)
	q.correct = proto
	q.instructorAnswer = proto
	q.hasCorrect = true
	return q
}

// Bind attaches the roster and monitor collaborators. Called by the serving
// layer when the question goes live.
func (q *Question) Bind(roster Roster, monitor Monitor) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.roster = roster
	q.monitor = monitor
}

// AnswerInput carries the round-1 submission. Pointer fields distinguish
// "absent" from zero values; an absent required field is a user input error,
// not a fault.
type AnswerInput struct {
	Choice     *int
	Text       string
	ImagePath  string
	Confidence *int
}

// validateAnswer checks a round-1 submission without touching state, so a
// composite set can validate every sub-answer before accepting any.
func (q *Question) validateAnswer(in AnswerInput) error {
	if in.Confidence == nil {
		return ErrMissingInput
	}
	if *in.Confidence < ConfidenceGuessing || *in.Confidence > ConfidenceConfident {
		return ErrInvalidInput
	}
	switch q.Kind {
	case KindChoice:
		if in.Choice == nil {
			return ErrMissingInput
		}
		if *in.Choice < 0 || *in.Choice >= len(q.Choices) {
			return ErrInvalidInput
		}
	case KindText:
		if in.Text == "" {
			return ErrMissingInput
		}
	case KindImage:
		if in.ImagePath == "" && in.Text == "" {
			return ErrMissingInput
		}
	}
	return nil
}

// Answer records a student's initial response. A second submission is
// rejected deterministically; multiple-choice answers auto-cluster into their
// pre-seeded choice category.
func (q *Question) Answer(uid int, in AnswerInput) error {
	if err := q.validateAnswer(in); err != nil {
		return err
	}

	q.mu.Lock()
	if _, dup := q.responses[uid]; dup {
		q.mu.Unlock()
		return ErrAlreadyAnswered
	}
	r := &Response{
		StudentID:  uid,
		QuestionID: q.ID,
		Kind:       q.Kind,
		Submitted:  time.Now(),
		Confidence: *in.Confidence,
		Text:       in.Text,
		ImagePath:  in.ImagePath,
	}
	if q.Kind == KindChoice {
		r.Choice = *in.Choice
		cat, _ := q.index.get(ClusterKey{Mode: ByValue, N: r.Choice})
		q.index.setPrototype(r, cat)
		q.isClustered[uid] = true
	}
	q.responses[uid] = r
	q.notify("answers", len(q.responses), q.loginCount())
	q.mu.Unlock()
	return nil
}

// ReconsiderInput carries the round-2 submission made after peer discussion.
type ReconsiderInput struct {
	Status     string // "unchanged" or "switched"
	Reasons    string
	Partner    string // required when Status is "switched"
	Confidence *int
}

// Reconsider records whether discussion changed the student's mind. Unlike
// Answer, resubmission overwrites the previous round-2 fields. When the
// student switched, the partner's username must resolve to a student who has
// already answered; all validation happens before any state is mutated.
func (q *Question) Reconsider(uid int, in ReconsiderInput) error {
	if in.Status == "" || in.Reasons == "" || in.Confidence == nil {
		return ErrMissingInput
	}
	if in.Status != "unchanged" && in.Status != "switched" {
		return ErrInvalidInput
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	r, ok := q.responses[uid]
	if !ok {
		return ErrNoResponse
	}
	target := r
	if in.Status == "switched" {
		if in.Partner == "" {
			return ErrMissingInput
		}
		if q.roster == nil {
			return ErrUnknownPartner
		}
		partnerUID, err := q.roster.LookupUsername(in.Partner)
		if err != nil {
			return ErrUnknownPartner
		}
		pr, ok := q.responses[partnerUID]
		if !ok {
			return ErrPartnerNoAnswer
		}
		target = pr
	}
	r.Reconsidered = true
	r.Response2 = target
	r.Reasons = in.Reasons
	r.Confidence2 = *in.Confidence
	q.hasReasons[uid] = true

	q.notify("recons", len(q.hasReasons), len(q.responses))
	return nil
}

// Assess records the student's self-assessment against the presented
// solution. "correct" auto-clusters the response into the correct-answer
// category; anything else marks the response as its own critique target and
// leaves it for instructor clustering. For multiple choice the assessment is
// checked against the known correct choice: a claimed "correct" that does not
// match is rejected, and an actually-correct answer has its assessment fixed.
func (q *Question) Assess(uid int, assessment string, errorChoices []int, differences string) error {
	if assessment == "" {
		return ErrMissingInput
	}
	if assessment != "correct" && assessment != "close" && assessment != "different" {
		return ErrInvalidInput
	}
	if assessment != "correct" && differences == "" && len(errorChoices) == 0 {
		return ErrMissingInput
	}
	errorIDs := make([]int64, 0, len(errorChoices))
	for _, e := range errorChoices {
		if e < 0 || e >= len(q.ErrorModels) {
			return ErrInvalidInput
		}
		// Row ids exist only once the question is persisted.
		if e < len(q.ErrorIDs) {
			errorIDs = append(errorIDs, q.ErrorIDs[e])
		}
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	r, ok := q.responses[uid]
	if !ok {
		return ErrNoResponse
	}
	if q.Kind == KindChoice && q.hasCorrect {
		matches := r.Key() == q.correct.Key()
		if assessment == "correct" && !matches {
			return ErrAssessMismatch
		}
		if matches {
			assessment = "correct"
		}
	}
	r.Assessment = assessment
	r.ErrorIDs = errorIDs
	if assessment == "correct" && q.hasCorrect {
		cat, ok := q.index.get(q.correct.Key())
		if ok {
			q.index.setPrototype(r, cat)
			q.isClustered[uid] = true
			delete(q.noMatch, uid)
		}
	} else {
		r.CritiqueTarget = r
		r.Criticisms = differences
		q.noMatch[uid] = true
	}

	q.notify("clustered", len(q.isClustered), len(q.responses))
	return nil
}

// Cluster assigns the student's answer to the category at the given index of
// the published slate. slateVersion is the version the student's form was
// rendered against; a mismatch means the instructor has changed the category
// set since, and the student must resubmit against the fresh list.
func (q *Question) Cluster(uid int, match int, slateVersion uint64) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	r, ok := q.responses[uid]
	if !ok {
		return ErrNoResponse
	}
	if r.Clustered {
		return ErrAlreadyClustered
	}
	key, ok := q.resolveChoice(match, slateVersion)
	if !ok {
		return ErrStaleChoices
	}
	cat, ok := q.index.get(key)
	if !ok {
		return ErrStaleChoices
	}
	q.index.setPrototype(r, cat)
	q.isClustered[uid] = true
	delete(q.noMatch, uid)

	q.notifyClustered()
	return nil
}

// DeclineCluster records that none of the offered categories matched the
// student's answer, leaving it for the next clustering round.
func (q *Question) DeclineCluster(uid int) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.responses[uid]; !ok {
		return ErrNoResponse
	}
	q.noMatch[uid] = true
	q.notifyClustered()
	return nil
}

// Vote records the student's final choice among the published categories.
// Resubmission overwrites the previous round-3 fields. The returned flag
// reports whether the student should next critique their own original answer
// (they abandoned a clustered answer for a different category) rather than
// picking a category to critique.
func (q *Question) Vote(uid int, choice int, confidence *int, slateVersion uint64) (selfCritique bool, err error) {
	if confidence == nil {
		return false, ErrMissingInput
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	r, ok := q.responses[uid]
	if !ok {
		return false, ErrNoResponse
	}
	if !q.voteOpen {
		return false, ErrStaleChoices
	}
	key, ok := q.resolveChoice(choice, slateVersion)
	if !ok {
		return false, ErrStaleChoices
	}
	cat, ok := q.index.get(key)
	if !ok {
		return false, ErrStaleChoices
	}
	r.FinalVote = cat.Prototype
	r.FinalConfidence = *confidence
	q.hasFinalVote[uid] = true

	q.notify("voted", len(q.hasFinalVote), len(q.responses))
	return r.Clustered && key != r.Key(), nil
}

// Critique records the student's criticism of the category at the given
// slate index.
func (q *Question) Critique(uid int, choice int, criticisms string, slateVersion uint64) error {
	if criticisms == "" {
		return ErrMissingInput
	}

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
	return q.saveCritique(uid, cat.Prototype, criticisms)
}

// SelfCritique records the student's criticism of their own original answer.
func (q *Question) SelfCritique(uid int, criticisms string) error {
	if criticisms == "" {
		return ErrMissingInput
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	return q.saveCritique(uid, nil, criticisms)
}

// saveCritique requires q.mu held. A nil target means self-critique.
func (q *Question) saveCritique(uid int, target *Response, criticisms string) error {
	r, ok := q.responses[uid]
	if !ok {
		return ErrNoResponse
	}
	if target == nil {
		target = r
	}
	r.CritiqueTarget = target
	r.Criticisms = criticisms
	q.hasCritique[uid] = true

	q.notify("critique", len(q.hasCritique), len(q.responses))
	return nil
}

// resolveChoice requires q.mu held (read or write). It validates the
// submitted slate version against the live category index before resolving
// the index, so a choice made against a re-sorted list is always detected
// rather than silently landing on the wrong category.
func (q *Question) resolveChoice(choice int, slateVersion uint64) (ClusterKey, bool) {
	slate := q.slate.Load()
	if slate == nil {
		return ClusterKey{}, false
	}
	if slateVersion != 0 && slateVersion != slate.Version {
		return ClusterKey{}, false
	}
	if slate.Version != q.index.version {
		return ClusterKey{}, false
	}
	return slate.Resolve(choice)
}

// Response returns the stored response for a student, if any.
func (q *Question) Response(uid int) (*Response, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	r, ok := q.responses[uid]
	return r, ok
}

// Record is a flattened copy of one response for persistence, with every
// cross-reference resolved to a plain id. Taken under the question lock so a
// flush mid-session reads a consistent view while students keep mutating.
type Record struct {
	RowID      int64 // 0 until the row has been saved
	StudentID  int
	Answer     string
	ImagePath  string
	Confidence int
	Submitted  time.Time
	Reasons    string
	Assessment string
	Criticisms string
	ErrorIDs   []int64

	Clustered bool
	ClusterID int

	Correct      bool
	CorrectKnown bool

	Reconsidered bool
	SwitchedID   int
	Confidence2  int

	HasFinalVote    bool
	FinalID         int
	FinalConfidence int

	HasCritique bool
	CritiqueID  int
}

// Records snapshots every response for persistence.
func (q *Question) Records() []Record {
	q.mu.RLock()
	defer q.mu.RUnlock()

	out := make([]Record, 0, len(q.responses))
	for _, r := range q.responses {
		rec := Record{
			RowID:      r.ID,
			StudentID:  r.StudentID,
			Answer:     r.Answer(),
			ImagePath:  r.ImagePath,
			Confidence: r.Confidence,
			Submitted:  r.Submitted,
			Reasons:    r.Reasons,
			Assessment: r.Assessment,
			Criticisms: r.Criticisms,
			ErrorIDs:   append([]int64(nil), r.ErrorIDs...),
		}
		if r.Clustered {
			rec.Clustered = true
			rec.ClusterID = r.Prototype.N
		}
		rec.Correct, rec.CorrectKnown = q.isCorrect(r)
		if r.Response2 != nil {
			rec.Reconsidered = true
			rec.SwitchedID = r.Response2.StudentID
			rec.Confidence2 = r.Confidence2
		}
		if r.FinalVote != nil {
			rec.HasFinalVote = true
			rec.FinalID = r.FinalVote.Key().N
			rec.FinalConfidence = r.FinalConfidence
		}
		if r.CritiqueTarget != nil {
			rec.HasCritique = true
			rec.CritiqueID = r.CritiqueTarget.Key().N
		}
		out = append(out, rec)
	}
	return out
}

// AssignRowIDs writes persisted row ids back onto the responses, keyed by
// student id. Called after a successful flush commit.
func (q *Question) AssignRowIDs(ids map[int]int64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for uid, id := range ids {
		if r, ok := q.responses[uid]; ok {
			r.ID = id
		}
	}
}

// ResponseCount returns the number of students who have answered.
func (q *Question) ResponseCount() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.responses)
}

func (q *Question) loginCount() int {
	if q.roster == nil {
		return 0
	}
	return q.roster.ActiveCount()
}

// notify forwards a progress update to the monitor. Best-effort only; the
// monitor contract guarantees it never blocks the triggering request.
func (q *Question) notify(stage string, done, total int) {
	if q.monitor != nil {
		q.monitor.Progress(stage, done, total)
	}
}

// notifyClustered requires q.mu held.
func (q *Question) notifyClustered() {
	q.notify("clustered", len(q.isClustered), len(q.responses))
}
