// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package question

import "strconv"

// letters labels categories A, B, C... in every report.
const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func categoryLabel(i int) string {
	if i < len(letters) {
		return string(letters[i])
	}
	return strconv.Itoa(i + 1)
}

// RoundCounts holds the three parallel frequency tables produced by bucketing
// every response by (a) its initial identity, (b) its round-2 reference (self
// if unchanged, the partner's response if switched), and (c) its final vote.
// Students who never completed a round are counted in the NoRevised/NoFinal
// remainders rather than under any category.
type RoundCounts struct {
	Initial   map[ClusterKey]int
	Revised   map[ClusterKey]int
	Final     map[ClusterKey]int
	NoRevised int
	NoFinal   int
	Total     int
}

// CountRounds computes the per-round frequency tables in one pass over the
// stored responses.
func (q *Question) CountRounds() RoundCounts {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.countRounds()
}

// countRounds requires q.mu held (read or write).
func (q *Question) countRounds() RoundCounts {
	rc := RoundCounts{
		Initial: make(map[ClusterKey]int),
		Revised: make(map[ClusterKey]int),
		Final:   make(map[ClusterKey]int),
		Total:   len(q.responses),
	}
	for _, r := range q.responses {
		rc.Initial[r.Key()]++
		if r.Response2 != nil {
			rc.Revised[r.Response2.Key()]++
		} else {
			rc.NoRevised++
		}
		if r.FinalVote != nil {
			rc.Final[r.FinalVote.Key()]++
		} else {
			rc.NoFinal++
		}
	}
	return rc
}

// ClusterSummary reports clustering progress: every current category with its
// member count, plus percentage-correct once the correct answer is known.
type ClusterSummary struct {
	TotalResponses int            `json:"total_responses"`
	Unclustered    int            `json:"unclustered"`
	Categories     []CategoryView `json:"categories"`
	CorrectKnown   bool           `json:"correct_known"`
	PercentCorrect float64        `json:"percent_correct"`
}

// ClusterReport summarizes the current category index in the deterministic
// category ordering. Percentage-correct is defined as 0 when there are no
// responses yet.
func (q *Question) ClusterReport() ClusterSummary {
	q.mu.RLock()
	defer q.mu.RUnlock()

	sum := ClusterSummary{
		TotalResponses: len(q.responses),
		Unclustered:    len(q.responses) - len(q.isClustered),
	}
	for i, key := range q.index.sortedKeys() {
		cat, ok := q.index.get(key)
		if !ok {
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
		sum.Categories = append(sum.Categories, v)
	}
	if q.hasCorrect {
		sum.CorrectKnown = true
		if len(q.responses) > 0 {
			if cat, ok := q.index.get(q.correct.Key()); ok {
				sum.PercentCorrect = float64(len(cat.Members)) * 100 / float64(len(q.responses))
			}
		}
	}
	return sum
}

// AnalysisRow is one category's share of each round, as percentages of the
// total response count.
type AnalysisRow struct {
	Label   string  `json:"label"`
	Answer  string  `json:"answer"`
	Correct bool    `json:"correct"`
	Initial float64 `json:"initial"`
	Revised float64 `json:"revised"`
	Final   float64 `json:"final"`
}

// CategoryDetail collects the reasons members gave for an answer and the
// critiques other students aimed at it.
type CategoryDetail struct {
	Label     string   `json:"label"`
	Answer    string   `json:"answer"`
	Correct   bool     `json:"correct"`
	Reasons   []string `json:"reasons,omitempty"`
	Critiques []string `json:"critiques,omitempty"`
}

// AnalysisReport is the full before/after shift table plus per-category
// commentary, in the cached category ordering. NoResponse carries the share
// of students who skipped the revision and final rounds ("NR").
type AnalysisReport struct {
	TotalResponses int              `json:"total_responses"`
	Rows           []AnalysisRow    `json:"rows"`
	NoResponse     AnalysisRow      `json:"no_response"`
	Details        []CategoryDetail `json:"details"`
}

// Analysis derives the category-by-round percentage table and the attached
// reasons/critiques. Pure read path: it never mutates state machine fields.
// With zero responses every percentage is 0 rather than a division fault.
func (q *Question) Analysis() AnalysisReport {
	q.mu.RLock()
	defer q.mu.RUnlock()

	rc := q.countRounds()
	pct := func(n int) float64 {
		if rc.Total == 0 {
			return 0
		}
		return float64(n) * 100 / float64(rc.Total)
	}

	rep := AnalysisReport{TotalResponses: rc.Total}
	for i, key := range q.index.sortedKeys() {
		cat, ok := q.index.get(key)
		if !ok {
			continue
		}
		correct, _ := q.isCorrect(cat.Prototype)
		rep.Rows = append(rep.Rows, AnalysisRow{
			Label:   categoryLabel(i),
			Answer:  cat.Prototype.Answer(),
			Correct: correct,
			Initial: pct(rc.Initial[key]),
			Revised: pct(rc.Revised[key]),
			Final:   pct(rc.Final[key]),
		})

		detail := CategoryDetail{
			Label:   categoryLabel(i),
			Answer:  cat.Prototype.Answer(),
			Correct: correct,
		}
		for _, m := range cat.Members {
			if m.Reasons != "" {
				detail.Reasons = append(detail.Reasons, m.Reasons)
			}
		}
		for _, r := range q.responses {
			if r.Criticisms == "" || r.CritiqueTarget == nil {
				continue
			}
			if r.CritiqueTarget.Key() == key {
				detail.Critiques = append(detail.Critiques, r.Criticisms)
			}
		}
		rep.Details = append(rep.Details, detail)
	}
	rep.NoResponse = AnalysisRow{
		Label:   "NR",
		Initial: 0,
		Revised: pct(rc.NoRevised),
		Final:   pct(rc.NoFinal),
	}
	return rep
}

// StatusReport is the live answering progress shown on the instructor
// console: responses received so far, broken down by confidence, against the
// number of logged-in students.
type StatusReport struct {
	Title        string `json:"title"`
	Responses    int    `json:"responses"`
	Logins       int    `json:"logins"`
	ByConfidence [3]int `json:"by_confidence"`
	NotYet       int    `json:"not_yet"`
}

// Status snapshots answering progress for the admin console.
func (q *Question) Status() StatusReport {
	q.mu.RLock()
	defer q.mu.RUnlock()

	st := StatusReport{
		Title:     q.Title,
		Responses: len(q.responses),
		Logins:    q.loginCount(),
	}
	for _, r := range q.responses {
		if r.Confidence >= 0 && r.Confidence < len(st.ByConfidence) {
			st.ByConfidence[r.Confidence]++
		}
	}
	if st.Logins > st.Responses {
		st.NotYet = st.Logins - st.Responses
	}
	return st
}

// AssessReport is the live self-assessment breakdown for the admin console.
type AssessReport struct {
	Title      string   `json:"title"`
	Responses  int      `json:"responses"`
	Correct    int      `json:"correct"`
	Close      int      `json:"close"`
	Different  int      `json:"different"`
	NotYet     int      `json:"not_yet"`
	Criticisms []string `json:"criticisms,omitempty"`
}

// AssessStatus snapshots self-assessment progress, including the differences
// students reported for non-matching answers.
func (q *Question) AssessStatus() AssessReport {
	q.mu.RLock()
	defer q.mu.RUnlock()

	rep := AssessReport{Title: q.Title, Responses: len(q.responses)}
	for _, r := range q.responses {
		switch r.Assessment {
		case "correct":
			rep.Correct++
		case "close":
			rep.Close++
		case "different":
			rep.Different++
		default:
			rep.NotYet++
		}
		if r.Criticisms != "" {
			rep.Criticisms = append(rep.Criticisms, r.Criticisms)
		}
	}
	return rep
}
