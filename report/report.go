// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/danielhkuo/classpoll/db"
)

const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func label(i int) string {
	if i < len(letters) {
		return string(letters[i])
	}
	return strconv.Itoa(i + 1)
}

// Category is one answer group reconstructed from stored rows.
type Category struct {
	Label     string
	Answer    string
	Correct   bool
	Members   int
	Reasons   []string
	Critiques []string
}

// Report is a per-question summary built from persisted responses rather
// than live state, so it can be produced after the room has emptied.
type Report struct {
	Title         string
	Total         int
	Categories    []Category
	Uncategorized []string
}

// Build groups the stored rows of one question into categories. Rows with
// no cluster remain uncategorized; critiques are attached to the category
// they were aimed at.
func Build(title string, rows []db.ResponseRow) Report {
	rep := Report{Title: title, Total: len(rows)}

	type group struct {
		id      int64
		answer  string
		correct bool
		members int
		reasons []string
	}
	groups := make(map[int64]*group)
	critiques := make(map[int64][]string)

	for _, r := range rows {
		if !r.ClusterID.Valid {
			rep.Uncategorized = append(rep.Uncategorized, r.Answer)
			continue
		}
		id := r.ClusterID.Int64
		g, ok := groups[id]
		if !ok {
			g = &group{id: id, answer: r.Answer}
			groups[id] = g
		}
		g.members++
		if r.IsCorrect.Valid && r.IsCorrect.Int64 == 1 {
			g.correct = true
		}
		if r.Reasons.Valid && r.Reasons.String != "" {
			g.reasons = append(g.reasons, r.Reasons.String)
		}
	}
	for _, r := range rows {
		if r.CritiqueID.Valid && r.Criticisms.Valid && r.Criticisms.String != "" {
			critiques[r.CritiqueID.Int64] = append(critiques[r.CritiqueID.Int64], r.Criticisms.String)
		}
	}

	ordered := make([]*group, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].id < ordered[j].id })

	for i, g := range ordered {
		rep.Categories = append(rep.Categories, Category{
			Label:     label(i),
			Answer:    g.answer,
			Correct:   g.correct,
			Members:   g.members,
			Reasons:   g.reasons,
			Critiques: critiques[g.id],
		})
	}
	return rep
}

// Render writes the report as plain text.
func (rep Report) Render(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s\n%d responses\n\n", rep.Title, rep.Total); err != nil {
		return err
	}
	for _, c := range rep.Categories {
		verdict := "wrong"
		if c.Correct {
			verdict = "correct"
		}
		if _, err := fmt.Fprintf(w, "%s (%s): %s\n  %d students\n", c.Label, verdict, c.Answer, c.Members); err != nil {
			return err
		}
		if len(c.Reasons) > 0 {
			fmt.Fprintln(w, "  Reasons given:")
			for _, reason := range c.Reasons {
				fmt.Fprintf(w, "   - %s\n", reason)
			}
		}
		if len(c.Critiques) > 0 {
			fmt.Fprintln(w, "  Critiques:")
			for _, crit := range c.Critiques {
				fmt.Fprintf(w, "   - %s\n", crit)
			}
		}
		fmt.Fprintln(w)
	}
	if len(rep.Uncategorized) > 0 {
		fmt.Fprintf(w, "Uncategorized (%d):\n", len(rep.Uncategorized))
		for _, answer := range rep.Uncategorized {
			fmt.Fprintf(w, "   - %s\n", answer)
		}
	}
	return nil
}
