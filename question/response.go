// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package question

import (
	"strconv"
	"time"
)

// Kind identifies the answer format a question collects.
type Kind int

const (
	KindChoice Kind = iota // multiple choice
	KindText               // free text
	KindImage              // uploaded image with optional caption
	KindSet                // composite quiz of sub-questions
)

func (k Kind) String() string {
	switch k {
	case KindChoice:
		return "mc"
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindSet:
		return "set"
	}
	return "unknown"
}

// Confidence levels, in increasing order.
const (
	ConfidenceGuessing  = 0
	ConfidenceUnsure    = 1
	ConfidenceConfident = 2
)

// KeyMode selects which equality phase a ClusterKey encodes.
type KeyMode int

const (
	// ByValue: multiple-choice answers are equal iff choice indices match.
	ByValue KeyMode = iota
	// ByIdentity: an unclustered free-text/image answer is equal only to itself.
	ByIdentity
	// ByPrototype: clustered answers are equal iff they share a prototype.
	ByPrototype
)

// ClusterKey is the comparable identity of a response for clustering and
// aggregation. Multiple-choice responses key by choice index; free-text and
// image responses key by their own student ID until clustering assigns them a
// prototype, after which they key by the prototype owner's student ID.
type ClusterKey struct {
	Mode KeyMode
	N    int
}

func (k ClusterKey) String() string {
	switch k.Mode {
	case ByValue:
		return "choice:" + strconv.Itoa(k.N)
	case ByIdentity:
		return "resp:" + strconv.Itoa(k.N)
	case ByPrototype:
		return "proto:" + strconv.Itoa(k.N)
	}
	return "invalid"
}

// Response is one student's answer to one question, carrying every field the
// multi-round protocol accumulates. At most one Response exists per
// (student, question); reconsideration and voting overwrite their own rounds'
// fields rather than creating new records.
type Response struct {
	ID         int64 // persisted row id; 0 until saved
	StudentID  int
	QuestionID int64
	Kind       Kind
	Submitted  time.Time
	Confidence int

	// Payload, depending on Kind.
	Choice    int
	Text      string
	ImagePath string

	// Clustering state. Prototype is meaningful only when Clustered is true.
	Clustered bool
	Prototype ClusterKey

	// Round 2 (reconsideration after peer discussion).
	Reconsidered bool
	Reasons      string
	Response2    *Response // self if unchanged, partner's response if switched
	Confidence2  int

	// Self-assessment against the presented solution.
	Assessment string // "correct", "close" or "different"
	ErrorIDs   []int64

	// Round 3 (final vote across categories).
	FinalVote       *Response // the chosen category's prototype
	FinalConfidence int

	// Critique round.
	CritiqueTarget *Response
	Criticisms     string
}

// Key returns the response's current cluster identity. See ClusterKey for the
// two-phase equality contract.
func (r *Response) Key() ClusterKey {
	if r.Kind == KindChoice {
		return ClusterKey{Mode: ByValue, N: r.Choice}
	}
	if r.Clustered {
		return r.Prototype
	}
	return ClusterKey{Mode: ByIdentity, N: r.StudentID}
}

// Equal reports whether two responses count as the same answer.
func (r *Response) Equal(other *Response) bool {
	if other == nil {
		return false
	}
	return r.Key() == other.Key()
}

// Answer returns the canonical value stored and displayed for this response:
// the choice index for multiple choice, the raw text for free text, and the
// caption (or stored file reference) for images.
func (r *Response) Answer() string {
	switch r.Kind {
	case KindChoice:
		return strconv.Itoa(r.Choice)
	case KindImage:
		if r.Text != "" {
			return r.Text
		}
		return r.ImagePath
	default:
		return r.Text
	}
}
