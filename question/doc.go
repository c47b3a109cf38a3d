// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package question implements the per-question response state machine at the
heart of the classroom polling protocol.

# Protocol

A question moves each student through the rounds:

	answer → reconsider → (cluster) → vote → critique

Student-side transitions are idempotent guards, not strict FSM enforcement: a
student can be ahead of the room, and the class-wide stage is advanced by the
instructor. Cluster and vote become available only once the instructor has
published a category list (AddPrototypes / InitVote).

# Responses and Clustering

Each student has at most one Response per question. A Response's identity for
clustering is its ClusterKey:

  - multiple choice: by choice index (auto-clustered on submission)
  - free text / image, unclustered: by the student's own id (identity phase)
  - free text / image, clustered: by the prototype's owner (prototype phase)

The instructor groups free-text/image answers into categories by promoting
individual responses to prototypes (AddPrototypes) and letting students match
themselves (Cluster). The designated correct answer is always present in the
index, even with zero members, so percentage-correct never hits a missing key.

# Choice Slates

ListCategories ordering is deterministic and cached; cluster and vote choices
are numeric indices into a published Slate, an immutable snapshot of that
ordering. If the instructor mutates the category set after a form was
rendered, the stale slate version is detected and the student is asked to
resubmit instead of landing on the wrong category.

# Aggregation

CountRounds buckets every response three ways at once (initial answer,
round-2 reference, final vote) into per-category frequency tables; Analysis
turns those into the before/after percentage table plus attached reasons and
critiques. All report methods are read-only.

# Concurrency

One RWMutex per Question serializes every mutation, including all category
index changes. Published slates are read lock-free. Monitor progress updates
fire under the lock and therefore must never block.

# Errors

Student-facing mutators return sentinel errors (ErrAlreadyAnswered,
ErrNoResponse, ErrUnknownPartner, ErrStaleChoices, ...) that the handler
layer maps to corrective, re-enter-the-form messages. None of them are fatal
to the server.
*/
package question
