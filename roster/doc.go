// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package roster is the in-memory student directory and live login set.

Students are loaded from the store at startup (or self-register during a
session) and receive a random anonymized code, assigned once and never
reused. A username can be bound to an imported student exactly once.

	r := roster.New(1000)
	r.Add(42, "Joe Smith", "jsmith")
	err := r.Authenticate(42, "jsmith")

Authenticate distinguishes a wrong id (ErrBadUID) from an unknown or
mistyped username (ErrBadUsername). The login set feeds the denominator of
the instructor's progress displays via ActiveCount.
*/
package roster
