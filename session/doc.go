// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session tracks what the classroom is currently doing.

State holds the roster, the pool of prepared questions, and the serving
pointer. The instructor swaps the served question (or switches into quiz
mode) through Serve and ServeQuiz; student handlers resolve the current
question through Current on every request, so a swap takes effect for the
next submission with no handler restart.

Serving a question binds it to the roster and the progress monitor and
restarts the elapsed clock.
*/
package session
