// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package monitor reports classroom progress to the instructor's log.

A Notifier drains progress events onto a slog.Logger in its own goroutine.
Questions report through the non-blocking Progress method, so a slow or
stalled log sink can never delay a student's submission; events that cannot
be queued are dropped and counted instead.

	notifier := monitor.New(slog.Default())
	defer notifier.Close()
	q.Bind(roster, notifier)

Log lines include how long ago the current question started, in human
phrasing ("4 minutes ago"). Call Reset when a new question is served.
*/
package monitor
