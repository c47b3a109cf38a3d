// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package report renders an end-of-session summary for one question.

Unlike the live reports in the question package, this one is built purely
from persisted response rows, so it works after the server restarts or the
in-memory session is gone:

	rows, _ := db.LoadResponses(conn, questionID)
	rep := report.Build(title, rows)
	rep.Render(os.Stdout)

Output is plain text: each answer category with its verdict, member count,
the reasons members gave, the critiques aimed at it, and finally any
uncategorized answers.
*/
package report
