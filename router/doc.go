// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the classpoll API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, state, sessions)

Routes live in one static table; each entry carries a flag marking it as
an instructor route, and flagged routes are wrapped with a client-IP check
against the configured instructor IP before registration. Authorization is
decided by the table, never inside individual handlers.

# Endpoints

Health:

	GET /health

Student (bearer token from login):

	POST /login           - Authenticate against the roster
	POST /register        - Self-register or bind a username
	POST /logout          - End the session
	GET  /question        - Current question (or quiz) view
	POST /submit/{stage}  - answer, reconsider, assess, cluster, vote,
	                        critique, self-critique, quiz

Instructor (client IP must match -admin-ip):

	GET  /admin                  - Console summary
	POST /admin/questions        - Create a question
	POST /admin/serve-question   - Put a question to the room
	POST /admin/start-timer      - Restart the elapsed clock
	GET  /admin/status           - Answering progress
	GET  /admin/assess-status    - Self-assessment progress
	GET  /admin/prototypes       - Page through unclustered answers
	POST /admin/prototypes       - Promote answers to categories
	GET  /admin/cluster-report   - Category membership summary
	POST /admin/correct          - Mark a category correct, open vote
	POST /admin/add-correct      - Add the reference answer, open vote
	POST /admin/start-vote       - Open the vote on current categories
	GET  /admin/analysis         - Round-by-round shift table
	GET  /admin/report           - Plain-text report from stored rows
	POST /admin/save             - Flush responses to the database
	POST /admin/quiz             - Switch the room into quiz mode
*/
package router
