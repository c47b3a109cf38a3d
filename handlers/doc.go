// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements HTTP handlers for the classroom API.

# Handler Organization

Handlers are grouped by concern:

  - SessionHandler: login, registration, logout
  - StudentHandler: the served question view and every submission stage
  - AdminHandler: the instructor console

Each handler struct receives its dependencies at construction:

	sessionHandler := handlers.NewSessionHandler(db, cfg, state, sessions)
	studentHandler := handlers.NewStudentHandler(state, sessions)
	adminHandler := handlers.NewAdminHandler(db, cfg, state)

# Submission Stages

POST /submit/{stage} dispatches on the stage path value: answer,
reconsider, assess, cluster, vote, critique, self-critique, quiz. Students
are identified by the bearer token issued at login.

# Error Handling

State-machine errors are never fatal. submitError maps each sentinel to a
status and a corrective message: missing or invalid fields ask for the form
again (400), referential problems name what was wrong (404/409), and a
stale category list asks the student to resubmit against the fresh one
(409). Database failures are the only 500s.
*/
package handlers
