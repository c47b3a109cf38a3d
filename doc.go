// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the classpoll server.

Classpoll runs in-class concept questions: students answer individually,
discuss with a peer and reconsider, self-assess against the presented
solution, sort their answers into instructor-chosen categories, vote on the
best answer, and critique the one they abandoned. The instructor drives the
stages from a console; everything lands in one database row per student and
question.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=classpoll.db go run main.go

Or with flags:

	go run main.go -p 8000 -d classpoll.db -t sqlite

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file path or PostgreSQL connection string

Optional settings:

  - PORT (-p): Server port (default: 8000)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - ADMIN_IP (-admin-ip): Client IP allowed on instructor routes
    (default: 127.0.0.1)
  - CODE_POOL (-codes): Size of the anonymized student code pool

# Architecture

The server uses a handler-based architecture with dependency injection:

  - question: The per-question state machine, clustering, and reports
  - roster: Student directory, registration, and the live login set
  - session: The serving pointer the instructor swaps between questions
  - handlers: HTTP request handlers (session, student stages, console)
  - router: Static route table with instructor-IP authorization
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Session token issue and lookup
  - monitor: Non-blocking progress reporting into the log
  - db: Schema creation and response persistence
  - report: Plain-text summaries from persisted rows
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
