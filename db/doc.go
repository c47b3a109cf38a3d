// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation and persistence of classroom
session data.

# Opening

Open selects the driver from the configured database type ("sqlite" or
"postgres") and verifies the connection:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

The SQL in this package uses $1-style placeholders and RETURNING clauses,
both of which work on either driver.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The database type picks the id-column dialect: SQLite auto-assigns a bare
INTEGER PRIMARY KEY, Postgres gets identity columns.

# Tables

The schema includes:

  - student: Roster entries and self-registered students
  - question: Served question metadata
  - response: One row per student per question, all rounds flattened
  - error_model: Instructor-declared misconception beliefs per question
  - student_error: Which beliefs each student reported holding

# Relationships

	question 1──* response
	question 1──* error_model
	student 1──* response
	error_model *──* student (via student_error)

A UNIQUE constraint on response(uid, question_id) backs the one-response
rule at the storage layer.

# Saving

SaveResponses flushes everything a question holds in memory in one
transaction. The first save inserts rows and writes the assigned ids back
onto the in-memory responses; later saves update those same rows, so the
flush may be repeated at any point in the session.
*/
package db
