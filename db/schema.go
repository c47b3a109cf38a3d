// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// databaseType is "sqlite" or "postgres"; it selects the id-column dialect,
// since SQLite auto-assigns a bare INTEGER PRIMARY KEY as the rowid while
// Postgres needs an identity column.
func CreateSchema(db *sql.DB, databaseType string) error {
	_, err := db.Exec(schemaFor(databaseType))
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// schemaFor fills in the auto-assigned id column for the given database type.
// The student table is excluded: uids come from the roster, never the store.
func schemaFor(databaseType string) string {
	idColumn := "INTEGER PRIMARY KEY"
	if databaseType == "postgres" {
		idColumn = "INTEGER PRIMARY KEY GENERATED BY DEFAULT AS IDENTITY"
	}
	return fmt.Sprintf(schema, idColumn)
}

const schema = `
-- Students
CREATE TABLE IF NOT EXISTS student (
    uid INTEGER PRIMARY KEY,
    fullname TEXT NOT NULL,
    username TEXT UNIQUE,
    date_added TIMESTAMP NOT NULL,
    added_by TEXT NOT NULL DEFAULT 'admin'
);

CREATE INDEX IF NOT EXISTS idx_student_username ON student(username);

-- Questions
CREATE TABLE IF NOT EXISTS question (
    id %[1]s,
    qtype TEXT NOT NULL CHECK (qtype IN ('mc', 'text', 'image')),
    title TEXT NOT NULL,
    date_added TIMESTAMP NOT NULL
);

-- Responses: one row per student per question. Reference columns hold
-- resolved ids: cluster_id is the prototype category id (the choice index
-- for multiple choice), switched_id the partner whose answer was adopted,
-- final_id the final-vote category, critique_id the critiqued category.
CREATE TABLE IF NOT EXISTS response (
    id %[1]s,
    uid INTEGER NOT NULL REFERENCES student(uid),
    question_id INTEGER NOT NULL REFERENCES question(id),
    cluster_id INTEGER,
    is_correct INTEGER,
    answer TEXT NOT NULL,
    attach_path TEXT,
    confidence INTEGER NOT NULL,
    submit_time TIMESTAMP NOT NULL,
    reasons TEXT,
    assessment TEXT,
    switched_id INTEGER,
    confidence2 INTEGER,
    final_id INTEGER,
    final_conf INTEGER,
    critique_id INTEGER,
    criticisms TEXT,
    UNIQUE (uid, question_id)
);

CREATE INDEX IF NOT EXISTS idx_response_question ON response(question_id);
CREATE INDEX IF NOT EXISTS idx_response_cluster ON response(question_id, cluster_id);

-- Instructor-defined error models per question
CREATE TABLE IF NOT EXISTS error_model (
    id %[1]s,
    question_id INTEGER NOT NULL REFERENCES question(id),
    belief TEXT NOT NULL,
    date_added TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_error_model_question ON error_model(question_id);

-- Which error models each student reported for themselves
CREATE TABLE IF NOT EXISTS student_error (
    error_id INTEGER NOT NULL REFERENCES error_model(id),
    uid INTEGER NOT NULL REFERENCES student(uid),
    submit_time TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_student_error_uid ON student_error(uid);
`
