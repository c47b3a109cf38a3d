// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package testutil provides shared helpers for package tests: an in-memory
// database with the full schema, seeded rosters and questions, and HTTP
// request/assertion shorthands.
package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/classpoll/cliparse"
	"github.com/danielhkuo/classpoll/db"
	"github.com/danielhkuo/classpoll/question"
	"github.com/danielhkuo/classpoll/roster"
)

// SetupTestDB creates a fresh in-memory database with the full schema.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// The in-memory database disappears if the pool opens a second
	// connection, so pin it to one.
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn, "sqlite"); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         8000,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		AdminIP:      "192.0.2.1",
		CodePool:     100,
	}
}

// SeedRoster builds a roster with n students named student1..studentN,
// uids 1..n, usernames matching the names.
func SeedRoster(t *testing.T, n int) *roster.Roster {
	t.Helper()

	ros := roster.New(100)
	for uid := 1; uid <= n; uid++ {
		name := "student" + strconv.Itoa(uid)
		ros.Add(uid, "Student "+strconv.Itoa(uid), name)
		ros.Login(uid)
	}
	return ros
}

// NewChoiceQuestion builds a standard 3-option multiple-choice question
// with choice 1 correct.
func NewChoiceQuestion(t *testing.T, id int64) *question.Question {
	t.Helper()

	q, err := question.NewChoice(id, "Test Question", "Pick one", "Because.", 1,
		[]string{"red", "green", "blue"})
	if err != nil {
		t.Fatalf("Failed to build question: %v", err)
	}
	return q
}

// Conf returns a pointer to a confidence level, for AnswerInput literals.
func Conf(level int) *int {
	return &level
}

// Choice returns a pointer to a choice index, for AnswerInput literals.
func Choice(n int) *int {
	return &n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
