// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/classpoll/db"
	"github.com/danielhkuo/classpoll/models"
	"github.com/danielhkuo/classpoll/question"
	"github.com/danielhkuo/classpoll/testutil"
)

func TestCreateQuestion(t *testing.T) {
	conn, cfg, state, _ := newTestEnv(t)
	handler := NewAdminHandler(conn, cfg, state)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name: "valid multiple choice",
			requestBody: models.CreateQuestionRequest{
				Kind:          models.KindChoice,
				Title:         "Colors",
				Text:          "Pick one",
				Choices:       []string{"red", "green"},
				CorrectChoice: testutil.Choice(0),
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "valid free text",
			requestBody: models.CreateQuestionRequest{
				Kind:        models.KindText,
				Title:       "Explain",
				Text:        "Why does ice float?",
				CorrectText: "Ice is less dense than water.",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "multiple choice without correct_choice",
			requestBody: models.CreateQuestionRequest{
				Kind:    models.KindChoice,
				Title:   "Colors",
				Text:    "Pick one",
				Choices: []string{"red", "green"},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "correct choice out of range",
			requestBody: models.CreateQuestionRequest{
				Kind:          models.KindChoice,
				Title:         "Colors",
				Text:          "Pick one",
				Choices:       []string{"red", "green"},
				CorrectChoice: testutil.Choice(5),
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "image without correct_file",
			requestBody: models.CreateQuestionRequest{
				Kind:  models.KindImage,
				Title: "Sketch",
				Text:  "Draw the field lines",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown kind",
			requestBody: models.CreateQuestionRequest{
				Kind:  "essay",
				Title: "T",
				Text:  "T",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing title",
			requestBody:    models.CreateQuestionRequest{Kind: models.KindText, Text: "T"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			requestBody:    "not json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body []byte
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, _ = json.Marshal(tt.requestBody)
			}
			req := httptest.NewRequest("POST", "/admin/questions", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			handler.CreateQuestion(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedStatus == http.StatusCreated {
				var resp models.CreateQuestionResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.QuestionID == 0 {
					t.Error("Expected non-zero question_id")
				}
				if _, ok := state.Question(resp.QuestionID); !ok {
					t.Error("Created question not registered in the session pool")
				}
			}
		})
	}
}

func TestAdminEndpointsWithoutServedQuestion(t *testing.T) {
	conn, cfg, state, _ := newTestEnv(t)
	handler := NewAdminHandler(conn, cfg, state)

	endpoints := []func(http.ResponseWriter, *http.Request){
		handler.StartTimer, handler.Status, handler.AssessStatus,
		handler.Prototypes, handler.ClusterReport, handler.StartVote,
		handler.Analysis, handler.Save,
	}
	for i, endpoint := range endpoints {
		req := httptest.NewRequest("GET", "/admin/endpoint", nil)
		w := httptest.NewRecorder()
		endpoint(w, req)
		if w.Code != http.StatusNotFound {
			t.Errorf("Endpoint %d without served question: got %d, want 404", i, w.Code)
		}
	}
}

// TestTextQuestionClustering drives the instructor side of clustering a
// free-text question: page through unclustered answers, promote prototypes,
// and check the cluster report.
func TestTextQuestionClustering(t *testing.T) {
	conn, cfg, state, sessions := newTestEnv(t)
	admin := NewAdminHandler(conn, cfg, state)
	studentH := NewStudentHandler(state, sessions)

	q := question.NewText(0, "Why does ice float?", "Explain briefly.", "Ice is less dense than water.")
	if err := db.InsertQuestion(conn, q); err != nil {
		t.Fatalf("Failed to insert question: %v", err)
	}
	state.AddQuestion(q)
	if _, err := state.Serve(q.ID); err != nil {
		t.Fatalf("Failed to serve question: %v", err)
	}

	answers := map[int]string{
		1: "It is less dense.",
		2: "Hydrogen bonds spread the lattice out.",
		3: "Because of buoyancy.",
	}
	for uid, text := range answers {
		token := sessions.Issue(uid)
		w := submit(t, studentH, token, "answer", models.AnswerRequest{Text: text, Confidence: testutil.Conf(1)})
		testutil.AssertStatus(t, w, http.StatusCreated)
	}

	// Page through unclustered answers
	req := httptest.NewRequest("GET", "/admin/prototypes?offset=0&limit=2", nil)
	w := httptest.NewRecorder()
	admin.Prototypes(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	var page struct {
		Candidates []question.ResponseView `json:"candidates"`
		Offset     int                     `json:"offset"`
		Total      int                     `json:"total"`
	}
	testutil.AssertJSON(t, w, &page)
	if page.Total != 3 || len(page.Candidates) != 2 {
		t.Fatalf("Unclustered page = %d of %d, want 2 of 3", len(page.Candidates), page.Total)
	}

	// Promote two answers to prototypes
	body, _ := json.Marshal(models.AddPrototypesRequest{UIDs: []int{1, 2}})
	req = httptest.NewRequest("POST", "/admin/prototypes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	admin.AddPrototypes(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	var added map[string]int
	testutil.AssertJSON(t, w, &added)
	if added["added"] != 2 {
		t.Errorf("added = %d, want 2", added["added"])
	}

	req = httptest.NewRequest("GET", "/admin/cluster-report", nil)
	w = httptest.NewRecorder()
	admin.ClusterReport(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	var summary question.ClusterSummary
	testutil.AssertJSON(t, w, &summary)
	if summary.TotalResponses != 3 {
		t.Errorf("TotalResponses = %d, want 3", summary.TotalResponses)
	}
	if summary.Unclustered != 1 {
		t.Errorf("Unclustered = %d, want 1", summary.Unclustered)
	}
	// Instructor answer plus the two promoted prototypes
	if len(summary.Categories) != 3 {
		t.Errorf("Categories = %d, want 3", len(summary.Categories))
	}
}
