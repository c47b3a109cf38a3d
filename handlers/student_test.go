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
	"github.com/danielhkuo/classpoll/testutil"
)

// submit posts a stage submission as the given student.
func submit(t *testing.T, h *StudentHandler, token, stage string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/submit/"+stage, bytes.NewReader(payload))
	req.SetPathValue("stage", stage)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.Submit(w, req)
	return w
}

func TestGetQuestionRequiresLogin(t *testing.T) {
	_, _, state, sessions := newTestEnv(t)
	handler := NewStudentHandler(state, sessions)

	req := httptest.NewRequest("GET", "/question", nil)
	w := httptest.NewRecorder()
	handler.GetQuestion(w, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	req = httptest.NewRequest("GET", "/question", nil)
	req.Header.Set("Authorization", "Bearer bogus-token")
	w = httptest.NewRecorder()
	handler.GetQuestion(w, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestGetQuestionNoneServed(t *testing.T) {
	_, _, state, sessions := newTestEnv(t)
	handler := NewStudentHandler(state, sessions)
	token := sessions.Issue(1)

	req := httptest.NewRequest("GET", "/question", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.GetQuestion(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestGetQuestionServed(t *testing.T) {
	conn, _, state, sessions := newTestEnv(t)
	handler := NewStudentHandler(state, sessions)
	q := serveChoice(t, conn, state)
	token := sessions.Issue(1)

	req := httptest.NewRequest("GET", "/question", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.GetQuestion(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.QuestionState
	testutil.AssertJSON(t, w, &resp)
	if resp.Question == nil || resp.Question.ID != q.ID {
		t.Fatalf("Unexpected question view: %+v", resp.Question)
	}
	if len(resp.Question.Choices) != 3 {
		t.Errorf("Choices = %v, want 3 options", resp.Question.Choices)
	}
	// The choice slate is published only once a cluster or vote stage opens
	if resp.Slate != nil {
		t.Errorf("Slate published before any choice stage: %+v", resp.Slate)
	}
	if resp.VoteOpen {
		t.Error("Vote should not be open before the instructor starts it")
	}

	q.InitVote()
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/question", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.GetQuestion(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	resp = models.QuestionState{}
	testutil.AssertJSON(t, w, &resp)
	if resp.Slate == nil || len(resp.Slate.Categories) != 3 {
		t.Fatalf("Unexpected slate after vote opened: %+v", resp.Slate)
	}
	if !resp.VoteOpen {
		t.Error("Vote should be open")
	}
}

func TestSubmitAnswer(t *testing.T) {
	conn, _, state, sessions := newTestEnv(t)
	handler := NewStudentHandler(state, sessions)
	serveChoice(t, conn, state)
	token := sessions.Issue(1)

	w := submit(t, handler, token, "answer", models.AnswerRequest{
		Choice: testutil.Choice(1), Confidence: testutil.Conf(2),
	})
	testutil.AssertStatus(t, w, http.StatusCreated)

	// First answers are final
	w = submit(t, handler, token, "answer", models.AnswerRequest{
		Choice: testutil.Choice(0), Confidence: testutil.Conf(2),
	})
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestSubmitAnswerValidation(t *testing.T) {
	conn, _, state, sessions := newTestEnv(t)
	handler := NewStudentHandler(state, sessions)
	serveChoice(t, conn, state)
	token := sessions.Issue(1)

	tests := []struct {
		name           string
		body           models.AnswerRequest
		expectedStatus int
	}{
		{
			name:           "missing confidence",
			body:           models.AnswerRequest{Choice: testutil.Choice(1)},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing choice",
			body:           models.AnswerRequest{Confidence: testutil.Conf(1)},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "choice out of range",
			body:           models.AnswerRequest{Choice: testutil.Choice(7), Confidence: testutil.Conf(1)},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := submit(t, handler, token, "answer", tt.body)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestSubmitUnknownStage(t *testing.T) {
	conn, _, state, sessions := newTestEnv(t)
	handler := NewStudentHandler(state, sessions)
	serveChoice(t, conn, state)
	token := sessions.Issue(1)

	w := submit(t, handler, token, "frobnicate", models.AnswerRequest{})
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestSubmitReconsider(t *testing.T) {
	conn, _, state, sessions := newTestEnv(t)
	handler := NewStudentHandler(state, sessions)
	serveChoice(t, conn, state)
	tok1 := sessions.Issue(1)
	tok2 := sessions.Issue(2)

	submit(t, handler, tok1, "answer", models.AnswerRequest{Choice: testutil.Choice(1), Confidence: testutil.Conf(2)})
	submit(t, handler, tok2, "answer", models.AnswerRequest{Choice: testutil.Choice(0), Confidence: testutil.Conf(1)})

	w := submit(t, handler, tok2, "reconsider", models.ReconsiderRequest{
		Status:     models.StatusSwitched,
		Reasons:    "their reasoning held up",
		Partner:    "student1",
		Confidence: testutil.Conf(2),
	})
	testutil.AssertStatus(t, w, http.StatusOK)

	// Unknown partner leaves the submission unaccepted
	w = submit(t, handler, tok2, "reconsider", models.ReconsiderRequest{
		Status:     models.StatusSwitched,
		Reasons:    "changed my mind again",
		Partner:    "nobody",
		Confidence: testutil.Conf(2),
	})
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestSubmitVoteAndCritique(t *testing.T) {
	conn, _, state, sessions := newTestEnv(t)
	handler := NewStudentHandler(state, sessions)
	q := serveChoice(t, conn, state)
	token := sessions.Issue(1)

	submit(t, handler, token, "answer", models.AnswerRequest{Choice: testutil.Choice(0), Confidence: testutil.Conf(1)})

	// Voting is closed until the instructor opens it
	w := submit(t, handler, token, "vote", models.VoteRequest{Choice: 1, Confidence: testutil.Conf(2)})
	testutil.AssertStatus(t, w, http.StatusConflict)

	q.InitVote()
	version, _, _ := q.ChoiceList()

	w = submit(t, handler, token, "vote", models.VoteRequest{
		Choice: 1, Confidence: testutil.Conf(2), SlateVersion: version,
	})
	testutil.AssertStatus(t, w, http.StatusOK)
	var voteResp models.VoteResponse
	testutil.AssertJSON(t, w, &voteResp)
	if !voteResp.SelfCritique {
		t.Error("Voting against one's own answer should signal a self-critique")
	}

	w = submit(t, handler, token, "critique", models.CritiqueRequest{
		Criticisms: "it ignores the second premise",
	})
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestSubmitQuiz(t *testing.T) {
	conn, _, state, sessions := newTestEnv(t)
	handler := NewStudentHandler(state, sessions)
	token := sessions.Issue(1)

	q := testutil.NewChoiceQuestion(t, 0)
	if err := db.InsertQuestion(conn, q); err != nil {
		t.Fatalf("Failed to insert question: %v", err)
	}
	state.AddQuestion(q)
	if _, err := state.ServeQuiz("Midterm Review", "Answer everything.", []int64{q.ID}); err != nil {
		t.Fatalf("Failed to serve quiz: %v", err)
	}

	// GET /question reports quiz mode
	req := httptest.NewRequest("GET", "/question", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.GetQuestion(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	var stateResp models.QuestionState
	testutil.AssertJSON(t, w, &stateResp)
	if stateResp.Quiz == nil || len(stateResp.Quiz.Questions) != 1 {
		t.Fatalf("Unexpected quiz view: %+v", stateResp.Quiz)
	}

	// An incomplete submission is rejected without recording anything
	w = submit(t, handler, token, "quiz", models.QuizRequest{Answers: []models.AnswerRequest{}})
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = submit(t, handler, token, "quiz", models.QuizRequest{
		Answers: []models.AnswerRequest{{Choice: testutil.Choice(1), Confidence: testutil.Conf(2)}},
	})
	testutil.AssertStatus(t, w, http.StatusCreated)

	// One shot only
	w = submit(t, handler, token, "quiz", models.QuizRequest{
		Answers: []models.AnswerRequest{{Choice: testutil.Choice(0), Confidence: testutil.Conf(2)}},
	})
	testutil.AssertStatus(t, w, http.StatusConflict)
}
