// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/classpoll/cliparse"
	"github.com/danielhkuo/classpoll/db"
	"github.com/danielhkuo/classpoll/middleware"
	"github.com/danielhkuo/classpoll/models"
	"github.com/danielhkuo/classpoll/question"
	"github.com/danielhkuo/classpoll/report"
	"github.com/danielhkuo/classpoll/session"
)

type AdminHandler struct {
	db    *sql.DB
	cfg   cliparse.Config
	state *session.State
}

func NewAdminHandler(db *sql.DB, cfg cliparse.Config, state *session.State) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg, state: state}
}

// current resolves the served question, writing the 404 itself.
func (h *AdminHandler) current(w http.ResponseWriter) (*question.Question, bool) {
	q, err := h.state.Current()
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "No question is being served")
		return nil, false
	}
	return q, true
}

// Console handles GET /admin
func (h *AdminHandler) Console(w http.ResponseWriter, r *http.Request) {
	console := models.AdminConsole{
		Logins:   h.state.Roster().ActiveCount(),
		QuizMode: h.state.QuizMode(),
	}
	for _, q := range h.state.Questions() {
		console.QuestionDB = append(console.QuestionDB, models.QuestionRef{
			ID:    q.ID,
			Kind:  q.Kind.String(),
			Title: q.Title,
		})
	}
	if q, err := h.state.Current(); err == nil {
		console.Serving = questionView(q)
		console.Responses = q.ResponseCount()
		if d, ok := q.Elapsed(); ok {
			console.Elapsed = humanize.RelTime(time.Now().Add(-d), time.Now(), "ago", "")
		}
	}
	middleware.JSONResponse(w, http.StatusOK, console)
}

// CreateQuestion handles POST /admin/questions
func (h *AdminHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.CreateQuestionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Title == "" || req.Text == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title and text are required")
		return
	}

	var q *question.Question
	switch req.Kind {
	case models.KindChoice:
		if req.CorrectChoice == nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "correct_choice is required for multiple choice")
			return
		}
		var err error
		q, err = question.NewChoice(0, req.Title, req.Text, req.Explanation, *req.CorrectChoice, req.Choices, req.ErrorModels...)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	case models.KindText:
		explanation := req.Explanation
		if req.CorrectText != "" {
			explanation = req.CorrectText
		}
		q = question.NewText(0, req.Title, req.Text, explanation, req.ErrorModels...)
	case models.KindImage:
		if req.CorrectFile == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "correct_file is required for image questions")
			return
		}
		q = question.NewImage(0, req.Title, req.Text, req.Explanation, req.CorrectFile, req.ErrorModels...)
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "kind must be mc, text or image")
		return
	}

	if err := db.InsertQuestion(h.db, q); err != nil {
		slog.Error("failed to insert question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create question")
		return
	}
	h.state.AddQuestion(q)

	slog.Info("question created", "question_id", q.ID, "kind", q.Kind.String())

	middleware.JSONResponse(w, http.StatusCreated, models.CreateQuestionResponse{QuestionID: q.ID})
}

// ServeQuestion handles POST /admin/serve-question
func (h *AdminHandler) ServeQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.ServeQuestionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	q, err := h.state.Serve(req.QuestionID)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Unknown question id")
		return
	}

	slog.Info("question served", "question_id", q.ID, "title", q.Title)

	middleware.JSONResponse(w, http.StatusOK, questionView(q))
}

// StartTimer handles POST /admin/start-timer
func (h *AdminHandler) StartTimer(w http.ResponseWriter, r *http.Request) {
	q, ok := h.current(w)
	if !ok {
		return
	}
	q.StartTimer()
	middleware.JSONResponse(w, http.StatusOK, models.SubmitResponse{Message: "Timer started"})
}

// Status handles GET /admin/status
func (h *AdminHandler) Status(w http.ResponseWriter, r *http.Request) {
	q, ok := h.current(w)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, q.Status())
}

// AssessStatus handles GET /admin/assess-status
func (h *AdminHandler) AssessStatus(w http.ResponseWriter, r *http.Request) {
	q, ok := h.current(w)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, q.AssessStatus())
}

// Prototypes handles GET /admin/prototypes
func (h *AdminHandler) Prototypes(w http.ResponseWriter, r *http.Request) {
	q, ok := h.current(w)
	if !ok {
		return
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	page, total := q.Unclustered(offset, limit)
	middleware.JSONResponse(w, http.StatusOK, map[string]any{
		"candidates": page,
		"offset":     offset,
		"total":      total,
	})
}

// AddPrototypes handles POST /admin/prototypes
func (h *AdminHandler) AddPrototypes(w http.ResponseWriter, r *http.Request) {
	q, ok := h.current(w)
	if !ok {
		return
	}
	var req models.AddPrototypesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	added := q.AddPrototypes(req.UIDs...)

	slog.Info("prototypes added", "question_id", q.ID, "added", added)

	middleware.JSONResponse(w, http.StatusOK, map[string]int{"added": added})
}

// ClusterReport handles GET /admin/cluster-report
func (h *AdminHandler) ClusterReport(w http.ResponseWriter, r *http.Request) {
	q, ok := h.current(w)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, q.ClusterReport())
}

// MarkCorrect handles POST /admin/correct
func (h *AdminHandler) MarkCorrect(w http.ResponseWriter, r *http.Request) {
	q, ok := h.current(w)
	if !ok {
		return
	}
	var req models.MarkCorrectRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := q.MarkCorrect(req.Choice, req.SlateVersion); err != nil {
		submitError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.SubmitResponse{Message: "Correct answer marked; vote is open"})
}

// AddCorrect handles POST /admin/add-correct
func (h *AdminHandler) AddCorrect(w http.ResponseWriter, r *http.Request) {
	q, ok := h.current(w)
	if !ok {
		return
	}
	if err := q.AddCorrect(); err != nil {
		submitError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.SubmitResponse{Message: "Correct answer added; vote is open"})
}

// StartVote handles POST /admin/start-vote
func (h *AdminHandler) StartVote(w http.ResponseWriter, r *http.Request) {
	q, ok := h.current(w)
	if !ok {
		return
	}
	q.InitVote()
	middleware.JSONResponse(w, http.StatusOK, models.SubmitResponse{Message: "Vote is open"})
}

// Analysis handles GET /admin/analysis
func (h *AdminHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	q, ok := h.current(w)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, q.Analysis())
}

// Save handles POST /admin/save
func (h *AdminHandler) Save(w http.ResponseWriter, r *http.Request) {
	var questions []*question.Question
	if set, err := h.state.Quiz(); err == nil {
		questions = set.Questions
	} else if q, err := h.state.Current(); err == nil {
		questions = []*question.Question{q}
	} else {
		middleware.ErrorResponse(w, http.StatusNotFound, "No question is being served")
		return
	}

	saved := 0
	for _, q := range questions {
		n, err := db.SaveResponses(h.db, q)
		if err != nil {
			slog.Error("failed to save responses", "question_id", q.ID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save responses")
			return
		}
		saved += n
	}

	slog.Info("responses saved", "count", saved)

	middleware.JSONResponse(w, http.StatusOK, models.SaveResponse{Saved: saved})
}

// Report handles GET /admin/report
func (h *AdminHandler) Report(w http.ResponseWriter, r *http.Request) {
	var q *question.Question
	if idStr := r.URL.Query().Get("question_id"); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "invalid question_id")
			return
		}
		var ok bool
		if q, ok = h.state.Question(id); !ok {
			middleware.ErrorResponse(w, http.StatusNotFound, "Unknown question id")
			return
		}
	} else {
		var ok bool
		if q, ok = h.current(w); !ok {
			return
		}
	}

	rows, err := db.LoadResponses(h.db, q.ID)
	if err != nil {
		slog.Error("failed to load responses", "question_id", q.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load responses")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := report.Build(q.Title, rows).Render(w); err != nil {
		slog.Error("failed to render report", "question_id", q.ID, "error", err)
	}
}

// Quiz handles POST /admin/quiz
func (h *AdminHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	var req models.QuizModeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.QuestionIDs) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question_ids is required")
		return
	}
	set, err := h.state.ServeQuiz(req.Title, req.Instructions, req.QuestionIDs)
	if err != nil {
		if errors.Is(err, session.ErrUnknownQuestion) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Unknown question id in question_ids")
			return
		}
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start quiz")
		return
	}

	slog.Info("quiz started", "questions", len(set.Questions))

	middleware.JSONResponse(w, http.StatusOK, models.SubmitResponse{Message: "Quiz is live"})
}
