// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/classpoll/auth"
	"github.com/danielhkuo/classpoll/middleware"
	"github.com/danielhkuo/classpoll/models"
	"github.com/danielhkuo/classpoll/question"
	"github.com/danielhkuo/classpoll/session"
)

type StudentHandler struct {
	state    *session.State
	sessions *auth.Sessions
}

func NewStudentHandler(state *session.State, sessions *auth.Sessions) *StudentHandler {
	return &StudentHandler{state: state, sessions: sessions}
}

func questionView(q *question.Question) *models.QuestionView {
	return &models.QuestionView{
		ID:      q.ID,
		Kind:    q.Kind.String(),
		Title:   q.Title,
		Text:    q.Text,
		Choices: q.Choices,
	}
}

func slateView(q *question.Question) *models.SlateView {
	version, cats, ok := q.ChoiceList()
	if !ok {
		return nil
	}
	view := &models.SlateView{Version: version}
	for _, c := range cats {
		mc := models.CategoryView{
			Index:   c.Index,
			Answer:  c.Answer,
			Count:   c.Count,
			Reasons: c.Reasons,
		}
		if c.CorrectKnown {
			correct := c.Correct
			mc.Correct = &correct
		}
		view.Categories = append(view.Categories, mc)
	}
	return view
}

// GetQuestion handles GET /question
func (h *StudentHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	if _, ok := authenticate(h.sessions, w, r); !ok {
		return
	}

	if set, err := h.state.Quiz(); err == nil {
		quiz := &models.QuizView{Title: set.Title, Instructions: set.Instructions}
		for _, q := range set.Questions {
			quiz.Questions = append(quiz.Questions, *questionView(q))
		}
		middleware.JSONResponse(w, http.StatusOK, models.QuestionState{Quiz: quiz})
		return
	}

	q, err := h.state.Current()
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "No question is being served right now.")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.QuestionState{
		Question:    questionView(q),
		Slate:       slateView(q),
		ClusterOpen: q.ClusterOpen(),
		VoteOpen:    q.VoteOpen(),
	})
}

// Submit handles POST /submit/{stage}
func (h *StudentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	uid, ok := authenticate(h.sessions, w, r)
	if !ok {
		return
	}

	stage := r.PathValue("stage")
	if stage == "quiz" {
		h.submitQuiz(w, r, uid)
		return
	}

	q, err := h.state.Current()
	if err != nil {
		submitError(w, err)
		return
	}

	switch stage {
	case "answer":
		h.submitAnswer(w, r, q, uid)
	case "reconsider":
		h.submitReconsider(w, r, q, uid)
	case "assess":
		h.submitAssess(w, r, q, uid)
	case "cluster":
		h.submitCluster(w, r, q, uid)
	case "vote":
		h.submitVote(w, r, q, uid)
	case "critique":
		h.submitCritique(w, r, q, uid)
	case "self-critique":
		h.submitSelfCritique(w, r, q, uid)
	default:
		middleware.ErrorResponse(w, http.StatusNotFound, "Unknown submission stage")
	}
}

func (h *StudentHandler) submitAnswer(w http.ResponseWriter, r *http.Request, q *question.Question, uid int) {
	var req models.AnswerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	err := q.Answer(uid, question.AnswerInput{
		Choice:     req.Choice,
		Text:       req.Text,
		ImagePath:  req.ImagePath,
		Confidence: req.Confidence,
	})
	if err != nil {
		submitError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, models.SubmitResponse{Message: "Answer recorded"})
}

func (h *StudentHandler) submitReconsider(w http.ResponseWriter, r *http.Request, q *question.Question, uid int) {
	var req models.ReconsiderRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	err := q.Reconsider(uid, question.ReconsiderInput{
		Status:     req.Status,
		Reasons:    req.Reasons,
		Partner:    req.Partner,
		Confidence: req.Confidence,
	})
	if err != nil {
		submitError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.SubmitResponse{Message: "Reconsideration recorded"})
}

func (h *StudentHandler) submitAssess(w http.ResponseWriter, r *http.Request, q *question.Question, uid int) {
	var req models.AssessRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := q.Assess(uid, req.Assessment, req.ErrorChoices, req.Differences); err != nil {
		submitError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.SubmitResponse{Message: "Self-assessment recorded"})
}

func (h *StudentHandler) submitCluster(w http.ResponseWriter, r *http.Request, q *question.Question, uid int) {
	var req models.ClusterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	var err error
	if req.Match == nil {
		err = q.DeclineCluster(uid)
	} else {
		err = q.Cluster(uid, *req.Match, req.SlateVersion)
	}
	if err != nil {
		submitError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.SubmitResponse{Message: "Category recorded"})
}

func (h *StudentHandler) submitVote(w http.ResponseWriter, r *http.Request, q *question.Question, uid int) {
	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	selfCritique, err := q.Vote(uid, req.Choice, req.Confidence, req.SlateVersion)
	if err != nil {
		submitError(w, err)
		return
	}
	msg := "Vote recorded"
	if selfCritique {
		msg = "Vote recorded. You voted against your own answer; please critique it."
	}
	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{Message: msg, SelfCritique: selfCritique})
}

func (h *StudentHandler) submitCritique(w http.ResponseWriter, r *http.Request, q *question.Question, uid int) {
	var req models.CritiqueRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	var err error
	if req.Choice == nil {
		err = q.SelfCritique(uid, req.Criticisms)
	} else {
		err = q.Critique(uid, *req.Choice, req.Criticisms, req.SlateVersion)
	}
	if err != nil {
		submitError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.SubmitResponse{Message: "Critique recorded"})
}

func (h *StudentHandler) submitSelfCritique(w http.ResponseWriter, r *http.Request, q *question.Question, uid int) {
	var req models.CritiqueRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := q.SelfCritique(uid, req.Criticisms); err != nil {
		submitError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.SubmitResponse{Message: "Critique recorded"})
}

func (h *StudentHandler) submitQuiz(w http.ResponseWriter, r *http.Request, uid int) {
	set, err := h.state.Quiz()
	if err != nil {
		submitError(w, err)
		return
	}
	var req models.QuizRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	inputs := make([]question.AnswerInput, len(req.Answers))
	for i, a := range req.Answers {
		inputs[i] = question.AnswerInput{
			Choice:     a.Choice,
			Text:       a.Text,
			ImagePath:  a.ImagePath,
			Confidence: a.Confidence,
		}
	}
	if err := set.Answer(uid, inputs); err != nil {
		submitError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, models.SubmitResponse{Message: "Quiz submitted"})
}
