// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/classpoll/auth"
	"github.com/danielhkuo/classpoll/cliparse"
	"github.com/danielhkuo/classpoll/db"
	"github.com/danielhkuo/classpoll/middleware"
	"github.com/danielhkuo/classpoll/models"
	"github.com/danielhkuo/classpoll/roster"
	"github.com/danielhkuo/classpoll/session"
)

type SessionHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	state    *session.State
	sessions *auth.Sessions
}

func NewSessionHandler(db *sql.DB, cfg cliparse.Config, state *session.State, sessions *auth.Sessions) *SessionHandler {
	return &SessionHandler{db: db, cfg: cfg, state: state, sessions: sessions}
}

// Login handles POST /login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.UID <= 0 || req.Username == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "uid and username are required")
		return
	}

	ros := h.state.Roster()
	if err := ros.Authenticate(req.UID, req.Username); err != nil {
		switch {
		case errors.Is(err, roster.ErrBadUID):
			middleware.ErrorResponse(w, http.StatusUnauthorized, "That student id does not match this username.")
		case errors.Is(err, roster.ErrBadUsername):
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Username not recognized. Check the spelling, or register first.")
		default:
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Login failed")
		}
		return
	}

	ros.Login(req.UID)
	student, _ := ros.Student(req.UID)
	token := h.sessions.Issue(req.UID)

	slog.Info("student logged in", "uid", req.UID)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Token:    token,
		UID:      student.UID,
		Fullname: student.Fullname,
		Code:     student.Code,
	})
}

// Register handles POST /register
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.UID <= 0 || req.Username == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "uid and username are required")
		return
	}

	ros := h.state.Roster()
	_, existed := ros.Student(req.UID)

	student, err := ros.Register(req.UID, req.UIDAgain, req.Username, req.Fullname)
	if err != nil {
		switch {
		case errors.Is(err, roster.ErrUIDMismatch):
			middleware.ErrorResponse(w, http.StatusBadRequest, "The two student id entries do not match. Please re-enter both.")
		case errors.Is(err, roster.ErrUsernameTaken):
			middleware.ErrorResponse(w, http.StatusConflict, "That username is already taken. Pick another.")
		case errors.Is(err, roster.ErrAlreadyRegistered):
			middleware.ErrorResponse(w, http.StatusConflict, "You are already registered. Log in instead.")
		case errors.Is(err, roster.ErrBadUsername):
			middleware.ErrorResponse(w, http.StatusBadRequest, "username is required")
		default:
			middleware.ErrorResponse(w, http.StatusBadRequest, "Registration failed")
		}
		return
	}

	if existed {
		err = db.BindUsername(h.db, student.UID, student.Username)
	} else {
		err = db.InsertStudent(h.db, student.UID, student.Fullname, student.Username, "user")
	}
	if err != nil {
		slog.Error("failed to persist registration", "uid", student.UID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	ros.Login(student.UID)
	token := h.sessions.Issue(student.UID)

	slog.Info("student registered", "uid", student.UID)

	middleware.JSONResponse(w, http.StatusCreated, models.LoginResponse{
		Token:    token,
		UID:      student.UID,
		Fullname: student.Fullname,
		Code:     student.Code,
	})
}

// Logout handles POST /logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	uid, err := h.sessions.Revoke(token)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Not logged in")
		return
	}
	h.state.Roster().Logout(uid)

	middleware.JSONResponse(w, http.StatusOK, models.SubmitResponse{Message: "Logged out"})
}

// authenticate resolves the requesting student from the bearer token.
// Writes the 401 itself when the token is missing or unknown.
func authenticate(sessions *auth.Sessions, w http.ResponseWriter, r *http.Request) (int, bool) {
	token := middleware.BearerToken(r)
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Log in first")
		return 0, false
	}
	uid, err := sessions.Lookup(token)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Session expired. Log in again.")
		return 0, false
	}
	return uid, true
}
