// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/classpoll/auth"
	"github.com/danielhkuo/classpoll/cliparse"
	"github.com/danielhkuo/classpoll/handlers"
	"github.com/danielhkuo/classpoll/middleware"
	"github.com/danielhkuo/classpoll/session"
)

// route is one entry of the static route table. Instructor routes are
// flagged here rather than decided per-handler, so authorization is
// enforced in exactly one place.
type route struct {
	pattern string
	handler http.HandlerFunc
	admin   bool
}

func NewRouter(db *sql.DB, cfg cliparse.Config, state *session.State, sessions *auth.Sessions) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(db, cfg, state, sessions)
	studentHandler := handlers.NewStudentHandler(state, sessions)
	adminHandler := handlers.NewAdminHandler(db, cfg, state)

	routes := []route{
		// Student endpoints
		{"POST /login", sessionHandler.Login, false},
		{"POST /register", sessionHandler.Register, false},
		{"POST /logout", sessionHandler.Logout, false},
		{"GET /question", studentHandler.GetQuestion, false},
		{"POST /submit/{stage}", studentHandler.Submit, false},

		// Instructor console
		{"GET /admin", adminHandler.Console, true},
		{"POST /admin/questions", adminHandler.CreateQuestion, true},
		{"POST /admin/serve-question", adminHandler.ServeQuestion, true},
		{"POST /admin/start-timer", adminHandler.StartTimer, true},
		{"GET /admin/status", adminHandler.Status, true},
		{"GET /admin/assess-status", adminHandler.AssessStatus, true},
		{"GET /admin/prototypes", adminHandler.Prototypes, true},
		{"POST /admin/prototypes", adminHandler.AddPrototypes, true},
		{"GET /admin/cluster-report", adminHandler.ClusterReport, true},
		{"POST /admin/correct", adminHandler.MarkCorrect, true},
		{"POST /admin/add-correct", adminHandler.AddCorrect, true},
		{"POST /admin/start-vote", adminHandler.StartVote, true},
		{"GET /admin/analysis", adminHandler.Analysis, true},
		{"GET /admin/report", adminHandler.Report, true},
		{"POST /admin/save", adminHandler.Save, true},
		{"POST /admin/quiz", adminHandler.Quiz, true},
	}

	for _, rt := range routes {
		h := rt.handler
		if rt.admin {
			h = requireAdminIP(cfg.AdminIP, h)
		}
		mux.HandleFunc(rt.pattern, middleware.WithLogging(h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("classpoll API v1"))
	})

	return mux
}

// requireAdminIP rejects instructor routes from any client IP other than
// the configured one. The denial is fixed; it leaks nothing about which
// routes exist.
func requireAdminIP(adminIP string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if middleware.GetClientIP(r) != adminIP {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Not authorized")
			return
		}
		next(w, r)
	}
}
