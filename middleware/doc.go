// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /question", middleware.WithLogging(handler))

Logs one line per request: method, path, status, client IP, duration_ms.

# CORS Middleware

Enable cross-origin requests for classroom clients:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.AnswerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Identity Helpers

BearerToken pulls the student session token from the Authorization header.
GetClientIP returns the original client IP (handles X-Forwarded-For and
X-Real-IP); the router compares it against the configured instructor IP on
admin routes.
*/
package middleware
