// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/classpoll/middleware"
	"github.com/danielhkuo/classpoll/question"
	"github.com/danielhkuo/classpoll/session"
)

// submitError maps a state-machine error onto an HTTP status and a message
// the student can act on. Validation problems ask for the form again;
// referential problems name what was wrong; a stale choice list asks for a
// resubmit against the fresh list. Anything unrecognized is a server fault.
func submitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, question.ErrMissingInput):
		middleware.ErrorResponse(w, http.StatusBadRequest, "A required field is missing. Please fill in the form and resubmit.")
	case errors.Is(err, question.ErrInvalidInput):
		middleware.ErrorResponse(w, http.StatusBadRequest, "That input is not valid for this question. Please re-enter the form.")
	case errors.Is(err, question.ErrAlreadyAnswered):
		middleware.ErrorResponse(w, http.StatusConflict, "You have already answered this question.")
	case errors.Is(err, question.ErrAlreadySubmitted):
		middleware.ErrorResponse(w, http.StatusConflict, "You have already submitted this quiz.")
	case errors.Is(err, question.ErrNoResponse):
		middleware.ErrorResponse(w, http.StatusConflict, "Answer the question first.")
	case errors.Is(err, question.ErrUnknownPartner):
		middleware.ErrorResponse(w, http.StatusNotFound, "No student with that username was found. Check the spelling and resubmit.")
	case errors.Is(err, question.ErrPartnerNoAnswer):
		middleware.ErrorResponse(w, http.StatusConflict, "Your partner has not answered this question yet.")
	case errors.Is(err, question.ErrAlreadyClustered):
		middleware.ErrorResponse(w, http.StatusConflict, "Your answer is already assigned to a category.")
	case errors.Is(err, question.ErrStaleChoices):
		middleware.ErrorResponse(w, http.StatusConflict, "The list of answers has changed. Please resubmit from the current list.")
	case errors.Is(err, question.ErrAssessMismatch):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Your answer does not match the correct choice. Please re-assess.")
	case errors.Is(err, question.ErrNoCorrectAnswer):
		middleware.ErrorResponse(w, http.StatusConflict, "No correct answer has been provided for this question.")
	case errors.Is(err, session.ErrNoQuestion):
		middleware.ErrorResponse(w, http.StatusNotFound, "No question is being served right now.")
	default:
		slog.Error("submission failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Submission failed")
	}
}
