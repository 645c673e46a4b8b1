package http

import (
	"errors"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("Malformed request body").Write(w)
		return
	}

	e, err := ParseExpense(parser, ownerFrom(r.Context()), s.now())
	if err != nil {
		s.writeMutationError(w, r, parser.IsJSON(), err)
		return
	}

	saved, err := s.expenses.CreateExpense(r.Context(), e)
	if errors.Is(err, core.ErrNotFound) {
		err = FieldErrors{"category": "unknown category"}
	}
	if err != nil {
		s.writeMutationError(w, r, parser.IsJSON(), err)
		return
	}

	p := core.PeriodOf(saved.Date.Time)
	if parser.IsJSON() {
		writeJSON(w, http.StatusCreated, saved)
		return
	}
	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerExpenseCreated(p).
		TriggerFormReset().
		TriggerOverviewRefresh(p).
		TriggerSuccessNotification("Expense saved").
		Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, err := ParsePeriodParam(r.URL.Query(), s.now())
	if err != nil {
		BadRequestError("Invalid month, use YYYY-MM").Write(w)
		return
	}

	if err := s.expenses.DeleteExpense(r.Context(), ownerFrom(r.Context()), id); err != nil {
		s.writeMutationError(w, r, false, err)
		return
	}

	// An empty 200 lets hx-swap="outerHTML" remove the row.
	NewHTMXResponse().
		TriggerExpenseDeleted(p).
		TriggerOverviewRefresh(p).
		Write(w)
}

func (s *Server) handleSaveTarget(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("Malformed request body").Write(w)
		return
	}

	month, amount, err := ParseTarget(parser, s.now())
	if err != nil {
		s.writeMutationError(w, r, parser.IsJSON(), err)
		return
	}

	t, err := s.expenses.SaveTarget(r.Context(), ownerFrom(r.Context()), month, amount)
	if err != nil {
		s.writeMutationError(w, r, parser.IsJSON(), err)
		return
	}

	if parser.IsJSON() {
		writeJSON(w, http.StatusOK, t)
		return
	}
	NewHTMXResponse().
		TriggerTargetSaved(month).
		TriggerOverviewRefresh(month).
		TriggerSuccessNotification("Target saved").
		Write(w)
}

func (s *Server) writeMutationError(w http.ResponseWriter, r *http.Request, asJSON bool, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.requestLogger(r).ErrorContext(r.Context(), "Write failed",
			log.FieldPath, r.URL.Path,
			log.FieldError, err)
	} else {
		s.requestLogger(r).InfoContext(r.Context(), "Write rejected",
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, status,
			log.FieldError, err)
	}

	msg := publicMessage(status, err)
	if asJSON {
		body := map[string]any{"error": msg}
		if fe, ok := err.(FieldErrors); ok {
			body["fields"] = fe
		}
		writeJSON(w, status, body)
		return
	}
	ErrorResponse(status, msg).Write(w)
}
