package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/icons"
	"fintrack/internal/log"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"icon": func(name string) string { return icons.Lookup(name).Symbol },
		"money": func(m core.Money) string {
			return "€" + m.String()
		},
		"percent": func(f float64) string {
			return decimal.NewFromFloat(f).StringFixed(1) + "%"
		},
		"width": func(f float64) string {
			if f > 100 {
				f = 100
			}
			if f < 0 {
				f = 0
			}
			return decimal.NewFromFloat(f).StringFixed(1)
		},
		"lower": strings.ToLower,
	}
}

// ownerFrom returns the owner that the auth middleware attached.
func ownerFrom(ctx context.Context) string {
	owner, _ := auth.OwnerFromContext(ctx)
	return owner
}

// statusFor maps a service error to an HTTP status.
func statusFor(err error) int {
	var fe FieldErrors
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &fe),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrEmptyOwner):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides internal failures from the client.
func publicMessage(status int, err error) string {
	if status == http.StatusInternalServerError {
		return "Something went wrong, please retry"
	}
	return err.Error()
}

// requestLogger carries the request id and owner attached by the middleware chain.
func (s *Server) requestLogger(r *http.Request) *log.Logger {
	return log.FromContext(r.Context()).WithComponent(log.ComponentHTTP)
}

// renderFragment executes a named template, logging and reporting failures.
func (s *Server) renderFragment(w http.ResponseWriter, r *http.Request, name string, data any) {
	var sb strings.Builder
	if err := s.templates.ExecuteTemplate(&sb, name, data); err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentTemplate).ErrorContext(r.Context(), "Template render failed",
			log.FieldOperation, log.OpRender,
			"template", name,
			log.FieldError, err)
		InternalServerError("Unable to render page").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprint(w, sb.String())
}
