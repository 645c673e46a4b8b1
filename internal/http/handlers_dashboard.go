package http

import (
	"net/http"
	"strconv"

	"fintrack/internal/core"
	"fintrack/internal/insights"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

// overviewData is what the index page and overview partial render.
type overviewData struct {
	Month     string
	PrevMonth string
	NextMonth string
	Today     string
	Dashboard *services.Dashboard
	Trend     insights.Trend
	HasTrend  bool
}

func (s *Server) loadOverview(w http.ResponseWriter, r *http.Request) (*overviewData, bool) {
	p, err := ParsePeriodParam(r.URL.Query(), s.now())
	if err != nil {
		BadRequestError("Invalid month, use YYYY-MM").Write(w)
		return nil, false
	}

	d, err := s.dashboard.Load(r.Context(), ownerFrom(r.Context()), p)
	if err != nil {
		s.requestLogger(r).ErrorContext(r.Context(), "Dashboard load failed",
			log.FieldPeriod, p.String(),
			log.FieldError, err)
		status := statusFor(err)
		ErrorResponse(status, publicMessage(status, err)).Write(w)
		return nil, false
	}

	trend, ok := insights.Compare(d.Report.Breakdown.Total, d.Report.Previous.Total)
	return &overviewData{
		Month:     p.String(),
		PrevMonth: p.Previous().String(),
		NextMonth: p.Next().String(),
		Today:     core.DateOf(s.now()).String(),
		Dashboard: d,
		Trend:     trend,
		HasTrend:  ok,
	}, true
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, ok := s.loadOverview(w, r)
	if !ok {
		return
	}
	s.renderFragment(w, r, "index", data)
}

// handleOverview renders only the overview partial, for HTMX swaps.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	data, ok := s.loadOverview(w, r)
	if !ok {
		return
	}
	s.renderFragment(w, r, "overview", data)
}

// apiDashboard is the JSON counterpart of loadOverview.
func (s *Server) apiDashboard(w http.ResponseWriter, r *http.Request) (*services.Dashboard, bool) {
	p, err := ParsePeriodParam(r.URL.Query(), s.now())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid month, use YYYY-MM")
		return nil, false
	}
	d, err := s.dashboard.Load(r.Context(), ownerFrom(r.Context()), p)
	if err != nil {
		s.requestLogger(r).ErrorContext(r.Context(), "Dashboard load failed",
			log.FieldPeriod, p.String(),
			log.FieldError, err)
		status := statusFor(err)
		writeJSONError(w, status, publicMessage(status, err))
		return nil, false
	}
	return d, true
}

func (s *Server) handleAPIBreakdown(w http.ResponseWriter, r *http.Request) {
	d, ok := s.apiDashboard(w, r)
	if !ok {
		return
	}
	categories := d.Report.Breakdown.Categories
	if categories == nil {
		categories = []insights.CategoryTotal{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"period":     d.Report.Period,
		"total":      d.Report.Breakdown.Total,
		"count":      d.Report.Breakdown.Count,
		"categories": categories,
	})
}

func (s *Server) handleAPIBudget(w http.ResponseWriter, r *http.Request) {
	d, ok := s.apiDashboard(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"period":     d.Report.Period,
		"budget":     d.Budget,
		"projection": d.Report.Projection,
		"projected":  d.Report.Projected,
	})
}

func (s *Server) handleAPITips(w http.ResponseWriter, r *http.Request) {
	d, ok := s.apiDashboard(w, r)
	if !ok {
		return
	}
	tips := d.Report.Tips
	if tips == nil {
		tips = []core.Tip{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"period": d.Report.Period,
		"tips":   tips,
	})
}

func (s *Server) handleAPIExpenses(w http.ResponseWriter, r *http.Request) {
	d, ok := s.apiDashboard(w, r)
	if !ok {
		return
	}
	expenses := d.Expenses
	if expenses == nil {
		expenses = []core.Expense{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"period":   d.Report.Period,
		"expenses": expenses,
	})
}

// handleAPIHistory returns per-month totals; months defaults to 6 and is capped at 24.
func (s *Server) handleAPIHistory(w http.ResponseWriter, r *http.Request) {
	p, err := ParsePeriodParam(r.URL.Query(), s.now())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid month, use YYYY-MM")
		return
	}
	months := 6
	if v := r.URL.Query().Get("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 24 {
			writeJSONError(w, http.StatusBadRequest, "months must be between 1 and 24")
			return
		}
		months = n
	}

	totals, err := s.dashboard.History(r.Context(), ownerFrom(r.Context()), p, months)
	if err != nil {
		s.requestLogger(r).ErrorContext(r.Context(), "History load failed", log.FieldError, err)
		writeJSONError(w, http.StatusInternalServerError, "Something went wrong, please retry")
		return
	}
	if totals == nil {
		totals = []insights.MonthTotal{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"months": totals})
}
