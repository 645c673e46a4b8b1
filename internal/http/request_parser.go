// Package http provides HTTP server and handler implementations.
//
// This file holds the helpers that turn query strings and request bodies into
// domain values.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
)

// maxBodyBytes bounds form and JSON bodies.
const maxBodyBytes = 64 << 10

// ParsePeriodParam reads month=YYYY-MM from query, defaulting to now's month.
func ParsePeriodParam(query url.Values, now time.Time) (core.Period, error) {
	v := strings.TrimSpace(query.Get("month"))
	if v == "" {
		return core.PeriodOf(now), nil
	}
	return core.ParsePeriod(v)
}

// RequestBodyParser handles JSON and form-encoded bodies, the latter being
// what HTMX sends.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the body once and stores it for parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if p.err == nil && len(p.body) > maxBodyBytes {
		p.err = errors.New("request body too large")
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if strings.HasPrefix(p.contentType, "application/json") || p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		p.err = json.Unmarshal(p.body, &p.jsonData)
		return p.err
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a sanitized string value from the parsed data.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// FieldErrors collects per-field validation messages.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, k := range []string{"date", "category", "amount", "description", "month"} {
		if msg, ok := fe[k]; ok {
			parts = append(parts, fmt.Sprintf("%s: %s", k, msg))
		}
	}
	return strings.Join(parts, "; ")
}

// ParseExpense builds an unsaved expense for owner from the body. A missing
// date means today.
func ParseExpense(p *RequestBodyParser, ownerID string, now time.Time) (core.Expense, error) {
	fe := FieldErrors{}
	e := core.Expense{
		OwnerID:     ownerID,
		Category:    core.Category{ID: p.Get("category")},
		Description: p.Get("description"),
		Date:        core.DateOf(now),
	}

	if v := p.Get("date"); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			fe["date"] = "use YYYY-MM-DD"
		} else {
			e.Date = d
		}
	}
	if e.Category.ID == "" {
		fe["category"] = "required"
	}
	amount, err := core.ParseMoney(p.Get("amount"))
	if err != nil {
		fe["amount"] = "must be a positive number"
	}
	e.Amount = amount
	if e.Description == "" {
		fe["description"] = "required"
	} else if len(e.Description) > 200 {
		fe["description"] = "at most 200 characters"
	}

	if len(fe) > 0 {
		return core.Expense{}, fe
	}
	return e, nil
}

// ParseTarget reads the month and amount of a savings target.
func ParseTarget(p *RequestBodyParser, now time.Time) (core.Period, core.Money, error) {
	fe := FieldErrors{}
	month := core.PeriodOf(now)
	if v := p.Get("month"); v != "" {
		parsed, err := core.ParsePeriod(v)
		if err != nil {
			fe["month"] = "use YYYY-MM"
		}
		month = parsed
	}
	amount, err := core.ParseMoney(p.Get("amount"))
	if err != nil {
		fe["amount"] = "must be a positive number"
	}
	if len(fe) > 0 {
		return core.Period{}, core.Money{}, fe
	}
	return month, amount, nil
}

// sanitizeInput drops control characters other than tab and newlines and trims.
func sanitizeInput(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s))
}
