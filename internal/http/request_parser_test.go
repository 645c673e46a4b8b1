package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

var fixedNow = time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)

func parserFor(t *testing.T, contentType, body string) *RequestBodyParser {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	p := NewRequestBodyParser(req)
	require.NoError(t, p.Parse())
	return p
}

func TestParsePeriodParam(t *testing.T) {
	p, err := ParsePeriodParam(url.Values{}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, core.Period{Year: 2025, Month: time.March}, p)

	p, err = ParsePeriodParam(url.Values{"month": {"2024-12"}}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, core.Period{Year: 2024, Month: time.December}, p)

	_, err = ParsePeriodParam(url.Values{"month": {"12/2024"}}, fixedNow)
	assert.Error(t, err)
}

func TestRequestBodyParser_FormAndJSON(t *testing.T) {
	form := parserFor(t, "application/x-www-form-urlencoded", "description=%20coffee%00%20&amount=3.5")
	assert.False(t, form.IsJSON())
	assert.Equal(t, "coffee", form.Get("description"))
	assert.Equal(t, "3.5", form.Get("amount"))
	assert.Empty(t, form.Get("missing"))

	js := parserFor(t, "application/json", `{"description":"coffee","amount":3.5,"recurring":true}`)
	assert.True(t, js.IsJSON())
	assert.Equal(t, "3.5", js.Get("amount"))
	assert.Equal(t, "true", js.Get("recurring"))
}

func TestRequestBodyParser_RejectsOversizedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", maxBodyBytes+1)))
	assert.Error(t, NewRequestBodyParser(req).Parse())
}

func TestParseExpense(t *testing.T) {
	p := parserFor(t, "application/x-www-form-urlencoded",
		url.Values{"category": {"travel"}, "description": {"taxi"}, "amount": {"18"}}.Encode())

	e, err := ParseExpense(p, "alice", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "alice", e.OwnerID)
	assert.Equal(t, "travel", e.Category.ID)
	assert.Equal(t, "2025-03-15", e.Date.String())
	assert.Equal(t, "18.00", e.Amount.String())
}

func TestParseExpense_CollectsFieldErrors(t *testing.T) {
	p := parserFor(t, "application/x-www-form-urlencoded",
		url.Values{"date": {"yesterday"}, "amount": {"-1"}, "description": {strings.Repeat("x", 201)}}.Encode())

	_, err := ParseExpense(p, "alice", fixedNow)
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Len(t, fe, 4)
	assert.Equal(t,
		"date: use YYYY-MM-DD; category: required; amount: must be a positive number; description: at most 200 characters",
		fe.Error())
}

func TestParseTarget(t *testing.T) {
	p := parserFor(t, "application/x-www-form-urlencoded", "amount=500")
	month, amount, err := ParseTarget(p, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "2025-03", month.String())
	assert.Equal(t, "500.00", amount.String())

	p = parserFor(t, "application/x-www-form-urlencoded", "month=bad&amount=0")
	_, _, err = ParseTarget(p, fixedNow)
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "month")
	assert.Contains(t, fe, "amount")
}
