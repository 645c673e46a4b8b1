package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func TestHTMXResponseBuilder_Triggers(t *testing.T) {
	rec := httptest.NewRecorder()
	p := core.Period{Year: 2025, Month: time.March}

	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerExpenseCreated(p).
		TriggerFormReset().
		TriggerSuccessNotification("Saved").
		Write(rec)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var triggers map[string]any
	require.NoError(t, json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &triggers))
	assert.Equal(t, map[string]any{"month": "2025-03"}, triggers["expense:created"])
	assert.Equal(t, map[string]any{}, triggers["form:reset"])
	note := triggers["show-notification"].(map[string]any)
	assert.Equal(t, "success", note["type"])
	assert.Equal(t, float64(3000), note["duration"])
}

func TestHTMXResponseBuilder_NoTriggersNoHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHTMXResponse().Header("X-Custom", "1").Write(rec)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("HX-Trigger"))
	assert.Equal(t, "1", rec.Header().Get("X-Custom"))
	assert.Empty(t, rec.Body.String())
}

func TestErrorResponseEscapesMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	UnprocessableEntityError(`<script>alert("x")</script>`).Write(rec)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.NotContains(t, rec.Body.String(), "<script>")
	assert.Contains(t, rec.Body.String(), `<div class="error">`)
}
