package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// fakeSheets serves the three Values endpoints the mirror uses.
type fakeSheets struct {
	mu        sync.Mutex
	ids       [][]any
	appended  [][]any
	cleared   []string
	failFirst int
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failFirst > 0 {
		f.failFirst--
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, ":append"):
		var vr gsheet.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&vr)
		f.appended = append(f.appended, vr.Values...)
		_ = json.NewEncoder(w).Encode(gsheet.AppendValuesResponse{
			Updates: &gsheet.UpdateValuesResponse{UpdatedRange: "Expenses!A2:F2"},
		})
	case strings.HasSuffix(r.URL.Path, ":clear"):
		rng := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		f.cleared = append(f.cleared, strings.TrimSuffix(rng, ":clear"))
		_ = json.NewEncoder(w).Encode(gsheet.ClearValuesResponse{})
	case r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode(gsheet.ValueRange{Values: f.ids})
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	c, err := NewWithService(svc, Config{SpreadsheetID: "sheet-1", Attempts: 3, Delay: time.Millisecond}, log.Discard())
	require.NoError(t, err)
	return c
}

func TestAppendRetriesOnRateLimit(t *testing.T) {
	fake := &fakeSheets{failFirst: 1}
	c := newTestClient(t, fake)

	ref, err := c.Append(context.Background(), core.Expense{
		ID:          "e-1",
		OwnerID:     "alice",
		Category:    core.Category{ID: "travel", Name: "Travel"},
		Amount:      core.MustMoney("42.5"),
		Description: "Train",
		Date:        core.NewDate(2025, time.March, 9),
	})
	require.NoError(t, err)
	assert.Equal(t, "Expenses!A2:F2", ref)
	require.Len(t, fake.appended, 1)
	assert.Equal(t, []any{"e-1", "alice", "2025-03-09", "Travel", "Train", "42.50"}, fake.appended[0])
}

func TestRemoveClearsMatchingRow(t *testing.T) {
	fake := &fakeSheets{ids: [][]any{{"ID"}, {"e-1"}, {}, {"e-7"}}}
	c := newTestClient(t, fake)

	require.NoError(t, c.Remove(context.Background(), "e-7"))
	assert.Equal(t, []string{"Expenses!A4:F4"}, fake.cleared)

	require.NoError(t, c.Remove(context.Background(), "missing"))
	assert.Len(t, fake.cleared, 1)
}

func TestFindRow(t *testing.T) {
	values := [][]any{{"ID"}, {" a "}, {}, {"b", "x"}}
	assert.Equal(t, 2, findRow(values, "a"))
	assert.Equal(t, 4, findRow(values, "b"))
	assert.Zero(t, findRow(values, "c"))
	assert.Zero(t, findRow(nil, "a"))
}

func TestNewWithServiceRequiresSpreadsheet(t *testing.T) {
	_, err := NewWithService(nil, Config{}, nil)
	assert.Error(t, err)
}

func TestLoadCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	b, err := loadCredentials(Config{ServiceAccountJSON: `{"type":"service_account"}`})
	require.NoError(t, err)
	assert.Contains(t, string(b), "service_account")

	_, err = loadCredentials(Config{})
	assert.Error(t, err)

	_, err = loadCredentials(Config{ServiceAccountFile: "/does/not/exist.json"})
	assert.Error(t, err)
}
