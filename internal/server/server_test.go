package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/calgrid/pkg/cache"
	"github.com/matzehuels/calgrid/pkg/errors"
	"github.com/matzehuels/calgrid/pkg/pipeline"
)

const events = `[
  {"id": "a", "title": "Standup", "start": "2024-03-04T09:00:00Z", "end": "2024-03-04T10:00:00Z"},
  {"id": "b", "title": "Review", "start": "2024-03-04T09:30:00Z", "end": "2024-03-04T10:30:00Z"}
]`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte(events), 0o644))

	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(c, nil, logger)
	return New(runner, pipeline.Options{Sources: []string{path}}, logger)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/healthz", "")
	assert.Len(t, rec.Header().Get("X-Request-Id"), 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))
}

func TestLayout(t *testing.T) {
	body := `{"events": [
		{"id": "a", "start": "2024-03-04T10:00", "end": "2024-03-04T11:00"},
		{"id": "b", "start": "2024-03-04T10:30", "end": "2024-03-04T11:30"},
		{"id": "broken"}
	], "start_hour": 8}`
	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/layout", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Placements []struct {
			Event struct {
				ID string `json:"id"`
			} `json:"event"`
			Column       int     `json:"column"`
			TotalColumns int     `json:"total_columns"`
			Top          float64 `json:"top"`
			Height       float64 `json:"height"`
			Left         float64 `json:"left"`
			Width        float64 `json:"width"`
		} `json:"placements"`
		Skipped int `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Placements, 2)
	assert.Equal(t, 1, resp.Skipped)

	a, b := resp.Placements[0], resp.Placements[1]
	assert.Equal(t, "a", a.Event.ID)
	assert.Equal(t, 2, a.TotalColumns)
	assert.Equal(t, 0, a.Column)
	assert.Equal(t, 1, b.Column)
	assert.Equal(t, 120.0, a.Top)
	assert.Equal(t, 60.0, a.Height)
	assert.Equal(t, 50.0, b.Left)
	assert.Equal(t, 50.0, b.Width)
}

func TestLayoutMixedOffsets(t *testing.T) {
	body := `{"events": [
		{"id": "utc", "start": "2024-03-04T10:00:00Z", "end": "2024-03-04T11:00:00Z"},
		{"id": "cest", "start": "2024-03-04T12:00:00+02:00", "end": "2024-03-04T13:00:00+02:00"}
	], "timezone": "Europe/Berlin"}`
	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/layout", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Placements []struct {
			Column       int     `json:"column"`
			TotalColumns int     `json:"total_columns"`
			Top          float64 `json:"top"`
			Height       float64 `json:"height"`
		} `json:"placements"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Placements, 2)

	// Same instant, 11:00 in Berlin: side by side at one top.
	for _, p := range resp.Placements {
		assert.Equal(t, 2, p.TotalColumns)
		assert.Equal(t, 660.0, p.Top)
		assert.Equal(t, 60.0, p.Height)
	}
	assert.NotEqual(t, resp.Placements[0].Column, resp.Placements[1].Column)
}

func TestLayoutEmpty(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/layout", `{"events": []}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"placements": [], "skipped": 0}`, rec.Body.String())
}

func TestLayoutErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"malformed json", `{"events": [`, errors.ErrCodeInvalidInput},
		{"unknown field", `{"eventz": []}`, errors.ErrCodeInvalidInput},
		{"bad start hour", `{"events": [], "start_hour": 24}`, errors.ErrCodeInvalidHour},
		{"bad pph", `{"events": [], "pixels_per_hour": -1}`, errors.ErrCodeInvalidInput},
		{"bad timezone", `{"events": [], "timezone": "Nowhere/City"}`, errors.ErrCodeInvalidTimezone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/layout", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestRenderInline(t *testing.T) {
	body := `{"events": [{"id": "a", "title": "Standup", "start": "2024-03-04T09:00:00Z"}], "date": "2024-03-04"}`

	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/render?format=json", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"title": "Standup"`)

	rec = do(t, newTestServer(t), http.MethodPost, "/api/v1/render", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<svg"))
}

func TestRenderRejectsLocalSources(t *testing.T) {
	body := `{"sources": ["/etc/passwd.json"], "date": "2024-03-04"}`
	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/render", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errors.ErrCodeInvalidSource, decodeError(t, rec).Code)
}

func TestRenderInvalidOptions(t *testing.T) {
	body := `{"events": [{"id": "a", "start": "2024-03-04T09:00:00Z"}], "start_hour": 12, "end_hour": 6}`
	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/render?format=svg", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errors.ErrCodeInvalidHour, decodeError(t, rec).Code)
}

func TestCalendar(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/calendar/day/2024-03-04.svg", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, "miss", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), "Standup")

	rec = do(t, s, http.MethodGet, "/api/v1/calendar/day/2024-03-04.svg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hit", rec.Header().Get("X-Cache"))

	rec = do(t, s, http.MethodGet, "/api/v1/calendar/week/2024-03-06.dot", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"0/a" -- "0/b"`)
}

func TestCalendarErrors(t *testing.T) {
	tests := []struct {
		target string
		code   errors.Code
	}{
		{"/api/v1/calendar/month/2024-03-04.svg", errors.ErrCodeInvalidView},
		{"/api/v1/calendar/day/2024-13-40.svg", errors.ErrCodeInvalidDate},
		{"/api/v1/calendar/day/2024-03-04.gif", errors.ErrCodeInvalidFormat},
		{"/api/v1/calendar/day/2024-03-04.svg?tz=Nowhere/City", errors.ErrCodeInvalidTimezone},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := do(t, newTestServer(t), http.MethodGet, tt.target, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestNotFound(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/v2/nothing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errors.ErrCodeNotFound, decodeError(t, rec).Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidInput, http.StatusBadRequest},
		{errors.ErrCodeInvalidPath, http.StatusBadRequest},
		{errors.ErrCodeFileNotFound, http.StatusNotFound},
		{errors.ErrCodeSourceNotFound, http.StatusNotFound},
		{errors.ErrCodeRateLimited, http.StatusTooManyRequests},
		{errors.ErrCodeNetwork, http.StatusBadGateway},
		{errors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{errors.ErrCodeParseFailed, http.StatusUnprocessableEntity},
		{errors.ErrCodeUnsupported, http.StatusNotImplemented},
		{errors.ErrCodeRenderFailed, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.code), string(tt.code))
	}
}

func TestWriteErrorRateLimited(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	writeError(rec, req, &errors.RateLimitedError{RetryAfter: 30})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	writeError(rec, req, io.ErrUnexpectedEOF)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, errors.ErrCodeInternal, body.Code)
	assert.Equal(t, "internal error", body.Message)
}
