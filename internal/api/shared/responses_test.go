package shared

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/newsdesk/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusCreated, map[string]any{"success": true, "count": 2})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"count":2}`, w.Body.String())
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithTraceID(req.Context(), "trace-1"))
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusNotFound, "Headline not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Headline not found", body.Error)
	assert.Equal(t, "trace-1", body.TraceID)
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		opts      []ResponseOption
		wantLevel string
	}{
		{name: "server error logs at error", status: http.StatusInternalServerError, wantLevel: "ERROR"},
		{name: "bad gateway logs at error", status: http.StatusBadGateway, wantLevel: "ERROR"},
		{name: "rate limit logs at warn", status: http.StatusTooManyRequests, wantLevel: "WARN"},
		{name: "client error logs at debug", status: http.StatusConflict, wantLevel: "DEBUG"},
		{
			name:      "elevated client error logs at warn",
			status:    http.StatusConflict,
			opts:      []ResponseOption{WithElevatedLogLevel()},
			wantLevel: "WARN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &logger.TestLogBuffer{}
			log := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			req := httptest.NewRequest(http.MethodPost, "/api/cron/process-headlines", nil)
			req = req.WithContext(logger.WithLogger(req.Context(), log))
			w := httptest.NewRecorder()

			err := errors.New("dial postgres://newsdesk:hunter2@db:5432/newsdesk failed")
			RespondWithErrorAndLog(w, req, tt.status, "Something went wrong", err, tt.opts...)

			assert.Equal(t, tt.status, w.Code)
			assert.NotContains(t, w.Body.String(), "hunter2")
			assert.NotContains(t, w.Body.String(), "postgres")

			entries, err := buf.GetLogEntries()
			require.NoError(t, err)
			require.Len(t, entries, 1)
			entry := entries[0]
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "*errors.errorString", entry["error_type"])
			assert.NotContains(t, entry["error"], "hunter2")
		})
	}
}
