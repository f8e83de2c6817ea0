package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/lingocards/lingo-api/internal/api/shared"
	"github.com/lingocards/lingo-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

func TestTrace(t *testing.T) {
	var logs bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var traceID string
	handler := chimw.RequestID(Trace(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEmpty(t, traceID)
	assert.Equal(t, traceID, rec.Header().Get(TraceHeader))
	assert.Contains(t, logs.String(), `"msg":"inside handler"`)
	assert.Contains(t, logs.String(), `"trace_id":"`+traceID+`"`)
}

func TestTrace_WithoutRequestID(t *testing.T) {
	var traceID string
	handler := Trace(slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, traceID, 2*shared.TraceIDLength)
}
