package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewStructuredLogger(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		level   zapcore.Level
		message string
	}{
		{"Success", http.StatusOK, zapcore.InfoLevel, "request completed"},
		{"Client Error", http.StatusUnprocessableEntity, zapcore.WarnLevel, "request rejected"},
		{"Server Error", http.StatusBadGateway, zapcore.ErrorLevel, "server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			handler := NewStructuredLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/comprar-producto", nil))

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tc.level, entry.Level)
			assert.Equal(t, tc.message, entry.Message)
			assert.Equal(t, int64(tc.status), entry.ContextMap()["status"])
			assert.Equal(t, "/comprar-producto", entry.ContextMap()["path"])
		})
	}
}
