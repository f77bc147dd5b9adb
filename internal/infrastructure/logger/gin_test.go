package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// serveWithMiddleware runs a single request through GinMiddleware and
// returns the recorded access log entry.
func serveWithMiddleware(t *testing.T, level zapcore.Level, method, target string, status int, pre ...gin.HandlerFunc) (*httptest.ResponseRecorder, *observer.LoggedEntry) {
	t.Helper()

	core, recorded := observer.New(level)

	router := gin.New()
	for _, mw := range pre {
		router.Use(mw)
	}
	router.Use(GinMiddleware(zap.New(core)))
	router.Handle(method, "/api/v1/deliveries", func(c *gin.Context) {
		c.JSON(status, gin.H{"ok": status < 400})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, target, nil)
	router.ServeHTTP(w, req)

	for _, entry := range recorded.All() {
		if entry.Message == "HTTP Request" {
			e := entry
			return w, &e
		}
	}
	return w, nil
}

func fieldByKey(entry *observer.LoggedEntry, key string) (zapcore.Field, bool) {
	for _, field := range entry.Context {
		if field.Key == key {
			return field, true
		}
	}
	return zapcore.Field{}, false
}

func TestGinMiddlewareLogsRequest(t *testing.T) {
	w, entry := serveWithMiddleware(t, zapcore.InfoLevel, http.MethodGet, "/api/v1/deliveries", http.StatusOK)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, entry, "access log entry should exist")
	assert.Equal(t, zapcore.InfoLevel, entry.Level)

	for _, key := range []string{"method", "path", "status", "latency", "client_ip", "user_agent"} {
		_, ok := fieldByKey(entry, key)
		assert.True(t, ok, "field %q should be logged", key)
	}
}

func TestGinMiddlewareLevelByStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{name: "client error logs at warn", status: http.StatusUnprocessableEntity, level: zapcore.WarnLevel},
		{name: "server error logs at error", status: http.StatusInternalServerError, level: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, entry := serveWithMiddleware(t, zapcore.DebugLevel, http.MethodGet, "/api/v1/deliveries", tt.status)

			require.NotNil(t, entry)
			assert.Equal(t, tt.level, entry.Level)
		})
	}
}

func TestGinMiddlewarePropagatesRequestID(t *testing.T) {
	setRequestID := func(c *gin.Context) {
		c.Set("request_id", "req-42")
		c.Next()
	}

	_, entry := serveWithMiddleware(t, zapcore.InfoLevel, http.MethodGet, "/api/v1/deliveries", http.StatusOK, setRequestID)

	require.NotNil(t, entry)
	field, ok := fieldByKey(entry, "request_id")
	require.True(t, ok)
	assert.Equal(t, "req-42", field.String)
}

func TestGinMiddlewareIncludesQuery(t *testing.T) {
	_, entry := serveWithMiddleware(t, zapcore.InfoLevel, http.MethodGet, "/api/v1/deliveries?status=PICKED&page=2", http.StatusOK)

	require.NotNil(t, entry)
	field, ok := fieldByKey(entry, "query")
	require.True(t, ok, "query should be logged when present")
	assert.Contains(t, field.String, "status=PICKED")
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/api/v1/deliveries", func(c *gin.Context) {
		panic("ledger rebuild failed")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/deliveries", nil)

	assert.NotPanics(t, func() {
		router.ServeHTTP(w, req)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	logs := recorded.All()
	require.NotEmpty(t, logs)
	assert.Equal(t, "Panic recovered", logs[0].Message)
}

func TestGetGinLogger(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)

	var fromContext *zap.Logger
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/api/v1/deliveries", func(c *gin.Context) {
		fromContext = GetGinLogger(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/deliveries", nil)
	router.ServeHTTP(w, req)

	assert.NotNil(t, fromContext)
}

func TestGetGinLoggerWithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	fromContext := GetGinLogger(c)

	require.NotNil(t, fromContext)
	assert.NotPanics(t, func() {
		fromContext.Info("noop")
	})
}
