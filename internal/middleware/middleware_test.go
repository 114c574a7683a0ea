package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/annel0/dwarf-miner/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMiddleware_BasicMetrics(t *testing.T) {
	// Отдельный регистр для изоляции тестов
	registry := prometheus.NewRegistry()

	gin.SetMode(gin.TestMode)
	r := gin.New()

	promMw := NewPrometheusMiddleware("test", registry)
	r.Use(promMw.Handler())

	r.GET("/test", func(c *gin.Context) {
		time.Sleep(10 * time.Millisecond)
		c.JSON(200, gin.H{"ok": true})
	})

	r.GET("/error", func(c *gin.Context) {
		c.JSON(500, gin.H{"error": "test error"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)

	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest("GET", "/error", nil)
	r.ServeHTTP(w2, req2)
	assert.Equal(t, 500, w2.Code)

	metricFamilies, err := registry.Gather()
	require.NoError(t, err)

	var durationFound, errorsFound bool
	for _, mf := range metricFamilies {
		switch mf.GetName() {
		case "test_http_request_duration_seconds":
			durationFound = true
			assert.Equal(t, "Длительность HTTP-запросов.", mf.GetHelp())
			// Два разных набора меток
			assert.Len(t, mf.Metric, 2)
		case "test_http_request_errors_total":
			errorsFound = true
			assert.Len(t, mf.Metric, 1)
			assert.Equal(t, float64(1), mf.Metric[0].GetCounter().GetValue())
		}
	}

	assert.True(t, durationFound, "Duration metric not found")
	assert.True(t, errorsFound, "Errors metric not found")
}

func TestPrometheusMiddleware_InflightRequests(t *testing.T) {
	registry := prometheus.NewRegistry()

	gin.SetMode(gin.TestMode)
	r := gin.New()

	promMw := NewPrometheusMiddleware("test", registry)
	r.Use(promMw.Handler())

	release := make(chan struct{})
	entered := make(chan struct{})
	r.GET("/slow", func(c *gin.Context) {
		close(entered)
		<-release
		c.JSON(200, gin.H{"ok": true})
	})

	done := make(chan struct{})
	go func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/slow", nil)
		r.ServeHTTP(w, req)
		close(done)
	}()

	<-entered
	assert.Equal(t, float64(1), inflight(t, registry))

	close(release)
	<-done
	assert.Equal(t, float64(0), inflight(t, registry))
}

func inflight(t *testing.T, registry *prometheus.Registry) float64 {
	t.Helper()
	metricFamilies, err := registry.Gather()
	require.NoError(t, err)
	for _, mf := range metricFamilies {
		if mf.GetName() == "test_http_requests_inflight" {
			return mf.Metric[0].GetGauge().GetValue()
		}
	}
	t.Fatal("Inflight metric not found")
	return 0
}

func TestPrometheusMiddleware_UnmatchedPath(t *testing.T) {
	registry := prometheus.NewRegistry()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewPrometheusMiddleware("unmatched_test", registry).Handler())

	for _, path := range []string{"/a", "/b", "/c/d"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", path, nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, 404, w.Code)
	}

	metricFamilies, err := registry.Gather()
	require.NoError(t, err)
	for _, mf := range metricFamilies {
		if mf.GetName() != "unmatched_test_http_request_errors_total" {
			continue
		}
		require.Len(t, mf.Metric, 1, "Произвольные URL сводятся к одной метке")
		for _, lp := range mf.Metric[0].GetLabel() {
			if lp.GetName() == "path" {
				assert.Equal(t, "unmatched", lp.GetValue())
			}
		}
		assert.Equal(t, float64(3), mf.Metric[0].GetCounter().GetValue())
	}
}

func TestRequestLogger_TraceID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var buf bytes.Buffer
	loggerMw := NewRequestLogger(logging.NewConsoleLogger("http", &buf, logging.INFO))
	r.Use(loggerMw.Handler())

	var capturedTraceID string
	r.GET("/test", func(c *gin.Context) {
		traceID, exists := c.Get(TraceIDKey)
		require.True(t, exists, "trace_id should be set in context")
		capturedTraceID = traceID.(string)
		c.JSON(200, gin.H{"trace_id": capturedTraceID})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.NotEmpty(t, capturedTraceID, "trace_id should not be empty")
	assert.Equal(t, capturedTraceID, w.Header().Get("X-Trace-Id"))
	assert.Contains(t, w.Body.String(), capturedTraceID)
}

func TestRequestLogger_LogFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var buf bytes.Buffer
	r.Use(NewRequestLogger(logging.NewConsoleLogger("http", &buf, logging.INFO)).Handler())
	r.GET("/api/world", func(c *gin.Context) { c.Status(204) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/world", nil)
	r.ServeHTTP(w, req)

	out := buf.String()
	assert.Contains(t, out, "[INFO] [http] [HTTP] ◀ GET /api/world 204")
	assert.Contains(t, out, "trace="+w.Header().Get("X-Trace-Id"))
	assert.NotContains(t, out, "▶", "Входящий запрос пишется на уровне DEBUG")
}

func TestMiddleware_Integration(t *testing.T) {
	registry := prometheus.NewRegistry()

	gin.SetMode(gin.TestMode)
	r := gin.New()

	var buf bytes.Buffer
	r.Use(NewRequestLogger(logging.NewConsoleLogger("http", &buf, logging.ERROR)).Handler())

	promMw := NewPrometheusMiddleware("integration_test", registry)
	r.Use(promMw.Handler())

	r.GET("/api/chunks", func(c *gin.Context) {
		traceID, _ := c.Get(TraceIDKey)
		c.JSON(200, gin.H{
			"status":   "ok",
			"trace_id": traceID,
		})
	})

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/chunks", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, 200, w.Code)
	}

	metricFamilies, err := registry.Gather()
	require.NoError(t, err)

	var requestsCount int
	for _, mf := range metricFamilies {
		if mf.GetName() == "integration_test_http_request_duration_seconds" {
			for _, metric := range mf.Metric {
				requestsCount += int(metric.GetHistogram().GetSampleCount())
			}
		}
	}

	assert.Equal(t, 5, requestsCount, "Should have recorded 5 requests")
	assert.Empty(t, buf.String(), "Уровень ERROR глушит логи успешных запросов")
}

func TestPrometheusMiddleware_MetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()

	gin.SetMode(gin.TestMode)
	r := gin.New()

	promMw := NewPrometheusMiddleware("test", registry)
	r.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(r, registry)

	r.GET("/api/test", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	w1 := httptest.NewRecorder()
	req1, _ := http.NewRequest("GET", "/api/test", nil)
	r.ServeHTTP(w1, req1)
	assert.Equal(t, 200, w1.Code)

	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest("GET", "/metrics", nil)
	r.ServeHTTP(w2, req2)

	assert.Equal(t, 200, w2.Code)
	assert.Contains(t, w2.Header().Get("Content-Type"), "text/plain")

	body := w2.Body.String()
	assert.Contains(t, body, "# HELP", "Should contain Prometheus help text")
	assert.Contains(t, body, "test_http_request_duration_seconds")
}

func TestPrometheusMiddleware_ErrorCounting(t *testing.T) {
	registry := prometheus.NewRegistry()

	gin.SetMode(gin.TestMode)
	r := gin.New()

	promMw := NewPrometheusMiddleware("error_test", registry)
	r.Use(promMw.Handler())

	r.GET("/400", func(c *gin.Context) { c.JSON(400, gin.H{"error": "bad request"}) })
	r.GET("/404", func(c *gin.Context) { c.JSON(404, gin.H{"error": "not found"}) })
	r.GET("/500", func(c *gin.Context) { c.JSON(500, gin.H{"error": "internal error"}) })
	r.GET("/200", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	endpoints := []string{"/400", "/404", "/500", "/200", "/200"}
	for _, endpoint := range endpoints {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", endpoint, nil)
		r.ServeHTTP(w, req)
	}

	metricFamilies, err := registry.Gather()
	require.NoError(t, err)

	var totalErrors float64
	for _, mf := range metricFamilies {
		if mf.GetName() == "error_test_http_request_errors_total" {
			for _, metric := range mf.Metric {
				totalErrors += metric.GetCounter().GetValue()
			}
		}
	}

	// 400, 404, 500
	assert.Equal(t, float64(3), totalErrors)
}

// BenchmarkPrometheusMiddleware измеряет overhead middleware
func BenchmarkPrometheusMiddleware(b *testing.B) {
	registry := prometheus.NewRegistry()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	promMw := NewPrometheusMiddleware("bench", registry)
	r.Use(promMw.Handler())

	r.GET("/bench", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/bench", nil)
			r.ServeHTTP(w, req)
		}
	})
}
