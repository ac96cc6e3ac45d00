package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/festivalops/offer-api/internal/config"
	"github.com/festivalops/offer-api/internal/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
})

func TestLogging_RequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := middleware.Logging(zap.New(core))(okHandler)

	t.Run("generated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/offers", nil))
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/offers", nil)
		req.Header.Set("X-Request-ID", "req-123")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, "req-123", rr.Header().Get("X-Request-ID"))
	})

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[1]
	assert.Equal(t, "req-123", entry.ContextMap()["request_id"])
	assert.Equal(t, int64(http.StatusOK), entry.ContextMap()["status_code"])
}

func TestLogging_ServerErrorsLogAtWarn(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	middleware.Logging(zap.New(core))(failing).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	middleware.Recovery(zap.New(core))(panicking).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "internal_error")
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestRecovery_AbortHandlerIsRethrown(t *testing.T) {
	aborting := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	})
	handler := middleware.Recovery(zap.NewNop())(aborting)

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func securityConfig() *config.SecurityConfig {
	return &config.SecurityConfig{
		EnableHSTS:            true,
		HSTSMaxAge:            31536000,
		HSTSIncludeSubdomains: true,
		ContentSecurityPolicy: "default-src 'self'",
		FrameOptions:          "DENY",
		ContentTypeNosniff:    true,
		XSSProtection:         "1; mode=block",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		PermissionsPolicy:     "geolocation=()",
	}
}

func TestSecurityHeaders(t *testing.T) {
	leaky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Powered-By", "go")
		w.Header().Set("Server", "offer-api")
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	middleware.SecurityHeaders(securityConfig(), "production")(leaky).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	h := rr.Header()
	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", h.Get("X-XSS-Protection"))
	assert.Equal(t, "default-src 'self'", h.Get("Content-Security-Policy"))
	assert.Equal(t, "strict-origin-when-cross-origin", h.Get("Referrer-Policy"))
	assert.Equal(t, "geolocation=()", h.Get("Permissions-Policy"))
	assert.Equal(t, "max-age=31536000; includeSubDomains", h.Get("Strict-Transport-Security"))
	assert.Empty(t, h.Get("X-Powered-By"))
	assert.Empty(t, h.Get("Server"))
}

func TestSecurityHeaders_SameOrigin(t *testing.T) {
	cfg := securityConfig()
	cfg.FrameOptions = "SAMEORIGIN"
	cfg.EnableHSTS = false

	rr := httptest.NewRecorder()
	middleware.SecurityHeaders(cfg, "production")(okHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "SAMEORIGIN", rr.Header().Get("X-Frame-Options"))
	assert.Empty(t, rr.Header().Get("Strict-Transport-Security"))
}

func corsConfig(origins ...string) *config.CORSConfig {
	return &config.CORSConfig{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}
}

func preflight(t *testing.T, handler http.Handler, origin string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/offers", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		origins     []string
		environment string
		origin      string
		allowed     bool
	}{
		{"explicit origin allowed", []string{"https://planner.example.com"}, "production", "https://planner.example.com", true},
		{"explicit origin rejected", []string{"https://planner.example.com"}, "production", "https://evil.example.com", false},
		{"wildcard", []string{"*"}, "production", "https://any.example.com", true},
		{"development without origins", nil, "development", "http://localhost:5173", true},
		{"production without origins", nil, "production", "http://localhost:5173", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.CORS(corsConfig(tt.origins...), tt.environment, zap.NewNop())(okHandler)
			rr := preflight(t, handler, tt.origin)
			if tt.allowed {
				assert.Equal(t, tt.origin, rr.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func rateLimitConfig() *config.RateLimitConfig {
	return &config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 2,
		WhitelistIPs:      []string{"10.0.0.1"},
		WhitelistPaths:    []string{"/health", "/internal/*"},
	}
}

func requestFrom(ip, path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = ip + ":40000"
	return req
}

func TestRateLimiter(t *testing.T) {
	handler := middleware.NewRateLimiter(rateLimitConfig(), zap.NewNop()).LimitByIP(okHandler)

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, requestFrom("192.0.2.10", "/api/v1/offers"))
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestFrom("192.0.2.10", "/api/v1/offers"))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))
	assert.Contains(t, rr.Body.String(), "rate_limited")

	t.Run("other client has its own budget", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, requestFrom("192.0.2.11", "/api/v1/offers"))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("forwarded client is keyed separately", func(t *testing.T) {
		req := requestFrom("192.0.2.10", "/api/v1/offers")
		req.Header.Set("X-Forwarded-For", "198.51.100.7, 192.0.2.10")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("whitelisted paths bypass the limit", func(t *testing.T) {
		for _, path := range []string{"/health", "/internal/metrics"} {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, requestFrom("192.0.2.10", path))
			assert.Equal(t, http.StatusOK, rr.Code, path)
		}
	})

	t.Run("whitelisted ip bypasses the limit", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, requestFrom("10.0.0.1", "/api/v1/offers"))
			require.Equal(t, http.StatusOK, rr.Code)
		}
	})
}

func TestRateLimiter_Disabled(t *testing.T) {
	cfg := rateLimitConfig()
	cfg.Enabled = false
	handler := middleware.NewRateLimiter(cfg, zap.NewNop()).LimitByIP(okHandler)

	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, requestFrom("192.0.2.10", "/api/v1/offers"))
		require.Equal(t, http.StatusOK, rr.Code)
	}
}
