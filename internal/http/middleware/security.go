package middleware

import (
	"net/http"

	"github.com/festivalops/offer-api/internal/config"
	"github.com/unrolled/secure"
)

// SecurityHeaders returns a middleware that adds security headers to responses
func SecurityHeaders(cfg *config.SecurityConfig, environment string) func(http.Handler) http.Handler {
	opts := secure.Options{
		ContentTypeNosniff:    cfg.ContentTypeNosniff,
		ContentSecurityPolicy: cfg.ContentSecurityPolicy,
		ReferrerPolicy:        cfg.ReferrerPolicy,
		PermissionsPolicy:     cfg.PermissionsPolicy,
		IsDevelopment:         environment == "development" || environment == "local",
	}

	switch cfg.FrameOptions {
	case "":
	case "DENY":
		opts.FrameDeny = true
	default:
		opts.CustomFrameOptionsValue = cfg.FrameOptions
	}

	if cfg.XSSProtection != "" {
		opts.BrowserXssFilter = true
		opts.CustomBrowserXssValue = cfg.XSSProtection
	}

	// The API normally sits behind a TLS-terminating proxy, so the header is forced
	if cfg.EnableHSTS {
		opts.STSSeconds = int64(cfg.HSTSMaxAge)
		opts.STSIncludeSubdomains = cfg.HSTSIncludeSubdomains
		opts.STSPreload = cfg.HSTSPreload
		opts.ForceSTSHeader = true
	}

	secureMiddleware := secure.New(opts)

	return func(next http.Handler) http.Handler {
		return secureMiddleware.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(&serverHeaderStripper{ResponseWriter: w}, r)
		}))
	}
}

// serverHeaderStripper drops headers that reveal the server stack before the
// response headers are written
type serverHeaderStripper struct {
	http.ResponseWriter
	wroteHeader bool
}

func (s *serverHeaderStripper) WriteHeader(code int) {
	if !s.wroteHeader {
		s.wroteHeader = true
		s.Header().Del("X-Powered-By")
		s.Header().Del("Server")
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *serverHeaderStripper) Write(b []byte) (int, error) {
	if !s.wroteHeader {
		s.WriteHeader(http.StatusOK)
	}
	return s.ResponseWriter.Write(b)
}
