package middleware

import (
	"net/http"

	"github.com/festivalops/offer-api/internal/config"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func isDevEnvironment(environment string) bool {
	return environment == "development" || environment == "local" || environment == ""
}

func allowAnyOrigin(r *http.Request, origin string) bool {
	return origin != ""
}

// CORS returns a CORS middleware configured from the application config.
// Without configured origins every origin is allowed in development and
// none in any other environment.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	wildcard := false
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			wildcard = true
			break
		}
	}

	switch {
	case wildcard:
		if !isDevEnvironment(environment) {
			logger.Warn("CORS configured with wildcard origin outside development",
				zap.String("environment", environment))
		}
		options.AllowOriginFunc = allowAnyOrigin
	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS configured with explicit origins",
			zap.Strings("origins", cfg.AllowedOrigins))
	case isDevEnvironment(environment):
		options.AllowOriginFunc = allowAnyOrigin
		logger.Info("CORS allowing all origins in development mode")
	default:
		// an empty AllowedOrigins means "*" to go-chi/cors
		options.AllowOriginFunc = func(r *http.Request, origin string) bool {
			return false
		}
		logger.Warn("CORS configured with no allowed origins, cross-origin requests will be denied",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}
