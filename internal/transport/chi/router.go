// Package chi exposes the pipeline over HTTP.
package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/kailas-cloud/snapnote/internal/config"
	"github.com/kailas-cloud/snapnote/internal/metrics"
)

// NewRouter mounts the API routes behind recovery, request IDs, the
// canonical log line, CORS and HTTP metrics.
func NewRouter(s *Server, corsCfg config.CORSConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(cors.Handler(corsOptions(corsCfg)))
	r.Use(metrics.Middleware())

	r.Post("/ocr", s.ExtractText)
	r.Post("/summarize", s.Summarize)
	r.Post("/notion", s.CreatePage)
	r.Post("/process", s.Process)
	r.Get("/notion/schema", s.NotionSchema)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	return r
}

// corsOptions builds the CORS policy. A wildcard origin with credentials echoes
// the request origin: browsers refuse "*" on credentialed requests.
func corsOptions(c config.CORSConfig) cors.Options {
	allowCredentials := c.AllowCredentials != nil && *c.AllowCredentials
	opts := cors.Options{
		AllowedOrigins:   c.AllowedOrigins,
		AllowedMethods:   c.AllowedMethods,
		AllowedHeaders:   c.AllowedHeaders,
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	}
	if allowCredentials && allowsAnyOrigin(c.AllowedOrigins) {
		opts.AllowedOrigins = nil
		opts.AllowOriginFunc = func(*http.Request, string) bool { return true }
	}
	return opts
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
