/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the dashboard

ROUTE GROUPS:
  /api/health, /api/schemas          System
  /api/analyze, /excerpt, /advice    Upload and classify
  /api/latest                        Refreshed analysis of the default files
  /api/samples/*                     Built-in demo exports
  /                                  Endpoint index

SECURITY NOTE:
  No authentication middleware. Uploads are bounded by maxUploadSize in
  memory; anything larger spills to temporary files.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// DefaultOrigins are allowed when no CORS origins are configured.
var DefaultOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, origins []string) *chi.Mux {
	if len(origins) == 0 {
		origins = DefaultOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Run-ID"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/schemas", h.GetSchemas)

		r.Post("/analyze", h.Analyze)
		r.Post("/excerpt", h.Excerpt)
		r.Post("/advice", h.Advise)
		r.Get("/latest", h.Latest)

		// Sample routes
		r.Route("/samples", func(r chi.Router) {
			r.Get("/", h.ListSamples)
			r.Post("/{id}/analyze", h.AnalyzeSample)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Menu Engineering Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Menu Engineering Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/health">/api/health</a> - Health check</li>
<li><a href="/api/schemas">/api/schemas</a> - Column schemas in use</li>
<li><a href="/api/samples">/api/samples</a> - Demo datasets</li>
<li><a href="/api/latest">/api/latest</a> - Latest analysis of the default exports</li>
<li>POST /api/analyze - Upload <code>sales</code> and <code>costs</code> exports</li>
<li>POST /api/excerpt?n=15 - Advisor excerpt of the same uploads</li>
<li>POST /api/advice - Recommendations from the advisor</li>
</ul>
</body>
</html>`))
	})

	return r
}
