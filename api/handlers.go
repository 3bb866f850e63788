/*
handlers.go - HTTP API handlers for the menu engineering engine

PURPOSE:
  Exposes the analysis pipeline via REST API. Handles uploads, JSON
  serialization, and delegates to menu.Analyzer.

ENDPOINTS:
  GET    /api/health                  Liveness and what is configured
  GET    /api/schemas                 Active column schemas and options
  POST   /api/analyze                 Classify uploaded exports
  POST   /api/excerpt?n=15            Advisor excerpt as ';' delimited text
  POST   /api/advice                  Ask the advisor about uploaded exports
  GET    /api/latest                  Last refresh of the default exports

  Samples:
    GET    /api/samples               List built-in demo datasets
    POST   /api/samples/{id}/analyze  Classify a demo dataset

UPLOADS:
  multipart/form-data with file fields "sales" and "costs". A missing field
  falls back to the configured default file for that side; with no default
  the request is rejected with 400.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed request, missing upload with no default
  - 404: Unknown sample
  - 422: An export could not be used (status missing_input), or nothing
         classified when an excerpt or advice was requested
  - 502: Advisor call failed
  - 503: No advisor configured
  A run that ends in no_overlap or unclassifiable is not an HTTP error on
  /api/analyze; the status field says what happened.

SEE ALSO:
  - dto.go: Request/response data structures
  - samples.go: Built-in demo datasets
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/warp/menu-engine/advisory"
	"github.com/warp/menu-engine/factory"
	"github.com/warp/menu-engine/menu"
	"github.com/warp/menu-engine/report"
)

// maxUploadSize bounds the in-memory part of a multipart upload.
const maxUploadSize = 32 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Defaults names the exports used when a request omits an upload.
type Defaults struct {
	SalesFile string
	CostFile  string
}

// HandlerConfig holds the dependencies of a Handler. Advisor may be nil.
type HandlerConfig struct {
	Analyzer    *menu.Analyzer
	Advisor     advisory.Advisor
	Defaults    Defaults
	ExcerptSize int
	Logger      *slog.Logger
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Analyzer *menu.Analyzer
	Advisor  advisory.Advisor

	defaults    Defaults
	excerptSize int
	logger      *slog.Logger

	// Published by DefaultsRefresher
	mu     sync.RWMutex
	latest *menu.Analysis
}

// NewHandler creates a new handler.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	size := cfg.ExcerptSize
	if size <= 0 {
		size = menu.DefaultExcerptSize
	}
	return &Handler{
		Analyzer:    cfg.Analyzer,
		Advisor:     cfg.Advisor,
		defaults:    cfg.Defaults,
		excerptSize: size,
		logger:      logger,
	}
}

// =============================================================================
// SYSTEM HANDLERS
// =============================================================================

// Health reports liveness and which optional collaborators are set up.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Advisor: h.Advisor != nil,
		Sales:   h.defaults.SalesFile != "",
		Costs:   h.defaults.CostFile != "",
	})
}

// GetSchemas returns the schemas and options the analyzer runs with.
// GET /api/schemas
func (h *Handler) GetSchemas(w http.ResponseWriter, r *http.Request) {
	sales, costs := h.Analyzer.Schemas()
	writeJSON(w, http.StatusOK, SchemasResponse{
		Sales:   factory.ToJSON(sales),
		Costs:   factory.ToJSON(costs),
		Options: toOptionsDTO(h.Analyzer.Options()),
	})
}

// =============================================================================
// ANALYSIS HANDLERS
// =============================================================================

// Analyze classifies the uploaded exports.
// POST /api/analyze
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	sales, costs, err := h.readSources(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload", err)
		return
	}

	result := h.Analyzer.Analyze(sales, costs)
	writeAnalysis(w, result)
}

// Excerpt returns the advisor excerpt of the uploaded exports.
// POST /api/excerpt?n=15
func (h *Handler) Excerpt(w http.ResponseWriter, r *http.Request) {
	n, err := h.excerptParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid excerpt size", err)
		return
	}
	sales, costs, err := h.readSources(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload", err)
		return
	}

	result := h.Analyzer.Analyze(sales, costs)
	if err := result.Err(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Nothing to excerpt", err)
		return
	}

	var buf bytes.Buffer
	if err := menu.WriteDelimited(&buf, menu.Excerpt(result.Matrix.Items, n)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to write excerpt", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("X-Run-ID", result.RunID)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Advise sends the excerpt of the uploaded exports to the advisor.
// POST /api/advice
func (h *Handler) Advise(w http.ResponseWriter, r *http.Request) {
	if h.Advisor == nil {
		writeError(w, http.StatusServiceUnavailable, "Advisor not configured", advisory.ErrNotConfigured)
		return
	}
	sales, costs, err := h.readSources(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload", err)
		return
	}

	result := h.Analyzer.Analyze(sales, costs)
	if err := result.Err(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Nothing to advise on", err)
		return
	}

	var buf bytes.Buffer
	if err := menu.WriteDelimited(&buf, menu.Excerpt(result.Matrix.Items, h.excerptSize)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to write excerpt", err)
		return
	}
	brief := advisory.Brief{
		RunID:             result.RunID,
		Excerpt:           buf.String(),
		PopularityMean:    result.Matrix.PopularityMean,
		ProfitabilityMean: result.Matrix.ProfitabilityMean,
		Counts:            report.Counts(result.Matrix),
	}

	text, err := h.Advisor.Advise(r.Context(), brief)
	if err != nil {
		h.logger.Warn("advisor call failed", "run_id", result.RunID, "error", err)
		writeError(w, http.StatusBadGateway, "Advisor call failed", err)
		return
	}

	writeJSON(w, http.StatusOK, AdviceResponse{
		RunID:             result.RunID,
		Advice:            advisory.Sanitize(text),
		Excerpt:           brief.Excerpt,
		PopularityMean:    brief.PopularityMean,
		ProfitabilityMean: brief.ProfitabilityMean,
	})
}

// Latest returns the most recent analysis of the default exports.
// GET /api/latest
func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	latest := h.latest
	h.mu.RUnlock()

	if latest == nil {
		writeError(w, http.StatusNotFound, "No analysis of the default exports yet", nil)
		return
	}
	writeAnalysis(w, *latest)
}

func (h *Handler) setLatest(a menu.Analysis) {
	h.mu.Lock()
	h.latest = &a
	h.mu.Unlock()
}

// =============================================================================
// HELPERS
// =============================================================================

// readSources returns the sales and cost exports of a request, falling back
// to the default files for parts that were not uploaded.
func (h *Handler) readSources(r *http.Request) (sales, costs []byte, err error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, fmt.Errorf("parse form: %w", err)
	}

	sales, err = readPart(r, "sales", h.defaults.SalesFile)
	if err != nil {
		return nil, nil, err
	}
	costs, err = readPart(r, "costs", h.defaults.CostFile)
	if err != nil {
		return nil, nil, err
	}
	return sales, costs, nil
}

func readPart(r *http.Request, field, fallback string) ([]byte, error) {
	var file multipart.File
	if r.MultipartForm != nil {
		f, _, err := r.FormFile(field)
		switch {
		case err == nil:
			file = f
		case !errors.Is(err, http.ErrMissingFile):
			return nil, fmt.Errorf("%s: %w", field, err)
		}
	}

	if file == nil {
		if fallback == "" {
			return nil, fmt.Errorf("%s: no file uploaded and no default configured", field)
		}
		data, err := os.ReadFile(fallback)
		if err != nil {
			return nil, fmt.Errorf("%s: read default file: %w", field, err)
		}
		return data, nil
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return data, nil
}

func (h *Handler) excerptParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("n")
	if raw == "" {
		return h.excerptSize, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("n must be a positive integer, got %q", raw)
	}
	return n, nil
}

// writeAnalysis writes a run as a report.Document. Only unusable input is an
// HTTP error; other outcomes are described by the status field.
func writeAnalysis(w http.ResponseWriter, result menu.Analysis) {
	status := http.StatusOK
	if result.Status == menu.StatusMissingInput {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, report.NewDocument(result))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
