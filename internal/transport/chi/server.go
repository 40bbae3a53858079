package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/snapnote/internal/domain"
	logpkg "github.com/kailas-cloud/snapnote/internal/logger"
	healthuc "github.com/kailas-cloud/snapnote/internal/usecase/health"
	pipelineuc "github.com/kailas-cloud/snapnote/internal/usecase/pipeline"
)

// uploadField is the multipart form field carrying the image.
const uploadField = "file"

// multipartMemory is how much of an upload is kept in memory before spilling to disk.
const multipartMemory = 8 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the snapnote HTTP API.
type Server struct {
	pipeline      *pipelineuc.Service
	health        *healthuc.Service
	maxUpload     int64
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. maxUpload bounds request bodies in bytes.
func NewServer(pipeline *pipelineuc.Service, health *healthuc.Service, maxUpload int64, logger *zap.Logger) *Server {
	s := &Server{
		pipeline:  pipeline,
		health:    health,
		maxUpload: maxUpload,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		payloadTooLargeHandler,
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrUpstream, http.StatusBadGateway, codeUpstreamError),
		sentinelHandler(domain.ErrConfigurationMissing, http.StatusInternalServerError, codeInternalError),
	}
	return s
}

// ExtractText handles POST /ocr.
func (s *Server) ExtractText(w http.ResponseWriter, r *http.Request) {
	image, err := s.readUpload(w, r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	text, err := s.pipeline.ExtractText(r.Context(), image)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ocrResponse{OCRText: text})
}

// Summarize handles POST /summarize. A missing text field summarizes "".
func (s *Server) Summarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	summary, err := s.pipeline.Summarize(r.Context(), req.Text)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summarizeResponse{Summary: summary})
}

// CreatePage handles POST /notion.
func (s *Server) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req notionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	page, err := s.pipeline.CreatePage(r.Context(), req.draft())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, notionResponse{NotionPage: page})
}

// Process handles POST /process.
func (s *Server) Process(w http.ResponseWriter, r *http.Request) {
	image, err := s.readUpload(w, r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.pipeline.Process(r.Context(), image)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, processToResponse(res))
}

// NotionSchema handles GET /notion/schema.
func (s *Server) NotionSchema(w http.ResponseWriter, r *http.Request) {
	names, err := s.pipeline.CheckConnection(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schemaResponse{Properties: names})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// readUpload returns the bytes of the multipart "file" field.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if s.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, uploadError(err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, _, err := r.FormFile(uploadField)
	if err != nil {
		return nil, fmt.Errorf("multipart field %q: %v: %w", uploadField, err, domain.ErrInvalidInput)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, uploadError(err)
	}
	return data, nil
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return fmt.Errorf("read upload: %v: %w", err, domain.ErrInvalidInput)
}

// decodeJSON reads a JSON object body. An empty body counts as {}.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if s.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return fmt.Errorf("invalid request body: %v: %w", err, domain.ErrInvalidInput)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
// Upstream failures share one message whatever stage failed.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidInput,
		domain.ErrUpstream,
		domain.ErrConfigurationMissing,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// payloadTooLargeHandler answers 413 when a body exceeded the upload limit.
func payloadTooLargeHandler(w http.ResponseWriter, err error, _ string) bool {
	var tooLarge *http.MaxBytesError
	if !errors.As(err, &tooLarge) {
		return false
	}
	writeError(w, http.StatusRequestEntityTooLarge, codePayloadTooLarge,
		fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
