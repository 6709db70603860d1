package auditapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/maciusman/seo-aiditor/internal/analyzers"
	"github.com/maciusman/seo-aiditor/internal/audit"
	"github.com/maciusman/seo-aiditor/internal/export"
	"github.com/maciusman/seo-aiditor/internal/model"
	"github.com/maciusman/seo-aiditor/internal/platform/errs"
)

const (
	auditTimeout   = 5 * time.Minute
	maxRequestBody = 1 << 20 // 1 MB
	progressBuffer = 32

	msgResultsRequired = "Results are required"
)

var errURLRequired = errors.New("URL is required")

// Transport handles HTTP requests for audits and exports.
type Transport struct {
	service *Service
	logger  *slog.Logger
}

// NewTransport creates an HTTP transport backed by the given service.
func NewTransport(service *Service, logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{service: service, logger: logger}
}

// RegisterRoutes attaches the transport's handlers to the given mux.
func (t *Transport) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/audit", t.handleAudit)
	mux.HandleFunc("POST /api/audit/stream", t.handleAuditStream)
	mux.HandleFunc("POST /api/export/csv", t.handleExportCSV)
	mux.HandleFunc("POST /api/export/json", t.handleExportJSON)
	mux.HandleFunc("GET /api/reports/{id}", t.handleReport)
	mux.HandleFunc("GET /api/health", t.handleHealth)
}

type auditRequest struct {
	URL             string `json:"url"`
	MultiPage       bool   `json:"multi_page"`
	GeminiAPIKey    string `json:"gemini_api_key"`
	PageSpeedAPIKey string `json:"pagespeed_api_key"`
}

func (r auditRequest) validate() error {
	if r.URL == "" {
		return errURLRequired
	}
	return nil
}

func (r auditRequest) toAudit() audit.Request {
	return audit.Request{
		URL:       r.URL,
		MultiPage: r.MultiPage,
		Credentials: analyzers.Credentials{
			GeminiAPIKey:    r.GeminiAPIKey,
			PageSpeedAPIKey: r.PageSpeedAPIKey,
		},
	}
}

type exportRequest struct {
	Results json.RawMessage `json:"results"`
}

func (t *Transport) decodeAuditRequest(w http.ResponseWriter, r *http.Request) (auditRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req auditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.renderError(w, http.StatusBadRequest, "Invalid request body. Please send a JSON object with a \"url\" field.", "")
		return req, false
	}
	if err := req.validate(); err != nil {
		t.renderError(w, http.StatusBadRequest, err.Error(), "")
		return req, false
	}
	return req, true
}

func (t *Transport) handleAudit(w http.ResponseWriter, r *http.Request) {
	req, ok := t.decodeAuditRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), auditTimeout)
	defer cancel()

	out, err := t.service.Audit(ctx, req.toAudit(), nil)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}

	if out.ReportID != "" {
		w.Header().Set("X-Report-ID", out.ReportID)
	}
	t.renderJSON(w, http.StatusOK, out.Result.Value())
}

// handleAuditStream runs the audit in the background and forwards progress
// as Server-Sent Events, followed by a single result or error event.
func (t *Transport) handleAuditStream(w http.ResponseWriter, r *http.Request) {
	req, ok := t.decodeAuditRequest(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		t.renderError(w, http.StatusInternalServerError, "Streaming is not supported.", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), auditTimeout)
	defer cancel()

	type finished struct {
		out *Outcome
		err error
	}
	sink := audit.NewChannelSink(progressBuffer)
	done := make(chan finished, 1)
	go func() {
		defer sink.Close()
		out, err := t.service.Audit(ctx, req.toAudit(), sink)
		done <- finished{out: out, err: err}
	}()

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for ev := range sink.Events() {
		t.writeEvent(w, "progress", "", ev)
		flusher.Flush()
	}

	res := <-done
	if res.err != nil {
		_, body := errorBody(res.err)
		t.writeEvent(w, "error", "", body)
	} else {
		t.writeEvent(w, "result", res.out.ReportID, res.out.Result.Value())
	}
	flusher.Flush()
}

func (t *Transport) writeEvent(w http.ResponseWriter, event, id string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		t.logger.Error("failed to encode event", "event", event, "error", err)
		return
	}

	var buf bytes.Buffer
	if id != "" {
		fmt.Fprintf(&buf, "id: %s\n", id)
	}
	fmt.Fprintf(&buf, "event: %s\ndata: %s\n\n", event, payload)
	_, _ = buf.WriteTo(w)
}

func (t *Transport) decodeExport(w http.ResponseWriter, r *http.Request) (json.RawMessage, *model.AuditReport, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.renderError(w, http.StatusBadRequest, "Invalid request body. Please send a JSON object with a \"results\" field.", "")
		return nil, nil, false
	}

	home, err := export.Homepage(req.Results)
	if err != nil {
		if errors.Is(err, export.ErrNoReport) {
			t.renderError(w, http.StatusBadRequest, msgResultsRequired, "")
		} else {
			t.renderError(w, http.StatusBadRequest, "Invalid report.", err.Error())
		}
		return nil, nil, false
	}
	return req.Results, home, true
}

func (t *Transport) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	_, home, ok := t.decodeExport(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, home); err != nil {
		t.logger.Error("failed to write csv", "error", err)
		t.renderError(w, http.StatusInternalServerError, "An unexpected error occurred.", "")
		return
	}

	t.renderAttachment(w, "text/csv; charset=utf-8", export.Filename(home.URL, "csv"), &buf)
}

func (t *Transport) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	raw, home, ok := t.decodeExport(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteJSON(&buf, raw); err != nil {
		t.renderError(w, http.StatusBadRequest, "Invalid report.", err.Error())
		return
	}

	t.renderAttachment(w, "application/json", export.Filename(home.URL, "json"), &buf)
}

func (t *Transport) handleReport(w http.ResponseWriter, r *http.Request) {
	body, err := t.service.Report(r.Context(), r.PathValue("id"))
	if err != nil {
		t.handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (t *Transport) handleHealth(w http.ResponseWriter, _ *http.Request) {
	t.renderJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "SEO AIditor API"})
}

func (t *Transport) handleServiceError(w http.ResponseWriter, err error) {
	status, body := errorBody(err)
	t.renderJSON(w, status, body)
}

// errorBody maps an error onto its HTTP status and response body.
func errorBody(err error) (int, model.ErrorResponse) {
	var appErr *errs.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, model.ErrorResponse{Error: "An unexpected error occurred."}
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case errs.InvalidInput:
		status = http.StatusBadRequest
	case errs.Unreachable:
		status = http.StatusBadGateway
	case errs.Timeout:
		status = http.StatusGatewayTimeout
	case errs.Unavailable:
		status = http.StatusServiceUnavailable
	case errs.NotFound:
		status = http.StatusNotFound
	case errs.ParsingFailed, errs.Unknown:
		// 500 Internal Server Error
	}

	body := model.ErrorResponse{Error: appErr.Message}
	if appErr.Cause != nil {
		body.Details = appErr.Cause.Error()
	}
	return status, body
}

func (t *Transport) renderAttachment(w http.ResponseWriter, contentType, filename string, body *bytes.Buffer) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = body.WriteTo(w)
}

func (t *Transport) renderJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		t.logger.Error("failed to encode response", "error", err)
		http.Error(w, `{"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (t *Transport) renderError(w http.ResponseWriter, status int, message, details string) {
	t.renderJSON(w, status, model.ErrorResponse{
		Error:   message,
		Details: details,
	})
}
