package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/campuspulse/survey-engine/pkg/services"
)

// PromptHandler relays caller prompts to the model, streaming the response
// body as chunks arrive.
type PromptHandler struct {
	prompts services.PromptService
	logger  *zap.Logger
}

// NewPromptHandler creates a new PromptHandler with the given service.
func NewPromptHandler(prompts services.PromptService, logger *zap.Logger) *PromptHandler {
	return &PromptHandler{prompts: prompts, logger: logger}
}

// RegisterRoutes registers the prompt handler's routes on the given mux.
func (h *PromptHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /prompt", h.Relay)
}

// flushWriter flushes after every chunk so clients see the stream live.
type flushWriter struct {
	w       http.ResponseWriter
	f       http.Flusher
	written bool
}

func (fw *flushWriter) Write(p []byte) (int, error) {
	fw.written = true
	n, err := fw.w.Write(p)
	if fw.f != nil {
		fw.f.Flush()
	}
	return n, err
}

// Relay handles POST /prompt requests. The model's chunks are written to the
// response as plain text while they arrive; validation failures still use the
// JSON failure envelope since nothing has been written yet.
func (h *PromptHandler) Relay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt       string `json:"prompt"`
		TemplateName string `json:"template_name"`
	}
	if err := DecodeJSONBody(r, &req); err != nil {
		h.fail(w, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		h.fail(w, "Prompt is required", nil)
		return
	}
	if strings.TrimSpace(req.TemplateName) == "" {
		h.fail(w, "Template name is required", nil)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	flusher, _ := w.(http.Flusher)
	sink := &flushWriter{w: w, f: flusher}

	response, err := h.prompts.Relay(r.Context(), req.TemplateName, req.Prompt, sink)
	if err != nil {
		if !sink.written {
			h.fail(w, "Prompt relay failed", err)
			return
		}
		// Chunks are already out; log and close the stream.
		h.logger.Warn("Prompt relay failed mid-stream",
			zap.String("template", req.TemplateName),
			zap.Error(err))
		return
	}

	h.logger.Info("Prompt relayed",
		zap.String("template", req.TemplateName),
		zap.Int("response_len", len(response)))
}

func (h *PromptHandler) fail(w http.ResponseWriter, message string, err error) {
	h.logger.Warn(message, zap.Error(err))
	msg := message
	if err != nil {
		msg = err.Error()
	}
	if werr := FailureResponse(w, msg); werr != nil {
		h.logger.Error("Failed to encode failure response", zap.Error(werr))
	}
}
