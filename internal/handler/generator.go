package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/genpass/genpass-go/internal/crypto"
	"github.com/genpass/genpass-go/internal/middleware"
	"github.com/genpass/genpass-go/internal/model"
	"github.com/genpass/genpass-go/internal/service"
	"github.com/go-chi/chi/v5"
)

// plainErrorBody is returned by the plain-text endpoints on failure.
const plainErrorBody = "ERROR_GENERATION_FAILED"

// GeneratorHandler handles HTTP requests for password generation.
type GeneratorHandler struct {
	service *service.GeneratorService
}

// NewGeneratorHandler creates a new GeneratorHandler.
func NewGeneratorHandler(svc *service.GeneratorService) *GeneratorHandler {
	return &GeneratorHandler{service: svc}
}

// HandleGenerate handles POST /api/generate requests.
func (h *GeneratorHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateRequest
	if r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
				return
			}
			writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
			return
		}
	}

	resp, err := h.service.Generate(r.Context(), middleware.ClientIP(r), req)
	if err != nil {
		writeGenerateError(w, err)
		return
	}

	writeNoStore(w)
	writeJSON(w, http.StatusOK, resp)
}

// HandleGenerateV2 handles POST /api/generate/v2 requests.
func (h *GeneratorHandler) HandleGenerateV2(w http.ResponseWriter, r *http.Request) {
	h.writePreset(w, r, service.PresetExtended)
}

// HandleListPresets handles GET /api/presets requests.
func (h *GeneratorHandler) HandleListPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Presets())
}

// HandlePreset handles GET /api/presets/{name} requests.
func (h *GeneratorHandler) HandlePreset(w http.ResponseWriter, r *http.Request) {
	h.writePreset(w, r, chi.URLParam(r, "name"))
}

// HandlePlain returns a handler that writes a bare password for preset as text/plain.
func (h *GeneratorHandler) HandlePlain(preset string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		resp, err := h.service.GeneratePreset(r.Context(), middleware.ClientIP(r), preset)
		if err != nil {
			slog.Error("plain password generation failed", "preset", preset, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(plainErrorBody))
			return
		}

		writeNoStore(w)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(resp.Password))
	}
}

func (h *GeneratorHandler) writePreset(w http.ResponseWriter, r *http.Request, preset string) {
	resp, err := h.service.GeneratePreset(r.Context(), middleware.ClientIP(r), preset)
	if err != nil {
		writeGenerateError(w, err)
		return
	}

	writeNoStore(w)
	writeJSON(w, http.StatusOK, resp)
}

func writeGenerateError(w http.ResponseWriter, err error) {
	switch {
	case service.IsValidationError(err):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrUnknownPreset):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, crypto.ErrCompositionUnsatisfiable):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse("password policy cannot be satisfied"))
	default:
		slog.Error("password generation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}

func writeNoStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}
