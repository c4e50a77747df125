package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"slidedeck/internal/models"
	"slidedeck/internal/services"
)

const maxBodySize = 10 << 20

// PresentationHandler serves the JSON presentation API
type PresentationHandler struct {
	workspace *services.Workspace
	logger    *zap.Logger
}

// NewPresentationHandler creates a new presentation handler
func NewPresentationHandler(workspace *services.Workspace, logger *zap.Logger) *PresentationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PresentationHandler{
		workspace: workspace,
		logger:    logger.Named("api"),
	}
}

// MessageResponse is the body of a successful write
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// GetPresentation returns the stored document
// GET /api/presentation
func (h *PresentationHandler) GetPresentation(w http.ResponseWriter, r *http.Request) {
	doc, err := h.workspace.Store().Load(r.Context())
	if err != nil {
		h.logger.Error("failed to fetch presentation", zap.Error(err))
		writeStoreError(w, err)
		return
	}
	h.logger.Debug("fetched presentation",
		zap.String("documentName", doc.DocumentName),
		zap.Int("slideCount", len(doc.Slides)))
	writeJSON(w, http.StatusOK, doc)
}

// SavePresentation replaces the stored document with the request body
// POST /api/presentation
func (h *PresentationHandler) SavePresentation(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid presentation data")
		return
	}

	// the document decoder turns a missing slides array into an empty one,
	// so the shape is checked on the raw object first
	var shape struct {
		Slides json.RawMessage `json:"slides"`
	}
	if err := json.Unmarshal(body, &shape); err != nil || !isJSONArray(shape.Slides) {
		writeError(w, http.StatusBadRequest, "Invalid presentation data")
		return
	}

	var doc models.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid presentation data")
		return
	}

	if err := h.workspace.Store().Save(r.Context(), &doc); err != nil {
		h.logger.Error("failed to save presentation", zap.Error(err))
		writeStoreError(w, err)
		return
	}
	h.logger.Info("saved presentation",
		zap.String("documentName", doc.DocumentName),
		zap.Int("slideCount", len(doc.Slides)))

	h.refresh(r)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Presentation saved successfully"})
}

// UpdateSlide replaces one slide of the stored document
// PUT /api/presentation/slides/{index}
func (h *PresentationHandler) UpdateSlide(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid slide index")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid slide data")
		return
	}
	var shape struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(body, &shape); err != nil || shape.Type == "" {
		writeError(w, http.StatusBadRequest, "Invalid slide data")
		return
	}
	var slide models.Slide
	if err := json.Unmarshal(body, &slide); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid slide data")
		return
	}

	if err := h.workspace.Store().UpdateSlideAt(r.Context(), index, slide); err != nil {
		h.logger.Error("failed to update slide", zap.Int("index", index), zap.Error(err))
		writeStoreError(w, err)
		return
	}
	h.logger.Info("updated slide", zap.Int("index", index), zap.String("type", string(slide.Type())))

	h.refresh(r)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Slide updated successfully"})
}

// refresh pushes an API write to the open deck and connected viewers. The
// write already succeeded, so a failure here is only logged.
func (h *PresentationHandler) refresh(r *http.Request) {
	if err := h.workspace.Refresh(r.Context()); err != nil {
		h.logger.Warn("failed to refresh workspace", zap.Error(err))
	}
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// statusFor maps a store error kind to its HTTP status
func statusFor(err error) int {
	switch services.KindOf(err) {
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindValidationFailure, services.KindOutOfRange:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), services.MessageOf(err))
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
