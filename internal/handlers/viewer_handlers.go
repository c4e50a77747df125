package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"slidedeck/internal/render"
	"slidedeck/internal/services"
)

// ViewerHandler serves the presentation pages
type ViewerHandler struct {
	workspace *services.Workspace
	logger    *zap.Logger
}

// NewViewerHandler creates a new viewer handler
func NewViewerHandler(workspace *services.Workspace, logger *zap.Logger) *ViewerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewerHandler{workspace: workspace, logger: logger.Named("viewer")}
}

// Index opens the presentation at its first slide
// GET /
func (h *ViewerHandler) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/view/0", http.StatusFound)
}

// View renders the slide at the path index
// GET /view/{index}
func (h *ViewerHandler) View(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeErrorPage(w, http.StatusNotFound, "Slide not found")
		return
	}

	deck, err := h.workspace.Deck(r.Context())
	if err != nil {
		h.logger.Error("failed to open presentation", zap.Error(err))
		writeErrorPage(w, statusFor(err), services.MessageOf(err))
		return
	}

	page, err := render.Page(deck.Document(), index)
	if errors.Is(err, render.ErrIndexOutOfRange) {
		writeErrorPage(w, http.StatusNotFound, "Slide not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to render slide", zap.Int("index", index), zap.Error(err))
		writeErrorPage(w, http.StatusInternalServerError, "Failed to render slide")
		return
	}
	writeHTML(w, http.StatusOK, page)
}

// WebSocketHandler attaches viewers to the presenter channel
type WebSocketHandler struct {
	service *services.WebSocketService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(service *services.WebSocketService) *WebSocketHandler {
	return &WebSocketHandler{service: service}
}

// HandleWebSocket upgrades the connection
// GET /ws
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	h.service.ServeWS(w, r)
}

func writeHTML(w http.ResponseWriter, status int, doc *html.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	render.Write(w, doc)
}

func writeErrorPage(w http.ResponseWriter, status int, message string) {
	writeHTML(w, status, render.ErrorPage(status, message))
}
