package handlers

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// SetupRoutes wires every handler into one router
func SetupRoutes(
	logger *zap.Logger,
	presentationHandler *PresentationHandler,
	viewerHandler *ViewerHandler,
	editorHandler *EditorHandler,
	wsHandler *WebSocketHandler,
) *mux.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	router := mux.NewRouter()
	router.Use(requestLogger(logger.Named("http")))

	api := router.PathPrefix("/api").Subrouter()
	api.Use(cors)
	api.HandleFunc("/presentation", presentationHandler.GetPresentation).Methods(http.MethodGet)
	api.HandleFunc("/presentation", presentationHandler.SavePresentation).Methods(http.MethodPost)
	api.HandleFunc("/presentation/slides/{index}", presentationHandler.UpdateSlide).Methods(http.MethodPut)
	api.PathPrefix("/").HandlerFunc(preflight).Methods(http.MethodOptions)

	router.HandleFunc("/", viewerHandler.Index).Methods(http.MethodGet)
	router.HandleFunc("/view/{index}", viewerHandler.View).Methods(http.MethodGet)

	router.HandleFunc("/editor", editorHandler.List).Methods(http.MethodGet)
	router.HandleFunc("/editor/slides", editorHandler.AddSlide).Methods(http.MethodPost)
	router.HandleFunc("/editor/slides/move", editorHandler.MoveSlide).Methods(http.MethodPost)
	router.HandleFunc("/editor/settings", editorHandler.UpdateSettings).Methods(http.MethodPost)
	router.HandleFunc("/editor/slides/{index:[0-9]+}", editorHandler.EditSlide).Methods(http.MethodGet)
	router.HandleFunc("/editor/slides/{index:[0-9]+}", editorHandler.SubmitSlide).Methods(http.MethodPost)
	router.HandleFunc("/editor/slides/{index:[0-9]+}/delete", editorHandler.RemoveSlide).Methods(http.MethodPost)

	if wsHandler != nil {
		router.HandleFunc("/ws", wsHandler.HandleWebSocket)
	}
	return router
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

func preflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// statusRecorder captures the status written by a handler. It passes
// Hijack through so the WebSocket upgrade still works behind it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func requestLogger(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
