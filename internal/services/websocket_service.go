package services

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"slidedeck/internal/models"
	"slidedeck/internal/viewer"
)

// Message types exchanged on the presenter channel
const (
	MessageKey    = "key"
	MessageGoto   = "goto"
	MessageSlide  = "slide"
	MessageReload = "reload"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

// ClientMessage is sent by a viewer: a key press or a direct jump
type ClientMessage struct {
	Type  string `json:"type"`
	Key   string `json:"key,omitempty"`
	Index *int   `json:"index,omitempty"`
}

// ServerMessage is broadcast to every viewer
type ServerMessage struct {
	Type   string              `json:"type"`
	Index  int                 `json:"index"`
	Count  int                 `json:"count"`
	Effect *viewer.EffectEvent `json:"effect,omitempty"`
}

// Client is one connected viewer
type Client struct {
	service *WebSocketService
	conn    *websocket.Conn
	send    chan []byte
}

type indexQuery chan int

// WebSocketService runs the presenter channel. One goroutine (Run) owns the
// shared viewer session and the client set; everything else talks to it
// through channels.
type WebSocketService struct {
	upgrader websocket.Upgrader
	logger   *zap.Logger

	register   chan *Client
	unregister chan *Client
	inbound    chan ClientMessage
	reload     chan *models.Document
	queries    chan indexQuery
	done       chan struct{}

	session *viewer.Session
	clients map[*Client]bool
}

// NewWebSocketService creates the presenter channel for doc
func NewWebSocketService(doc *models.Document, logger *zap.Logger) *WebSocketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketService{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:     logger.Named("presenter"),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan ClientMessage),
		reload:     make(chan *models.Document),
		queries:    make(chan indexQuery),
		done:       make(chan struct{}),
		session:    viewer.NewSession(doc),
		clients:    make(map[*Client]bool),
	}
}

// Run owns the session until ctx is cancelled. It closes every client's
// send queue on return, which ends their connections.
func (ws *WebSocketService) Run(ctx context.Context) error {
	defer close(ws.done)
	defer func() {
		for c := range ws.clients {
			delete(ws.clients, c)
			close(c.send)
		}
	}()

	ws.session.Start()
	for {
		select {
		case <-ctx.Done():
			ws.logger.Info("presenter channel stopped", zap.Int("clients", len(ws.clients)))
			return nil

		case c := <-ws.register:
			ws.clients[c] = true
			ws.logger.Debug("viewer connected", zap.Int("clients", len(ws.clients)))
			ws.deliver(c, ws.slideMessage(nil))

		case c := <-ws.unregister:
			if ws.clients[c] {
				delete(ws.clients, c)
				close(c.send)
				ws.logger.Debug("viewer disconnected", zap.Int("clients", len(ws.clients)))
			}

		case msg := <-ws.inbound:
			ws.apply(msg)

		case doc := <-ws.reload:
			t := ws.session.Reset(doc)
			ws.logger.Info("presentation reloaded", zap.Int("index", ws.session.Index()), zap.Int("slideCount", ws.session.Len()))
			ws.broadcast(ServerMessage{Type: MessageReload, Index: ws.session.Index(), Count: ws.session.Len(), Effect: t.Effect})

		case q := <-ws.queries:
			q <- ws.session.Index()
		}
	}
}

func (ws *WebSocketService) apply(msg ClientMessage) {
	var t viewer.Transition
	switch msg.Type {
	case MessageKey:
		var consumed bool
		t, consumed = ws.session.HandleKey(msg.Key)
		if !consumed {
			return
		}
	case MessageGoto:
		if msg.Index == nil {
			return
		}
		var err error
		t, err = ws.session.GoTo(*msg.Index)
		if err != nil {
			ws.logger.Debug("ignoring goto", zap.Error(err))
			return
		}
	default:
		ws.logger.Debug("ignoring message", zap.String("type", msg.Type))
		return
	}
	if t.Changed {
		ws.broadcast(ws.slideMessage(t.Effect))
	}
}

func (ws *WebSocketService) slideMessage(effect *viewer.EffectEvent) ServerMessage {
	return ServerMessage{Type: MessageSlide, Index: ws.session.Index(), Count: ws.session.Len(), Effect: effect}
}

func (ws *WebSocketService) broadcast(msg ServerMessage) {
	for c := range ws.clients {
		ws.deliver(c, msg)
	}
}

// deliver queues msg for c, dropping clients that fall behind
func (ws *WebSocketService) deliver(c *Client, msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		ws.logger.Error("failed to encode message", zap.Error(err))
		return
	}
	select {
	case c.send <- data:
	default:
		delete(ws.clients, c)
		close(c.send)
		ws.logger.Warn("dropping slow viewer")
	}
}

// Dispatch applies a viewer message as if a client had sent it
func (ws *WebSocketService) Dispatch(ctx context.Context, msg ClientMessage) error {
	select {
	case ws.inbound <- msg:
		return nil
	case <-ws.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reload replaces the presented document and tells viewers to refresh
func (ws *WebSocketService) Reload(ctx context.Context, doc *models.Document) error {
	select {
	case ws.reload <- doc:
		return nil
	case <-ws.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Index returns the slide the presenter is on
func (ws *WebSocketService) Index(ctx context.Context) (int, error) {
	q := make(indexQuery, 1)
	select {
	case ws.queries <- q:
	case <-ws.done:
		return 0, context.Canceled
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	return <-q, nil
}

// ServeWS upgrades the request and attaches the connection as a viewer
func (ws *WebSocketService) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &Client{service: ws, conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case ws.register <- c:
	case <-ws.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump forwards viewer messages to the service until the connection fails
func (c *Client) readPump() {
	defer func() {
		select {
		case c.service.unregister <- c:
		case <-c.service.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.service.logger.Debug("viewer connection closed", zap.Error(err))
			}
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.service.logger.Debug("ignoring malformed message", zap.Error(err))
			continue
		}
		select {
		case c.service.inbound <- msg:
		case <-c.service.done:
			return
		}
	}
}

// writePump drains the send queue and keeps the connection alive
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
