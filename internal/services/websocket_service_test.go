package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"slidedeck/internal/models"
)

func presenterDocument() *models.Document {
	return &models.Document{Slides: []models.Slide{
		{ID: "a", Content: models.HeaderOnly{Header: "A"}},
		{ID: "b", Content: models.HeaderOnly{Header: "B"}, Effect: &models.Effect{Type: models.EffectConfetti}},
		{ID: "c", Content: models.HeaderOnly{Header: "C"}},
	}}
}

type presenterHarness struct {
	service *WebSocketService
	server  *httptest.Server
	cancel  context.CancelFunc
	done    chan error
}

func startPresenter(t *testing.T) *presenterHarness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	service := NewWebSocketService(presenterDocument(), nil)
	done := make(chan error, 1)
	go func() { done <- service.Run(ctx) }()

	server := httptest.NewServer(http.HandlerFunc(service.ServeWS))
	return &presenterHarness{service: service, server: server, cancel: cancel, done: done}
}

func (h *presenterHarness) stop(t *testing.T) {
	t.Helper()
	h.cancel()
	select {
	case err := <-h.done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("presenter did not stop")
	}
	h.server.Close()
}

func (h *presenterHarness) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(h.server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebSocketService_BroadcastsNavigation(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h := startPresenter(t)
	first := h.dial(t)
	second := h.dial(t)

	hello := readMessage(t, first)
	assert.Equal(t, MessageSlide, hello.Type)
	assert.Equal(t, 0, hello.Index)
	assert.Equal(t, 3, hello.Count)
	assert.Nil(t, hello.Effect)
	readMessage(t, second)

	require.NoError(t, first.WriteJSON(ClientMessage{Type: MessageKey, Key: "ArrowRight"}))
	for _, conn := range []*websocket.Conn{first, second} {
		msg := readMessage(t, conn)
		assert.Equal(t, MessageSlide, msg.Type)
		assert.Equal(t, 1, msg.Index)
		require.NotNil(t, msg.Effect, "slide b fires its effect once")
		assert.Equal(t, models.EffectConfetti, msg.Effect.Effect.Type)
	}

	index := 2
	require.NoError(t, second.WriteJSON(ClientMessage{Type: MessageGoto, Index: &index}))
	msg := readMessage(t, first)
	assert.Equal(t, 2, msg.Index)
	assert.Nil(t, msg.Effect)

	got, err := h.service.Index(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	first.Close()
	second.Close()
	h.stop(t)
}

func TestWebSocketService_IgnoresNoOpsAndJunk(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h := startPresenter(t)
	conn := h.dial(t)
	readMessage(t, conn)

	ctx := context.Background()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageKey, Key: "ArrowLeft"}))
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageKey, Key: "Enter"}))
	require.NoError(t, h.service.Dispatch(ctx, ClientMessage{Type: "dance"}))
	bad := 99
	require.NoError(t, h.service.Dispatch(ctx, ClientMessage{Type: MessageGoto, Index: &bad}))

	// the first message after the ignored ones is the real move
	require.NoError(t, h.service.Dispatch(ctx, ClientMessage{Type: MessageKey, Key: " "}))
	msg := readMessage(t, conn)
	assert.Equal(t, 1, msg.Index)

	conn.Close()
	h.stop(t)
}

func TestWebSocketService_ReloadBroadcasts(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h := startPresenter(t)
	conn := h.dial(t)
	readMessage(t, conn)

	ctx := context.Background()
	two := 2
	require.NoError(t, h.service.Dispatch(ctx, ClientMessage{Type: MessageGoto, Index: &two}))
	readMessage(t, conn)

	shorter := presenterDocument()
	shorter.Slides = shorter.Slides[:2]
	require.NoError(t, h.service.Reload(ctx, shorter))

	msg := readMessage(t, conn)
	assert.Equal(t, MessageReload, msg.Type)
	assert.Equal(t, 1, msg.Index, "index clamps to the shorter deck")
	assert.Equal(t, 2, msg.Count)
	assert.NotNil(t, msg.Effect, "a different slide became current")

	conn.Close()
	h.stop(t)
}

func TestWebSocketService_StopClosesViewers(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h := startPresenter(t)
	conn := h.dial(t)
	readMessage(t, conn)

	h.stop(t)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	conn.Close()

	// calls after shutdown return instead of blocking
	ctx := context.Background()
	assert.Error(t, h.service.Reload(ctx, presenterDocument()))
	assert.Error(t, h.service.Dispatch(ctx, ClientMessage{Type: MessageKey, Key: "ArrowRight"}))
	_, err = h.service.Index(ctx)
	assert.Error(t, err)
}
