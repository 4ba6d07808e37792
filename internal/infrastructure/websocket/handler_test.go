package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandler(t *testing.T) {
	hub := NewHub(testLogger())
	handler := NewHandler(hub, testLogger())

	assert.NotNil(t, handler)
	assert.Equal(t, hub, handler.hub)
}

func TestHandler_UpgradesAndRegistersClient(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()

	handler := NewHandler(hub, testLogger())
	server := httptest.NewServer(handler)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, http.Header{})
	require.NoError(t, err)
	defer conn.Close()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, hub.ClientCount())
}

func TestHandler_RejectsNonWebsocketRequest(t *testing.T) {
	hub := NewHub(testLogger())
	handler := NewHandler(hub, testLogger())
	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.NotEqual(t, http.StatusOK, resp.StatusCode)
}

func TestSetCheckOrigin(t *testing.T) {
	original := upgrader.CheckOrigin
	defer func() { upgrader.CheckOrigin = original }()

	called := false
	SetCheckOrigin(func(r *http.Request) bool {
		called = true
		return false
	})

	hub := NewHub(testLogger())
	handler := NewHandler(hub, testLogger())
	server := httptest.NewServer(handler)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	_, _, err := websocket.DefaultDialer.Dial(wsURL, http.Header{})
	assert.Error(t, err)
	assert.True(t, called)
}

func TestSetBufferSizes(t *testing.T) {
	originalRead, originalWrite := upgrader.ReadBufferSize, upgrader.WriteBufferSize
	defer func() {
		upgrader.ReadBufferSize = originalRead
		upgrader.WriteBufferSize = originalWrite
	}()

	SetBufferSizes(2048, 4096)
	assert.Equal(t, 2048, upgrader.ReadBufferSize)
	assert.Equal(t, 4096, upgrader.WriteBufferSize)
}
