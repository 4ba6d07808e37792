package websocket

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestNewHub(t *testing.T) {
	hub := NewHub(testLogger())

	assert.NotNil(t, hub)
	assert.NotNil(t, hub.clients)
	assert.NotNil(t, hub.register)
	assert.NotNil(t, hub.unregister)
	assert.NotNil(t, hub.broadcast)
	assert.NotNil(t, hub.byGraphID)
	assert.NotNil(t, hub.byNodeID)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_RegisterClient(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()

	client := &Client{hub: hub, id: "client-1", subs: NewSubscriptions(), send: make(chan *WSEvent, sendBufferSize)}
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, 1, hub.ClientCount())
}

func TestHub_UnregisterClient(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()

	client := &Client{hub: hub, id: "client-1", subs: NewSubscriptions(), send: make(chan *WSEvent, sendBufferSize)}
	hub.register <- client
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 1, hub.ClientCount())

	hub.unregister <- client
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_Subscribe(t *testing.T) {
	hub := NewHub(testLogger())
	client := &Client{hub: hub, id: "client-1", subs: NewSubscriptions(), send: make(chan *WSEvent, sendBufferSize)}

	hub.Subscribe(client, "graph-123", "")
	hub.mu.RLock()
	_, graphOk := hub.byGraphID["graph-123"][client]
	hub.mu.RUnlock()
	assert.True(t, graphOk)

	client.subs.mu.RLock()
	_, subsOk := client.subs.graphs["graph-123"]
	client.subs.mu.RUnlock()
	assert.True(t, subsOk)

	hub.Subscribe(client, "", "node-456")
	hub.mu.RLock()
	_, nodeOk := hub.byNodeID["node-456"][client]
	hub.mu.RUnlock()
	assert.True(t, nodeOk)
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub(testLogger())
	client := &Client{hub: hub, id: "client-1", subs: NewSubscriptions(), send: make(chan *WSEvent, sendBufferSize)}

	hub.Subscribe(client, "graph-123", "node-456")

	hub.mu.RLock()
	_, graphOk := hub.byGraphID["graph-123"][client]
	_, nodeOk := hub.byNodeID["node-456"][client]
	hub.mu.RUnlock()
	assert.True(t, graphOk)
	assert.True(t, nodeOk)

	hub.Unsubscribe(client, "graph-123", "")
	hub.mu.RLock()
	_, graphOkAfter := hub.byGraphID["graph-123"]
	hub.mu.RUnlock()
	assert.False(t, graphOkAfter)

	hub.Unsubscribe(client, "", "node-456")
	hub.mu.RLock()
	_, nodeOkAfter := hub.byNodeID["node-456"]
	hub.mu.RUnlock()
	assert.False(t, nodeOkAfter)
}

func TestHub_BroadcastToGraphSubscribers(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()
	time.Sleep(10 * time.Millisecond)

	client1 := &Client{hub: hub, id: "client-1", subs: NewSubscriptions(), send: make(chan *WSEvent, sendBufferSize)}
	client2 := &Client{hub: hub, id: "client-2", subs: NewSubscriptions(), send: make(chan *WSEvent, sendBufferSize)}

	hub.register <- client1
	hub.register <- client2
	time.Sleep(10 * time.Millisecond)

	hub.Subscribe(client1, "graph-123", "")
	hub.Subscribe(client2, "graph-456", "")

	event := NewWSEvent(EventInvalidated, "graph-123", "node-1")
	hub.Broadcast("graph-123", "", event)

	select {
	case received := <-client1.send:
		assert.Equal(t, EventInvalidated, received.Type)
		assert.Equal(t, "graph-123", received.GraphID)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("client1 did not receive event")
	}

	select {
	case <-client2.send:
		t.Fatal("client2 should not receive event for different graph")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_BroadcastToNodeSubscribers(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()
	time.Sleep(10 * time.Millisecond)

	client := &Client{hub: hub, id: "client-1", subs: NewSubscriptions(), send: make(chan *WSEvent, sendBufferSize)}
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.Subscribe(client, "", "node-123")

	event := NewWSEvent(EventComputed, "graph-1", "node-123")
	hub.Broadcast("graph-1", "node-123", event)

	select {
	case received := <-client.send:
		assert.Equal(t, EventComputed, received.Type)
		assert.Equal(t, "node-123", received.NodeID)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("client did not receive event")
	}
}

func TestHub_ClientCount(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, 0, hub.ClientCount())

	for i := 0; i < 3; i++ {
		client := &Client{hub: hub, id: "client-" + string(rune('0'+i)), subs: NewSubscriptions(), send: make(chan *WSEvent, sendBufferSize)}
		hub.register <- client
	}

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 3, hub.ClientCount())
}

func TestHub_UnregisterCleansUpSubscriptions(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()
	time.Sleep(10 * time.Millisecond)

	client := &Client{hub: hub, id: "client-1", subs: NewSubscriptions(), send: make(chan *WSEvent, sendBufferSize)}
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.Subscribe(client, "graph-123", "node-456")

	hub.mu.RLock()
	_, graphOk := hub.byGraphID["graph-123"][client]
	_, nodeOk := hub.byNodeID["node-456"][client]
	hub.mu.RUnlock()
	assert.True(t, graphOk)
	assert.True(t, nodeOk)

	hub.unregister <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	_, graphExists := hub.byGraphID["graph-123"]
	_, nodeExists := hub.byNodeID["node-456"]
	hub.mu.RUnlock()
	assert.False(t, graphExists)
	assert.False(t, nodeExists)
}

func TestHub_BroadcasterInterface(t *testing.T) {
	hub := NewHub(testLogger())
	var _ Broadcaster = hub
}

func TestHub_MultipleSubscriptionsToSameResource(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()
	time.Sleep(10 * time.Millisecond)

	client1 := &Client{hub: hub, id: "client-1", subs: NewSubscriptions(), send: make(chan *WSEvent, sendBufferSize)}
	client2 := &Client{hub: hub, id: "client-2", subs: NewSubscriptions(), send: make(chan *WSEvent, sendBufferSize)}

	hub.register <- client1
	hub.register <- client2
	time.Sleep(10 * time.Millisecond)

	hub.Subscribe(client1, "graph-123", "")
	hub.Subscribe(client2, "graph-123", "")

	event := NewWSEvent(EventInvalidated, "graph-123", "node-1")
	hub.Broadcast("graph-123", "", event)

	receivedCount := 0
	timeout := time.After(100 * time.Millisecond)

	for receivedCount < 2 {
		select {
		case <-client1.send:
			receivedCount++
		case <-client2.send:
			receivedCount++
		case <-timeout:
		}
		if receivedCount >= 2 {
			break
		}
	}

	assert.Equal(t, 2, receivedCount, "both clients should receive the broadcast")
}

func TestHub_UnsubscribePreservesOtherSubscribers(t *testing.T) {
	hub := NewHub(testLogger())

	client1 := &Client{hub: hub, id: "client-1", subs: NewSubscriptions(), send: make(chan *WSEvent, sendBufferSize)}
	client2 := &Client{hub: hub, id: "client-2", subs: NewSubscriptions(), send: make(chan *WSEvent, sendBufferSize)}

	hub.Subscribe(client1, "graph-123", "")
	hub.Subscribe(client2, "graph-123", "")

	hub.Unsubscribe(client1, "graph-123", "")

	hub.mu.RLock()
	_, client2Ok := hub.byGraphID["graph-123"][client2]
	hub.mu.RUnlock()
	assert.True(t, client2Ok, "client2 should still be subscribed")

	client1.subs.mu.RLock()
	_, client1SubsOk := client1.subs.graphs["graph-123"]
	client1.subs.mu.RUnlock()
	assert.False(t, client1SubsOk)
}

func TestNewSubscriptions(t *testing.T) {
	subs := NewSubscriptions()

	assert.NotNil(t, subs)
	assert.NotNil(t, subs.graphs)
	assert.NotNil(t, subs.nodes)
	assert.Len(t, subs.graphs, 0)
	assert.Len(t, subs.nodes, 0)
}

func TestHub_UnregisterUnknownClient(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()
	time.Sleep(10 * time.Millisecond)

	unknownClient := &Client{hub: hub, id: "unknown", subs: NewSubscriptions(), send: make(chan *WSEvent, sendBufferSize)}

	hub.unregister <- unknownClient
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, 0, hub.ClientCount())
}

func TestBroadcastMsg_Structure(t *testing.T) {
	event := NewWSEvent(EventInvalidated, "graph-1", "node-1")
	msg := &broadcastMsg{graphID: "graph-1", nodeID: "node-1", event: event}

	require.NotNil(t, msg)
	assert.Equal(t, "graph-1", msg.graphID)
	assert.Equal(t, "node-1", msg.nodeID)
	assert.Equal(t, event, msg.event)
}
