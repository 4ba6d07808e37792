package websocket

import (
	"sync"

	"github.com/rs/zerolog"
)

// Broadcaster is the interface the eval manager's observer talks to, so
// a future Redis-backed fan-out adapter can stand in for Hub without
// touching anything upstream.
type Broadcaster interface {
	Broadcast(graphID, nodeID string, event *WSEvent)
}

// broadcastMsg is one message queued for delivery to matching clients.
type broadcastMsg struct {
	graphID string
	nodeID  string
	event   *WSEvent
}

// Hub owns every connected Client and fans invalidated/computed signals
// out to whichever clients subscribed to the graph or node they concern.
// There is no per-user index: this engine has no multi-tenant user model,
// and subscriptions are keyed by graph/node rather than workflow/execution.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMsg

	byGraphID map[string]map[*Client]bool
	byNodeID  map[string]map[*Client]bool

	logger zerolog.Logger
	mu     sync.RWMutex
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcastMsg, 256),
		byGraphID:  make(map[string]map[*Client]bool),
		byNodeID:   make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run drives the hub's event loop. Callers start this in its own
// goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case msg := <-h.broadcast:
			h.broadcastEvent(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = true
	h.logger.Debug().Str("client_id", client.id).Int("total_clients", len(h.clients)).Msg("client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)

	client.subs.mu.RLock()
	for graphID := range client.subs.graphs {
		if clients, ok := h.byGraphID[graphID]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.byGraphID, graphID)
			}
		}
	}
	for nodeID := range client.subs.nodes {
		if clients, ok := h.byNodeID[nodeID]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.byNodeID, nodeID)
			}
		}
	}
	client.subs.mu.RUnlock()

	h.logger.Debug().Str("client_id", client.id).Int("total_clients", len(h.clients)).Msg("client unregistered")
}

// Broadcast queues event for delivery to clients subscribed to graphID
// or nodeID. Implements the Broadcaster interface.
func (h *Hub) Broadcast(graphID, nodeID string, event *WSEvent) {
	h.broadcast <- &broadcastMsg{graphID: graphID, nodeID: nodeID, event: event}
}

func (h *Hub) broadcastEvent(msg *broadcastMsg) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	targets := make(map[*Client]bool)
	if msg.nodeID != "" {
		if clients, ok := h.byNodeID[msg.nodeID]; ok {
			for client := range clients {
				targets[client] = true
			}
		}
	}
	if msg.graphID != "" {
		if clients, ok := h.byGraphID[msg.graphID]; ok {
			for client := range clients {
				targets[client] = true
			}
		}
	}

	for client := range targets {
		select {
		case client.send <- msg.event:
		default:
			h.logger.Warn().Str("client_id", client.id).Str("event_type", msg.event.Type).Msg("client buffer full, dropping message")
		}
	}
}

// Subscribe adds a subscription for client.
func (h *Hub) Subscribe(client *Client, graphID, nodeID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.subs.mu.Lock()
	defer client.subs.mu.Unlock()

	if graphID != "" {
		client.subs.graphs[graphID] = true
		if h.byGraphID[graphID] == nil {
			h.byGraphID[graphID] = make(map[*Client]bool)
		}
		h.byGraphID[graphID][client] = true
		h.logger.Debug().Str("client_id", client.id).Str("graph_id", graphID).Msg("client subscribed to graph")
	}
	if nodeID != "" {
		client.subs.nodes[nodeID] = true
		if h.byNodeID[nodeID] == nil {
			h.byNodeID[nodeID] = make(map[*Client]bool)
		}
		h.byNodeID[nodeID][client] = true
		h.logger.Debug().Str("client_id", client.id).Str("node_id", nodeID).Msg("client subscribed to node")
	}
}

// Unsubscribe removes a subscription for client.
func (h *Hub) Unsubscribe(client *Client, graphID, nodeID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.subs.mu.Lock()
	defer client.subs.mu.Unlock()

	if graphID != "" {
		delete(client.subs.graphs, graphID)
		if clients, ok := h.byGraphID[graphID]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.byGraphID, graphID)
			}
		}
	}
	if nodeID != "" {
		delete(client.subs.nodes, nodeID)
		if clients, ok := h.byNodeID[nodeID]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.byNodeID, nodeID)
			}
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
