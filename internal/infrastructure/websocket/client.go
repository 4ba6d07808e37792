package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 64
)

// Subscriptions tracks what a client is subscribed to.
type Subscriptions struct {
	graphs map[string]bool
	nodes  map[string]bool
	mu     sync.RWMutex
}

func NewSubscriptions() *Subscriptions {
	return &Subscriptions{graphs: make(map[string]bool), nodes: make(map[string]bool)}
}

// Client is one WebSocket connection subscribed to some set of
// graphs/nodes. There is no per-user identity attached to it.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan *WSEvent

	id   string
	subs *Subscriptions
}

func NewClient(id string, hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan *WSEvent, sendBufferSize),
		id:   id,
		subs: NewSubscriptions(),
	}
}

// readPump pumps commands from the WebSocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn().Str("client_id", c.id).Err(err).Msg("websocket unexpected close")
			}
			break
		}

		var cmd WSCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.sendResponse(NewErrorResponse("error", "invalid command format"))
			continue
		}
		c.handleCommand(&cmd)
	}
}

// writePump pumps events from the hub to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.writeJSON(event); err != nil {
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

func (c *Client) handleCommand(cmd *WSCommand) {
	switch cmd.Action {
	case CmdSubscribe:
		c.handleSubscribe(cmd)
	case CmdUnsubscribe:
		c.handleUnsubscribe(cmd)
	default:
		c.sendResponse(NewErrorResponse("error", "unknown command: "+cmd.Action))
	}
}

func (c *Client) handleSubscribe(cmd *WSCommand) {
	if cmd.GraphID == "" && cmd.NodeID == "" {
		c.sendResponse(NewErrorResponse(CmdSubscribe, "graph_id or node_id required"))
		return
	}
	c.hub.Subscribe(c, cmd.GraphID, cmd.NodeID)

	msg := "subscribed"
	if cmd.NodeID != "" {
		msg = "subscribed to node: " + cmd.NodeID
	} else if cmd.GraphID != "" {
		msg = "subscribed to graph: " + cmd.GraphID
	}
	c.sendResponse(NewSuccessResponse(CmdSubscribe, msg))
}

func (c *Client) handleUnsubscribe(cmd *WSCommand) {
	if cmd.GraphID == "" && cmd.NodeID == "" {
		c.sendResponse(NewErrorResponse(CmdUnsubscribe, "graph_id or node_id required"))
		return
	}
	c.hub.Unsubscribe(c, cmd.GraphID, cmd.NodeID)

	msg := "unsubscribed"
	if cmd.NodeID != "" {
		msg = "unsubscribed from node: " + cmd.NodeID
	} else if cmd.GraphID != "" {
		msg = "unsubscribed from graph: " + cmd.GraphID
	}
	c.sendResponse(NewSuccessResponse(CmdUnsubscribe, msg))
}

func (c *Client) sendResponse(resp *WSResponse) {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.writeJSON(resp)
}

func (c *Client) writeJSON(v interface{}) error {
	return c.conn.WriteJSON(v)
}
