package ws

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades a connection and registers it with a Hub so it receives
// that Hub's progress/result/error broadcasts. Unlike the teacher's
// handler, clients here are read-only observers of one optimize() run: the
// planner has no client->server control messages to route.
type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	h.hub.Register(client)
	go client.writePump()

	h.drainReads(client)
}

// drainReads discards any client->server frames and unregisters the client
// once the connection closes, matching the teacher's readPump lifecycle.
func (h *Handler) drainReads(c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read error: %v", err)
			}
			return
		}
	}
}
