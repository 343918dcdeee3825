package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// RoleAdmin is the only role the registry acts on.
const RoleAdmin = "admin"

// Credential is the result of verifying an opaque client-supplied token.
type Credential struct {
	Valid  bool
	Role   string
	UserID uint
}

// TokenVerifier validates the opaque credential token a connection presents
// to join the admin group. Verification is delegated to the auth layer; the
// hub itself only checks Valid and Role.
type TokenVerifier interface {
	Verify(token string) Credential
}

// Client is one live websocket connection. A connection starts anonymous;
// the only transition into the admin group is a verified authenticate
// message. Disconnecting purges it from all groups. No vote or audit state
// is tied to the connection's lifetime.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// clientMessage is the only inbound frame shape the server understands.
type clientMessage struct {
	Type  string `json:"type"`
	Token string `json:"token,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS returns a handler that upgrades the request and registers the
// connection with the hub as an anonymous client.
func (h *Hub) ServeWS(verifier TokenVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("realtime: websocket upgrade error: %v", err)
			return
		}
		client := &Client{hub: h, conn: conn, send: make(chan []byte, 256)}
		h.register <- client

		go client.writePump()
		client.readPump(verifier)
	}
}

// readPump consumes inbound frames. The only meaningful message is
// "authenticate"; an invalid or expired token is a silent denial (logged,
// never surfaced to the client), matching the protocol's treatment of a bad
// admin credential as a non-event rather than an error.
func (c *Client) readPump(verifier TokenVerifier) {
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
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("realtime: unexpected close: %v", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		if msg.Type != "authenticate" {
			continue
		}

		cred := verifier.Verify(msg.Token)
		if !cred.Valid || cred.Role != RoleAdmin {
			log.Printf("realtime: admin authentication denied for connection %s", c.conn.RemoteAddr())
			continue
		}
		c.hub.promote <- c
	}
}

// writePump drains the send channel onto the socket and keeps the
// connection alive with pings. It exits when the hub closes the channel.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
