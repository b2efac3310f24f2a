// Package websocket fans committed post updates out to subscribed clients.
//
// The Hub is a single-goroutine actor: all state lives behind a command
// channel, so no locks are needed. onFirstConnect/onLastDisconnect drive the
// per-post Redis subscription lifecycle in the application layer.
package websocket

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pscheid92/postpulse/internal/metrics"
)

const writeDeadline = 5 * time.Second

// --- Command types ---

type hubCmd interface{ hubCmd() }

type cmdRegister struct {
	postID uuid.UUID
	conn   *websocket.Conn
	errCh  chan error
}

func (cmdRegister) hubCmd() {}

type cmdUnregister struct {
	postID uuid.UUID
	conn   *websocket.Conn
}

func (cmdUnregister) hubCmd() {}

type cmdBroadcast struct {
	postID uuid.UUID
	data   []byte
}

func (cmdBroadcast) hubCmd() {}

type cmdGetClientCount struct {
	postID  uuid.UUID
	replyCh chan int
}

func (cmdGetClientCount) hubCmd() {}

type cmdFirstConnectResult struct {
	postID uuid.UUID
	err    error
}

func (cmdFirstConnectResult) hubCmd() {}

type cmdStop struct{}

func (cmdStop) hubCmd() {}

// --- Per-connection writer ---

type clientWriter struct {
	conn   *websocket.Conn
	sendCh chan []byte
	done   chan struct{}
}

func newClientWriter(conn *websocket.Conn) *clientWriter {
	cw := &clientWriter{
		conn:   conn,
		sendCh: make(chan []byte, 16),
		done:   make(chan struct{}),
	}
	go cw.run()
	return cw
}

func (cw *clientWriter) run() {
	for {
		select {
		case msg, ok := <-cw.sendCh:
			if !ok {
				return
			}
			_ = cw.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := cw.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-cw.done:
			return
		}
	}
}

func (cw *clientWriter) stop() {
	close(cw.done)
	cw.conn.Close()
}

// --- Hub ---

type postClients map[*websocket.Conn]*clientWriter

// Hub routes post updates to the WebSocket clients subscribed to each post.
// onFirstConnect runs before the first client of a post is admitted; if it
// fails, all clients that arrived in the meantime are rejected with its error.
type Hub struct {
	cmdCh             chan hubCmd
	clients           map[uuid.UUID]postClients
	pendingClients    map[uuid.UUID][]cmdRegister
	onFirstConnect    func(uuid.UUID) error
	onLastDisconnect  func(uuid.UUID)
	maxClientsPerPost int
}

func NewHub(onFirstConnect func(uuid.UUID) error, onLastDisconnect func(uuid.UUID), maxClientsPerPost int) *Hub {
	hub := &Hub{
		cmdCh:             make(chan hubCmd, 256),
		clients:           make(map[uuid.UUID]postClients),
		pendingClients:    make(map[uuid.UUID][]cmdRegister),
		onFirstConnect:    onFirstConnect,
		onLastDisconnect:  onLastDisconnect,
		maxClientsPerPost: maxClientsPerPost,
	}
	go hub.run()
	return hub
}

func (h *Hub) run() {
	for cmd := range h.cmdCh {
		switch c := cmd.(type) {
		case cmdRegister:
			h.handleRegister(c)
		case cmdUnregister:
			h.handleUnregister(c.postID, c.conn)
		case cmdBroadcast:
			h.handleBroadcast(c)
		case cmdGetClientCount:
			c.replyCh <- len(h.clients[c.postID])
		case cmdFirstConnectResult:
			h.handleFirstConnectResult(c)
		case cmdStop:
			h.handleStop()
			return
		}
	}
}

func (h *Hub) handleRegister(c cmdRegister) {
	// Post already has an active subscription — add client directly
	if clients, exists := h.clients[c.postID]; exists {
		if len(clients) >= h.maxClientsPerPost {
			slog.Warn("Rejecting client: max clients reached", "post_id", c.postID.String(), "max_clients", h.maxClientsPerPost)
			c.conn.Close()
			c.errCh <- fmt.Errorf("max clients per post (%d) reached", h.maxClientsPerPost)
			return
		}
		clients[c.conn] = newClientWriter(c.conn)
		metrics.HubConnectedClients.Inc()
		slog.Debug("Client registered", "post_id", c.postID.String(), "total_clients", len(clients))
		c.errCh <- nil
		return
	}

	// Post has a pending onFirstConnect — queue this client
	if _, exists := h.pendingClients[c.postID]; exists {
		h.pendingClients[c.postID] = append(h.pendingClients[c.postID], c)
		return
	}

	// First client for this post
	if h.onFirstConnect != nil {
		h.pendingClients[c.postID] = []cmdRegister{c}
		postID := c.postID
		go func() {
			err := h.onFirstConnect(postID)
			h.cmdCh <- cmdFirstConnectResult{postID: postID, err: err}
		}()
		return
	}

	// No onFirstConnect callback — register immediately
	clients := make(postClients)
	h.clients[c.postID] = clients
	clients[c.conn] = newClientWriter(c.conn)
	metrics.HubActivePosts.Set(float64(len(h.clients)))
	metrics.HubConnectedClients.Inc()
	c.errCh <- nil
}

func (h *Hub) handleFirstConnectResult(c cmdFirstConnectResult) {
	pending, exists := h.pendingClients[c.postID]
	if !exists {
		return
	}
	delete(h.pendingClients, c.postID)

	if c.err != nil {
		slog.Error("Failed to activate post subscription", "post_id", c.postID.String(), "error", c.err)
		for _, p := range pending {
			p.conn.Close()
			p.errCh <- c.err
		}
		return
	}

	clients := make(postClients)
	h.clients[c.postID] = clients
	for _, p := range pending {
		clients[p.conn] = newClientWriter(p.conn)
		metrics.HubConnectedClients.Inc()
		p.errCh <- nil
	}
	metrics.HubActivePosts.Set(float64(len(h.clients)))
	slog.Debug("Post subscription activated", "post_id", c.postID.String(), "clients", len(clients))
}

func (h *Hub) handleUnregister(postID uuid.UUID, conn *websocket.Conn) {
	clients, exists := h.clients[postID]
	if !exists {
		return
	}

	cw, exists := clients[conn]
	if !exists {
		return
	}

	cw.stop()
	delete(clients, conn)
	metrics.HubConnectedClients.Dec()

	if len(clients) == 0 {
		delete(h.clients, postID)
		metrics.HubActivePosts.Set(float64(len(h.clients)))
		if h.onLastDisconnect != nil {
			h.onLastDisconnect(postID)
		}
		slog.Info("Last client disconnected", "post_id", postID.String())
	}
}

func (h *Hub) handleBroadcast(c cmdBroadcast) {
	clients, exists := h.clients[c.postID]
	if !exists {
		return
	}

	var slow []*websocket.Conn
	for conn, cw := range clients {
		select {
		case cw.sendCh <- c.data:
		default:
			slow = append(slow, conn)
		}
	}

	for _, conn := range slow {
		slog.Warn("Disconnecting slow client", "post_id", c.postID.String())
		metrics.HubSlowClientsEvicted.Inc()
		h.handleUnregister(c.postID, conn)
	}
}

func (h *Hub) handleStop() {
	for postID, clients := range h.clients {
		for _, cw := range clients {
			cw.stop()
		}
		delete(h.clients, postID)
		if h.onLastDisconnect != nil {
			h.onLastDisconnect(postID)
		}
	}
	for postID, pending := range h.pendingClients {
		for _, p := range pending {
			p.conn.Close()
			p.errCh <- fmt.Errorf("hub stopped")
		}
		delete(h.pendingClients, postID)
	}
	metrics.HubActivePosts.Set(0)
}

// --- Public API ---

// Register adds a client connection for a post. Blocks until the post's
// subscription is active (or fails).
func (h *Hub) Register(postID uuid.UUID, conn *websocket.Conn) error {
	errCh := make(chan error, 1)
	h.cmdCh <- cmdRegister{postID: postID, conn: conn, errCh: errCh}
	return <-errCh
}

// Unregister removes a client connection for a post.
func (h *Hub) Unregister(postID uuid.UUID, conn *websocket.Conn) {
	h.cmdCh <- cmdUnregister{postID: postID, conn: conn}
}

// Broadcast sends data to every client subscribed to the post.
func (h *Hub) Broadcast(postID uuid.UUID, data []byte) {
	h.cmdCh <- cmdBroadcast{postID: postID, data: data}
}

// ClientCount returns the number of connected clients for a post.
func (h *Hub) ClientCount(postID uuid.UUID) int {
	replyCh := make(chan int, 1)
	h.cmdCh <- cmdGetClientCount{postID: postID, replyCh: replyCh}
	return <-replyCh
}

// Stop closes all client connections and shuts the hub down.
func (h *Hub) Stop() {
	h.cmdCh <- cmdStop{}
}
