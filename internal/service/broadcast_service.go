package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"cabinet-medical-api/internal/delivery/dto"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Event names on the public display channel.
const (
	EventWaitingLineUpdate  = "waiting-line-update"
	EventRefreshWaitingLine = "refresh-waiting-line"
)

// SnapshotSource produces the current waiting-line view.
type SnapshotSource interface {
	BuildSnapshot(ctx context.Context) (*dto.WaitingLineSnapshot, error)
}

type wsEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// BroadcastHub keeps the registry of connected public displays and pushes a
// fresh snapshot to all of them whenever the queue changes. The hub is owned
// by the application root and injected where needed; it is deliberately not a
// package-level singleton.
//
// Delivery is fire-and-forget: a client that cannot be written to is dropped
// and the error logged, never propagated to the transition that triggered
// the broadcast.
type BroadcastHub struct {
	log    *logrus.Logger
	source SnapshotSource

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewBroadcastHub(log *logrus.Logger, source SnapshotSource) *BroadcastHub {
	return &BroadcastHub{
		log:     log,
		source:  source,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// QueueChanged implements the notifier contract: recompute the snapshot and
// push it to every connected client.
func (h *BroadcastHub) QueueChanged(ctx context.Context) {
	snapshot, err := h.source.BuildSnapshot(ctx)
	if err != nil {
		h.log.Warnf("Failed to build waiting-line snapshot for broadcast: %+v", err)
		return
	}
	h.broadcast(snapshot)
}

func (h *BroadcastHub) broadcast(snapshot *dto.WaitingLineSnapshot) {
	payload, err := json.Marshal(wsEvent{Event: EventWaitingLineUpdate, Data: snapshot})
	if err != nil {
		h.log.Warnf("Failed to marshal waiting-line snapshot: %+v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.log.Warnf("Dropping waiting-line client: %+v", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
	h.log.Infof("Waiting line update sent: %d waiting, %d clients", snapshot.TotalWaiting, len(h.clients))
}

// ClientCount returns the number of connected displays.
func (h *BroadcastHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// HandleClient serves one display connection: register, send the current
// snapshot immediately, then answer refresh requests until the client goes
// away. Blocks until disconnect.
func (h *BroadcastHub) HandleClient(ctx context.Context, conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	h.sendSnapshot(ctx, conn)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if isRefreshRequest(message) {
			h.sendSnapshot(ctx, conn)
		}
	}
}

func (h *BroadcastHub) sendSnapshot(ctx context.Context, conn *websocket.Conn) {
	snapshot, err := h.source.BuildSnapshot(ctx)
	if err != nil {
		h.log.Warnf("Failed to build waiting-line snapshot: %+v", err)
		return
	}

	payload, err := json.Marshal(wsEvent{Event: EventWaitingLineUpdate, Data: snapshot})
	if err != nil {
		h.log.Warnf("Failed to marshal waiting-line snapshot: %+v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		h.log.Warnf("Failed to write waiting-line snapshot: %+v", err)
	}
}

// isRefreshRequest accepts both a bare event name and the JSON envelope.
func isRefreshRequest(message []byte) bool {
	text := strings.TrimSpace(string(message))
	if text == EventRefreshWaitingLine {
		return true
	}
	var event wsEvent
	if err := json.Unmarshal(message, &event); err != nil {
		return false
	}
	return event.Event == EventRefreshWaitingLine
}
