package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cabinet-medical-api/internal/delivery/dto"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSnapshotSource struct {
	snapshot *dto.WaitingLineSnapshot
}

func (s *stubSnapshotSource) BuildSnapshot(ctx context.Context) (*dto.WaitingLineSnapshot, error) {
	return s.snapshot, nil
}

func newHubServer(t *testing.T, source SnapshotSource) (*BroadcastHub, *websocket.Conn) {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	hub := NewBroadcastHub(log, source)

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.HandleClient(r.Context(), conn)
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return hub, conn
}

func readEvent(t *testing.T, conn *websocket.Conn) (string, dto.WaitingLineSnapshot) {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var event struct {
		Event string                  `json:"event"`
		Data  dto.WaitingLineSnapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(payload, &event))
	return event.Event, event.Data
}

func waitForClients(t *testing.T, hub *BroadcastHub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("hub never reached %d clients", want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHandleClient_SendsInitialSnapshot(t *testing.T) {
	source := &stubSnapshotSource{snapshot: &dto.WaitingLineSnapshot{TotalWaiting: 2, Waiting: []dto.WaitingLineEntry{{FullName: "Amina Berrada", Position: 1}, {FullName: "Karim Idrissi", Position: 2}}}}
	_, conn := newHubServer(t, source)

	event, data := readEvent(t, conn)
	assert.Equal(t, EventWaitingLineUpdate, event)
	assert.Equal(t, 2, data.TotalWaiting)
	require.Len(t, data.Waiting, 2)
	assert.Equal(t, "Amina Berrada", data.Waiting[0].FullName)
}

func TestQueueChanged_BroadcastsToConnectedClients(t *testing.T) {
	source := &stubSnapshotSource{snapshot: &dto.WaitingLineSnapshot{TotalWaiting: 0}}
	hub, conn := newHubServer(t, source)

	// Drain the snapshot sent on connect.
	readEvent(t, conn)
	waitForClients(t, hub, 1)

	source.snapshot = &dto.WaitingLineSnapshot{TotalWaiting: 5}
	hub.QueueChanged(context.Background())

	event, data := readEvent(t, conn)
	assert.Equal(t, EventWaitingLineUpdate, event)
	assert.Equal(t, 5, data.TotalWaiting)
}

func TestHandleClient_AnswersRefreshRequests(t *testing.T) {
	source := &stubSnapshotSource{snapshot: &dto.WaitingLineSnapshot{TotalWaiting: 1}}
	_, conn := newHubServer(t, source)

	readEvent(t, conn)

	source.snapshot = &dto.WaitingLineSnapshot{TotalWaiting: 3}
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(EventRefreshWaitingLine)))

	event, data := readEvent(t, conn)
	assert.Equal(t, EventWaitingLineUpdate, event)
	assert.Equal(t, 3, data.TotalWaiting)

	// The JSON envelope form works too.
	source.snapshot = &dto.WaitingLineSnapshot{TotalWaiting: 4}
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"refresh-waiting-line"}`)))

	_, data = readEvent(t, conn)
	assert.Equal(t, 4, data.TotalWaiting)
}

func TestHandleClient_RemovesDisconnectedClients(t *testing.T) {
	source := &stubSnapshotSource{snapshot: &dto.WaitingLineSnapshot{}}
	hub, conn := newHubServer(t, source)

	readEvent(t, conn)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}
