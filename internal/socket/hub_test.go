package socket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestClient(t *testing.T, hub *Hub, userID string) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Register(userID, conn)
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		_, ok := hub.clients[userID]
		return ok
	}, time.Second, 10*time.Millisecond)

	return client
}

func TestBroadcastDeliversEvent(t *testing.T) {
	hub := NewHub()
	client := dialTestClient(t, hub, "user-1")

	hub.Broadcast("order.updated", map[string]string{"id": "abc", "status": "assigned"})

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := client.ReadMessage()
	require.NoError(t, err)

	var frame struct {
		Event string            `json:"event"`
		Data  map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg, &frame))
	assert.Equal(t, "order.updated", frame.Event)
	assert.Equal(t, "assigned", frame.Data["status"])
}

// Overlapping order mutations broadcast from separate request
// goroutines; every frame must arrive intact.
func TestBroadcastConcurrentWriters(t *testing.T) {
	hub := NewHub()
	client := dialTestClient(t, hub, "user-1")

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				hub.Broadcast("order.updated", map[string]string{"id": "abc"})
			}
		}()
	}
	wg.Wait()

	require.NoError(t, client.SetReadDeadline(time.Now().Add(5*time.Second)))
	for received := 0; received < workers*perWorker; received++ {
		_, msg, err := client.ReadMessage()
		require.NoError(t, err, "after %d frames", received)

		var frame struct {
			Event string `json:"event"`
		}
		require.NoError(t, json.Unmarshal(msg, &frame))
		assert.Equal(t, "order.updated", frame.Event)
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()
	client := dialTestClient(t, hub, "user-1")

	hub.Unregister("user-1")
	hub.Broadcast("order.updated", map[string]string{"id": "abc"})

	require.NoError(t, client.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := client.ReadMessage()
	assert.Error(t, err)
}
