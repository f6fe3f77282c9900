package services

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

func TestRealtimeHubBroadcast(t *testing.T) {
	hub := NewRealtimeHub()
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Register(&WSClient{Conn: conn})
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// registration happens in the server handler; wait for it
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)

	hub.BroadcastEntry("meal", MealEntryView{Notes: "lunch", Calories: 500})

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev EntryEvent
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, "meal", ev.Kind)

	entry, ok := ev.Entry.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "lunch", entry["notes"])
}

// Broadcasts and keep-alive pings run on different goroutines; the per-client
// write mutex must keep them from writing the connection at the same time.
func TestRealtimeHubConcurrentWrites(t *testing.T) {
	hub := NewRealtimeHub()
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	var client *WSClient
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		client = &WSClient{Conn: conn}
		hub.Register(client)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)

	// drain everything the server sends so its write buffer never fills
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			hub.BroadcastEntry("meal", MealEntryView{Notes: "lunch"})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = client.WriteMessage(websocket.PingMessage, nil)
		}
	}()
	wg.Wait()

	hub.Unregister(client)
	<-done
}

func TestRealtimeHubUnregister(t *testing.T) {
	hub := NewRealtimeHub()
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	var client *WSClient
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		client = &WSClient{Conn: conn}
		hub.Register(client)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)

	hub.Unregister(client)
	assert.Equal(t, 0, hub.ClientCount())

	// broadcasting to an empty hub is a no-op
	hub.BroadcastEntry("workout", WorkoutEntryView{ExerciseType: "Running"})
}
