package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailscan/retailscan/internal/engine"
)

func dialStream(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleStream))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.Subscribers() == 1 },
		time.Second, 10*time.Millisecond)
	return conn
}

// Broadcasts arrive from every assess request concurrently; the hub must
// serialize them onto each connection.
func TestHubBroadcastConcurrentSenders(t *testing.T) {
	hub := NewHub()
	conn := dialStream(t, hub)

	const senders = 16
	alerts := []engine.Alert{{
		Symbol:   "GME",
		Priority: engine.PriorityHigh,
		Message:  "exceptional opportunity detected",
		Trigger:  "composite_score_exceptional",
	}}

	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Broadcast(alerts)
		}()
	}
	wg.Wait()

	// The buffer holds every batch, so all of them must arrive intact.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i := 0; i < senders; i++ {
		var got []engine.Alert
		require.NoError(t, conn.ReadJSON(&got))
		require.Len(t, got, 1)
		assert.Equal(t, alerts[0], got[0])
	}

	assert.Equal(t, 1, hub.Subscribers(), "a keeping-up subscriber is not dropped")
}

func TestHubDropsStalledSubscriber(t *testing.T) {
	hub := NewHub()

	// A subscriber with no write pump: nothing drains its buffer.
	stalled := &subscriber{send: make(chan []engine.Alert, 1)}
	hub.subs[stalled] = struct{}{}

	alerts := []engine.Alert{{
		Symbol:   "AMC",
		Priority: engine.PriorityLow,
		Message:  "insufficient data coverage",
		Trigger:  "low_confidence",
	}}

	hub.Broadcast(alerts) // fills the buffer
	require.Equal(t, 1, hub.Subscribers())

	hub.Broadcast(alerts) // overruns it: dropped, never blocks
	assert.Equal(t, 0, hub.Subscribers())

	// The send channel is closed so a pump would terminate.
	<-stalled.send
	_, open := <-stalled.send
	assert.False(t, open)
}

func TestHubBroadcastNoSubscribers(t *testing.T) {
	hub := NewHub()
	hub.Broadcast([]engine.Alert{{Symbol: "GME"}})
	assert.Equal(t, 0, hub.Subscribers())
}
