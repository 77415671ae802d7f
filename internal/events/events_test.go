// internal/events/events_test.go
package events

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_KeysByBatchNumber(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w)

	p.Publish(context.Background(), Event{
		Type:        TypeCommodityRegistered,
		BatchNumber: "COF-BOM-20241222-001",
		Status:      "registered",
		OccurredAt:  time.Date(2024, 12, 22, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, p.Close())

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "COF-BOM-20241222-001", string(msg.Key))
	assert.Equal(t, TypeCommodityRegistered, string(msg.Headers[0].Value))

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "registered", decoded.Status)
	assert.True(t, w.closed)
}

func TestKafkaPublisher_FailureDoesNotPropagate(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newKafkaPublisher(w)

	p.Publish(context.Background(), Event{Type: TypeCommodityRegistered, BatchNumber: "X"})
	assert.NoError(t, p.Close())
	assert.Empty(t, w.messages)
}

type recordingPublisher struct {
	events []Event
}

func (r *recordingPublisher) Publish(_ context.Context, e Event) {
	r.events = append(r.events, e)
}

func TestFanout(t *testing.T) {
	a, b := &recordingPublisher{}, &recordingPublisher{}
	Fanout{a, NoopPublisher{}, b}.Publish(context.Background(), Event{Type: "x"})
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}

func TestHub_BroadcastsToClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.AddClient(conn)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer client.Close()

	require.Eventually(t, func() bool { return hub.GetClientsCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(context.Background(), Event{Type: TypeCommodityStatusChanged, BatchNumber: "COF-BOM-20241222-001", Status: "approved"})

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := client.ReadMessage()
	require.NoError(t, err)

	var got Event
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "approved", got.Status)
	assert.Equal(t, "COF-BOM-20241222-001", got.BatchNumber)
}

func TestHub_BroadcastNeverBlocks(t *testing.T) {
	hub := NewHub()
	// No Run loop: the queue fills and further messages are dropped.
	for i := 0; i < 1000; i++ {
		hub.BroadcastMessage([]byte("x"))
	}
	assert.Len(t, hub.broadcast, cap(hub.broadcast))
}
