package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestPublishQueuesEvent(t *testing.T) {
	h := NewHub(zap.NewNop())
	h.Publish(Event{Type: "pricing_update", Action: "project_committed", ProjectID: "p1", Rows: 2})

	select {
	case msg := <-h.Broadcast:
		var ev Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ev.Action != "project_committed" || ev.Rows != 2 {
			t.Fatalf("unexpected event: %+v", ev)
		}
	default:
		t.Fatal("expected a queued broadcast")
	}
}

func TestPublishDropsWhenQueueFull(t *testing.T) {
	h := NewHub(zap.NewNop())
	for i := 0; i < cap(h.Broadcast)+5; i++ {
		h.Publish(Event{Action: "drafts_replaced"})
	}
	if len(h.Broadcast) != cap(h.Broadcast) {
		t.Fatalf("queue length = %d, want %d", len(h.Broadcast), cap(h.Broadcast))
	}
}

func TestPublishOnNilHub(t *testing.T) {
	var h *Hub
	h.Publish(Event{Action: "drafts_replaced"})
}

func TestAddRemoveAfterShutdownReturn(t *testing.T) {
	h := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	returned := make(chan bool, 1)
	go func() {
		h.Remove(nil)
		returned <- h.Add(nil)
	}()
	select {
	case added := <-returned:
		if added {
			t.Fatal("Add accepted a connection on a stopped hub")
		}
	case <-time.After(time.Second):
		t.Fatal("connection handler blocked on a stopped hub")
	}
}
