package engine

import (
	"context"
	"testing"
	"time"
)

func TestDeliverStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan Event)
	returned := make(chan struct{})

	go func() {
		defer close(returned)

		deliver(ctx, events, Event{Kind: Started})
	}()

	cancel()

	select {
	case <-returned:
	case <-time.After(5 * time.Second):
		t.Fatal("deliver blocked after cancellation with no receiver")
	}
}

func TestDeliverSends(t *testing.T) {
	t.Parallel()

	events := make(chan Event, 1)

	deliver(context.Background(), events, Event{Kind: Finished})

	if got := <-events; got.Kind != Finished {
		t.Errorf("received %v, want %v", got.Kind, Finished)
	}
}
