package main

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

// TestPollEventsStopsWhenLoopExits blocks the poller on a channel nobody drains
// and checks closing done releases it
func TestPollEventsStopsWhenLoopExits(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	defer screen.Fini()

	events := make(chan tcell.Event) // never read
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		pollEvents(screen, events, done)
		close(exited)
	}()

	if err := screen.PostEvent(tcell.NewEventInterrupt(nil)); err != nil {
		t.Fatalf("PostEvent: %v", err)
	}
	close(done)

	select {
	case <-exited:
	case <-time.After(2 * time.Second):
		t.Fatal("poller still blocked after done was closed")
	}
}
