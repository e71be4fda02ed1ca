package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"tableflip.dev/curate/pkg/gallery"
)

type testConfig struct {
	path string
}

func (t testConfig) BasePath() string { return t.path }

func (testConfig) MaxColumns() int { return 6 }

func (testConfig) DefaultColumns() int { return 3 }

func (testConfig) ColumnsPerRow() int { return 3 }

func (testConfig) MinSections() int { return 1 }

func TestPersistenceWatchEmitsDraftChanges(t *testing.T) {
	base := t.TempDir()
	p, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe to directories before storing.
	time.Sleep(50 * time.Millisecond)

	d := &Draft{Collection: gallery.Collection{ID: "col-1"}}
	// The first write creates the bucket directory; the second lands inside
	// a watched directory.
	if err := p.StoreDraft(d); err != nil {
		t.Fatalf("store draft: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	d.Updated = time.Time{}
	if err := p.StoreDraft(d); err != nil {
		t.Fatalf("store draft: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventInvalidated {
				return
			}
			if evt.Type == EventDraftChanged {
				if evt.Collection != "col-1" {
					t.Fatalf("expected collection 'col-1', got %q", evt.Collection)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for draft change event")
		}
	}
}

func TestEventForPath(t *testing.T) {
	p := &persistence{basePath: "/base"}
	tests := []struct {
		path string
		want Event
	}{
		{path: "/base/draft/" + toID("c1"), want: Event{Type: EventDraftChanged, Collection: "c1"}},
		{path: "/base/server/" + toID("c2"), want: Event{Type: EventServerChanged, Collection: "c2"}},
		{path: "/base/tokens/all", want: Event{Type: EventTokensChanged}},
		{path: "/base/draft/zz", want: Event{Type: EventInvalidated}},
		{path: "/base/other/x", want: Event{Type: EventInvalidated}},
		{path: "/base", want: Event{Type: EventInvalidated}},
	}
	for _, tt := range tests {
		if got := p.eventForPath(tt.path); got != tt.want {
			t.Fatalf("%s: expected %+v, got %+v", tt.path, tt.want, got)
		}
	}
}

func TestThrottleStopWaitsForRunningFlush(t *testing.T) {
	th := newEventThrottle(time.Millisecond)
	events := make(chan Event, 4)
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	send := func(ev Event) {
		once.Do(func() { close(entered) })
		<-release
		events <- ev
	}

	th.Enqueue(Event{Type: EventDraftChanged, Collection: "c1"}, send)
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("flush never started")
	}

	stopped := make(chan struct{})
	go func() {
		th.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
		t.Fatal("Stop returned while a flush was still sending")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the flush finished")
	}
	close(events)

	// Events after Stop are dropped, never sent on the closed channel.
	th.Enqueue(Event{Type: EventServerChanged, Collection: "c1"}, send)
	time.Sleep(20 * time.Millisecond)

	got := 0
	for range events {
		got++
	}
	if got != 1 {
		t.Fatalf("expected exactly one flushed event, got %d", got)
	}
}

func TestThrottleStopCancelsScheduledFlush(t *testing.T) {
	th := newEventThrottle(time.Hour)
	sent := make(chan Event, 1)
	th.Enqueue(Event{Type: EventTokensChanged}, func(ev Event) { sent <- ev })

	done := make(chan struct{})
	go func() {
		th.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked on a flush that never ran")
	}
	if len(sent) != 0 {
		t.Fatalf("expected no events after Stop")
	}
}
