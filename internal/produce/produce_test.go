package produce

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/welschmorgan/nbuild/internal/event"
)

func TestScannerStripsEmbeddedNULs(t *testing.T) {
	ch := event.NewChannels(8)
	s := &Scanner{Reader: strings.NewReader("hello\x00world\n")}
	go s.Run(ch)

	started := <-ch.Events
	if started.Kind != event.Started {
		t.Fatalf("expected Started event first, got %+v", started)
	}

	batch := <-ch.Entries
	if len(batch) != 1 {
		t.Fatalf("expected single-entry batch, got %d", len(batch))
	}
	if batch[0].Message != "helloworld" {
		t.Fatalf("expected NUL-stripped message %q, got %q", "helloworld", batch[0].Message)
	}

	finished := <-ch.Events
	if finished.Kind != event.Finished || !finished.Success {
		t.Fatalf("expected successful Finished event, got %+v", finished)
	}
}

func TestBuilderSpawnsCommandAndStreamsOutput(t *testing.T) {
	ch := event.NewChannels(16)
	b := &Builder{Command: "echo hello-from-builder"}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go b.Run(ctx, ch)

	started := <-ch.Events
	if started.Kind != event.Started {
		t.Fatalf("expected Started, got %+v", started)
	}

	batch := <-ch.Entries
	if len(batch) != 1 || batch[0].Message != "hello-from-builder" {
		t.Fatalf("unexpected batch: %+v", batch)
	}

	finished := <-ch.Events
	if finished.Kind != event.Finished || !finished.Success {
		t.Fatalf("expected successful Finished event, got %+v", finished)
	}
}

func TestBuilderNonZeroExitEmitsFailedFinished(t *testing.T) {
	ch := event.NewChannels(8)
	b := &Builder{Command: "this-binary-does-not-exist-nbuild-test"}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go b.Run(ctx, ch)

	started := <-ch.Events
	if started.Kind != event.Started {
		t.Fatalf("expected Started, got %+v", started)
	}
	// Drain whatever stderr line the shell produced for the unknown
	// command, then the Finished event.
	var finished event.BuildEvent
	for {
		select {
		case <-ch.Entries:
			continue
		case finished = <-ch.Events:
		}
		break
	}
	if finished.Kind != event.Finished || finished.Success {
		t.Fatalf("expected failed Finished event, got %+v", finished)
	}
}
