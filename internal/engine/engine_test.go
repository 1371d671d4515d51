package engine_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/idelchi/fcrypt/internal/engine"
)

func drain(events <-chan engine.Event) []engine.Event {
	var got []engine.Event

	for event := range events {
		got = append(got, event)
	}

	return got
}

func kindsOf(events []engine.Event) []engine.Kind {
	kinds := make([]engine.Kind, 0, len(events))
	for _, event := range events {
		kinds = append(kinds, event.Kind)
	}

	return kinds
}

func TestRunEncryptionStream(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, map[string]string{"/e/a": "a", "/e/b": "b"})

	eng := engine.New(engine.Options{Fs: fsys})

	events := drain(eng.RunEncryption(context.Background(), "/e", "pw"))

	want := []engine.Kind{engine.Started, engine.FileDone, engine.FileDone, engine.Finished}
	if !slices.Equal(kindsOf(events), want) {
		t.Fatalf("events = %v, want %v", kindsOf(events), want)
	}

	runID := events[0].RunID
	for _, event := range events {
		if event.RunID != runID {
			t.Errorf("event %v carries run %q, want %q", event.Kind, event.RunID, runID)
		}
	}

	terminal := events[len(events)-1]
	if !terminal.Terminal() || terminal.Summary.Succeeded != 2 {
		t.Errorf("terminal event = %+v", terminal)
	}

	events = drain(eng.RunDecryption(context.Background(), "/e", "pw"))
	if last := events[len(events)-1]; last.Kind != engine.Finished || last.Summary.Status() != engine.StatusCompleted {
		t.Errorf("decryption ended with %+v", last)
	}

	if readFile(t, fsys, "/e/a") != "a" || readFile(t, fsys, "/e/b") != "b" {
		t.Error("contents differ after round trip")
	}
}

func TestRunSingleFile(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, map[string]string{"/f/note": "hello"})

	rec := &recorder{}
	eng := engine.New(engine.Options{Fs: fsys})

	summary, err := eng.Run(context.Background(), engine.Request{Path: "/f/note", Password: "pw", Mode: engine.Encrypt}, rec)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []engine.Kind{engine.Started, engine.FileDone, engine.Finished}
	if !slices.Equal(rec.kinds(), want) {
		t.Errorf("events = %v, want %v", rec.kinds(), want)
	}

	if summary.Total != 1 || summary.Succeeded != 1 {
		t.Errorf("summary = %+v", summary)
	}

	if !exists(t, fsys, "/f/note.encrypted") || exists(t, fsys, "/f/note") {
		t.Error("expected only the encrypted file")
	}
}

func TestRunSingleFileFailure(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, map[string]string{"/f/plain": "hello"})

	rec := &recorder{}
	eng := engine.New(engine.Options{Fs: fsys})

	_, err := eng.Run(context.Background(), engine.Request{Path: "/f/plain", Password: "pw", Mode: engine.Decrypt}, rec)
	if !errors.Is(err, engine.ErrNotEncryptedFormat) {
		t.Fatalf("error = %v, want %v", err, engine.ErrNotEncryptedFormat)
	}

	want := []engine.Kind{engine.Started, engine.FileDone, engine.Failed}
	if !slices.Equal(rec.kinds(), want) {
		t.Errorf("events = %v, want %v", rec.kinds(), want)
	}

	if last := rec.events[len(rec.events)-1]; !errors.Is(last.Err, engine.ErrNotEncryptedFormat) {
		t.Errorf("Failed event error = %v", last.Err)
	}
}

func TestRunMissingPath(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	eng := engine.New(engine.Options{Fs: afero.NewMemMapFs()})

	_, err := eng.Run(context.Background(), engine.Request{Path: "/nowhere", Password: "pw", Mode: engine.Encrypt}, rec)
	if !errors.Is(err, engine.ErrInputNotFound) {
		t.Fatalf("error = %v, want %v", err, engine.ErrInputNotFound)
	}

	if len(rec.events) != 1 || rec.events[0].Kind != engine.Failed {
		t.Errorf("events = %v, want a single Failed", rec.kinds())
	}
}

func TestRunCancelledBeforeStart(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, map[string]string{"/k/one": "1", "/k/dir/two": "2"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := engine.New(engine.Options{Fs: fsys})

	for _, path := range []string{"/k/one", "/k/dir"} {
		summary, err := eng.Run(ctx, engine.Request{Path: path, Password: "pw", Mode: engine.Encrypt}, nil)
		if err != nil {
			t.Fatalf("Run(%q): %v", path, err)
		}

		if summary.Status() != engine.StatusCancelled || summary.Processed != 0 {
			t.Errorf("Run(%q) summary = %+v", path, summary)
		}
	}

	if files := listFiles(t, fsys, "/k"); !slices.Equal(files, []string{"/k/dir/two", "/k/one"}) {
		t.Errorf("files = %v", files)
	}
}

func TestMultiSink(t *testing.T) {
	t.Parallel()

	first, second := &recorder{}, &recorder{}
	sink := engine.MultiSink{first, second}

	sink.Emit(engine.Event{Kind: engine.Message, Text: "hi"})

	if len(first.events) != 1 || len(second.events) != 1 {
		t.Errorf("fan-out delivered %d and %d events", len(first.events), len(second.events))
	}
}

func TestStreamAbandonedAfterCancel(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, map[string]string{"/a/1": "1", "/a/2": "2"})

	ctx, cancel := context.WithCancel(context.Background())
	eng := engine.New(engine.Options{Fs: fsys})

	events := eng.RunEncryption(ctx, "/a", "pw")

	if first := <-events; first.Kind != engine.Started {
		t.Fatalf("first event = %v", first.Kind)
	}

	cancel()

	timeout := time.After(5 * time.Second)

	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("stream not closed after cancellation")
		}
	}
}
