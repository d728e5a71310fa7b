package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwegner/meetproc/internal/logger"
)

func TestWaitSettled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.mov")
	if err := os.WriteFile(path, []byte("partial"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := &implWatcher{settleInterval: 10 * time.Millisecond, logger: logger.New("error")}

	// Grow the file once while waitSettled polls.
	go func() {
		time.Sleep(15 * time.Millisecond)
		f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return
		}
		f.WriteString("rest of the recording")
		f.Close()
	}()

	if err := w.waitSettled(context.Background(), path); err != nil {
		t.Fatalf("waitSettled() error = %v", err)
	}
}

func TestWaitSettledCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.mov")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := &implWatcher{settleInterval: 10 * time.Millisecond, logger: logger.New("error")}
	if err := w.waitSettled(ctx, path); err == nil {
		t.Error("waitSettled() = nil on cancelled context")
	}
}

func TestWaitSettledMissingFile(t *testing.T) {
	w := &implWatcher{settleInterval: time.Millisecond, logger: logger.New("error")}
	if err := w.waitSettled(context.Background(), filepath.Join(t.TempDir(), "gone.mov")); err == nil {
		t.Error("waitSettled() = nil for missing file")
	}
}
