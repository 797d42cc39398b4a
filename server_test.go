package wmcore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wmcore/internal/telemetry"
	"wmcore/internal/xevent"
)

func TestNewServerAppliesConfig(t *testing.T) {
	s, _ := newTestServer(t)
	if s.Config.MaxEventsPerTick != 256 {
		t.Fatalf("MaxEventsPerTick = %d, want 256", s.Config.MaxEventsPerTick)
	}
	if s.Registry == nil || s.Buckets == nil || s.Arena == nil || s.Atoms == nil {
		t.Fatal("NewServer left a core field nil")
	}
}

func TestServerAttachTelemetryEmitsSnapshotAfterIngest(t *testing.T) {
	s, src := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.AttachTelemetry(ctx, telemetry.Options{Addr: "127.0.0.1:0"}); err != nil {
		t.Fatalf("AttachTelemetry: %v", err)
	}
	defer s.Close()

	src.EnqueueQueued(xevent.Event{ResponseType: xevent.KeyPress})
	s.Ingest(false)
	// No client ever connects in this test; Ingest must still return
	// promptly because Broadcast returns at once when no client is connected.
	if s.Buckets.Ingested != 1 {
		t.Fatalf("Ingested = %d, want 1", s.Buckets.Ingested)
	}
}

func TestServerWatchConfigReloadsMustQueueAtoms(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	if err := os.WriteFile(path, []byte("must_queue_atoms: [\"WM_HINTS\"]\n"), 0o644); err != nil {
		t.Fatalf("seed settings file: %v", err)
	}

	s, _ := newTestServer(t)
	s.Atoms = NewAtomTable(map[string]xevent.Atom{"WM_HINTS": 1, "_CUSTOM": 2}, nil)

	if err := s.WatchConfig(path); err != nil {
		t.Fatalf("WatchConfig: %v", err)
	}
	defer s.Close()

	if err := os.WriteFile(path, []byte("must_queue_atoms: [\"_CUSTOM\"]\n"), 0o644); err != nil {
		t.Fatalf("rewrite settings file: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Atoms.MustQueue(2) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("must-queue atoms did not reload within the deadline")
}
