// Command wmcore-demo wires a Server against a synthetic event source and
// drives it at a fixed tick rate, logging bucket statistics and optionally
// serving a live telemetry feed. It exists to exercise the ingestion core
// outside of a real X connection, not as a production window manager.
package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wmcore"
	"wmcore/internal/config"
	"wmcore/internal/telemetry"
	"wmcore/internal/xevent"
)

func main() {
	settingsPath := flag.String("settings", "", "path to a YAML settings file (optional)")
	telemetryAddr := flag.String("telemetry", "127.0.0.1:0", "telemetry hub listen address, empty to disable")
	tickRate := flag.Duration("tick", 16*time.Millisecond, "ingest tick interval")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Default()
	if *settingsPath != "" {
		loaded, err := config.Load(*settingsPath)
		if err != nil {
			slog.Error("[DEBUG-DEMO] failed to load settings, using defaults", "error", err)
		} else {
			cfg = loaded
		}
	}

	source := newSyntheticSource()
	atomIDs := map[string]xevent.Atom{
		"WM_HINTS":            1,
		"WM_NORMAL_HINTS":     2,
		"WM_PROTOCOLS":        3,
		"WM_TRANSIENT_FOR":    4,
		"WM_COLORMAP_WINDOWS": 5,
		"_NET_WM_NAME":        6,
	}
	server := wmcore.NewServer(cfg, source, atomIDs)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *telemetryAddr != "" {
		if err := server.AttachTelemetry(ctx, telemetry.Options{Addr: *telemetryAddr}); err != nil {
			slog.Error("[DEBUG-DEMO] failed to start telemetry hub", "error", err)
		} else {
			slog.Info("[DEBUG-DEMO] telemetry listening", "addr", server.TelemetryAddr())
		}
	}

	if *settingsPath != "" {
		if err := server.WatchConfig(*settingsPath); err != nil {
			slog.Warn("[DEBUG-DEMO] settings hot-reload unavailable", "error", err)
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(*tickRate)
	defer ticker.Stop()

	readyFlag := true
	for {
		select {
		case <-sig:
			slog.Info("[DEBUG-DEMO] shutting down")
			return
		case <-ticker.C:
			source.generate()
			server.Ingest(readyFlag)
			slog.Info("[DEBUG-DEMO] tick",
				"ingested", server.Buckets.Ingested,
				"coalesced", server.Buckets.Coalesced,
				"poll_immediate", server.PollImmediate,
			)
			server.Buckets.Reset(server.Arena)
		}
	}
}

// syntheticSource stands in for a real X connection, emitting a burst of
// MotionNotify events on one of a few windows each tick so the demo has
// something to coalesce.
type syntheticSource struct {
	stub *xevent.StubSource
	rng  *rand.Rand
}

func newSyntheticSource() *syntheticSource {
	return &syntheticSource{
		stub: &xevent.StubSource{},
		rng:  rand.New(rand.NewSource(1)),
	}
}

func (s *syntheticSource) generate() {
	window := uint32(1 + s.rng.Intn(4))
	for i := 0; i < 3+s.rng.Intn(5); i++ {
		s.stub.EnqueueQueued(xevent.Event{
			ResponseType: xevent.MotionNotify,
			Event_:       window,
			X:            int16(s.rng.Intn(1024)),
			Y:            int16(s.rng.Intn(768)),
		})
	}
}

func (s *syntheticSource) PollQueued() (xevent.Event, bool) {
	return s.stub.PollQueued()
}

func (s *syntheticSource) PollWire() (xevent.Event, bool, error) {
	return s.stub.PollWire()
}
