// Package telemetry streams per-tick ingestion statistics to a local
// debugging/introspection client over a WebSocket, so a developer can watch
// ingested/coalesced counters and bucket sizes live without instrumenting
// the window manager itself.
//
// Design: single-connection model — a local dev tool is the only expected
// client, and a new connection simply replaces the old one (e.g. the dev
// tool reloading its own page).
//
// Lock ordering (never acquire in reverse):
//
//	writeMu -> mu
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeDeadline  = 5 * time.Second
	readDeadline   = 90 * time.Second
	pingInterval   = 30 * time.Second
	maxMessageSize = 32 * 1024
)

var upgrader = websocket.Upgrader{
	// The default listen address is loopback; origin checking is kept
	// permissive for browser-based tooling clients.
	CheckOrigin:    func(r *http.Request) bool { return true },
	ReadBufferSize: 1024,
}

// Snapshot is one tick's worth of bucket statistics, broadcast verbatim as
// JSON to any connected client.
type Snapshot struct {
	TickID         string `json:"tick_id"`
	Ingested       int    `json:"ingested"`
	Coalesced      int    `json:"coalesced"`
	PollImmediate  bool   `json:"poll_immediate"`
	RandRDirty     bool   `json:"randr_dirty"`
	ConfigureCount int    `json:"configure_requests"`
	MotionCount    int    `json:"motion_notifies"`
	ExposeCount    int    `json:"expose_regions"`
}

// Options configures the Hub.
type Options struct {
	// Addr is the listen address, e.g. "127.0.0.1:0" for an OS-assigned port.
	Addr string
}

// Hub broadcasts Snapshot frames to a single connected client.
type Hub struct {
	opts Options

	mu   sync.RWMutex
	conn *websocket.Conn

	writeMu sync.Mutex

	listener net.Listener
	server   *http.Server

	stopOnce sync.Once
}

// NewHub creates a Hub. Call Start to begin listening.
func NewHub(opts Options) *Hub {
	if opts.Addr == "" {
		opts.Addr = "127.0.0.1:0"
	}
	return &Hub{opts: opts}
}

// Start begins listening for a single WebSocket client.
func (h *Hub) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", h.opts.Addr)
	if err != nil {
		return fmt.Errorf("wmcore/telemetry: listen %q: %w", h.opts.Addr, err)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ticks", h.handleWS)
	h.server = &http.Server{Handler: mux}
	h.listener = ln

	go func() {
		if err := h.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("[DEBUG-TELEMETRY] serve failed", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		_ = h.Stop()
	}()
	return nil
}

// Stop closes the listener and any active connection. Safe to call more than
// once (e.g. both the ctx.Done() goroutine from Start and an explicit
// Server.Close); only the first call does any work.
func (h *Hub) Stop() error {
	var err error
	h.stopOnce.Do(func() {
		h.mu.Lock()
		conn := h.conn
		h.conn = nil
		h.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		if h.server != nil {
			err = h.server.Close()
		}
	})
	return err
}

// Addr returns the actual listening address, useful when Options.Addr used
// port 0.
func (h *Hub) Addr() string {
	if h.listener == nil {
		return ""
	}
	return h.listener.Addr().String()
}

// Broadcast sends snap to the connected client, if any. With no client it
// returns at once. With a client, the write runs on the caller's goroutine
// under writeMu and can take up to writeDeadline; a failed write drops the
// connection.
func (h *Hub) Broadcast(snap Snapshot) {
	h.mu.RLock()
	conn := h.conn
	h.mu.RUnlock()
	if conn == nil {
		return
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		slog.Warn("[DEBUG-TELEMETRY] marshal snapshot failed", "error", err)
		return
	}
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		slog.Debug("[DEBUG-TELEMETRY] broadcast failed, dropping connection", "error", err)
		h.clearIfCurrent(conn)
		_ = conn.Close()
	}
}

func (h *Hub) clearIfCurrent(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conn == conn {
		h.conn = nil
		return true
	}
	return false
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("[DEBUG-TELEMETRY] upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	old := h.conn
	h.conn = conn
	h.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	done := make(chan struct{})
	go h.pingLoop(conn, done)

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("[DEBUG-TELEMETRY] handleWS recovered",
				"panic", rec, "stack", string(debug.Stack()))
		}
		close(done)
		h.clearIfCurrent(conn)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[DEBUG-TELEMETRY] pingLoop recovered",
				"panic", r, "stack", string(debug.Stack()))
			h.clearIfCurrent(conn)
			_ = conn.Close()
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			h.writeMu.Lock()
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeDeadline))
			h.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
