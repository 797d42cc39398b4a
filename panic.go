package wmcore

import (
	"log/slog"
	"os"
	"runtime/debug"
)

// fatal logs an unrecoverable condition and aborts the process. Its caller
// is NewServer, on a nil event source. Allocation failure is left to the Go
// runtime, which aborts on its own, and the slotmap performs no
// generation-skew check, so neither reaches fatal.
func fatal(reason string, attrs ...any) {
	attrs = append(attrs, "stack", string(debug.Stack()))
	slog.Error("[DEBUG-FATAL] "+reason, attrs...)
	os.Exit(1)
}
