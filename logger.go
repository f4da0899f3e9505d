package fontcore

import (
	"log/slog"

	"github.com/gputerm/fontcore/corelog"
)

// SetLogger configures the logger for fontcore and its sub-packages
// (atlas, spritecache, face, fontsel, runrender). By default the core
// produces no log output; call SetLogger to enable it. Pass nil to
// restore the silent default.
//
// Log levels used throughout this module:
//   - [slog.LevelInfo]: reconfiguration events (set_font and set_font_size completing)
//   - [slog.LevelWarn]: non-fatal failures (box-drawing callback missing or
//     failing, shaping failure, fallback face sizing failure, full fallback table)
//
// Nothing in the module logs at [slog.LevelDebug].
//
// SetLogger is safe for concurrent use. It delegates to corelog so that
// subpackages wired together by the Renderer (runrender) can share the
// same logger without importing this root package back.
func SetLogger(l *slog.Logger) { corelog.SetLogger(l) }

// Logger returns the current logger.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger { return corelog.Logger() }
