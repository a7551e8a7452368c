// Package outcome keeps the durable, append-only record of every scheduling
// and publication event.
package outcome

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
)

const stampLayout = "2006-01-02 15:04:05"

// Log appends timestamped lines to a plain-text file. Appends from
// concurrent tasks are serialized by an internal mutex so lines never
// interleave. Write failures are reported to slog and otherwise swallowed;
// logging is best-effort and must not abort scheduling.
type Log struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
	now  func() time.Time
}

// NewLog returns a Log writing to path on fs.
func NewLog(fs afero.Fs, path string) *Log {
	return &Log{
		fs:   fs,
		path: path,
		now:  time.Now,
	}
}

// Append writes one "TIMESTAMP: message" line. The file is opened, flushed
// and closed per call so every line is durable as soon as Append returns.
func (l *Log) Append(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := l.fs.MkdirAll(dir, 0755); err != nil {
			slog.Warn("Failed to create outcome log directory", "path", l.path, "error", err)
			return
		}
	}

	f, err := l.fs.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		slog.Warn("Failed to open outcome log", "path", l.path, "error", err)
		return
	}
	defer f.Close()

	line := l.now().Format(stampLayout) + ": " + message + "\n"
	if _, err := f.WriteString(line); err != nil {
		slog.Warn("Failed to append to outcome log", "path", l.path, "error", err)
	}
}
