// Package audit writes the append-only JSONL event log. One file per UTC
// calendar day; entries are appended, never rewritten. A single process-wide
// mutex serializes the append path so concurrent writers never interleave
// partial lines.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// tsLayout is RFC3339 with microsecond precision and a trailing Z.
const tsLayout = "2006-01-02T15:04:05.000000Z"

// fileLayout names one log file per UTC day.
const fileLayout = "2006-01-02"

// Logger appends structured events to daily log files under Dir.
type Logger struct {
	mu  sync.Mutex
	dir string

	// now is swappable for tests.
	now func() time.Time
}

// New returns a Logger writing under dir. The directory is created on the
// first write, not here.
func New(dir string) *Logger {
	return &Logger{dir: dir, now: time.Now}
}

// Event appends one JSON line: ts, level, msg, plus caller-supplied fields.
// Caller fields never override the three reserved keys. Failures are
// returned, not fatal; callers treat audit failure as non-blocking.
func (l *Logger) Event(level, msg string, fields map[string]any) error {
	now := l.now().UTC()

	entry := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		entry[k] = v
	}
	entry["ts"] = now.Format(tsLayout)
	entry["level"] = level
	entry["msg"] = msg

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling audit entry: %w", err)
	}

	path := filepath.Join(l.dir, now.Format(fileLayout)+".log")

	// Lock scope is exactly the single-file append.
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("appending to %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Info logs at level info.
func (l *Logger) Info(msg string, fields map[string]any) error {
	return l.Event("info", msg, fields)
}

// Error logs at level error.
func (l *Logger) Error(msg string, fields map[string]any) error {
	return l.Event("error", msg, fields)
}

// Op starts timing a method call and returns a finish function that records
// method, duration_ms, and success/error status.
func (l *Logger) Op(method string) func(err error) {
	start := l.now()
	return func(err error) {
		fields := map[string]any{
			"method":      method,
			"duration_ms": l.now().Sub(start).Milliseconds(),
			"status":      "success",
		}
		level := "info"
		if err != nil {
			fields["status"] = "error"
			fields["error"] = err.Error()
			level = "error"
		}
		_ = l.Event(level, method, fields)
	}
}

// Prune deletes daily log files older than retentionDays, judged by the
// date embedded in the filename rather than filesystem mtime. Returns the
// deleted file names.
func (l *Logger) Prune(retentionDays int) ([]string, error) {
	if retentionDays <= 0 {
		return nil, fmt.Errorf("retention must be positive, got %d", retentionDays)
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	cutoff := l.now().UTC().AddDate(0, 0, -retentionDays)

	var deleted []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		stamp, ok := strings.CutSuffix(name, ".log")
		if !ok {
			continue
		}
		day, err := time.Parse(fileLayout, stamp)
		if err != nil {
			continue
		}
		if day.Before(cutoff.Truncate(24 * time.Hour)) {
			if err := os.Remove(filepath.Join(l.dir, name)); err != nil {
				return deleted, err
			}
			deleted = append(deleted, name)
		}
	}
	sort.Strings(deleted)
	return deleted, nil
}
