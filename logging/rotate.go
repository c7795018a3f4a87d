package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// RotatingWriter writes to one log file per ISO week, rotating early when the
// current file reaches maxFileSize. Files older than the retention period are
// removed by a background cleanup goroutine.
type RotatingWriter struct {
	logDir      string
	retention   time.Duration
	maxFileSize int64

	mu          sync.Mutex
	currentFile *os.File
	currentWeek string
	currentSize int64
	seq         int

	ctx         context.Context
	cancel      context.CancelFunc
	cleanupDone chan struct{}
}

// NewRotatingWriter creates a rotating writer for logDir. A maxFileSize of 0
// disables size-based rotation.
func NewRotatingWriter(logDir string, retentionWeeks int, maxFileSize int64) *RotatingWriter {
	ctx, cancel := context.WithCancel(context.Background())
	return &RotatingWriter{
		logDir:      logDir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxFileSize: maxFileSize,
		ctx:         ctx,
		cancel:      cancel,
		cleanupDone: make(chan struct{}),
	}
}

// weekKey returns the ISO week key in YYYY-Www format.
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	week := weekKey(time.Now())
	sizeExceeded := rw.maxFileSize > 0 && rw.currentSize+int64(len(p)) > rw.maxFileSize
	if rw.currentFile == nil || rw.currentWeek != week || sizeExceeded {
		if err := rw.rotate(week, sizeExceeded); err != nil {
			return 0, err
		}
	}

	n, err := rw.currentFile.Write(p)
	rw.currentSize += int64(n)
	return n, err
}

// rotate opens the next log file for week (caller must hold the lock).
func (rw *RotatingWriter) rotate(week string, sizeExceeded bool) error {
	if rw.currentFile != nil {
		if err := rw.currentFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file during rotation: %v\n", err)
		}
	}

	if rw.currentWeek != week {
		rw.seq = 0
	} else if sizeExceeded {
		rw.seq++
	}

	name := fmt.Sprintf("app-%s.log", week)
	if rw.seq > 0 {
		name = fmt.Sprintf("app-%s_%02d.log", week, rw.seq)
	}

	path := filepath.Join(rw.logDir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	rw.currentFile = file
	rw.currentWeek = week
	rw.currentSize = 0
	if info, err := file.Stat(); err == nil {
		rw.currentSize = info.Size()
	}
	return nil
}

// cleanupOldLogs removes log files past the retention period.
func (rw *RotatingWriter) cleanupOldLogs() error {
	entries, err := os.ReadDir(rw.logDir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	cutoff := time.Now().Add(-rw.retention)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "app-") || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(rw.logDir, entry.Name()))
		}
	}
	return nil
}

// Close stops the cleanup goroutine and closes the current file.
func (rw *RotatingWriter) Close() error {
	rw.cancel()
	select {
	case <-rw.cleanupDone:
	case <-time.After(time.Second):
	}

	rw.mu.Lock()
	defer rw.mu.Unlock()
	if rw.currentFile != nil {
		err := rw.currentFile.Close()
		rw.currentFile = nil
		return err
	}
	return nil
}

// setupLogger configures slog to log text to console and JSON to rotating
// weekly files. On any file setup failure it degrades to console-only.
func setupLogger(logDir string, level slog.Level, retentionWeeks int, maxFileSize int64) (*RotatingWriter, *slog.Logger) {
	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		logger := slog.New(consoleHandler)
		logger.Error("Failed to create logs directory, logging to console only", "error", err)
		return nil, logger
	}

	writer := NewRotatingWriter(logDir, retentionWeeks, maxFileSize)

	go func() {
		defer close(writer.cleanupDone)
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-writer.ctx.Done():
				return
			case <-ticker.C:
				if err := writer.cleanupOldLogs(); err != nil {
					fmt.Fprintf(os.Stderr, "log cleanup failed: %v\n", err)
				}
			}
		}
	}()

	fileHandler := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level})
	return writer, slog.New(&multiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}})
}

// multiHandler fans a record out to every underlying handler.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}
