package platform

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/retrofe/retrofe/internal/frontend"
)

// Logger wraps the standard log package with a rotating file
// destination, matching the teacher's plain log.Printf/log.Println call
// sites (no structured-logging library anywhere in the corpus). A
// process-wide mutex guards the rotation step per spec §4.G.
type Logger struct {
	mu        sync.Mutex
	path      string
	maxBytes  int64
	maxRotate int
	file      *os.File
	size      int64
	std       *log.Logger

	rateMu   sync.Mutex
	lastKind map[frontend.Kind]time.Time
}

// NewLogger opens (or creates) path for appending and rotates it first if
// it already exceeds maxBytes, so a crash-and-relaunch doesn't keep
// appending to an oversized file.
func NewLogger(path string, maxBytes int64, maxRotate int) (*Logger, error) {
	l := &Logger{
		path:      path,
		maxBytes:  maxBytes,
		maxRotate: maxRotate,
		lastKind:  make(map[frontend.Kind]time.Time),
	}
	if err := l.openCurrent(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Logger) openCurrent() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("platform: log mkdir: %w", err)
	}
	if info, err := os.Stat(l.path); err == nil && info.Size() >= l.maxBytes {
		if err := l.rotate(); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("platform: open log: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("platform: stat log: %w", err)
	}
	l.file = f
	l.size = info.Size()
	l.std = log.New(f, "", log.LstdFlags|log.Lmicroseconds)
	return nil
}

// rotate shifts path.<N> -> path.<N+1> up to maxRotate, deleting the
// oldest, then renames the active log to path.1. Caller holds l.mu.
func (l *Logger) rotate() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	oldest := fmt.Sprintf("%s.%d", l.path, l.maxRotate)
	os.Remove(oldest)
	for n := l.maxRotate - 1; n >= 1; n-- {
		from := fmt.Sprintf("%s.%d", l.path, n)
		to := fmt.Sprintf("%s.%d", l.path, n+1)
		if _, err := os.Stat(from); err == nil {
			os.Rename(from, to)
		}
	}
	if _, err := os.Stat(l.path); err == nil {
		if err := os.Rename(l.path, l.path+".1"); err != nil {
			return fmt.Errorf("platform: rotate log: %w", err)
		}
	}
	return nil
}

// Printf writes a formatted line, rotating first if this write would
// push the file past maxBytes.
func (l *Logger) Printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	line := fmt.Sprintf(format, args...)
	if l.size+int64(len(line))+1 > l.maxBytes {
		if err := l.rotate(); err == nil {
			if f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644); err == nil {
				l.file = f
				l.size = 0
				l.std = log.New(f, "", log.LstdFlags|log.Lmicroseconds)
			}
		}
	}
	l.std.Print(line)
	l.size += int64(len(line)) + 1
}

// LogFatal logs a fatal taxonomy error once; callers then proceed to the
// full-screen message and os.Exit per §7.
func (l *Logger) LogFatal(err error) {
	l.Printf("fatal: %v", err)
}

// LogKindRateLimited logs at most once per kind per 5 seconds, per
// §10.1's "AudioUnderflow/AudioOverflow" rate-limit requirement for
// non-fatal taxonomy kinds that could otherwise fire every tick.
func (l *Logger) LogKindRateLimited(kind frontend.Kind, format string, args ...any) {
	l.rateMu.Lock()
	last, ok := l.lastKind[kind]
	now := time.Now()
	if ok && now.Sub(last) < 5*time.Second {
		l.rateMu.Unlock()
		return
	}
	l.lastKind[kind] = now
	l.rateMu.Unlock()

	l.Printf(format, args...)
}

// Close closes the underlying file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
