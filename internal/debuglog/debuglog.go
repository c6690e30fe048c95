// Package debuglog implements the plaintext debug log sink (spec.md
// section 6): one ISO-8601-timestamped record per line, truncated at
// startup, backed by gopkg.in/natefinch/lumberjack.v2 for rotation --
// the teacher already depends on lumberjack (cmd/sand/main.go's
// initSlog sets up a similar JSON-handler-over-file pattern) though it
// doesn't itself route through a rotating writer; this is where we
// actually exercise it.
package debuglog

import (
	"fmt"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/welschmorgan/nbuild/internal/nberrors"
)

const defaultPath = ".cargo-nbuild.log"

// ringSize bounds the in-memory queue used when the sink's lock can't
// be acquired within the timeout (spec.md section 5: "on timeout, lines
// are queued in an in-memory ring for later flush").
const ringSize = 256

// Sink is the process-wide debug log writer. Protected by a mutex with
// a try-lock-with-timeout discipline (spec.md section 5): writers that
// can't acquire the lock within lockTimeout queue their line in an
// in-memory ring instead of blocking.
type Sink struct {
	mu          sync.Mutex
	lockTimeout time.Duration
	writer      *lumberjack.Logger

	ringMu sync.Mutex
	ring   []string
}

// Open truncates (or creates) path and returns a Sink writing to it via
// a rotating lumberjack.Logger. Rotation settings are conservative since
// spec.md only requires truncation at startup, not size-based rollover
// during a single run.
func Open(path string) (*Sink, error) {
	if path == "" {
		path = defaultPath
	}
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    8, // MB
		MaxBackups: 1,
	}
	if err := w.Rotate(); err != nil {
		return nil, nberrors.Wrap(nberrors.KindIO, err, "failed to truncate debug log %s", path)
	}
	return &Sink{lockTimeout: 50 * time.Millisecond, writer: w}, nil
}

// Writef formats and appends one record: an ISO-8601 timestamp, two
// spaces, then the free-form message (spec.md section 6). Never blocks
// longer than the sink's lock timeout; on timeout the line is queued in
// the ring and flushed on the next successful write.
func (s *Sink) Writef(format string, args ...any) {
	line := time.Now().UTC().Format(time.RFC3339) + "  " + fmt.Sprintf(format, args...)
	if s.tryLock() {
		defer s.mu.Unlock()
		s.flushRingLocked()
		_, _ = fmt.Fprintln(s.writer, line)
		return
	}
	s.enqueue(line)
}

// tryLock polls sync.Mutex.TryLock until lockTimeout elapses. Polling
// (rather than spawning a goroutine that blocks on Lock()) avoids
// leaking a goroutine that would acquire the mutex after we've already
// given up and queued the line elsewhere.
func (s *Sink) tryLock() bool {
	deadline := time.Now().Add(s.lockTimeout)
	for {
		if s.mu.TryLock() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
}

func (s *Sink) enqueue(line string) {
	s.ringMu.Lock()
	defer s.ringMu.Unlock()
	s.ring = append(s.ring, line)
	if len(s.ring) > ringSize {
		s.ring = s.ring[len(s.ring)-ringSize:]
	}
}

// flushRingLocked drains any ring-queued lines into the writer. Caller
// must hold s.mu.
func (s *Sink) flushRingLocked() {
	s.ringMu.Lock()
	pending := s.ring
	s.ring = nil
	s.ringMu.Unlock()
	for _, line := range pending {
		_, _ = fmt.Fprintln(s.writer, line)
	}
}

// Close flushes and closes the underlying writer.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushRingLocked()
	return s.writer.Close()
}
