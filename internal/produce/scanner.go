package produce

import (
	"bufio"
	"bytes"
	"io"

	"github.com/welschmorgan/nbuild/internal/debuglog"
	"github.com/welschmorgan/nbuild/internal/entry"
	"github.com/welschmorgan/nbuild/internal/event"
)

// Scanner reads lines from a read-side stream (normally process stdin)
// and emits them as entries tagged entry.Stdin. Strips embedded NUL
// bytes before constructing entries (spec.md section 4.2).
type Scanner struct {
	Reader io.Reader
	Debug  *debuglog.Sink
}

// Run emits BuildStarted immediately, scans Reader line by line, and
// emits BuildFinished(success) on end-of-stream (spec.md section 4.2).
func (s *Scanner) Run(ch *event.Channels) {
	session := nameGen.Generate()
	ch.Events <- event.NewStarted(session)

	sc := bufio.NewScanner(s.Reader)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := bytes.ReplaceAll(sc.Bytes(), []byte{0}, nil)
		ch.Entries <- []entry.Entry{entry.New(string(line), entry.Stdin)}
	}

	success := sc.Err() == nil
	if !success && s.Debug != nil {
		s.Debug.Writef("produce.Scanner: stream ended with error: %v", sc.Err())
	}
	ch.Events <- event.NewFinished(session, success, 0)
}
