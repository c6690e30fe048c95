// Package produce implements the two Producer variants: Builder (spawns
// a child process and streams its two byte streams line-by-line) and
// Scanner (streams lines from a read-side stream), per spec.md section
// 4.2. Both emit batches into the same entries channel and lifecycle
// events into the events channel.
package produce

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/goombaio/namegenerator"

	"github.com/welschmorgan/nbuild/internal/debuglog"
	"github.com/welschmorgan/nbuild/internal/entry"
	"github.com/welschmorgan/nbuild/internal/event"
)

// Builder spawns the active rule's command (plus user-supplied extra
// arguments) as a child process with piped stdout and stderr. Two
// reader goroutines read line-by-line; each constructs an Entry tagged
// with its Origin and sends a one-element batch on the entries channel.
// Grounded in the teacher's streaming-by-goroutine pattern
// (_examples/banksean-sand/cmd/slogtail/slogtail.go's pipe + bufio
// reader goroutine, adapted here to two independent streams instead of
// one).
type Builder struct {
	Command string   // shell command line, e.g. "cargo build"
	Args    []string // extra arguments forwarded after the command
	Debug   *debuglog.Sink
}

var nameGen = namegenerator.NewNameGenerator(time.Now().UTC().UnixNano())

// Run spawns the command and streams its output until the process exits
// or ctx is canceled. It emits BuildStarted before reading begins and
// BuildFinished after both reader goroutines have joined and the child
// has exited (spec.md section 4.2). If spawning fails, a synthetic
// failed BuildFinished is emitted and no reader goroutines start
// (spec.md section 4.2, "Partial failures are recoverable").
func (b *Builder) Run(ctx context.Context, ch *event.Channels) {
	session := nameGen.Generate()
	ch.Events <- event.NewStarted(session)

	cmd := exec.CommandContext(ctx, "sh", "-c", b.Command+" "+joinArgs(b.Args))
	stdout, errOut := cmd.StdoutPipe()
	stderr, errErr := cmd.StderrPipe()
	if errOut != nil || errErr != nil {
		b.log("failed to create pipes for %q: stdout=%v stderr=%v", b.Command, errOut, errErr)
		ch.Events <- event.NewFinished(session, false, -1)
		return
	}

	if err := cmd.Start(); err != nil {
		b.log("failed to spawn %q: %v", b.Command, err)
		ch.Events <- event.NewFinished(session, false, -1)
		return
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go b.stream(stdout, entry.Stdout, ch, &wg)
	go b.stream(stderr, entry.Stderr, ch, &wg)
	wg.Wait()

	err := cmd.Wait()
	success := err == nil
	exitCode := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	} else if err != nil {
		exitCode = -1
	}
	ch.Events <- event.NewFinished(session, success, exitCode)
}

func (b *Builder) stream(r io.Reader, origin entry.Origin, ch *event.Channels, wg *sync.WaitGroup) {
	defer wg.Done()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if !utf8.ValidString(line) {
			b.log("dropping non-utf8 line from %s", origin)
			continue
		}
		ch.Entries <- []entry.Entry{entry.New(line, origin)}
	}
	if err := sc.Err(); err != nil {
		b.log("reader for %s stopped: %v", origin, err)
	}
}

func (b *Builder) log(format string, args ...any) {
	if b.Debug != nil {
		b.Debug.Writef("produce.Builder: "+format, args...)
	}
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += " "
		}
		out += a
	}
	return out
}
