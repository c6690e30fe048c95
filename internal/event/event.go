// Package event defines the typed, lossless, in-process messages passed
// between producers, the Preparer, and the UI driver (spec.md section 5).
package event

import "github.com/welschmorgan/nbuild/internal/entry"

// BuildEventKind discriminates BuildEvent variants.
type BuildEventKind int

const (
	// Started is emitted before a producer begins reading its stream.
	Started BuildEventKind = iota
	// Finished is emitted after a producer's reader(s) have joined.
	Finished
	// ErrorAt is emitted by the Preparer for each new error entry it
	// classifies (spec.md section 4.3 step 8, "BuildError(entry_id)").
	ErrorAt
	// Status carries a free-form, user-visible notification.
	Status
)

// BuildEvent is the single message type carried on the events channel
// (spec.md section 5). Only the fields relevant to Kind are meaningful.
type BuildEvent struct {
	Kind       BuildEventKind
	Session    string // human-readable build-session name, see produce.Builder
	Success    bool   // valid when Kind == Finished
	ExitCode   int    // valid when Kind == Finished
	EntryID    int    // valid when Kind == ErrorAt
	StatusText string // valid when Kind == Status
}

// NewStarted builds a Started event.
func NewStarted(session string) BuildEvent {
	return BuildEvent{Kind: Started, Session: session}
}

// NewFinished builds a Finished event.
func NewFinished(session string, success bool, exitCode int) BuildEvent {
	return BuildEvent{Kind: Finished, Session: session, Success: success, ExitCode: exitCode}
}

// NewErrorAt builds an ErrorAt event for the given entry id.
func NewErrorAt(entryID int) BuildEvent {
	return BuildEvent{Kind: ErrorAt, EntryID: entryID}
}

// NewStatus builds a Status event carrying a free-form message.
func NewStatus(text string) BuildEvent {
	return BuildEvent{Kind: Status, StatusText: text}
}

// Channels bundles the four typed channels spec.md section 5 names:
// entries (producer -> preparer), events (producer/preparer -> UI),
// search query (UI key handler -> UI search step) and quit (UI ->
// producers). Entries and Events are buffered channels of a fixed
// capacity, not unbounded queues: a send waits once the buffer is full
// until the UI drains it. Search holds one pending query and Quit is
// unbuffered (it is closed, not sent on).
type Channels struct {
	Entries chan []entry.Entry
	Events  chan BuildEvent
	Search  chan string
	Quit    chan struct{}
}

// NewChannels constructs a Channels with generous buffering. bufSize
// controls the entries/events channel capacity; 256 is a sane default
// for interactive builds producing at most a few thousand lines/sec.
func NewChannels(bufSize int) *Channels {
	return &Channels{
		Entries: make(chan []entry.Entry, bufSize),
		Events:  make(chan BuildEvent, bufSize),
		Search:  make(chan string, 1),
		Quit:    make(chan struct{}),
	}
}
