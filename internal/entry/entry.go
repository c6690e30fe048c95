// Package entry implements the Entry model: an immutable-after-preparation
// output line plus its attached tags (spec.md section 3, "Entry").
package entry

import (
	"time"

	"github.com/welschmorgan/nbuild/internal/tag"
)

// Origin identifies which stream an entry came from.
type Origin int

const (
	Stdout Origin = iota
	Stderr
	Stdin
)

func (o Origin) String() string {
	switch o {
	case Stdout:
		return "stdout"
	case Stderr:
		return "stderr"
	case Stdin:
		return "stdin"
	default:
		return "unknown"
	}
}

// Entry is one line of captured output with its metadata. A producer
// constructs an Entry with an empty tag set; the Preparer mutates it
// exactly once (attaching tags). After preparation it is treated as
// immutable -- callers must not mutate Tags directly once ID has been
// assigned a slot in a Store.
type Entry struct {
	ID        int
	CreatedAt time.Time
	Message   string
	Origin    Origin
	Tags      tag.Set
}

// New constructs an unprepared Entry. ID is assigned by the store that
// appends it (see Store.Append), not here.
func New(message string, origin Origin) Entry {
	return Entry{
		CreatedAt: time.Now(),
		Message:   message,
		Origin:    origin,
	}
}
