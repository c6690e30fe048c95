package ui

import (
	"fmt"
	"strings"
)

// statusAggregates summarises counters shown in the status bar, adapted
// from the original tool's widgets/status.rs aggregate line (error
// count, warning count, note count, build state).
type statusAggregates struct {
	Errors, Warnings, Notes int
	Session                 string
	BuildRunning            bool
	BuildSuccess            bool
	BuildDone               bool
	Message                 string
}

func (a statusAggregates) render(width int) string {
	var left strings.Builder
	fmt.Fprintf(&left, " %d error", a.Errors)
	if a.Errors != 1 {
		left.WriteByte('s')
	}
	fmt.Fprintf(&left, ", %d warning", a.Warnings)
	if a.Warnings != 1 {
		left.WriteByte('s')
	}
	fmt.Fprintf(&left, ", %d note", a.Notes)
	if a.Notes != 1 {
		left.WriteByte('s')
	}

	state := "running"
	if a.BuildDone {
		if a.BuildSuccess {
			state = "finished ok"
		} else {
			state = "finished with errors"
		}
	}
	fmt.Fprintf(&left, "  |  %s: %s", a.Session, state)

	line := left.String()
	if a.Message != "" {
		line = line + "  |  " + a.Message
	}
	if len(line) < width {
		line += strings.Repeat(" ", width-len(line))
	}
	return statusBarStyle.Render(line)
}
