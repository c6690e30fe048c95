package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/welschmorgan/nbuild/internal/debuglog"
	"github.com/welschmorgan/nbuild/internal/entry"
	"github.com/welschmorgan/nbuild/internal/event"
	"github.com/welschmorgan/nbuild/internal/prepare"
	"github.com/welschmorgan/nbuild/internal/rule"
)

// Result summarizes how the UI loop ended, letting the caller choose an
// exit code without the UI package itself deciding that a failed build
// is a program error -- spec.md section 7 treats a failed build as a
// normal, still-navigable outcome, not a UI-level failure.
type Result struct {
	BuildDone    bool
	BuildSuccess bool
}

// Run builds the initial Model and drives it to completion. A panic
// during rendering is recovered just long enough to release the
// terminal (restore cooked mode, disable mouse capture) before being
// re-raised, per spec.md section 7's panic hook requirement. Only a
// genuine UI-level I/O failure during rendering is returned as an
// error; a completed (even failed) build is reported via Result.
func Run(ctx context.Context, store *entry.Store, rules *rule.Store, preparer *prepare.Preparer, channels *event.Channels, debug *debuglog.Sink, opts Options) (Result, error) {
	model := New(ctx, store, rules, preparer, channels, debug, opts)
	program := tea.NewProgram(model, tea.WithAltScreen())

	defer func() {
		if r := recover(); r != nil {
			program.ReleaseTerminal()
			panic(r)
		}
	}()

	finalModel, runErr := program.Run()
	if runErr != nil {
		return Result{}, fmt.Errorf("ui: %w", runErr)
	}
	m, _ := finalModel.(Model)
	return Result{BuildDone: m.agg.BuildDone, BuildSuccess: m.agg.BuildSuccess}, nil
}
