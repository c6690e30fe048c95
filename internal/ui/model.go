// Package ui implements the UI Driver: the single-threaded cooperative
// loop that pumps the producer/preparer channels, dispatches key events
// to selection and search, and renders the live scrollable view
// (spec.md section 4.7). Built on bubbletea/lipgloss, grounded in the
// bubbletea Model/Update/View shape shown across _examples/other_examples/
// reference files (no teacher repo in the pack uses a TUI library).
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/welschmorgan/nbuild/internal/block"
	"github.com/welschmorgan/nbuild/internal/buildinfo"
	"github.com/welschmorgan/nbuild/internal/debuglog"
	"github.com/welschmorgan/nbuild/internal/entry"
	"github.com/welschmorgan/nbuild/internal/event"
	"github.com/welschmorgan/nbuild/internal/prepare"
	"github.com/welschmorgan/nbuild/internal/rule"
	"github.com/welschmorgan/nbuild/internal/search"
	"github.com/welschmorgan/nbuild/internal/selection"
	"github.com/welschmorgan/nbuild/internal/tag"
)

const tickInterval = 80 * time.Millisecond

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeHelp
)

type tickMsg time.Time

// Options configures a Model at construction.
type Options struct {
	OnlyErrors bool
}

// Model is the bubbletea model owning all UI-visible state. The entry
// sequence and marker index are never mutated here; only scrollOffset,
// selection, search/help state (spec.md section 4.7, "the handler
// mutates scroll offset, selection, and search state but never the
// entry sequence or marker index directly").
type Model struct {
	ctx      context.Context
	store    *entry.Store
	rules    *rule.Store
	preparer *prepare.Preparer
	channels *event.Channels
	debug    *debuglog.Sink

	idx *block.Index
	sel selection.Selection

	mode         mode
	onlyErrors   bool
	searchBuffer string
	statusMsg    string

	width, height int
	scrollOffset  int

	agg      statusAggregates
	quitSent bool
}

// New constructs the initial Model. ctx governs the lifetime of
// Preparer spans; it is not used to cancel the UI loop itself.
func New(ctx context.Context, store *entry.Store, rules *rule.Store, preparer *prepare.Preparer, channels *event.Channels, debug *debuglog.Sink, opts Options) Model {
	return Model{
		ctx:        ctx,
		store:      store,
		rules:      rules,
		preparer:   preparer,
		channels:   channels,
		debug:      debug,
		idx:        block.Build(nil),
		onlyErrors: opts.OnlyErrors,
		agg:        statusAggregates{Session: "nbuild"},
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		return m.onTick()

	case tea.KeyMsg:
		return m.onKey(msg)
	}
	return m, nil
}

func (m Model) onTick() (tea.Model, tea.Cmd) {
	_, err := m.preparer.Prepare(m.ctx, m.channels, &m.sel)
	if err != nil && m.debug != nil {
		m.debug.Writef("prepare failed: %v", err)
	}
	m.idx = m.preparer.Index()
	m.agg.Errors = len(m.preparer.ErrorIDs)
	m.agg.Warnings = len(m.preparer.WarningIDs)
	m.agg.Notes = len(m.preparer.NoteIDs)

	m.drainEvents()
	m.drainSearch()
	return m, tick()
}

func (m *Model) drainEvents() {
	for {
		select {
		case ev := <-m.channels.Events:
			switch ev.Kind {
			case event.Started:
				m.agg.Session = ev.Session
				m.agg.BuildRunning = true
				m.agg.BuildDone = false
			case event.Finished:
				m.agg.BuildRunning = false
				m.agg.BuildDone = true
				m.agg.BuildSuccess = ev.Success
			case event.ErrorAt:
				// Aggregate counters already reflect this via
				// preparer.ErrorIDs; nothing further to do here.
			case event.Status:
				m.statusMsg = ev.StatusText
			}
		default:
			return
		}
	}
}

func (m *Model) drainSearch() {
	for {
		select {
		case q := <-m.channels.Search:
			if res, ok := search.Find(m.store.All(), m.idx, q); ok {
				m.sel = res.Selection
				m.statusMsg = fmt.Sprintf("match for %q at entry %d", q, res.Selection.EntryID)
				m.ensureVisible(res.Selection.EntryID)
			} else {
				m.statusMsg = fmt.Sprintf("no match for %q", q)
			}
		default:
			return
		}
	}
}

func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeSearch {
		return m.onSearchKey(msg)
	}
	if m.mode == modeHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.mode = modeNormal
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, m.quit()
	case "?":
		m.mode = modeHelp
	case "/":
		m.mode = modeSearch
		m.searchBuffer = ""
	case "up", "k":
		m.scrollOffset = clampInt(m.scrollOffset-1, 0, m.maxScroll())
	case "down", "j":
		m.scrollOffset = clampInt(m.scrollOffset+1, 0, m.maxScroll())
	case "pgup":
		m.scrollOffset = clampInt(m.scrollOffset-m.bodyHeight(), 0, m.maxScroll())
	case "pgdown":
		m.scrollOffset = clampInt(m.scrollOffset+m.bodyHeight(), 0, m.maxScroll())
	case "g":
		m.scrollOffset = 0
	case "G":
		m.scrollOffset = m.maxScroll()
	case "tab":
		m.sel = selection.Next(m.idx, m.sel)
		m.ensureVisible(m.sel.EntryID)
	case "shift+tab":
		m.sel = selection.Previous(m.idx, m.sel)
		m.ensureVisible(m.sel.EntryID)
	case "e":
		if s, ok := selection.FindFirst(m.idx, m.idx.KindAt, tag.Error); ok {
			m.sel = s
			m.ensureVisible(s.EntryID)
		}
	case "w":
		if s, ok := selection.FindFirst(m.idx, m.idx.KindAt, tag.Warning); ok {
			m.sel = s
			m.ensureVisible(s.EntryID)
		}
	case "E":
		m.onlyErrors = !m.onlyErrors
	}
	return m, nil
}

func (m Model) onSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.searchBuffer = ""
	case "enter":
		m.mode = modeNormal
		if m.searchBuffer != "" {
			select {
			case m.channels.Search <- m.searchBuffer:
			default:
			}
		}
		m.searchBuffer = ""
	case "backspace":
		if len(m.searchBuffer) > 0 {
			m.searchBuffer = m.searchBuffer[:len(m.searchBuffer)-1]
		}
	default:
		if len(msg.String()) == 1 {
			m.searchBuffer += msg.String()
		}
	}
	return m, nil
}

// quit closes the shared quit channel exactly once and terminates the
// bubbletea program (spec.md section 4.7). The producers do not read the
// quit channel; they end with the process (main cancels the Builder's
// context when it returns).
func (m *Model) quit() tea.Cmd {
	if !m.quitSent {
		m.quitSent = true
		close(m.channels.Quit)
	}
	return tea.Quit
}

func (m Model) bodyHeight() int {
	h := m.height - 2 // status bar + header
	if h < 1 {
		return 1
	}
	return h
}

func (m Model) maxScroll() int {
	total := m.visibleCount()
	max := total - m.bodyHeight()
	if max < 0 {
		return 0
	}
	return max
}

func (m Model) visibleCount() int {
	n := 0
	total := m.store.Len()
	for i := 0; i < total; i++ {
		if m.isVisible(i) {
			n++
		}
	}
	return n
}

// isVisible applies the Hidden tag and, when onlyErrors is set, the
// display filter described in spec.md section 9's open question: it
// hides non-matching entries without renumbering ids.
func (m Model) isVisible(entryID int) bool {
	e := m.store.At(entryID)
	if e.Tags.Has(tag.Hidden) {
		return false
	}
	if !m.onlyErrors {
		return true
	}
	b, ok := m.idx.RangeAt(entryID, m.store.Len())
	return ok && b.Marker.Kind == tag.Error
}

// ensureVisible scrolls so entryID's position in the *filtered* view
// stays within a 4-line margin of the frame edges (spec.md section
// 4.7).
func (m *Model) ensureVisible(entryID int) {
	pos := 0
	found := false
	for i := 0; i <= entryID && i < m.store.Len(); i++ {
		if m.isVisible(i) {
			if i == entryID {
				found = true
				break
			}
			pos++
		}
	}
	if !found {
		return
	}
	const margin = 4
	h := m.bodyHeight()
	if pos < m.scrollOffset+margin {
		m.scrollOffset = pos - margin
	} else if pos > m.scrollOffset+h-1-margin {
		m.scrollOffset = pos - h + 1 + margin
	}
	m.scrollOffset = clampInt(m.scrollOffset, 0, m.maxScroll())
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (m Model) View() string {
	if m.mode == modeHelp {
		return renderHelp(m.width, m.height, buildinfo.Get().String())
	}

	var b strings.Builder
	b.WriteString(m.renderBody())
	b.WriteByte('\n')
	if m.mode == modeSearch {
		b.WriteString(searchStyle.Render("search: " + m.searchBuffer))
	} else {
		m.agg.Message = m.statusMsg
		b.WriteString(m.agg.render(m.width))
	}
	return b.String()
}

func (m Model) renderBody() string {
	h := m.bodyHeight()
	var lines []string
	shown := 0
	skipped := 0
	total := m.store.Len()
	for i := 0; i < total && len(lines) < h; i++ {
		if !m.isVisible(i) {
			continue
		}
		if skipped < m.scrollOffset {
			skipped++
			continue
		}
		lines = append(lines, m.renderLine(i))
		shown++
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderLine(entryID int) string {
	e := m.store.At(entryID)
	display := m.store.DisplayLine(entryID)

	prefix := "  "
	if m.sel.Set && m.sel.EntryID == entryID {
		prefix = "> "
	}

	if mk, ok := e.Tags.FirstMarker(); ok {
		declared, found := m.rules.Active().Marker(mk.Kind)
		if found {
			st := lipglossStyle(declared.Style)
			n := len(mk.Captured.Text)
			if n > len(display) {
				n = len(display)
			}
			return prefix + st.Render(display[:n]) + display[n:]
		}
	}
	if e.Tags.Has(tag.Location) {
		return prefix + dimStyle.Render(display)
	}
	return prefix + display
}
