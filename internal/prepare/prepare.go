// Package prepare implements the Preparer: the component that turns raw
// entries delivered by a producer into classified, displayable entries
// and a navigable block index (spec.md section 4.3).
package prepare

import (
	"context"

	"golang.org/x/sync/errgroup"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/welschmorgan/nbuild/internal/block"
	"github.com/welschmorgan/nbuild/internal/debuglog"
	"github.com/welschmorgan/nbuild/internal/entry"
	"github.com/welschmorgan/nbuild/internal/event"
	"github.com/welschmorgan/nbuild/internal/rule"
	"github.com/welschmorgan/nbuild/internal/selection"
	"github.com/welschmorgan/nbuild/internal/tag"
	"github.com/welschmorgan/nbuild/internal/trace"
)

// Workers is the default chunk parallelism for classification, matching
// spec.md section 4.3's worker pool size.
const Workers = 5

// Preparer owns the append-only entry store and the rolling aggregates
// (error/warning/note entry ids) produced while draining a build.
type Preparer struct {
	Store   *entry.Store
	Rules   *rule.Store
	Debug   *debuglog.Sink
	Workers int
	Tracer  oteltrace.Tracer // nil disables span emission

	ErrorIDs   []int
	WarningIDs []int
	NoteIDs    []int

	index *block.Index
}

// NewPreparer wires a Preparer against an entry store and a rule store.
func NewPreparer(store *entry.Store, rules *rule.Store) *Preparer {
	return &Preparer{Store: store, Rules: rules, Workers: Workers, index: block.Build(nil)}
}

// Index returns the most recently built marker index.
func (p *Preparer) Index() *block.Index {
	return p.index
}

// Prepare drains ch.Entries without blocking, classifies every newly
// drained entry against the active rule, rebuilds the marker index, and
// auto-selects the first newly discovered error when sel has no prior
// selection (spec.md section 4.3 steps 1-8). It reports whether any work
// was done so the caller (normally the UI driver) can skip a redraw.
func (p *Preparer) Prepare(ctx context.Context, ch *event.Channels, sel *selection.Selection) (bool, error) {
	p.drain(ch)

	unprepared := p.Store.Unprepared()
	if len(unprepared) == 0 {
		return false, nil
	}

	var span oteltrace.Span
	if p.Tracer != nil {
		ctx, span = trace.StartPrepare(ctx, p.Tracer, len(unprepared))
	}

	active := p.Rules.Active()
	results, err := p.classifyParallel(ctx, active, unprepared)
	if span != nil {
		trace.End(span, err)
	}
	if err != nil {
		return false, err
	}

	baseID := unprepared[0].ID
	var newErrorIDs []int
	var newLocated []int
	for i, res := range results {
		entryID := baseID + i
		e := res.Entry
		e.ID = entryID
		p.Store.Set(entryID, e)
		p.Store.SetDisplayLine(entryID, res.DisplayLine)

		switch {
		case e.Tags.Has(tag.Error):
			p.ErrorIDs = append(p.ErrorIDs, entryID)
			newErrorIDs = append(newErrorIDs, entryID)
		case e.Tags.Has(tag.Warning):
			p.WarningIDs = append(p.WarningIDs, entryID)
		case e.Tags.Has(tag.Note):
			p.NoteIDs = append(p.NoteIDs, entryID)
		}
		if res.Location != nil {
			newLocated = append(newLocated, entryID)
		}
		if res.LocationErr != nil && p.Debug != nil {
			p.Debug.Writef("prepare: entry %d: %v", entryID, res.LocationErr)
		}
	}

	p.Store.AdvanceCursor(len(unprepared))
	p.index = block.FromEntries(p.Store.All())

	p.propagateLocations(newLocated)

	for _, id := range newErrorIDs {
		ch.Events <- event.NewErrorAt(id)
	}
	if sel != nil && !sel.Set && len(newErrorIDs) > 0 {
		if b, ok := p.index.RangeAt(newErrorIDs[0], p.Store.Len()); ok {
			*sel = selection.Select(p.index, b.MarkerID, nil)
		}
	}

	return true, nil
}

// drain pulls every batch currently buffered on ch.Entries without
// blocking; the producer keeps running concurrently and will simply
// block on a full channel until the next Prepare call drains it.
func (p *Preparer) drain(ch *event.Channels) {
	for {
		select {
		case batch := <-ch.Entries:
			p.Store.Append(batch)
		default:
			return
		}
	}
}

// classifyParallel splits unprepared into p.Workers contiguous chunks and
// classifies each chunk concurrently via errgroup, matching spec.md
// section 4.3's "spawn one worker per chunk ... join: await all
// workers". Chunks are contiguous slices of the append-only store so
// merging results back requires no reordering.
func (p *Preparer) classifyParallel(ctx context.Context, active rule.Rule, unprepared []entry.Entry) ([]classified, error) {
	workers := p.Workers
	if workers <= 0 {
		workers = Workers
	}
	if workers > len(unprepared) {
		workers = len(unprepared)
	}
	if workers == 0 {
		return nil, nil
	}

	chunkSize := (len(unprepared) + workers - 1) / workers
	chunks := make([][]entry.Entry, 0, workers)
	for start := 0; start < len(unprepared); start += chunkSize {
		end := start + chunkSize
		if end > len(unprepared) {
			end = len(unprepared)
		}
		chunks = append(chunks, unprepared[start:end])
	}

	results := make([][]classified, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			if p.Tracer != nil {
				_, span := trace.StartPrepareChunk(gctx, p.Tracer, i, len(chunk))
				defer trace.End(span, nil)
			}
			results[i] = classifyChunk(active, chunk)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	flat := make([]classified, 0, len(unprepared))
	for _, r := range results {
		flat = append(flat, r...)
	}
	return flat, nil
}

// propagateLocations attaches the Location tag already present on each
// entry in locatedIDs to every other entry in the same block, per
// spec.md section 4.3 step 6 ("post-process: for every entry that
// produced a parseable location, attach the same location tag to every
// entry in the block that contains it").
func (p *Preparer) propagateLocations(locatedIDs []int) {
	total := p.Store.Len()
	for _, id := range locatedIDs {
		src := p.Store.At(id)
		locTag, ok := src.Tags.Get(tag.Location)
		if !ok {
			continue
		}
		b, ok := p.index.RangeAt(id, total)
		if !ok {
			continue
		}
		for i := b.Start; i < b.End; i++ {
			if i == id {
				continue
			}
			e := p.Store.At(i)
			e.Tags.Put(locTag)
			p.Store.Set(i, e)
		}
	}
}
