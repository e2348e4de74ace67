package view

import (
	"slices"
	"sync"

	"github.com/giantswarm/contacts/internal/reconciler"
)

// BatchSummary describes the last batch the model replayed.
type BatchSummary struct {
	BatchID string `json:"batchId" yaml:"batchId"`

	// Animated counts structural ops (deletes and inserts).
	Animated int `json:"animated" yaml:"animated"`

	// Refreshed counts in-place refresh ops.
	Refreshed int `json:"refreshed" yaml:"refreshed"`

	// Skipped counts ops that addressed a position the model does not have.
	Skipped int `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Model is the visual copy of the collection. It changes only through
// replay ops, which makes it a check that the ops alone reproduce the
// reconciled collection.
type Model struct {
	mu sync.RWMutex

	items   reconciler.Collection
	layout  Layout
	last    BatchSummary
	touched map[string]bool
}

// NewModel creates a model showing items.
func NewModel(items reconciler.Collection, layout Layout) *Model {
	if layout == "" {
		layout = LayoutList
	}
	return &Model{
		items:   items.Clone(),
		layout:  layout,
		touched: map[string]bool{},
	}
}

// Apply replays one reconciled batch: refreshes first without animation,
// then every structural op as a single animated pass.
func (m *Model) Apply(res reconciler.Result) {
	m.mu.Lock()
	m.last = BatchSummary{BatchID: res.BatchID}
	m.touched = map[string]bool{}
	m.mu.Unlock()

	reconciler.Replay(res.Steps, m)
}

// ApplyRefresh implements reconciler.Applier.
func (m *Model) ApplyRefresh(ops []reconciler.ReplayOp) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, op := range ops {
		if op.Index < 0 || op.Index >= len(m.items) || op.Entity == nil {
			m.last.Skipped++
			continue
		}
		m.items[op.Index] = *op.Entity
		m.touched[op.Entity.ID] = true
		m.last.Refreshed++
	}
}

// ApplyStructural implements reconciler.Applier. ops arrive with deletes in
// descending and inserts in ascending order.
func (m *Model) ApplyStructural(ops []reconciler.ReplayOp) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, op := range ops {
		switch op.Kind {
		case reconciler.ReplayDelete:
			if op.Index < 0 || op.Index >= len(m.items) {
				m.last.Skipped++
				continue
			}
			m.items = slices.Delete(m.items, op.Index, op.Index+1)
		case reconciler.ReplayInsert:
			if op.Index < 0 || op.Index > len(m.items) || op.Entity == nil {
				m.last.Skipped++
				continue
			}
			m.items = slices.Insert(m.items, op.Index, *op.Entity)
			m.touched[op.Entity.ID] = true
		default:
			m.last.Skipped++
			continue
		}
		m.last.Animated++
	}
}

// Items returns a copy of what the model currently shows.
func (m *Model) Items() reconciler.Collection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.items.Clone()
}

// Len returns the number of contacts shown.
func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// At returns the contact at position i.
func (m *Model) At(i int) (reconciler.Entity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i < 0 || i >= len(m.items) {
		return reconciler.Entity{}, false
	}
	return m.items[i], true
}

// Touched reports whether the contact was inserted or refreshed by the last
// batch.
func (m *Model) Touched(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.touched[id]
}

// LastBatch returns the summary of the last replayed batch.
func (m *Model) LastBatch() BatchSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}

// Layout returns the current layout.
func (m *Model) Layout() Layout {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.layout
}

// SetLayout switches the layout.
func (m *Model) SetLayout(l Layout) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layout = l
}

// ToggleLayout flips between list and grid and returns the new layout.
func (m *Model) ToggleLayout() Layout {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layout = m.layout.Toggle()
	return m.layout
}
