package reconciler

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/giantswarm/contacts/pkg/logging"
)

// renameMarker is appended (or stripped) by the default rename.
const renameMarker = " *"

// phase groups requests that share an index namespace for de-duplication.
type phase int

const (
	phaseRefresh phase = iota
	phaseDelete
	phaseInsert
)

type dedupKey struct {
	phase phase
	index int
}

// indexSet is the first-seen-wins set of claimed (phase, index) keys.
type indexSet map[dedupKey]struct{}

// claim records all keys if none is already present. It is all-or-nothing so
// a move never holds its source without its destination.
func (s indexSet) claim(keys ...dedupKey) bool {
	for _, k := range keys {
		if _, ok := s[k]; ok {
			return false
		}
	}
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return true
}

type pendingDelete struct {
	order int
	index int
	move  *pendingInsert
}

type pendingInsert struct {
	order  int
	index  int
	from   int
	kind   MutationKind
	entity Entity
	valid  bool
}

func (o Options) withDefaults() Options {
	if o.MinimumEntities <= 0 {
		o.MinimumEntities = DefaultMinimumEntities
	}
	if o.RenameFunc == nil {
		o.RenameFunc = defaultRename
	}
	if o.ReloadFunc == nil {
		o.ReloadFunc = defaultReload
	}
	return o
}

func defaultRename(e Entity) string {
	if strings.HasSuffix(e.Name, renameMarker) {
		return strings.TrimSuffix(e.Name, renameMarker)
	}
	return e.Name + renameMarker
}

func defaultReload(e Entity) Entity {
	e.Active = !e.Active
	return e
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}

// Reconcile applies a batch of mutation requests to a snapshot of current and
// returns the reconciled collection together with the replay ops a
// presentation layer needs to follow along.
//
// current is never modified. Requests with invalid or duplicate indices are
// dropped silently and only show up in Result.Stats.
func Reconcile(current Collection, requests []MutationRequest, opts Options) Result {
	opts = opts.withDefaults()

	n := len(current)
	working := current.Clone()
	stats := make(map[MutationKind]KindStats, len(MutationKinds))
	drop := func(k MutationKind) {
		s := stats[k]
		s.Dropped++
		stats[k] = s
	}
	apply := func(k MutationKind) {
		s := stats[k]
		s.Applied++
		stats[k] = s
	}

	claimed := make(indexSet)
	var (
		refresh []ReplayOp
		deletes []*pendingDelete
		inserts []*pendingInsert
	)

	for order, req := range requests {
		switch req.Kind {
		case KindReload, KindRename:
			if !inRange(req.Index, n) || !claimed.claim(dedupKey{phaseRefresh, req.Index}) {
				drop(req.Kind)
				continue
			}
			e := working[req.Index]
			if req.Kind == KindRename {
				if req.Name != "" {
					e.Name = req.Name
				} else {
					e.Name = opts.RenameFunc(e)
				}
			} else {
				e = opts.ReloadFunc(e)
			}
			working[req.Index] = e
			refresh = append(refresh, ReplayOp{Kind: ReplayRefresh, Index: req.Index, Entity: &e})
			apply(req.Kind)

		case KindDelete:
			if !inRange(req.Index, n) || !claimed.claim(dedupKey{phaseDelete, req.Index}) {
				drop(req.Kind)
				continue
			}
			deletes = append(deletes, &pendingDelete{order: order, index: req.Index})

		case KindInsert:
			if req.Entity == nil || req.Index < 0 || req.Index > n ||
				!claimed.claim(dedupKey{phaseInsert, req.Index}) {
				drop(req.Kind)
				continue
			}
			inserts = append(inserts, &pendingInsert{
				order:  order,
				index:  req.Index,
				kind:   KindInsert,
				entity: *req.Entity,
			})

		case KindMove:
			if !inRange(req.Index, n) || !inRange(req.To, n) {
				drop(req.Kind)
				continue
			}
			if req.Index == req.To {
				apply(req.Kind)
				continue
			}
			if !claimed.claim(dedupKey{phaseDelete, req.Index}, dedupKey{phaseInsert, req.To}) {
				drop(req.Kind)
				continue
			}
			ins := &pendingInsert{order: order, index: req.To, from: req.Index, kind: KindMove}
			inserts = append(inserts, ins)
			deletes = append(deletes, &pendingDelete{order: order, index: req.Index, move: ins})

		default:
			drop(req.Kind)
		}
	}

	// Moves carry the entity as it stands after the refresh phase, addressed
	// by its pre-batch index.
	for _, ins := range inserts {
		if ins.kind == KindMove {
			ins.entity = working[ins.from]
		}
	}

	deletes = planInserts(n, deletes, inserts)

	slices.SortFunc(deletes, func(a, b *pendingDelete) int { return b.index - a.index })
	for _, d := range deletes {
		working = slices.Delete(working, d.index, d.index+1)
	}

	byIndex := slices.Clone(inserts)
	slices.SortStableFunc(byIndex, func(a, b *pendingInsert) int { return a.index - b.index })
	for _, ins := range byIndex {
		if !ins.valid {
			continue
		}
		working = slices.Insert(working, ins.index, ins.entity)
	}

	steps := refresh
	steps = append(steps, structuralSteps(deletes, inserts)...)

	for _, ins := range inserts {
		if ins.valid {
			apply(ins.kind)
		} else {
			drop(ins.kind)
		}
	}
	for _, d := range deletes {
		if d.move == nil {
			apply(KindDelete)
		}
	}

	res := Result{
		BatchID:         uuid.NewString(),
		Next:            working,
		Steps:           steps,
		MutationEnabled: len(working) >= opts.MinimumEntities,
		Stats:           stats,
	}

	logging.Debug("Reconciler", "Batch %s: %d requests, %d -> %d entities, %d steps (mutation enabled: %t)",
		res.BatchID, len(requests), n, len(working), len(steps), res.MutationEnabled)

	return res
}

// planInserts decides which inserts survive application. Inserts are applied
// in ascending index order after every delete, so an insert is valid only if
// its index does not exceed the working length at that point. A move whose
// destination falls out of range is cancelled as a whole, which frees its
// source slot and can make later inserts valid again, so planning repeats
// until nothing changes. The surviving deletes are returned.
func planInserts(n int, deletes []*pendingDelete, inserts []*pendingInsert) []*pendingDelete {
	ordered := slices.Clone(inserts)
	slices.SortStableFunc(ordered, func(a, b *pendingInsert) int { return a.index - b.index })

	cancelled := make(map[*pendingInsert]bool)
	for {
		length := n - (len(deletes) - len(cancelled))
		changed := false
		for _, ins := range ordered {
			if cancelled[ins] {
				ins.valid = false
				continue
			}
			ins.valid = ins.index <= length
			if ins.valid {
				length++
				continue
			}
			if ins.kind == KindMove {
				cancelled[ins] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	if len(cancelled) == 0 {
		return deletes
	}
	kept := deletes[:0:0]
	for _, d := range deletes {
		if d.move != nil && cancelled[d.move] {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

// structuralSteps emits delete and insert ops in request order.
func structuralSteps(deletes []*pendingDelete, inserts []*pendingInsert) []ReplayOp {
	type emitted struct {
		order int
		rank  int
		op    ReplayOp
	}
	var out []emitted
	for _, d := range deletes {
		out = append(out, emitted{order: d.order, rank: 0, op: ReplayOp{Kind: ReplayDelete, Index: d.index}})
	}
	for _, ins := range inserts {
		if !ins.valid {
			continue
		}
		e := ins.entity
		out = append(out, emitted{order: ins.order, rank: 1, op: ReplayOp{Kind: ReplayInsert, Index: ins.index, Entity: &e}})
	}
	slices.SortStableFunc(out, func(a, b emitted) int {
		if a.order != b.order {
			return a.order - b.order
		}
		return a.rank - b.rank
	})

	steps := make([]ReplayOp, len(out))
	for i, e := range out {
		steps[i] = e.op
	}
	return steps
}
