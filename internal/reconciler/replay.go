package reconciler

import (
	"slices"
)

// Sequence orders replay ops for one-at-a-time application: refreshes first,
// then deletes by descending index, then inserts by ascending index. Applied
// in this order no op ever addresses a position shifted by an earlier one.
func Sequence(steps []ReplayOp) []ReplayOp {
	var refresh, deletes, inserts []ReplayOp
	for _, s := range steps {
		switch s.Kind {
		case ReplayRefresh:
			refresh = append(refresh, s)
		case ReplayDelete:
			deletes = append(deletes, s)
		case ReplayInsert:
			inserts = append(inserts, s)
		}
	}
	slices.SortStableFunc(deletes, func(a, b ReplayOp) int { return b.Index - a.Index })
	slices.SortStableFunc(inserts, func(a, b ReplayOp) int { return a.Index - b.Index })

	out := make([]ReplayOp, 0, len(steps))
	out = append(out, refresh...)
	out = append(out, deletes...)
	out = append(out, inserts...)
	return out
}

// ApplyTo replays steps onto a copy of c and returns the result. Ops that
// address a position outside the collection are skipped.
func ApplyTo(c Collection, steps []ReplayOp) Collection {
	out := c.Clone()
	for _, s := range Sequence(steps) {
		switch s.Kind {
		case ReplayRefresh:
			if inRange(s.Index, len(out)) && s.Entity != nil {
				out[s.Index] = *s.Entity
			}
		case ReplayDelete:
			if inRange(s.Index, len(out)) {
				out = slices.Delete(out, s.Index, s.Index+1)
			}
		case ReplayInsert:
			if s.Index >= 0 && s.Index <= len(out) && s.Entity != nil {
				out = slices.Insert(out, s.Index, *s.Entity)
			}
		}
	}
	return out
}

// Replay drives an Applier with the ops of one batch: a non-animated refresh
// pass followed by a single animated structural pass. Empty passes are not
// delivered.
func Replay(steps []ReplayOp, a Applier) {
	ordered := Sequence(steps)
	split := 0
	for split < len(ordered) && ordered[split].Kind == ReplayRefresh {
		split++
	}
	if split > 0 {
		a.ApplyRefresh(ordered[:split])
	}
	if split < len(ordered) {
		a.ApplyStructural(ordered[split:])
	}
}
