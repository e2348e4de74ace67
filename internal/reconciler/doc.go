// Package reconciler keeps an ordered contact collection and its on-screen
// representation in sync while a batch of mutations is applied.
//
// # Overview
//
// A batch is a list of MutationRequest values (delete, insert, move, reload,
// rename) whose indices all refer to the collection as it was before the
// batch. Reconcile turns such a batch into:
//
//   - the next collection
//   - an ordered list of ReplayOp values for a presentation layer
//   - a flag telling the caller whether further mutation should be allowed
//
// # Phases
//
// Reload and rename requests are applied first. They change fields in place
// and are replayed as refresh ops without animation.
//
// Delete, insert and move requests form the structural phase. A move is a
// delete at its source plus an insert of the same entity at its destination.
// The data is mutated with all deletes in descending index order followed by
// all inserts in ascending index order.
//
// # Best effort
//
// Out-of-range and duplicate indices are not errors. They are dropped and
// counted in Result.Stats. Duplicates are resolved first-seen-wins per index
// within each phase, so a delete and an insert may share an index.
//
// # Replaying
//
// Replay feeds the ops to an Applier in two passes. ApplyTo is a reference
// applier over a Collection and is what tests use to check that replaying
// the steps reproduces Result.Next.
//
// Example usage:
//
//	res := reconciler.Reconcile(people, batch, reconciler.Options{})
//	reconciler.Replay(res.Steps, view)
//	people = res.Next
//	if !res.MutationEnabled {
//	    // disable "simulate changes"
//	}
package reconciler
