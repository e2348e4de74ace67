package mailbox

import (
	"slices"
	"strings"

	"github.com/giantswarm/contacts/internal/reconciler"
)

// Addition is an address that appears in the list but not in the collection.
// Index is its position in the collection once the change is complete.
type Addition struct {
	Email string
	Index int
}

// Change describes how a collection must change to follow an edited list.
type Change struct {
	// Removed holds collection indices whose address left the list.
	Removed []int

	// Added holds new addresses in ascending Index order.
	Added []Addition

	// base is the collection length the change was computed against.
	base int
}

// Empty reports whether the change is a no-op.
func (c Change) Empty() bool {
	return len(c.Removed) == 0 && len(c.Added) == 0
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Diff compares a collection with a freshly read list of addresses.
//
// Entities whose address is gone are removed. Entities that remain keep
// their current relative order, even when the list orders them differently.
// A new address is placed right after the nearest preceding list entry that
// is already in the collection, or first if there is none.
func Diff(current reconciler.Collection, emails []string) Change {
	listed := make(map[string]bool, len(emails))
	for _, e := range emails {
		listed[normalize(e)] = true
	}

	change := Change{base: len(current)}
	present := make(map[string]bool, len(current))
	var kept []string
	for i, e := range current {
		key := normalize(e.Email)
		if !listed[key] || present[key] {
			change.Removed = append(change.Removed, i)
			continue
		}
		present[key] = true
		kept = append(kept, key)
	}

	// Build the final order: kept addresses in collection order, with each
	// new address slotted behind its anchor.
	final := slices.Clone(kept)
	anchor := ""
	for _, e := range emails {
		key := normalize(e)
		if present[key] {
			anchor = key
			continue
		}
		pos := 0
		if anchor != "" {
			pos = slices.Index(final, anchor) + 1
		}
		final = slices.Insert(final, pos, key)
		present[key] = true
		anchor = key
		change.Added = append(change.Added, Addition{Email: key})
	}

	for i := range change.Added {
		change.Added[i].Index = slices.Index(final, change.Added[i].Email)
	}
	slices.SortFunc(change.Added, func(a, b Addition) int { return a.Index - b.Index })

	return change
}

// Batches turns the change into reconciler batches. The first batch carries
// every delete; inserts are split so that no batch inserts past the length
// the collection has when that batch starts. resolve supplies the entity
// for a new address.
func (c Change) Batches(resolve func(email string) reconciler.Entity) [][]reconciler.MutationRequest {
	var batches [][]reconciler.MutationRequest

	length := c.base
	if len(c.Removed) > 0 {
		batch := make([]reconciler.MutationRequest, 0, len(c.Removed))
		for _, i := range c.Removed {
			batch = append(batch, reconciler.DeleteAt(i))
		}
		batches = append(batches, batch)
		length -= len(c.Removed)
	}

	var batch []reconciler.MutationRequest
	start := length
	for _, a := range c.Added {
		if a.Index > start && len(batch) > 0 {
			batches = append(batches, batch)
			batch = nil
			start = length
		}
		batch = append(batch, reconciler.InsertAt(resolve(a.Email), a.Index))
		length++
	}
	if len(batch) > 0 {
		batches = append(batches, batch)
	}
	return batches
}
