// Package view is the presentation layer of the contact list.
//
// A Model follows the collection by consuming replay ops from the reconciler
// and never mutates the contacts on its own. A Renderer draws the model as a
// list table or a grid of tiles, and renders the detail card of a single
// contact.
package view

import (
	"fmt"
	"strings"
)

// Layout selects how the collection is drawn.
type Layout string

const (
	// LayoutList draws one contact per row.
	LayoutList Layout = "list"

	// LayoutGrid draws contacts as tiles.
	LayoutGrid Layout = "grid"
)

// ParseLayout converts a layout name, case-insensitively.
func ParseLayout(name string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(name))) {
	case LayoutList, "":
		return LayoutList, nil
	case LayoutGrid:
		return LayoutGrid, nil
	default:
		return "", fmt.Errorf("unknown layout %q (expected %s or %s)", name, LayoutList, LayoutGrid)
	}
}

// Toggle returns the other layout.
func (l Layout) Toggle() Layout {
	if l == LayoutGrid {
		return LayoutList
	}
	return LayoutGrid
}
