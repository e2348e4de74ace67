package commands

import (
	"context"

	"github.com/giantswarm/contacts/internal/view"
)

// LayoutCommand shows the contacts, optionally switching layout first.
// The same type backs "list", "grid" and "toggle".
type LayoutCommand struct {
	*BaseCommand
	name    string
	layout  view.Layout // empty toggles
	aliases []string
}

// NewListCommand creates the command that shows contacts as a list.
func NewListCommand(session SessionInterface, renderer *view.Renderer, output OutputLogger) *LayoutCommand {
	return &LayoutCommand{BaseCommand: NewBaseCommand(session, renderer, output), name: "list", layout: view.LayoutList, aliases: []string{"ls"}}
}

// NewGridCommand creates the command that shows contacts as a grid.
func NewGridCommand(session SessionInterface, renderer *view.Renderer, output OutputLogger) *LayoutCommand {
	return &LayoutCommand{BaseCommand: NewBaseCommand(session, renderer, output), name: "grid", layout: view.LayoutGrid}
}

// NewToggleCommand creates the command that flips between list and grid.
func NewToggleCommand(session SessionInterface, renderer *view.Renderer, output OutputLogger) *LayoutCommand {
	return &LayoutCommand{BaseCommand: NewBaseCommand(session, renderer, output), name: "toggle", aliases: []string{"t"}}
}

// Execute switches the layout and renders the contacts.
func (c *LayoutCommand) Execute(ctx context.Context, args []string) error {
	model := c.session.Model()
	if c.layout == "" {
		model.ToggleLayout()
	} else {
		model.SetLayout(c.layout)
	}
	c.render()
	return nil
}

// Usage returns the usage string
func (c *LayoutCommand) Usage() string {
	return c.name
}

// Description returns the command description
func (c *LayoutCommand) Description() string {
	switch c.layout {
	case view.LayoutList:
		return "Show contacts as a list"
	case view.LayoutGrid:
		return "Show contacts as a grid"
	default:
		return "Switch between list and grid layout"
	}
}

// Completions returns possible completions
func (c *LayoutCommand) Completions(input string) []string {
	return []string{}
}

// Aliases returns command aliases
func (c *LayoutCommand) Aliases() []string {
	return c.aliases
}
