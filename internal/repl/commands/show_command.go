package commands

import (
	"context"

	"github.com/giantswarm/contacts/internal/view"
)

// ShowCommand prints the detail card of one contact.
type ShowCommand struct {
	*BaseCommand
}

// NewShowCommand creates a new show command
func NewShowCommand(session SessionInterface, renderer *view.Renderer, output OutputLogger) *ShowCommand {
	return &ShowCommand{
		BaseCommand: NewBaseCommand(session, renderer, output),
	}
}

// Execute renders the detail card of the contact at the given position.
func (c *ShowCommand) Execute(ctx context.Context, args []string) error {
	parsed, err := c.parseArgs(args, 1, c.Usage())
	if err != nil {
		return err
	}
	e, err := c.contactAt(parsed[0])
	if err != nil {
		return err
	}
	return c.renderer.RenderDetail(c.output.Writer(), e)
}

// Usage returns the usage string
func (c *ShowCommand) Usage() string {
	return "show <position>"
}

// Description returns the command description
func (c *ShowCommand) Description() string {
	return "Show the detail card of a contact"
}

// Completions returns possible completions
func (c *ShowCommand) Completions(input string) []string {
	return c.positionCompletions()
}

// Aliases returns command aliases
func (c *ShowCommand) Aliases() []string {
	return []string{"detail"}
}
