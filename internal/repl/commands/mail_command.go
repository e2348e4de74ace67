package commands

import (
	"context"

	"github.com/giantswarm/contacts/internal/view"
)

// MailCommand prints the mailto link of a contact for the system composer.
type MailCommand struct {
	*BaseCommand
}

// NewMailCommand creates a new mail command
func NewMailCommand(session SessionInterface, renderer *view.Renderer, output OutputLogger) *MailCommand {
	return &MailCommand{
		BaseCommand: NewBaseCommand(session, renderer, output),
	}
}

// Execute prints the mailto link.
func (c *MailCommand) Execute(ctx context.Context, args []string) error {
	parsed, err := c.parseArgs(args, 1, c.Usage())
	if err != nil {
		return err
	}
	e, err := c.contactAt(parsed[0])
	if err != nil {
		return err
	}
	c.output.OutputLine("%s", view.MailtoURL(e))
	return nil
}

// Usage returns the usage string
func (c *MailCommand) Usage() string {
	return "mail <position>"
}

// Description returns the command description
func (c *MailCommand) Description() string {
	return "Print the mailto link of a contact"
}

// Completions returns possible completions
func (c *MailCommand) Completions(input string) []string {
	return c.positionCompletions()
}

// Aliases returns command aliases
func (c *MailCommand) Aliases() []string {
	return []string{}
}
