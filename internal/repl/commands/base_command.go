package commands

import (
	"fmt"
	"strconv"

	"github.com/giantswarm/contacts/internal/reconciler"
	"github.com/giantswarm/contacts/internal/view"
)

// BaseCommand carries the dependencies shared by all commands.
type BaseCommand struct {
	session  SessionInterface
	renderer *view.Renderer
	output   OutputLogger
}

// NewBaseCommand creates a new base command with the specified dependencies.
func NewBaseCommand(session SessionInterface, renderer *view.Renderer, output OutputLogger) *BaseCommand {
	return &BaseCommand{
		session:  session,
		renderer: renderer,
		output:   output,
	}
}

// parseArgs checks that at least minArgs arguments were given.
func (b *BaseCommand) parseArgs(args []string, minArgs int, usage string) ([]string, error) {
	if len(args) < minArgs {
		return nil, fmt.Errorf("usage: %s", usage)
	}
	return args, nil
}

// contactAt parses a position argument and looks the contact up in the
// model.
func (b *BaseCommand) contactAt(arg string) (reconciler.Entity, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return reconciler.Entity{}, fmt.Errorf("invalid position %q: must be a number", arg)
	}
	e, ok := b.session.Model().At(i)
	if !ok {
		return reconciler.Entity{}, fmt.Errorf("no contact at position %d (have %d)", i, b.session.Model().Len())
	}
	return e, nil
}

// positionCompletions offers every current position.
func (b *BaseCommand) positionCompletions() []string {
	n := b.session.Model().Len()
	out := make([]string, n)
	for i := range n {
		out[i] = strconv.Itoa(i)
	}
	return out
}

// render draws the model in its current layout.
func (b *BaseCommand) render() {
	b.renderer.Render(b.output.Writer(), b.session.Model())
}
