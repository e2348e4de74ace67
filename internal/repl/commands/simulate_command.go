package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/giantswarm/contacts/internal/view"
)

// maxSimulateRounds bounds a single simulate invocation.
const maxSimulateRounds = 100

// SimulateCommand runs random mutation batches against the contacts.
type SimulateCommand struct {
	*BaseCommand
	disabled error
}

// NewSimulateCommand creates a new simulate command. disabled is the error
// the session reports once mutation is turned off; it is shown as a notice
// rather than a failure.
func NewSimulateCommand(session SessionInterface, renderer *view.Renderer, output OutputLogger, disabled error) *SimulateCommand {
	return &SimulateCommand{
		BaseCommand: NewBaseCommand(session, renderer, output),
		disabled:    disabled,
	}
}

// Execute runs the requested number of rounds and renders the result.
func (c *SimulateCommand) Execute(ctx context.Context, args []string) error {
	rounds := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > maxSimulateRounds {
			return fmt.Errorf("invalid round count %q: must be between 1 and %d", args[0], maxSimulateRounds)
		}
		rounds = n
	}

	results, err := c.session.Simulate(rounds)
	if err != nil {
		if c.disabled != nil && errors.Is(err, c.disabled) {
			c.output.Info("Simulate changes is disabled: fewer contacts than the configured minimum")
			return nil
		}
		return err
	}

	steps, dropped := 0, 0
	for _, res := range results {
		steps += len(res.Steps)
		for _, s := range res.Stats {
			dropped += s.Dropped
		}
	}
	c.render()
	c.output.Success("Applied %d batch(es): %d replay steps, %d requests dropped", len(results), steps, dropped)
	if !c.session.MutationEnabled() {
		c.output.Info("Too few contacts left, simulate changes is now disabled")
	}
	return nil
}

// Usage returns the usage string
func (c *SimulateCommand) Usage() string {
	return "simulate [rounds]"
}

// Description returns the command description
func (c *SimulateCommand) Description() string {
	return "Apply random inserts, deletes, moves, reloads and renames"
}

// Completions returns possible completions
func (c *SimulateCommand) Completions(input string) []string {
	return []string{"1", "5", "10"}
}

// Aliases returns command aliases
func (c *SimulateCommand) Aliases() []string {
	return []string{"sim"}
}
