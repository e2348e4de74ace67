// Package commands provides the commands of the interactive contacts shell.
//
// Every command implements the Command interface and is looked up through a
// Registry by name or alias. Commands are responsible for their own argument
// parsing, execution, and completion logic.
package commands

import (
	"context"
	"io"
	"sort"

	"github.com/giantswarm/contacts/internal/reconciler"
	"github.com/giantswarm/contacts/internal/view"
)

// Command represents a shell command that can be executed interactively.
type Command interface {
	// Execute runs the command with the given arguments
	Execute(ctx context.Context, args []string) error

	// Usage returns the usage string for the command
	Usage() string

	// Description returns a brief description of what the command does
	Description() string

	// Completions returns possible completions for the command
	// The input parameter is the current partial input for context
	Completions(input string) []string

	// Aliases returns alternative names for this command
	Aliases() []string
}

// SessionInterface is what commands need from the contacts session.
type SessionInterface interface {
	Model() *view.Model
	Simulate(rounds int) ([]reconciler.Result, error)
	MutationEnabled() bool
	Metrics() *reconciler.Metrics
}

// OutputLogger separates user-facing output from system logging.
type OutputLogger interface {
	// Writer is where rendered tables and cards go.
	Writer() io.Writer

	Output(format string, args ...interface{})     // For command results
	OutputLine(format string, args ...interface{}) // Same as Output but with newline
	Info(format string, args ...interface{})       // Status messages
	Error(format string, args ...interface{})      // Error messages
	Success(format string, args ...interface{})    // Success messages
}

// Registry manages available commands for the shell.
type Registry struct {
	commands map[string]Command
	aliases  map[string]string // alias -> primary command name
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
		aliases:  make(map[string]string),
	}
}

// Register adds a command to the registry.
func (r *Registry) Register(name string, cmd Command) {
	r.commands[name] = cmd

	for _, alias := range cmd.Aliases() {
		r.aliases[alias] = name
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) (Command, bool) {
	if cmd, exists := r.commands[name]; exists {
		return cmd, true
	}

	if primary, exists := r.aliases[name]; exists {
		if cmd, exists := r.commands[primary]; exists {
			return cmd, true
		}
	}

	return nil, false
}

// List returns all registered command names in alphabetical order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllCompletions returns all command names and aliases, sorted.
func (r *Registry) AllCompletions() []string {
	completions := r.List()
	for alias := range r.aliases {
		completions = append(completions, alias)
	}
	sort.Strings(completions)
	return completions
}
