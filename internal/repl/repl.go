// Package repl is the interactive contacts shell.
//
// The shell reads commands with readline (history, tab completion) and
// dispatches them through a command registry. Log entries produced while the
// shell runs arrive on a channel and are printed above the prompt, so
// background work such as mailbox reloads never garbles the input line.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/giantswarm/contacts/internal/repl/commands"
	"github.com/giantswarm/contacts/internal/view"
	"github.com/giantswarm/contacts/pkg/logging"
)

// commandExecutionTimeout bounds a single command.
const commandExecutionTimeout = time.Minute

const historyFileName = ".contacts_history"

// Config wires a REPL.
type Config struct {
	Session  commands.SessionInterface
	Renderer *view.Renderer

	// Disabled is the error the session returns once simulation is off.
	Disabled error

	// Logs, if set, is drained while the shell runs.
	Logs <-chan logging.LogEntry

	// Output defaults to os.Stdout until readline takes over.
	Output io.Writer

	// Color enables ANSI colours in status messages.
	Color bool
}

// REPL is the interactive shell.
type REPL struct {
	session  commands.SessionInterface
	renderer *view.Renderer
	logs     <-chan logging.LogEntry
	registry *commands.Registry
	printer  *printer
	rl       *readline.Instance

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a shell with every command registered.
func New(cfg Config) *REPL {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	r := &REPL{
		session:  cfg.Session,
		renderer: cfg.Renderer,
		logs:     cfg.Logs,
		registry: commands.NewRegistry(),
		printer:  &printer{w: out, color: cfg.Color},
		stopChan: make(chan struct{}),
	}
	r.registerCommands(cfg.Disabled)
	return r
}

func (r *REPL) registerCommands(disabled error) {
	s, rd, p := r.session, r.renderer, r.printer
	r.registry.Register("help", commands.NewHelpCommand(s, rd, p, r.registry))
	r.registry.Register("list", commands.NewListCommand(s, rd, p))
	r.registry.Register("grid", commands.NewGridCommand(s, rd, p))
	r.registry.Register("toggle", commands.NewToggleCommand(s, rd, p))
	r.registry.Register("simulate", commands.NewSimulateCommand(s, rd, p, disabled))
	r.registry.Register("show", commands.NewShowCommand(s, rd, p))
	r.registry.Register("mail", commands.NewMailCommand(s, rd, p))
	r.registry.Register("stats", commands.NewStatsCommand(s, rd, p))
	r.registry.Register("exit", commands.NewExitCommand(s, rd, p))
}

// Registry exposes the command registry.
func (r *REPL) Registry() *commands.Registry {
	return r.registry
}

// executeCommand parses input and runs the matching command.
func (r *REPL) executeCommand(ctx context.Context, input string) error {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	commandName := strings.ToLower(parts[0])
	command, exists := r.registry.Get(commandName)
	if !exists {
		return fmt.Errorf("unknown command: %s. Type 'help' for available commands", parts[0])
	}

	commandCtx, cancel := context.WithTimeout(ctx, commandExecutionTimeout)
	defer cancel()
	return command.Execute(commandCtx, parts[1:])
}

// createCompleter builds tab completion from the registry. Position
// arguments are computed when TAB is pressed so they follow the collection.
func (r *REPL) createCompleter() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, name := range r.registry.AllCompletions() {
		command, _ := r.registry.Get(name)
		items = append(items, readline.PcItem(name,
			readline.PcItemDynamic(func(string) []string {
				return command.Completions("")
			}),
		))
	}
	return readline.NewPrefixCompleter(items...)
}

// Run reads and executes commands until exit, EOF or ctx cancellation.
func (r *REPL) Run(ctx context.Context) error {
	config := &readline.Config{
		Prompt:          r.prompt(),
		HistoryFile:     filepath.Join(os.TempDir(), historyFileName),
		AutoComplete:    r.createCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	}

	rl, err := readline.NewEx(config)
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer rl.Close()
	r.rl = rl
	r.printer.setWriter(rl.Stdout())

	if r.logs != nil {
		r.wg.Add(1)
		go r.logListener(ctx)
	}
	defer r.stop()

	r.printer.Info("Contacts shell started. Type 'help' for available commands. Use TAB for completion.")
	r.renderer.Render(r.printer.Writer(), r.session.Model())

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		} else if errors.Is(err, io.EOF) {
			r.printer.Info("Goodbye!")
			return nil
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if err := r.executeCommand(ctx, input); err != nil {
			if errors.Is(err, commands.ErrExit) {
				r.printer.Info("Goodbye!")
				return nil
			}
			r.printer.Error("Error: %v", err)
		}
		rl.SetPrompt(r.prompt())
	}
}

func (r *REPL) stop() {
	close(r.stopChan)
	r.wg.Wait()
}

// logListener prints log entries above the prompt.
func (r *REPL) logListener(ctx context.Context) {
	defer r.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopChan:
			return
		case entry, ok := <-r.logs:
			if !ok {
				return
			}
			if r.rl != nil {
				_, _ = r.rl.Stdout().Write([]byte("\r\033[K"))
			}
			r.printer.OutputLine("%s", r.printer.paint(levelColor(entry.Level), entry.String()))
			if r.rl != nil {
				r.rl.Refresh()
			}
		}
	}
}

// prompt shows the contact count and whether simulation is still possible.
func (r *REPL) prompt() string {
	marker := ""
	if !r.session.MutationEnabled() {
		marker = " [frozen]"
	}
	return fmt.Sprintf("contacts (%d)%s » ", r.session.Model().Len(), marker)
}

func levelColor(level logging.LogLevel) text.Color {
	switch level {
	case logging.LevelError:
		return text.FgRed
	case logging.LevelWarn:
		return text.FgYellow
	case logging.LevelDebug:
		return text.FgHiBlack
	default:
		return text.FgCyan
	}
}

// filterInput blocks Ctrl+Z, which would suspend the shell mid-line.
func filterInput(r rune) (rune, bool) {
	switch r {
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}
