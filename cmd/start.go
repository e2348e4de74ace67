package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/giantswarm/contacts/internal/app"
	"github.com/giantswarm/contacts/internal/reconciler"
	"github.com/giantswarm/contacts/internal/repl"
	"github.com/giantswarm/contacts/pkg/logging"
)

// startNoWatch disables mailbox watching even when the configuration enables it.
var startNoWatch bool

// startCmd opens the interactive shell.
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Open the interactive contacts shell",
	Long: `Loads the mailbox list, resolves every address and opens an interactive
shell to browse the contacts.

Inside the shell:
  list, grid, toggle  switch the layout and show the contacts
  simulate [n]        apply n random change batches
  show <i>, mail <i>  show a contact card or its mail link
  stats               show reconciliation statistics

When mailbox.watch is enabled in the configuration, edits to the mailbox file
are reconciled into the shell while it runs.`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg := newAppConfig()
	cfg.Interactive = true

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer logging.CloseREPLChannel()

	// Interrupt is left to readline, which turns ^C into a fresh prompt.
	ctx, cancel := signal.NotifyContext(commandContext(cmd), syscall.SIGTERM)
	defer cancel()

	session, err := application.Session(ctx)
	if err != nil {
		return err
	}

	services := application.Services()
	shell := repl.New(repl.Config{
		Session:  session,
		Renderer: services.Renderer,
		Disabled: app.ErrMutationDisabled,
		Logs:     application.LogChannel,
		Color:    !cfg.Silent,
	})

	mailboxCfg := application.ContactsConfig().Mailbox
	if mailboxCfg.Watch && !startNoWatch {
		stop, err := session.Watch(ctx, mailboxCfg.Path, mailboxCfg.Debounce, func(results []reconciler.Result) {
			inserted, deleted := 0, 0
			for _, res := range results {
				inserted += res.Inserted()
				deleted += res.Deleted()
			}
			logging.Info("Mailbox", "Reconciled mailbox edit: %d added, %d removed", inserted, deleted)
		})
		if err != nil {
			return fmt.Errorf("failed to watch mailbox list: %w", err)
		}
		// The watcher logs into the shell's channel, so it has to be gone
		// before the channel is closed.
		defer stop()
	}

	return shell.Run(ctx)
}

// commandContext returns the command's context, falling back to Background
// when the command is executed outside of ExecuteContext.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().BoolVar(&startNoWatch, "no-watch", false, "Do not reconcile edits of the mailbox file")
}
