// Package logging provides the subsystem logger used across contacts.
//
// The logger is built on Go's standard slog package. Every entry carries a
// subsystem name so that output can be filtered by component.
//
// # Log Levels
//   - Debug: per-batch reconciliation details, HTTP attempts
//   - Info: startup, configuration, file reloads
//   - Warn: placeholder substitutions, disabled mutation
//   - Error: failures that abort an operation
//
// # Modes
//
// CLI mode writes text lines to an io.Writer:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//	logging.Info("Bootstrap", "Loaded %d contacts", n)
//	logging.Error("Profile", err, "Failed to resolve %s", email)
//
// REPL mode delivers entries on a buffered channel instead, so the
// interactive shell can print them between prompts without corrupting the
// line being edited:
//
//	entries := logging.InitForREPL(logging.LevelInfo)
//	go func() {
//	    for e := range entries {
//	        fmt.Fprintln(rl.Stderr(), e)
//	    }
//	}()
//	defer logging.CloseREPLChannel()
//
// # Subsystems
//
//   - Bootstrap: application start and initial load
//   - Config: configuration loading and validation
//   - Profile: Gravatar lookups
//   - Mailbox: list file loading and watching
//   - Reconciler, ReconcilerMetrics: batch reconciliation
//   - Session: simulate changes and file reloads
//   - REPL: interactive shell
package logging
