package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/giantswarm/contacts/internal/app"
	"github.com/giantswarm/contacts/internal/config"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfig indicates the configuration could not be loaded or is invalid.
	ExitCodeConfig = 2
	// ExitCodeMailbox indicates the mailbox list file does not exist.
	ExitCodeMailbox = 3
)

// Flags shared by every subcommand.
var (
	rootDebug      bool
	rootSilent     bool
	rootConfigPath string
)

// rootCmd represents the base command for the contacts application.
var rootCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Browse and reconcile a contact list built from email addresses",
	Long: `contacts reads a list of email addresses, looks up a public profile for
each of them and shows the result as a list or a grid.

Changes to the list, whether simulated or made by editing the mailbox file,
are reconciled as batches: conflicting requests are dropped and the rest are
replayed onto the view in an order that never addresses a shifted position.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	var configErr config.ConfigurationError
	if errors.As(err, &configErr) {
		return ExitCodeConfig
	}

	var validationErrs config.ValidationErrors
	if errors.As(err, &validationErrs) {
		return ExitCodeConfig
	}

	if errors.Is(err, fs.ErrNotExist) {
		return ExitCodeMailbox
	}

	return ExitCodeError
}

// newAppConfig builds the application configuration from the global flags.
func newAppConfig() *app.Config {
	return app.NewConfig(rootDebug, rootSilent, rootConfigPath)
}

func init() {
	rootCmd.SetVersionTemplate(`{{printf "contacts version %s\n" .Version}}`)
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&rootSilent, "silent", false, "Suppress log output and progress indicators")
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config-path", "", "Configuration directory (default $HOME/.config/contacts)")
}
