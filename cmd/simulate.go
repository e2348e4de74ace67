package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/giantswarm/contacts/internal/app"
	"github.com/giantswarm/contacts/internal/reconciler"
	"github.com/giantswarm/contacts/internal/view"
)

var (
	simulateRounds       int
	simulateSeed         uint64
	simulateOutputFormat string
)

// simulateCmd runs random change batches and prints what they replay.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Apply random change batches and print the replay steps",
	Long: `Loads the contacts, applies --rounds random batches of inserts, deletes,
moves, reloads and renames, and prints the replay steps of each batch
followed by the resulting contacts.

A fixed --seed makes the run reproducible. Simulation stops early once fewer
contacts remain than simulate.minimumEntities.

Examples:
  contacts simulate --rounds 5 --seed 42
  contacts simulate -o yaml`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func runSimulate(cmd *cobra.Command, args []string) error {
	if simulateRounds < 1 {
		return fmt.Errorf("--rounds must be at least 1, got %d", simulateRounds)
	}
	format, err := view.ParseOutputFormat(simulateOutputFormat)
	if err != nil {
		return err
	}

	cfg := newAppConfig()
	cfg.Seed = simulateSeed
	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	session, err := application.Session(commandContext(cmd))
	if err != nil {
		return err
	}

	results, err := session.Simulate(simulateRounds)
	if err != nil && !errors.Is(err, app.ErrMutationDisabled) {
		return err
	}

	out := cmd.OutOrStdout()
	if format != view.FormatTable {
		return view.Encode(out, format, simulationReport{
			Batches: results,
			Final:   view.SnapshotOf(session.Model()),
		})
	}

	if len(results) == 0 {
		fmt.Fprintln(out, "Simulate changes is disabled: too few contacts")
	}
	for _, res := range results {
		printBatch(out, res)
	}
	application.Services().Renderer.Render(out, session.Model())
	return nil
}

// simulationReport is the structured output of the simulate command.
type simulationReport struct {
	Batches []reconciler.Result `json:"batches" yaml:"batches"`
	Final   view.Snapshot       `json:"final" yaml:"final"`
}

// printBatch writes the replay steps of one batch in application order.
func printBatch(w io.Writer, res reconciler.Result) {
	fmt.Fprintf(w, "Batch %s: %d refreshed, %d deleted, %d inserted\n",
		res.BatchID, res.Refreshed(), res.Deleted(), res.Inserted())
	if len(res.Steps) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"STEP", "OP", "INDEX", "CONTACT"})
	for i, s := range reconciler.Sequence(res.Steps) {
		contact := ""
		if s.Entity != nil {
			contact = fmt.Sprintf("%s <%s>", s.Entity.Name, s.Entity.Email)
		}
		t.AppendRow(table.Row{i + 1, s.Kind, s.Index, contact})
	}
	t.Render()
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().IntVar(&simulateRounds, "rounds", 1, "Number of batches to apply")
	simulateCmd.Flags().Uint64Var(&simulateSeed, "seed", 0, "Random seed; 0 uses simulate.seed from the configuration")
	simulateCmd.Flags().StringVarP(&simulateOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")

	_ = simulateCmd.RegisterFlagCompletionFunc("output", outputFormatCompletion)
}
