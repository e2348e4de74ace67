package commands

import (
	"context"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/giantswarm/contacts/internal/view"
)

// StatsCommand shows the reconciliation metrics of the session.
type StatsCommand struct {
	*BaseCommand
}

// NewStatsCommand creates a new stats command
func NewStatsCommand(session SessionInterface, renderer *view.Renderer, output OutputLogger) *StatsCommand {
	return &StatsCommand{
		BaseCommand: NewBaseCommand(session, renderer, output),
	}
}

// Execute prints per-kind counters and batch totals.
func (c *StatsCommand) Execute(ctx context.Context, args []string) error {
	summary := c.session.Metrics().GetSummary()
	if summary.TotalBatches == 0 {
		c.output.Info("No batches applied yet")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(c.output.Writer())
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"KIND", "APPLIED", "DROPPED"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	for _, k := range summary.PerKind {
		t.AppendRow(table.Row{k.Kind, k.Applied, k.Dropped})
	}
	t.AppendFooter(table.Row{"TOTAL", summary.TotalApplied, summary.TotalDropped})
	t.Render()

	c.output.OutputLine("%d batches, %d replay steps, drop rate %.1f%%",
		summary.TotalBatches, summary.TotalSteps, summary.DropRate*100)
	c.output.OutputLine("last batch %s (%d steps)", summary.LastBatchID, summary.LastBatchSteps)
	c.output.OutputLine("simulate changes: %s", enabledLabel(c.session.MutationEnabled()))
	return nil
}

func enabledLabel(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

// Usage returns the usage string
func (c *StatsCommand) Usage() string {
	return "stats"
}

// Description returns the command description
func (c *StatsCommand) Description() string {
	return "Show reconciliation statistics"
}

// Completions returns possible completions
func (c *StatsCommand) Completions(input string) []string {
	return []string{}
}

// Aliases returns command aliases
func (c *StatsCommand) Aliases() []string {
	return []string{"metrics"}
}

