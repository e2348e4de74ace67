package view

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/giantswarm/contacts/internal/reconciler"
)

// OutputFormat selects how non-interactive commands print results.
type OutputFormat string

const (
	FormatTable OutputFormat = "table" // Rendered list or grid
	FormatJSON  OutputFormat = "json"  // Indented JSON
	FormatYAML  OutputFormat = "yaml"  // YAML
)

// ParseOutputFormat converts a format name, case-insensitively.
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (expected table, json or yaml)", name)
	}
}

// Snapshot is the serialisable form of what a model shows.
type Snapshot struct {
	Layout    Layout                `json:"layout" yaml:"layout"`
	Count     int                   `json:"count" yaml:"count"`
	Contacts  reconciler.Collection `json:"contacts" yaml:"contacts"`
	LastBatch *BatchSummary         `json:"lastBatch,omitempty" yaml:"lastBatch,omitempty"`
}

// SnapshotOf captures the model.
func SnapshotOf(m *Model) Snapshot {
	items := m.Items()
	if items == nil {
		items = reconciler.Collection{}
	}
	s := Snapshot{Layout: m.Layout(), Count: len(items), Contacts: items}
	if last := m.LastBatch(); last.BatchID != "" {
		s.LastBatch = &last
	}
	return s
}

// Encode writes v as JSON or YAML.
func Encode(w io.Writer, format OutputFormat, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q cannot be encoded", format)
	}
}
