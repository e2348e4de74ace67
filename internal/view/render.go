package view

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/giantswarm/contacts/internal/reconciler"
	pkgstrings "github.com/giantswarm/contacts/pkg/strings"
)

const (
	// DefaultGridColumns is used when no column count is configured.
	DefaultGridColumns = 3

	// gridNameWidth is the width names are cut to inside a tile.
	gridNameWidth = 14

	onlineDot  = "●"
	offlineDot = "○"
)

// RendererConfig configures a Renderer.
type RendererConfig struct {
	GridColumns    int
	DetailTemplate string
	Color          bool
}

// Renderer draws contacts for a terminal.
type Renderer struct {
	columns int
	detail  *template.Template
	color   bool
}

// NewRenderer creates a renderer. The detail template is parsed with the
// sprig function map.
func NewRenderer(cfg RendererConfig) (*Renderer, error) {
	if cfg.GridColumns <= 0 {
		cfg.GridColumns = DefaultGridColumns
	}
	tmpl, err := template.New("detail").Funcs(sprig.TxtFuncMap()).Parse(cfg.DetailTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse detail template: %w", err)
	}
	return &Renderer{columns: cfg.GridColumns, detail: tmpl, color: cfg.Color}, nil
}

// Render draws the model in its current layout followed by a summary line.
func (r *Renderer) Render(w io.Writer, m *Model) {
	items := m.Items()
	if m.Layout() == LayoutGrid {
		r.RenderGrid(w, items, m.Touched)
	} else {
		r.RenderList(w, items, m.Touched)
	}

	last := m.LastBatch()
	summary := fmt.Sprintf("%d contacts", len(items))
	if last.BatchID != "" {
		summary += fmt.Sprintf(" · last batch: %d animated, %d refreshed", last.Animated, last.Refreshed)
	}
	fmt.Fprintln(w, r.paint(text.FgHiBlack, summary))
}

// RenderList draws one row per contact: position, status dot, name, email.
// Contacts for which touched returns true are highlighted. touched may be nil.
func (r *Renderer) RenderList(w io.Writer, items reconciler.Collection, touched func(id string) bool) {
	if len(items) == 0 {
		fmt.Fprintln(w, r.paint(text.FgYellow, "No contacts"))
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "", "NAME", "EMAIL"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
	})

	for i, e := range items {
		name := e.Name
		if touched != nil && touched(e.ID) {
			name = r.paint(text.Bold, name)
		}
		t.AppendRow(table.Row{i, r.status(e), name, e.Email})
	}
	t.Render()
}

// RenderGrid draws contacts as tiles, filling rows left to right.
func (r *Renderer) RenderGrid(w io.Writer, items reconciler.Collection, touched func(id string) bool) {
	if len(items) == 0 {
		fmt.Fprintln(w, r.paint(text.FgYellow, "No contacts"))
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = true

	row := make(table.Row, 0, r.columns)
	for i, e := range items {
		name := pkgstrings.Truncate(e.Name, gridNameWidth)
		if touched != nil && touched(e.ID) {
			name = r.paint(text.Bold, name)
		}
		tile := fmt.Sprintf("%d  %s %s\n%s", i, pkgstrings.Initials(e.Name), r.status(e), name)
		row = append(row, tile)
		if len(row) == r.columns {
			t.AppendRow(row)
			row = make(table.Row, 0, r.columns)
		}
	}
	if len(row) > 0 {
		for len(row) < r.columns {
			row = append(row, "")
		}
		t.AppendRow(row)
	}
	t.Render()
}

// RenderDetail writes the detail card of a contact followed by its mail link.
func (r *Renderer) RenderDetail(w io.Writer, e reconciler.Entity) error {
	var buf bytes.Buffer
	if err := r.detail.Execute(&buf, e); err != nil {
		return fmt.Errorf("failed to render contact %s: %w", e.Email, err)
	}
	card := strings.TrimRight(buf.String(), "\n")
	fmt.Fprintln(w, card)
	fmt.Fprintf(w, "  mail:   %s\n", MailtoURL(e))
	return nil
}

// MailtoURL returns the link that opens a composer addressed to the contact.
func MailtoURL(e reconciler.Entity) string {
	u := url.URL{Scheme: "mailto", Opaque: e.Email}
	return u.String()
}

func (r *Renderer) status(e reconciler.Entity) string {
	if e.Active {
		return r.paint(text.FgGreen, onlineDot)
	}
	return r.paint(text.FgHiBlack, offlineDot)
}

func (r *Renderer) paint(c text.Color, s string) string {
	if !r.color {
		return s
	}
	return c.Sprint(s)
}
