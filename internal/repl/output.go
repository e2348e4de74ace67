package repl

import (
	"fmt"
	"io"
	"sync"

	"github.com/jedib0t/go-pretty/v6/text"
)

// printer implements commands.OutputLogger on top of a writer.
type printer struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
}

func (p *printer) setWriter(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.w = w
}

// Writer returns the current destination.
func (p *printer) Writer() io.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.w
}

func (p *printer) write(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.w, s)
}

func (p *printer) paint(c text.Color, s string) string {
	if !p.color {
		return s
	}
	return c.Sprint(s)
}

// Output prints a command result without a trailing newline.
func (p *printer) Output(format string, args ...interface{}) {
	p.write(fmt.Sprintf(format, args...))
}

// OutputLine prints a command result.
func (p *printer) OutputLine(format string, args ...interface{}) {
	p.write(fmt.Sprintf(format, args...) + "\n")
}

// Info prints a status message.
func (p *printer) Info(format string, args ...interface{}) {
	p.OutputLine("%s", p.paint(text.FgCyan, fmt.Sprintf(format, args...)))
}

// Error prints an error message.
func (p *printer) Error(format string, args ...interface{}) {
	p.OutputLine("%s", p.paint(text.FgRed, fmt.Sprintf(format, args...)))
}

// Success prints a confirmation.
func (p *printer) Success(format string, args ...interface{}) {
	p.OutputLine("%s", p.paint(text.FgGreen, fmt.Sprintf(format, args...)))
}
