package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes report lines, styled or plain depending on its mode.
type Printer struct {
	out   io.Writer
	mode  Mode
	width int
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer, mode Mode) *Printer {
	return &Printer{out: out, mode: mode, width: defaultWidth}
}

const defaultWidth = 80

// WithWidth sets the width styled section rules span.
func (p *Printer) WithWidth(width int) *Printer {
	if width > 0 {
		p.width = width
	}
	return p
}

func (p *Printer) render(style lipgloss.Style, text string) string {
	if p.mode == ModePlain {
		return text
	}
	return style.Render(text)
}

// Title writes a report title.
func (p *Printer) Title(format string, args ...interface{}) {
	fmt.Fprintln(p.out, p.render(TitleStyle, fmt.Sprintf(format, args...)))
}

// Section writes a section heading preceded by a blank line.
func (p *Printer) Section(title string) {
	fmt.Fprintln(p.out)
	if p.mode == ModePlain {
		fmt.Fprintln(p.out, title)
		return
	}
	rule := SectionStyle.
		Width(p.width).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(ColorMuted)
	fmt.Fprintln(p.out, rule.Render(title))
}

// Field writes a label and its value. Empty values are shown as "-".
func (p *Printer) Field(label, value string) {
	if value == "" {
		value = p.render(MutedStyle, "-")
	}
	if p.mode == ModePlain {
		fmt.Fprintf(p.out, "  %-18s%s\n", label+":", value)
		return
	}
	fmt.Fprintf(p.out, "  %s%s\n", LabelStyle.Render(label+":"), value)
}

// List writes items as bullet points, or "(none)" when empty.
func (p *Printer) List(items []string) {
	if len(items) == 0 {
		fmt.Fprintf(p.out, "  %s\n", p.render(MutedStyle, "(none)"))
		return
	}
	for _, item := range items {
		fmt.Fprintf(p.out, "  %s %s\n", SymbolBullet, item)
	}
}

// Status writes a line marked as passed or failed.
func (p *Printer) Status(ok bool, text string) {
	if ok {
		fmt.Fprintf(p.out, "  %s %s\n", p.render(SuccessStyle, SymbolCheck), text)
		return
	}
	fmt.Fprintf(p.out, "  %s %s\n", p.render(ErrorStyle, SymbolCross), p.render(ErrorStyle, text))
}

// Warning writes a highlighted warning line.
func (p *Printer) Warning(text string) {
	fmt.Fprintf(p.out, "  %s\n", p.render(WarningStyle, text))
}

// Join renders values as a comma-separated list.
func Join(values []string) string {
	return strings.Join(values, ", ")
}
