package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	heading lipgloss.Style
	pass    lipgloss.Style
	label   lipgloss.Style
	dim     lipgloss.Style
	accent  lipgloss.Style
}

// printer writes styled command output.
type printer struct {
	w io.Writer
	s styles
}

func newPrinter(w io.Writer) *printer {
	return &printer{
		w: w,
		s: styles{
			heading: lipgloss.NewStyle().Bold(true),
			pass:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "10", Dark: "10"}),
			label:   lipgloss.NewStyle().Width(10).Foreground(lipgloss.AdaptiveColor{Light: "12", Dark: "12"}),
			dim:     lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "8", Dark: "7"}),
			accent:  lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "12", Dark: "12"}),
		},
	}
}

func (p *printer) heading(text string) {
	fmt.Fprintln(p.w, p.s.heading.Render(text))
}

func (p *printer) success(text string) {
	fmt.Fprintln(p.w, p.s.pass.Render("✓")+" "+text)
}

func (p *printer) item(label, value string) {
	fmt.Fprintln(p.w, "  "+p.s.label.Render(label)+" "+value)
}

func (p *printer) step(text string) {
	fmt.Fprintln(p.w, "  "+p.s.accent.Render("$")+" "+text)
}

func (p *printer) dimmed(text string) {
	fmt.Fprintln(p.w, p.s.dim.Render(text))
}

func (p *printer) blank() {
	fmt.Fprintln(p.w)
}
