// Package report prints the per-manifest progress lines of a fix run.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/kingrea/composer-fixer/internal/fixer"
)

// Console writes the fixer's progress lines:
//
//	Fixed: /abs/path/packages/foo/composer.json
//	1 composer.json files have been fixed.
//
// The count line follows every manifest and counts only that manifest. A
// single total line closes the run.
type Console struct {
	out    io.Writer
	styled bool

	fixedStyle lipgloss.Style
	pathStyle  lipgloss.Style
	countStyle lipgloss.Style
	totalStyle lipgloss.Style
}

// NewConsole creates a console reporter. Styling is enabled only when out
// is a terminal.
func NewConsole(out io.Writer) *Console {
	styled := false
	if f, ok := out.(*os.File); ok {
		styled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	renderer := lipgloss.NewRenderer(out)
	return &Console{
		out:        out,
		styled:     styled,
		fixedStyle: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		pathStyle:  renderer.NewStyle().Foreground(lipgloss.Color("39")),
		countStyle: renderer.NewStyle().Foreground(lipgloss.Color("245")),
		totalStyle: renderer.NewStyle().Bold(true),
	}
}

// FileFixed prints the changed manifest.
func (c *Console) FileFixed(outcome fixer.Outcome) {
	label := "Fixed:"
	if !outcome.Written {
		label = "Would fix:"
	}
	fmt.Fprintf(c.out, "%s %s\n", c.render(c.fixedStyle, label), c.render(c.pathStyle, outcome.Path))
}

// FileDone prints the per-manifest count.
func (c *Console) FileDone(outcome fixer.Outcome) {
	line := fmt.Sprintf("%d composer.json files have been fixed.", outcome.Fixed())
	fmt.Fprintln(c.out, c.render(c.countStyle, line))
}

// Finished prints the run total.
func (c *Console) Finished(summary fixer.Summary) {
	line := fmt.Sprintf("Done: %d of %d composer.json files fixed.", summary.Fixed, summary.Processed)
	fmt.Fprintln(c.out, c.render(c.totalStyle, line))
}

func (c *Console) render(style lipgloss.Style, text string) string {
	if !c.styled {
		return text
	}
	return style.Render(text)
}
