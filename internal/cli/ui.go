package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle  = lipgloss.NewStyle().Faint(true)
	headStyle = lipgloss.NewStyle().Bold(true)
)

// printer writes status lines, styled only when w is a terminal.
type printer struct {
	w      io.Writer
	styled bool
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w, styled: isTerminal(w)}
}

func isTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *printer) render(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

func (p *printer) line(mark string, style lipgloss.Style, format string, args ...any) {
	fmt.Fprintf(p.w, "  %s %s\n", p.render(style, mark), fmt.Sprintf(format, args...))
}

func (p *printer) ok(format string, args ...any)   { p.line("✓", okStyle, format, args...) }
func (p *printer) skip(format string, args ...any) { p.line("-", dimStyle, format, args...) }
func (p *printer) warn(format string, args ...any) { p.line("!", warnStyle, format, args...) }
func (p *printer) fail(format string, args ...any) { p.line("✗", failStyle, format, args...) }

func (p *printer) heading(format string, args ...any) {
	fmt.Fprintln(p.w, p.render(headStyle, fmt.Sprintf(format, args...)))
}

func (p *printer) dim(s string) string {
	return p.render(dimStyle, s)
}

// renderMarkdown renders body for a terminal. Off a terminal the body is
// returned unchanged.
func (p *printer) renderMarkdown(body string) (string, error) {
	if !p.styled {
		return body, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(body)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n || n < 1 {
		return s
	}
	return string(r[:n-1]) + "…"
}
