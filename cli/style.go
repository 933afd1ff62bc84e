package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles renders output lines. Color depends on the writer: a renderer bound
// to a non-terminal writer emits plain text.
type Styles struct {
	enabled bool

	kind      lipgloss.Style
	attr      lipgloss.Style
	branch    lipgloss.Style
	req       lipgloss.Style
	reqFailed lipgloss.Style
	grant     lipgloss.Style
	system    lipgloss.Style
	errorMsg  lipgloss.Style
	trace     lipgloss.Style
	warning   lipgloss.Style
}

// NewStyles builds styles for w. With enabled false every method returns its
// input unchanged.
func NewStyles(w io.Writer, enabled bool) *Styles {
	r := lipgloss.NewRenderer(w)
	return &Styles{
		enabled:   enabled,
		kind:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("34")),
		attr:      r.NewStyle().Foreground(lipgloss.Color("243")),
		branch:    r.NewStyle().Foreground(lipgloss.Color("75")),
		req:       r.NewStyle().Foreground(lipgloss.Color("228")),
		reqFailed: r.NewStyle().Foreground(lipgloss.Color("196")),
		grant:     r.NewStyle().Foreground(lipgloss.Color("255")),
		system:    r.NewStyle().Foreground(lipgloss.Color("243")),
		errorMsg:  r.NewStyle().Foreground(lipgloss.Color("196")),
		trace:     r.NewStyle().Foreground(lipgloss.Color("240")),
		warning:   r.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

// Plain returns styles that never add escape codes.
func Plain() *Styles {
	return &Styles{}
}

func (s *Styles) render(st lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return st.Render(text)
}

// Kind styles an element name.
func (s *Styles) Kind(name string) string { return s.render(s.kind, name) }

// Attr styles an attribute list.
func (s *Styles) Attr(text string) string { return s.render(s.attr, text) }

// Branch styles a structural element (if, then, choice, ...).
func (s *Styles) Branch(name string) string { return s.render(s.branch, name) }

// Requirement styles a requirement, red when it does not hold.
func (s *Styles) Requirement(text string, ok bool) string {
	if ok {
		return s.render(s.req, text)
	}
	return s.render(s.reqFailed, text)
}

// Warning styles a lint warning.
func (s *Styles) Warning(text string) string { return s.render(s.warning, text) }

// Error styles an error message.
func (s *Styles) Error(text string) string { return s.render(s.errorMsg, text) }

// Line styles one line of REPL output by its shape.
func (s *Styles) Line(line string) string {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return s.render(s.trace, line)
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return s.render(s.system, line)
	default:
		return s.render(s.grant, line)
	}
}
