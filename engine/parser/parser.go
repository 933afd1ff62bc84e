// Package parser turns rules documents into modifier and requirement trees.
// Dispatch is table driven on the element name; nested modifier lists and
// requirement lists recurse through the same four entry points.
package parser

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/nathoo/rewardcore/document"
	"github.com/nathoo/rewardcore/types"
)

// DefaultMaxDepth is the nesting limit used when none is configured.
const DefaultMaxDepth = 64

// Parser parses document nodes. Configure it before first use; after that it
// is read-only and safe for concurrent use.
type Parser struct {
	maxDepth int
	logger   *slog.Logger
}

// New creates a parser with the default configuration.
func New() *Parser {
	return &Parser{
		maxDepth: DefaultMaxDepth,
		logger:   slog.Default(),
	}
}

// WithMaxDepth sets the maximum modifier/requirement nesting depth.
// Values below 1 restore the default.
func (p *Parser) WithMaxDepth(depth int) *Parser {
	if depth < 1 {
		depth = DefaultMaxDepth
	}
	p.maxDepth = depth
	return p
}

// WithLogger sets the logger used for debug output.
func (p *Parser) WithLogger(logger *slog.Logger) *Parser {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// MaxDepth returns the configured nesting limit.
func (p *Parser) MaxDepth() int {
	return p.maxDepth
}

// ParseAModifier parses a single modifier element.
func (p *Parser) ParseAModifier(n document.Node) (types.Modifier, error) {
	return p.root().modifier(n, n.Name())
}

// ParseModifierList parses every child of n as a modifier, in order.
func (p *Parser) ParseModifierList(n document.Node) ([]types.Modifier, error) {
	mods, err := p.root().at(n.Name()).modifierList(n)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("parsed modifier list", "element", n.Name(), "count", len(mods))
	return mods, nil
}

// ParseARequirement parses a single requirement element.
func (p *Parser) ParseARequirement(n document.Node) (types.Requirement, error) {
	return p.root().requirement(n, n.Name())
}

// ParseRequirementList parses every child of n as a requirement, in order.
func (p *Parser) ParseRequirementList(n document.Node) ([]types.Requirement, error) {
	reqs, err := p.root().at(n.Name()).requirementList(n)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("parsed requirement list", "element", n.Name(), "count", len(reqs))
	return reqs, nil
}

// walk is the per-call traversal state: how deep we are and how we got here.
// Each step copies it, so no state is shared between calls.
type walk struct {
	p     *Parser
	depth int
	path  []string
}

func (p *Parser) root() *walk {
	return &walk{p: p}
}

// at extends the path without counting a nesting level.
func (w *walk) at(seg string) *walk {
	path := make([]string, len(w.path), len(w.path)+1)
	copy(path, w.path)
	return &walk{p: w.p, depth: w.depth, path: append(path, seg)}
}

// deeper extends the path and counts one nesting level for n.
func (w *walk) deeper(n document.Node, seg string) (*walk, error) {
	next := w.at(seg)
	next.depth++
	if next.depth > w.p.maxDepth {
		return nil, next.fail(KindDocumentTooDeep, n, "nesting exceeds %d levels", w.p.maxDepth)
	}
	return next, nil
}

func (w *walk) modifier(n document.Node, seg string) (types.Modifier, error) {
	w, err := w.deeper(n, seg)
	if err != nil {
		return nil, err
	}
	parse, ok := modifierParsers[n.Name()]
	if !ok {
		return nil, w.fail(KindUnknownModifier, n, "unknown modifier %q", n.Name())
	}
	return parse(w, n)
}

func (w *walk) modifierList(n document.Node) ([]types.Modifier, error) {
	kids := n.Children()
	mods := make([]types.Modifier, 0, len(kids))
	for i, c := range kids {
		m, err := w.modifier(c, indexed(c.Name(), i))
		if err != nil {
			return nil, err
		}
		mods = append(mods, m)
	}
	return mods, nil
}

func (w *walk) requirement(n document.Node, seg string) (types.Requirement, error) {
	w, err := w.deeper(n, seg)
	if err != nil {
		return nil, err
	}
	parse, ok := requirementParsers[n.Name()]
	if !ok {
		return nil, w.fail(KindUnknownRequirement, n, "unknown requirement %q", n.Name())
	}
	return parse(w, n)
}

func (w *walk) requirementList(n document.Node) ([]types.Requirement, error) {
	kids := n.Children()
	reqs := make([]types.Requirement, 0, len(kids))
	for i, c := range kids {
		r, err := w.requirement(c, indexed(c.Name(), i))
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, r)
	}
	return reqs, nil
}

// fail builds a ParseError for n at the current path.
func (w *walk) fail(kind Kind, n document.Node, format string, args ...any) *ParseError {
	e := &ParseError{
		Kind:    kind,
		Element: n.Name(),
		Path:    strings.Join(w.path, "/"),
		Message: fmt.Sprintf(format, args...),
	}
	if pos, ok := n.(document.Positioner); ok {
		e.Line, e.Column = pos.Position()
	}
	return e
}

func (w *walk) failAttr(kind Kind, n document.Node, key, value, format string, args ...any) *ParseError {
	e := w.fail(kind, n, format, args...)
	e.Attribute = key
	e.Value = value
	return e
}

// str reads a required string attribute. Absent and empty are both missing,
// since some node sources cannot tell them apart.
func (w *walk) str(n document.Node, key string) (string, error) {
	v, ok := n.Attribute(key)
	if !ok || v == "" {
		return "", w.failAttr(KindMissingAttribute, n, key, "", "%s requires attribute %q", n.Name(), key)
	}
	return v, nil
}

func (w *walk) integer(n document.Node, key string) (int, error) {
	v, err := w.str(n, key)
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, w.failAttr(KindInvalidNumeric, n, key, v, "attribute %q: %q is not an integer", key, v)
	}
	return i, nil
}

func (w *walk) boolean(n document.Node, key string) (bool, error) {
	v, err := w.str(n, key)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, w.failAttr(KindInvalidBoolean, n, key, v, "attribute %q: %q is not a boolean", key, v)
	}
	return b, nil
}

// bounds reads the min and max attributes and checks min <= max.
func (w *walk) bounds(n document.Node) (int, int, error) {
	lo, err := w.integer(n, "min")
	if err != nil {
		return 0, 0, err
	}
	hi, err := w.integer(n, "max")
	if err != nil {
		return 0, 0, err
	}
	if lo > hi {
		return 0, 0, w.fail(KindInvalidRange, n, "min %d is greater than max %d", lo, hi)
	}
	return lo, hi, nil
}

func optional(n document.Node, key string) string {
	v, _ := n.Attribute(key)
	return v
}

func indexed(name string, i int) string {
	return name + "[" + strconv.Itoa(i) + "]"
}
