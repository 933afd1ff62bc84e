// Package loader reads reward documents from disk into document nodes and
// parses them into modifier trees. XML, YAML and Lua sources are supported;
// Lua runs in a sandboxed VM that is discarded once the document is built.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nathoo/rewardcore/document"
	"github.com/nathoo/rewardcore/engine/parser"
	"github.com/nathoo/rewardcore/types"
)

// RootList is the element name of a document holding a list of modifiers.
const RootList = "modifiers"

// MaxNesting bounds how deep a YAML or Lua source may nest before it is
// converted to elements. The parser applies its own, usually lower, limit.
const MaxNesting = 10000

var (
	// ErrCycle is returned when a YAML alias or Lua table contains itself.
	ErrCycle = errors.New("document refers to itself")
	// ErrTooDeep is returned when a source nests deeper than MaxNesting.
	ErrTooDeep = errors.New("document nests too deeply")
)

// nesting tracks the containers currently being converted.
type nesting[T comparable] struct {
	open map[T]bool
}

func (n *nesting[T]) enter(c T) error {
	if n.open == nil {
		n.open = map[T]bool{}
	}
	if n.open[c] {
		return ErrCycle
	}
	if len(n.open) >= MaxNesting {
		return fmt.Errorf("%w: more than %d levels", ErrTooDeep, MaxNesting)
	}
	n.open[c] = true
	return nil
}

func (n *nesting[T]) leave(c T) {
	delete(n.open, c)
}

// Document is one loaded and parsed file.
type Document struct {
	Path      string
	Root      document.Node
	Modifiers []types.Modifier
	Warnings  []Warning
}

// Extensions lists the file extensions Load understands.
func Extensions() []string {
	return []string{".lua", ".xml", ".yaml", ".yml"}
}

// Supported reports whether path has an extension Load understands.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions() {
		if e == ext {
			return true
		}
	}
	return false
}

// Load reads the file at path and returns its root node.
func Load(path string) (document.Node, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		root, err := decodeXML(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return root, nil
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		root, err := decodeYAML(data)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return root, nil
	case ".lua":
		root, err := runLua(path)
		if err != nil {
			return nil, fmt.Errorf("executing %s: %w", path, err)
		}
		return root, nil
	default:
		return nil, fmt.Errorf("unsupported document type %q for %s", filepath.Ext(path), path)
	}
}

// Parse turns a root node into modifiers. A modifiers root is a list; any
// other root is a single modifier.
func Parse(root document.Node, p *parser.Parser) ([]types.Modifier, error) {
	if root.Name() == RootList {
		return p.ParseModifierList(root)
	}
	m, err := p.ParseAModifier(root)
	if err != nil {
		return nil, err
	}
	return []types.Modifier{m}, nil
}

// LoadFile loads, parses and lints one file.
func LoadFile(path string, p *parser.Parser) (*Document, error) {
	root, err := Load(path)
	if err != nil {
		return nil, err
	}
	mods, err := Parse(root, p)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &Document{
		Path:      path,
		Root:      root,
		Modifiers: mods,
		Warnings:  Lint(mods),
	}, nil
}

// LoadDir loads every supported file directly inside dir, in parallel.
// Documents come back sorted by path. The first failure cancels the
// remaining work and is returned.
func LoadDir(ctx context.Context, dir string, p *parser.Parser, logger *slog.Logger) ([]*Document, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading document directory %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() && Supported(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no reward documents found in %s", dir)
	}
	sort.Strings(paths)

	docs := make([]*Document, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := LoadFile(path, p)
			if err != nil {
				return err
			}
			logger.Debug("loaded document", "path", path, "modifiers", len(doc.Modifiers), "warnings", len(doc.Warnings))
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("loaded document directory", "dir", dir, "documents", len(docs), "max_depth", p.MaxDepth())
	return docs, nil
}
