// Rewardcore loads reward rule documents, checks them, and rolls them
// deterministically.
// Usage: rewardcore [--version] [--max-depth N] [--seed N] [--json-log] [--plain] <command> <path>
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/nathoo/rewardcore/cli"
	"github.com/nathoo/rewardcore/config"
	"github.com/nathoo/rewardcore/engine"
	"github.com/nathoo/rewardcore/engine/parser"
	"github.com/nathoo/rewardcore/engine/state"
	"github.com/nathoo/rewardcore/loader"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = `Usage: rewardcore [flags] <command> <path>

Commands:
  check <file|dir>   Load, parse and lint documents
  tree <file>        Print the parsed document
  roll <file>        Apply the document to a fresh state (--times N)
  play <file>        Interactive session (--script F, --trace)
  watch <file|dir>   Re-check whenever documents change

Flags:
  --version          Print version and exit
  --max-depth N      Maximum nesting depth (default 64)
  --seed N           RNG seed, 0 included (default: REWARDCORE_SEED, else time based)
  --json-log         Log as JSON
  --plain            Disable colored output
`

type options struct {
	command  string
	path     string
	maxDepth int
	seed     int64
	seedSet  bool
	jsonLog  bool
	plain    bool
	times    int
	script   string
	trace    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n\n%s", err, usage)
		return 2
	}
	if opts.command == "version" {
		fmt.Fprintf(stdout, "rewardcore %s (commit %s, built %s)\n", version, commit, date)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if opts.maxDepth > 0 {
		cfg.MaxDepth = opts.maxDepth
	}
	if opts.seedSet {
		cfg.Seed = opts.seed
	}
	if opts.jsonLog {
		cfg.LogFormat = "json"
	}

	logger := cfg.Logger(stderr)
	slog.SetDefault(logger)
	p := parser.New().WithMaxDepth(cfg.MaxDepth).WithLogger(logger)

	switch opts.command {
	case "check":
		return check(opts.path, p, styles(opts, stdout), stdout, stderr, logger)
	case "tree":
		return tree(opts, p, stdout, stderr)
	case "roll":
		return roll(opts, cfg, p, stdout, stderr)
	case "play":
		return play(opts, cfg, p, stdout, stderr)
	case "watch":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watch(ctx, opts.path, cfg, p, stdout, stderr, logger)
	}
	return 2
}

func parseArgs(args []string) (options, error) {
	var opts options
	var positional []string

	intArg := func(i *int, name string) (int, error) {
		if *i+1 >= len(args) {
			return 0, fmt.Errorf("%s requires a value", name)
		}
		*i++
		v, err := strconv.Atoi(args[*i])
		if err != nil {
			return 0, fmt.Errorf("%s: %q is not an integer", name, args[*i])
		}
		return v, nil
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			opts.command = "version"
			return opts, nil
		case "--json-log":
			opts.jsonLog = true
		case "--plain":
			opts.plain = true
		case "--trace":
			opts.trace = true
		case "--max-depth":
			v, err := intArg(&i, "--max-depth")
			if err != nil {
				return opts, err
			}
			if v < 1 {
				return opts, fmt.Errorf("--max-depth must be at least 1")
			}
			opts.maxDepth = v
		case "--seed":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("--seed requires a value")
			}
			i++
			v, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				return opts, fmt.Errorf("--seed: %q is not an integer", args[i])
			}
			opts.seed, opts.seedSet = v, true
		case "--times":
			v, err := intArg(&i, "--times")
			if err != nil {
				return opts, err
			}
			if v < 1 {
				return opts, fmt.Errorf("--times must be at least 1")
			}
			opts.times = v
		case "--script":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("--script requires a file path")
			}
			i++
			opts.script = args[i]
		default:
			if strings.HasPrefix(args[i], "--") {
				return opts, fmt.Errorf("unknown flag %s", args[i])
			}
			positional = append(positional, args[i])
		}
	}

	if len(positional) != 2 {
		return opts, fmt.Errorf("expected a command and a path")
	}
	opts.command, opts.path = positional[0], positional[1]
	switch opts.command {
	case "check", "tree", "roll", "play", "watch":
	default:
		return opts, fmt.Errorf("unknown command %q", opts.command)
	}
	if opts.times == 0 {
		opts.times = 1
	}
	return opts, nil
}

func check(path string, p *parser.Parser, st *cli.Styles, stdout, stderr io.Writer, logger *slog.Logger) int {
	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	var docs []*loader.Document
	if info.IsDir() {
		docs, err = loader.LoadDir(context.Background(), path, p, logger)
	} else {
		var doc *loader.Document
		doc, err = loader.LoadFile(path, p)
		docs = []*loader.Document{doc}
	}
	if err != nil {
		fmt.Fprintln(stderr, st.Error(fmt.Sprintf("Error: %v", err)))
		return 1
	}

	for _, doc := range docs {
		fmt.Fprintf(stdout, "ok %s (%d modifiers, %d warnings)\n", doc.Path, len(doc.Modifiers), len(doc.Warnings))
		for _, w := range doc.Warnings {
			logger.Warn("lint", "path", doc.Path, "at", w.Path, "warning", w.Message)
			fmt.Fprintln(stdout, "  "+st.Warning("warning: "+w.String()))
		}
	}
	return 0
}

func tree(opts options, p *parser.Parser, stdout, stderr io.Writer) int {
	doc, err := loader.LoadFile(opts.path, p)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprint(stdout, cli.RenderTree(doc.Modifiers, styles(opts, stdout)))
	return 0
}

func roll(opts options, cfg config.Config, p *parser.Parser, stdout, stderr io.Writer) int {
	doc, err := loader.LoadFile(opts.path, p)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	seed := seedFor(opts, cfg)
	eng := engine.New(doc.Modifiers, seed).WithLogger(slog.Default())
	st := styles(opts, stdout)

	fmt.Fprintf(stdout, "[seed %d]\n", seed)
	for i := 0; i < opts.times; i++ {
		res := eng.Apply()
		fmt.Fprintf(stdout, "roll %d (%s)\n", i+1, res.ReceiptID)
		for _, line := range res.Output {
			fmt.Fprintln(stdout, "  "+st.Line(line))
		}
	}

	s := eng.State
	fmt.Fprintf(stdout, "xp %d, inventory %v\n", s.Player.XP, s.Player.Inventory)
	for _, statType := range state.StatTypes(s) {
		for _, key := range state.StatKeys(s, statType) {
			fmt.Fprintf(stdout, "%s/%s %d\n", statType, key, state.GetStat(s, statType, key))
		}
	}
	return 0
}

func play(opts options, cfg config.Config, p *parser.Parser, stdout, stderr io.Writer) int {
	doc, err := loader.LoadFile(opts.path, p)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	eng := engine.New(doc.Modifiers, seedFor(opts, cfg)).WithLogger(slog.Default())
	c := cli.New(eng, doc.Path)
	c.Out = stdout
	c.SaveDir = cfg.SaveDir
	c.Trace = opts.trace
	c.Styles = styles(opts, stdout)

	// Script mode: read commands from the file and echo them.
	if opts.script != "" {
		f, err := os.Open(opts.script)
		if err != nil {
			fmt.Fprintf(stderr, "Error opening script: %v\n", err)
			return 1
		}
		defer f.Close()
		c.In = f
		c.EchoInput = true
		c.Styles = cli.Plain()
	}

	c.Run()
	return 0
}

func watch(ctx context.Context, path string, cfg config.Config, p *parser.Parser, stdout, stderr io.Writer, logger *slog.Logger) int {
	st := cli.Plain()
	check(path, p, st, stdout, stderr, logger)

	w := loader.NewWatcher(path, cfg.WatchDebounce, logger)
	err := w.Watch(ctx, func(context.Context) error {
		if check(path, p, st, stdout, stderr, logger) != 0 {
			return fmt.Errorf("check failed for %s", path)
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// seedFor honors an explicit --seed, even 0. An unset or zero
// REWARDCORE_SEED means a time-based seed.
func seedFor(opts options, cfg config.Config) int64 {
	if opts.seedSet {
		return opts.seed
	}
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return time.Now().UnixNano()
}

func styles(opts options, w io.Writer) *cli.Styles {
	if opts.plain || !isTerminal(w) {
		return cli.Plain()
	}
	return cli.NewStyles(w, true)
}

// isTerminal returns true if w is a terminal (not piped/redirected).
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
