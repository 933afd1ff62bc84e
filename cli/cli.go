// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for rolling reward documents interactively.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nathoo/rewardcore/config"
	"github.com/nathoo/rewardcore/engine"
	"github.com/nathoo/rewardcore/engine/parser"
	"github.com/nathoo/rewardcore/engine/save"
	"github.com/nathoo/rewardcore/engine/state"
	"github.com/nathoo/rewardcore/types"
)

// maxRollsPerCommand caps "roll N".
const maxRollsPerCommand = 10000

// CLI handles terminal interaction for one loaded document.
type CLI struct {
	Engine    *engine.Engine
	Document  string // path of the loaded document
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Trace     bool
	EchoInput bool // echo each input line after the prompt (for script playback)
	Styles    *Styles
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, document string) *CLI {
	return &CLI{
		Engine:   eng,
		Document: document,
		In:       os.Stdin,
		Out:      os.Stdout,
		SaveDir:  config.DefaultSaveDir(),
		Styles:   NewStyles(os.Stdout, true),
	}
}

// Run starts the loop: prompt → input → dispatch → output.
func (c *CLI) Run() {
	if c.Styles == nil {
		c.Styles = Plain()
	}
	c.printSystem(fmt.Sprintf("Loaded %s (%d modifiers). Type roll, or /help.",
		c.Document, len(c.Engine.Modifiers)))

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			lower = c.lastCmd
		} else {
			c.lastCmd = lower
		}

		c.dispatch(lower)
	}
}

func (c *CLI) dispatch(input string) {
	parts := strings.Fields(input)
	switch parts[0] {
	case "roll", "r":
		n := 1
		if len(parts) > 1 {
			v, err := strconv.Atoi(parts[1])
			if err != nil || v < 1 || v > maxRollsPerCommand {
				c.printSystem(fmt.Sprintf("roll takes a count between 1 and %d.", maxRollsPerCommand))
				return
			}
			n = v
		}
		for i := 0; i < n; i++ {
			result := c.Engine.Apply()
			c.printResult(result)
			if c.Trace {
				c.printTrace(result)
			}
		}

	case "tree":
		c.print(RenderTree(c.Engine.Modifiers, c.Styles))

	default:
		c.printLine(fmt.Sprintf("Unknown command %q. Type /help for available commands.", parts[0]))
	}
}

// handleMeta dispatches meta-commands. Returns true if the loop should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

// savePath rejects names that would escape the save directory.
func (c *CLI) savePath(name string) (string, error) {
	if name == "" {
		name = "quicksave"
	}
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid save name %q", name)
	}
	return filepath.Join(c.SaveDir, name+".json"), nil
}

func (c *CLI) cmdSave(name string) {
	path, err := c.savePath(name)
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	data, err := save.Save(c.Engine.State, c.Document, c.Engine.RNG.Position())
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	c.printSystem(fmt.Sprintf("Saved to %s.", strings.TrimSuffix(filepath.Base(path), ".json")))
}

func (c *CLI) cmdLoad(name string) {
	path, err := c.savePath(name)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	sd, err := save.Load(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	save.ApplySave(c.Engine.State, sd)
	c.Engine.RestoreRNG(sd.RNGSeed, sd.RNGPosition)
	c.printSystem(fmt.Sprintf("Loaded %s (%d rolls applied).",
		strings.TrimSuffix(filepath.Base(path), ".json"), sd.Applied))
	if sd.Document != "" && sd.Document != c.Document {
		c.printSystem(fmt.Sprintf("Warning: save was made against %s.", sd.Document))
	}
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save [name]  - Save state (default: quicksave)",
		"  /load [name]  - Load state (default: quicksave)",
		"  /quit         - Exit",
		"  /help         - Show this help",
		"  /state        - Dump current state",
		"  /trace        - Toggle resolution trace output",
		"",
		"Commands:",
		"  roll [n] (r)  - Apply the document n times (default 1)",
		"  tree          - Print the parsed document",
		"  again (g)     - Repeat your last command",
	}
	for _, line := range help {
		c.printLine(line)
	}
	c.printLine("")
	c.printLine("Document elements:")
	c.printLine("  modifiers:    " + strings.Join(parser.ModifierKinds(), ", "))
	c.printLine("  requirements: " + strings.Join(parser.RequirementKinds(), ", "))
}

func (c *CLI) cmdState() {
	s := c.Engine.State
	c.printSystem(fmt.Sprintf("Applied: %d", s.Applied))
	c.printSystem(fmt.Sprintf("XP: %d", s.Player.XP))
	c.printSystem(fmt.Sprintf("Inventory: %v", s.Player.Inventory))
	for _, statType := range state.StatTypes(s) {
		for _, key := range state.StatKeys(s, statType) {
			c.printSystem(fmt.Sprintf("Stat %s/%s: %d", statType, key, state.GetStat(s, statType, key)))
		}
	}
	c.printSystem(fmt.Sprintf("RNG: seed %d, position %d", c.Engine.RNG.Seed(), c.Engine.RNG.Position()))
}

func (c *CLI) printTrace(result types.Result) {
	c.printLine(c.Styles.Line(fmt.Sprintf("[trace] Receipt: %s", result.ReceiptID)))
	for _, step := range c.Engine.LastTrace {
		c.printLine(c.Styles.Line("[trace]   " + step))
	}
	if len(result.Events) > 0 {
		c.printLine(c.Styles.Line(fmt.Sprintf("[trace] Events: %d", len(result.Events))))
		for _, e := range result.Events {
			c.printLine(c.Styles.Line(fmt.Sprintf("[trace]   %s", e.Type)))
		}
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(c.Styles.Line(line))
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	c.printLine(c.Styles.Line("[" + text + "]"))
}
