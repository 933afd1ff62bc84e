package parser

import (
	"github.com/nathoo/rewardcore/document"
	"github.com/nathoo/rewardcore/types"
)

type modifierFunc func(w *walk, n document.Node) (types.Modifier, error)

// modifierParsers maps element names to constructors. Filled in init because
// the branch parsers recurse back through the table.
var modifierParsers map[string]modifierFunc

func init() {
	modifierParsers = map[string]modifierFunc{
		"grant_item":       parseGrantItem,
		"grant_xp":         parseGrantXp,
		"grant_xp_range":   parseGrantXpRange,
		"grant_stat":       parseGrantStat,
		"grant_stat_range": parseGrantStatRange,
		"remove_items":     parseRemoveItems,
		"nothing":          parseNothing,
		"if_then_else":     parseIfThenElse,
		"random_choice":    parseRandomChoice,
	}
}

// ModifierKinds returns the element names the parser accepts as modifiers.
func ModifierKinds() []string {
	return sortedKeys(modifierParsers)
}

func parseGrantItem(w *walk, n document.Node) (types.Modifier, error) {
	key, err := w.str(n, "ikey")
	if err != nil {
		return nil, err
	}
	return types.GrantItem{ItemKey: key}, nil
}

func parseGrantXp(w *walk, n document.Node) (types.Modifier, error) {
	v, err := w.integer(n, "value")
	if err != nil {
		return nil, err
	}
	return types.GrantXp{Value: v}, nil
}

func parseGrantXpRange(w *walk, n document.Node) (types.Modifier, error) {
	lo, hi, err := w.bounds(n)
	if err != nil {
		return nil, err
	}
	return types.GrantXpRange{Min: lo, Max: hi}, nil
}

func parseGrantStat(w *walk, n document.Node) (types.Modifier, error) {
	statType, key, err := w.statTarget(n)
	if err != nil {
		return nil, err
	}
	v, err := w.integer(n, "value")
	if err != nil {
		return nil, err
	}
	return types.GrantStat{StatType: statType, ItemKey: key, Value: v}, nil
}

func parseGrantStatRange(w *walk, n document.Node) (types.Modifier, error) {
	statType, key, err := w.statTarget(n)
	if err != nil {
		return nil, err
	}
	lo, hi, err := w.bounds(n)
	if err != nil {
		return nil, err
	}
	return types.GrantStatRange{StatType: statType, ItemKey: key, Min: lo, Max: hi}, nil
}

func (w *walk) statTarget(n document.Node) (string, string, error) {
	statType, err := w.str(n, "type")
	if err != nil {
		return "", "", err
	}
	key, err := w.str(n, "ikey")
	if err != nil {
		return "", "", err
	}
	return statType, key, nil
}

func parseRemoveItems(*walk, document.Node) (types.Modifier, error) {
	return types.RemoveItems{}, nil
}

func parseNothing(*walk, document.Node) (types.Modifier, error) {
	return types.Nothing{}, nil
}

var branchNames = []string{"if", "then", "else"}

// parseIfThenElse finds the if, then and else children by name. Their order
// in the document does not matter, but each must appear exactly once.
func parseIfThenElse(w *walk, n document.Node) (types.Modifier, error) {
	seen := make(map[string]bool, len(branchNames))
	for _, c := range n.Children() {
		name := c.Name()
		switch name {
		case "if", "then", "else":
			if seen[name] {
				return nil, w.at(name).fail(KindUnexpectedElement, c, "duplicate %q branch in if_then_else", name)
			}
			seen[name] = true
		default:
			return nil, w.at(name).fail(KindUnexpectedElement, c, "unexpected %q in if_then_else", name)
		}
	}
	branches := make(map[string]document.Node, len(branchNames))
	for _, name := range branchNames {
		b, ok := document.Find(n, name)
		if !ok {
			return nil, w.fail(KindMissingBranch, n, "if_then_else is missing its %q branch", name)
		}
		branches[name] = b
	}

	cond, err := w.at("if").requirementList(branches["if"])
	if err != nil {
		return nil, err
	}
	then, err := w.at("then").modifierList(branches["then"])
	if err != nil {
		return nil, err
	}
	els, err := w.at("else").modifierList(branches["else"])
	if err != nil {
		return nil, err
	}
	return types.IfThenElse{Condition: cond, Then: then, Else: els}, nil
}

func parseRandomChoice(w *walk, n document.Node) (types.Modifier, error) {
	kids := n.Children()
	choices := make([]types.ChoiceEntry, 0, len(kids))
	for i, c := range kids {
		cw := w.at(indexed(c.Name(), i))
		if c.Name() != "choice" {
			return nil, cw.fail(KindUnexpectedElement, c, "random_choice only accepts choice elements, got %q", c.Name())
		}
		entry, err := parseChoice(cw, c)
		if err != nil {
			return nil, err
		}
		choices = append(choices, entry)
	}
	return types.RandomChoice{Choices: choices}, nil
}

// parseChoice reads one weighted alternative. The weight comes from a weight
// child's weight attribute, or from the choice's own weight attribute when
// there is no such child. The modifier and requirement children are optional.
func parseChoice(w *walk, n document.Node) (types.ChoiceEntry, error) {
	entry := types.ChoiceEntry{
		Modifiers:    []types.Modifier{},
		Requirements: []types.Requirement{},
	}
	weightFrom := n
	weightPath := w
	seen := make(map[string]bool, 3)

	for _, c := range n.Children() {
		name := c.Name()
		cw := w.at(name)
		switch name {
		case "weight", "modifier", "requirement":
			if seen[name] {
				return entry, cw.fail(KindUnexpectedElement, c, "duplicate %q in choice", name)
			}
			seen[name] = true
		default:
			return entry, cw.fail(KindUnexpectedElement, c, "unexpected %q in choice", name)
		}

		var err error
		switch name {
		case "weight":
			weightFrom, weightPath = c, cw
		case "modifier":
			entry.Modifiers, err = cw.modifierList(c)
		case "requirement":
			entry.Requirements, err = cw.requirementList(c)
		}
		if err != nil {
			return entry, err
		}
	}

	weight, err := weightPath.integer(weightFrom, "weight")
	if err != nil {
		return entry, err
	}
	if weight <= 0 {
		return entry, weightPath.failAttr(KindInvalidWeight, weightFrom, "weight", optional(weightFrom, "weight"),
			"weight must be positive, got %d", weight)
	}
	entry.Weight = weight
	return entry, nil
}
