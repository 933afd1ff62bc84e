package parser

import (
	"sort"

	"github.com/nathoo/rewardcore/document"
	"github.com/nathoo/rewardcore/types"
)

type requirementFunc func(w *walk, n document.Node) (types.Requirement, error)

var requirementParsers map[string]requirementFunc

func init() {
	requirementParsers = map[string]requirementFunc{
		"and":                 parseAnd,
		"true_requirement":    parseTrue,
		"false_requirement":   parseFalse,
		"friends_requirement": parseFriends,
		"level_requirement":   parseLevel,
		"item_requirement":    parseItem,
		"stat_requirement":    parseStat,
	}
}

// RequirementKinds returns the element names the parser accepts as requirements.
func RequirementKinds() []string {
	return sortedKeys(requirementParsers)
}

// parseAnd ignores any ok/reason attributes on the element itself; the
// result is always derived from the children.
func parseAnd(w *walk, n document.Node) (types.Requirement, error) {
	children, err := w.requirementList(n)
	if err != nil {
		return nil, err
	}
	return types.AndRequirement{Children: children}, nil
}

func parseTrue(*walk, document.Node) (types.Requirement, error) {
	return types.TrueRequirement{}, nil
}

func parseFalse(_ *walk, n document.Node) (types.Requirement, error) {
	return types.FalseRequirement{Reason: optional(n, "reason")}, nil
}

func parseFriends(w *walk, n document.Node) (types.Requirement, error) {
	required, err := w.integer(n, "required")
	if err != nil {
		return nil, err
	}
	out, err := w.outcome(n)
	if err != nil {
		return nil, err
	}
	return types.FriendsRequirement{Required: required, Outcome: out}, nil
}

func parseLevel(w *walk, n document.Node) (types.Requirement, error) {
	level, err := w.integer(n, "level")
	if err != nil {
		return nil, err
	}
	out, err := w.outcome(n)
	if err != nil {
		return nil, err
	}
	return types.LevelRequirement{Level: level, Outcome: out}, nil
}

func parseItem(w *walk, n document.Node) (types.Requirement, error) {
	key, err := w.str(n, "ikey")
	if err != nil {
		return nil, err
	}
	number, err := w.integer(n, "number")
	if err != nil {
		return nil, err
	}
	out, err := w.outcome(n)
	if err != nil {
		return nil, err
	}
	return types.ItemRequirement{ItemKey: key, Number: number, Outcome: out}, nil
}

func parseStat(w *walk, n document.Node) (types.Requirement, error) {
	statType, key, err := w.statTarget(n)
	if err != nil {
		return nil, err
	}
	value, err := w.integer(n, "value")
	if err != nil {
		return nil, err
	}
	out, err := w.outcome(n)
	if err != nil {
		return nil, err
	}
	return types.StatRequirement{StatType: statType, ItemKey: key, Value: value, Outcome: out}, nil
}

// outcome reads the precomputed ok flag and optional reason.
func (w *walk) outcome(n document.Node) (types.Outcome, error) {
	ok, err := w.boolean(n, "ok")
	if err != nil {
		return types.Outcome{}, err
	}
	return types.Outcome{OK: ok, Reason: optional(n, "reason")}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
