// Package resolve walks a modifier tree and turns it into concrete grants.
// It draws randomness from a Roller and never touches player state.
package resolve

import (
	"fmt"
	"strings"

	"github.com/nathoo/rewardcore/engine/rules"
	"github.com/nathoo/rewardcore/types"
)

// Roller is the randomness resolution needs. *engine.RNG implements it.
type Roller interface {
	// Range returns a value in [lo, hi].
	Range(lo, hi int) int
	// WeightedSelect returns an index into weights, chosen by weight.
	WeightedSelect(weights []int) int
}

// Resolution is the outcome of resolving a modifier list.
type Resolution struct {
	Grants []types.Grant
	// Trace records each branch and draw taken, for debugging documents.
	Trace []string
}

// Resolve evaluates mods in order and returns the grants they produce.
func Resolve(mods []types.Modifier, roller Roller) Resolution {
	r := &resolver{roller: roller}
	r.list(mods, 0)
	return Resolution{Grants: r.grants, Trace: r.trace}
}

type resolver struct {
	roller Roller
	grants []types.Grant
	trace  []string
}

func (r *resolver) note(depth int, format string, args ...any) {
	r.trace = append(r.trace, strings.Repeat("  ", depth)+fmt.Sprintf(format, args...))
}

func (r *resolver) grant(g types.Grant) {
	r.grants = append(r.grants, g)
}

func (r *resolver) list(mods []types.Modifier, depth int) {
	for _, m := range mods {
		r.modifier(m, depth)
	}
}

func (r *resolver) modifier(m types.Modifier, depth int) {
	switch m := m.(type) {
	case types.GrantItem:
		r.note(depth, "grant_item %s", m.ItemKey)
		r.grant(types.Grant{Type: types.GrantTypeItem, ItemKey: m.ItemKey, Amount: 1})

	case types.GrantXp:
		r.note(depth, "grant_xp %d", m.Value)
		r.grant(types.Grant{Type: types.GrantTypeXP, Amount: m.Value})

	case types.GrantXpRange:
		v := r.roller.Range(m.Min, m.Max)
		r.note(depth, "grant_xp_range %d..%d rolled %d", m.Min, m.Max, v)
		r.grant(types.Grant{Type: types.GrantTypeXP, Amount: v})

	case types.GrantStat:
		r.note(depth, "grant_stat %s/%s %d", m.StatType, m.ItemKey, m.Value)
		r.grant(types.Grant{Type: types.GrantTypeStat, StatType: m.StatType, ItemKey: m.ItemKey, Amount: m.Value})

	case types.GrantStatRange:
		v := r.roller.Range(m.Min, m.Max)
		r.note(depth, "grant_stat_range %s/%s %d..%d rolled %d", m.StatType, m.ItemKey, m.Min, m.Max, v)
		r.grant(types.Grant{Type: types.GrantTypeStat, StatType: m.StatType, ItemKey: m.ItemKey, Amount: v})

	case types.RemoveItems:
		r.note(depth, "remove_items")
		r.grant(types.Grant{Type: types.GrantTypeClear})

	case types.Nothing:
		r.note(depth, "nothing")

	case types.IfThenElse:
		if ok, _ := rules.EvalAll(m.Condition); ok {
			r.note(depth, "if_then_else: condition holds, then")
			r.list(m.Then, depth+1)
		} else {
			r.note(depth, "if_then_else: %s, else", failure(rules.Failures(m.Condition)))
			r.list(m.Else, depth+1)
		}

	case types.RandomChoice:
		eligible := rules.Eligible(m.Choices)
		if len(eligible) == 0 {
			r.note(depth, "random_choice: no eligible choice of %d", len(m.Choices))
			return
		}
		weights := make([]int, len(eligible))
		for i, idx := range eligible {
			weights[i] = m.Choices[idx].Weight
		}
		picked := eligible[r.roller.WeightedSelect(weights)]
		r.note(depth, "random_choice: picked choice %d (weight %d) of %d eligible",
			picked, m.Choices[picked].Weight, len(eligible))
		r.list(m.Choices[picked].Modifiers, depth+1)
	}
}

// failure lists every unmet top-level requirement, not just the first.
func failure(reasons []string) string {
	if len(reasons) == 0 {
		return "condition failed"
	}
	return "condition failed (" + strings.Join(reasons, "; ") + ")"
}
