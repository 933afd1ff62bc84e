// Package effects implements centralized state mutation via the Apply function.
// Every grant type is one atomic operation. No logic in effects.
package effects

import (
	"fmt"

	"github.com/nathoo/rewardcore/engine/state"
	"github.com/nathoo/rewardcore/types"
)

// Apply applies a list of grants to the reward state, mutating it.
// Returns events emitted and output text collected.
func Apply(s *types.State, grants []types.Grant) ([]types.Event, []string) {
	var events []types.Event
	var output []string

	for _, g := range grants {
		switch g.Type {
		case types.GrantTypeItem:
			had := state.HasItem(s, g.ItemKey)
			s.Player.Inventory = append(s.Player.Inventory, g.ItemKey)
			count := state.CountItem(s, g.ItemKey)
			events = append(events, types.Event{
				Type: "item_granted",
				Data: map[string]any{"item": g.ItemKey, "count": count},
			})
			if had {
				output = append(output, fmt.Sprintf("You receive another %s (now %d).", g.ItemKey, count))
			} else {
				output = append(output, fmt.Sprintf("You receive %s.", g.ItemKey))
			}

		case types.GrantTypeXP:
			s.Player.XP += g.Amount
			events = append(events, types.Event{
				Type: "xp_granted",
				Data: map[string]any{"amount": g.Amount, "total": s.Player.XP},
			})
			output = append(output, fmt.Sprintf("You gain %d XP (total %d).", g.Amount, s.Player.XP))

		case types.GrantTypeStat:
			value := state.AddStat(s, g.StatType, g.ItemKey, g.Amount)
			events = append(events, types.Event{
				Type: "stat_changed",
				Data: map[string]any{"type": g.StatType, "ikey": g.ItemKey, "delta": g.Amount, "value": value},
			})
			output = append(output, fmt.Sprintf("%s %s %+d (now %d).", g.StatType, g.ItemKey, g.Amount, value))

		case types.GrantTypeClear:
			n := len(s.Player.Inventory)
			s.Player.Inventory = []string{}
			events = append(events, types.Event{
				Type: "inventory_cleared",
				Data: map[string]any{"count": n},
			})
			output = append(output, fmt.Sprintf("Your inventory is emptied (%d items removed).", n))
		}
	}

	return events, output
}
