// Package state manages the mutable reward state: inventory, experience and
// stat buckets.
package state

import (
	"sort"

	"github.com/nathoo/rewardcore/types"
)

// NewState creates a fresh player state for the given seed.
func NewState(seed int64) *types.State {
	return &types.State{
		Player: types.Player{
			Inventory: []string{},
			Stats:     map[string]map[string]int{},
		},
		RNGSeed: seed,
		Ledger:  []types.Receipt{},
	}
}

// HasItem returns true if the player has the given item in inventory.
func HasItem(s *types.State, itemKey string) bool {
	return CountItem(s, itemKey) > 0
}

// CountItem returns how many copies of itemKey the player holds.
func CountItem(s *types.State, itemKey string) int {
	n := 0
	for _, key := range s.Player.Inventory {
		if key == itemKey {
			n++
		}
	}
	return n
}

// GetStat returns a stat value. Unset stats return 0.
func GetStat(s *types.State, statType, itemKey string) int {
	return s.Player.Stats[statType][itemKey]
}

// AddStat adds delta to a stat bucket and returns the new value.
func AddStat(s *types.State, statType, itemKey string, delta int) int {
	if s.Player.Stats == nil {
		s.Player.Stats = map[string]map[string]int{}
	}
	bucket, ok := s.Player.Stats[statType]
	if !ok {
		bucket = map[string]int{}
		s.Player.Stats[statType] = bucket
	}
	bucket[itemKey] += delta
	return bucket[itemKey]
}

// StatTypes returns the stat types the player has values for, sorted.
func StatTypes(s *types.State) []string {
	out := make([]string, 0, len(s.Player.Stats))
	for t := range s.Player.Stats {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// StatKeys returns the item keys within a stat type, sorted.
func StatKeys(s *types.State, statType string) []string {
	bucket := s.Player.Stats[statType]
	out := make([]string, 0, len(bucket))
	for k := range bucket {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Normalize replaces nil collections with empty ones, e.g. after decoding.
func Normalize(s *types.State) {
	if s.Player.Inventory == nil {
		s.Player.Inventory = []string{}
	}
	if s.Player.Stats == nil {
		s.Player.Stats = map[string]map[string]int{}
	}
	if s.Ledger == nil {
		s.Ledger = []types.Receipt{}
	}
}
