// Package save implements JSON serialization and deserialization of reward state.
package save

import (
	"encoding/json"
	"fmt"

	"github.com/nathoo/rewardcore/engine/state"
	"github.com/nathoo/rewardcore/types"
)

// FormatVersion is written into every save and checked on load.
const FormatVersion = 1

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version     int             `json:"version"`
	Document    string          `json:"document"`
	Applied     int             `json:"applied"`
	Player      types.Player    `json:"player"`
	RNGSeed     int64           `json:"rng_seed"`
	RNGPosition int64           `json:"rng_position"`
	Ledger      []types.Receipt `json:"ledger"`
}

// Save serializes reward state to JSON bytes. document names the reward
// document the state was rolled against.
func Save(s *types.State, document string, rngPosition int64) ([]byte, error) {
	data := SaveData{
		Version:     FormatVersion,
		Document:    document,
		Applied:     s.Applied,
		Player:      s.Player,
		RNGSeed:     s.RNGSeed,
		RNGPosition: rngPosition,
		Ledger:      s.Ledger,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	if sd.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported save version %d (want %d)", sd.Version, FormatVersion)
	}
	if sd.RNGPosition < 0 {
		return nil, fmt.Errorf("invalid rng position %d", sd.RNGPosition)
	}
	return &sd, nil
}

// ApplySave applies loaded save data onto a state, replacing nil collections
// with empty ones. The caller restores the RNG from RNGSeed and RNGPosition.
func ApplySave(s *types.State, sd *SaveData) {
	s.Player = sd.Player
	s.Applied = sd.Applied
	s.RNGSeed = sd.RNGSeed
	s.Ledger = sd.Ledger
	state.Normalize(s)
}
