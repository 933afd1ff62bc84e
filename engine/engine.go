// Package engine provides the Apply orchestrator that wires together
// resolution, effects and the receipt ledger into a single reward roll.
package engine

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/nathoo/rewardcore/engine/effects"
	"github.com/nathoo/rewardcore/engine/resolve"
	"github.com/nathoo/rewardcore/engine/state"
	"github.com/nathoo/rewardcore/types"
)

// Engine holds a parsed reward document and the mutable state it is applied
// to. It is not safe for concurrent use.
type Engine struct {
	Modifiers []types.Modifier
	State     *types.State
	RNG       *RNG

	// LastTrace is the resolution trace of the most recent Apply.
	LastTrace []string

	logger *slog.Logger
	newID  func() string
}

// New creates an engine for mods with a fresh state seeded by seed.
func New(mods []types.Modifier, seed int64) *Engine {
	return &Engine{
		Modifiers: mods,
		State:     state.NewState(seed),
		RNG:       NewRNG(seed),
		logger:    slog.Default(),
		newID:     uuid.NewString,
	}
}

// WithLogger sets the logger used for per-roll debug output.
func (e *Engine) WithLogger(logger *slog.Logger) *Engine {
	if logger != nil {
		e.logger = logger
	}
	return e
}

// RestoreRNG re-creates the RNG from seed and advances to the saved position.
func (e *Engine) RestoreRNG(seed int64, position int64) {
	e.RNG = RestoreRNG(seed, position)
	e.State.RNGSeed = seed
}

// Apply resolves the document once and applies the grants to the state.
func (e *Engine) Apply() types.Result {
	res := resolve.Resolve(e.Modifiers, e.RNG)
	events, output := effects.Apply(e.State, res.Grants)

	grants := res.Grants
	if grants == nil {
		grants = []types.Grant{}
	}
	receipt := types.Receipt{ID: e.newID(), Grants: grants}
	e.State.Applied++
	e.State.Ledger = append(e.State.Ledger, receipt)
	e.LastTrace = res.Trace

	if len(output) == 0 {
		output = []string{"Nothing happens."}
	}

	e.logger.Debug("applied reward",
		"receipt", receipt.ID,
		"grants", len(grants),
		"applied", e.State.Applied,
		"rng_position", e.RNG.Position(),
	)

	return types.Result{
		ReceiptID: receipt.ID,
		Grants:    grants,
		Events:    events,
		Output:    output,
	}
}
