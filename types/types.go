// Package types defines the shared data structures for the reward engine.
// Apart from requirement evaluation this package holds no logic.
package types

// Modifier is a parsed action that alters player state. The set of variants
// is closed; switch on the concrete type to handle each one.
type Modifier interface {
	// Kind returns the document element name the modifier was parsed from.
	Kind() string
	isModifier()
}

// GrantItem grants one named item.
type GrantItem struct {
	ItemKey string
}

// GrantXp grants a fixed amount of experience.
type GrantXp struct {
	Value int
}

// GrantXpRange grants a uniformly random experience amount in [Min, Max].
type GrantXpRange struct {
	Min int
	Max int
}

// GrantStat adds Value to the stat bucket identified by StatType and ItemKey
// (an attribute, a currency, ...).
type GrantStat struct {
	StatType string
	ItemKey  string
	Value    int
}

// GrantStatRange adds a uniformly random amount in [Min, Max] to a stat bucket.
type GrantStatRange struct {
	StatType string
	ItemKey  string
	Min      int
	Max      int
}

// RemoveItems clears the inventory.
type RemoveItems struct{}

// Nothing is an explicit no-op.
type Nothing struct{}

// IfThenElse applies Then when every requirement in Condition holds,
// otherwise Else.
type IfThenElse struct {
	Condition []Requirement
	Then      []Modifier
	Else      []Modifier
}

// ChoiceEntry is one weighted alternative of a RandomChoice.
type ChoiceEntry struct {
	Weight       int
	Modifiers    []Modifier
	Requirements []Requirement
}

// RandomChoice applies one entry drawn by weight among the entries whose
// requirements hold. Choices keep document order.
type RandomChoice struct {
	Choices []ChoiceEntry
}

func (GrantItem) Kind() string      { return "grant_item" }
func (GrantXp) Kind() string        { return "grant_xp" }
func (GrantXpRange) Kind() string   { return "grant_xp_range" }
func (GrantStat) Kind() string      { return "grant_stat" }
func (GrantStatRange) Kind() string { return "grant_stat_range" }
func (RemoveItems) Kind() string    { return "remove_items" }
func (Nothing) Kind() string        { return "nothing" }
func (IfThenElse) Kind() string     { return "if_then_else" }
func (RandomChoice) Kind() string   { return "random_choice" }

func (GrantItem) isModifier()      {}
func (GrantXp) isModifier()        {}
func (GrantXpRange) isModifier()   {}
func (GrantStat) isModifier()      {}
func (GrantStatRange) isModifier() {}
func (RemoveItems) isModifier()    {}
func (Nothing) isModifier()        {}
func (IfThenElse) isModifier()     {}
func (RandomChoice) isModifier()   {}

// Grant types.
const (
	GrantTypeItem  = "item"
	GrantTypeXP    = "xp"
	GrantTypeStat  = "stat"
	GrantTypeClear = "remove_items"
)

// Grant is one concrete reward produced by resolving a modifier tree.
type Grant struct {
	Type     string `json:"type"`
	ItemKey  string `json:"ikey,omitempty"`
	StatType string `json:"stat_type,omitempty"`
	Amount   int    `json:"amount,omitempty"`
}

// Event is emitted after grants are applied.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single application of a reward document.
type Result struct {
	ReceiptID string
	Grants    []Grant
	Events    []Event
	Output    []string
}

// Player holds the player's reward-related state.
type Player struct {
	Inventory []string                  `json:"inventory"`
	XP        int                       `json:"xp"`
	Stats     map[string]map[string]int `json:"stats"` // stat type → item key → value
}

// Receipt records the grants of one application.
type Receipt struct {
	ID     string  `json:"id"`
	Grants []Grant `json:"grants"`
}

// State is the complete mutable reward state.
type State struct {
	Player  Player
	Applied int
	RNGSeed int64
	Ledger  []Receipt
}
