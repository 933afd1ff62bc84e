package types

// Requirement is a parsed predicate. Evaluate reports whether it holds and,
// when it does not, a human-readable reason. The set of variants is closed.
type Requirement interface {
	// Kind returns the document element name the requirement was parsed from.
	Kind() string
	Evaluate() (ok bool, reason string)
	isRequirement()
}

// Outcome is a result precomputed by the service that produced the document.
// Threshold requirements carry it as their ok and reason attributes.
type Outcome struct {
	OK     bool
	Reason string
}

// Evaluate returns the precomputed result. The reason is dropped when OK.
func (o Outcome) Evaluate() (bool, string) {
	if o.OK {
		return true, ""
	}
	return false, o.Reason
}

// TrueRequirement always holds.
type TrueRequirement struct{}

// FalseRequirement never holds.
type FalseRequirement struct {
	Reason string
}

// FriendsRequirement needs at least Required friends.
type FriendsRequirement struct {
	Required int
	Outcome
}

// LevelRequirement needs at least the given player level.
type LevelRequirement struct {
	Level int
	Outcome
}

// ItemRequirement needs Number of the item ItemKey.
type ItemRequirement struct {
	ItemKey string
	Number  int
	Outcome
}

// StatRequirement needs the stat bucket to be at least Value.
type StatRequirement struct {
	StatType string
	ItemKey  string
	Value    int
	Outcome
}

// AndRequirement holds iff all children hold. Children keep document order.
type AndRequirement struct {
	Children []Requirement
}

func (TrueRequirement) Evaluate() (bool, string) { return true, "" }

func (r FalseRequirement) Evaluate() (bool, string) { return false, r.Reason }

// Evaluate checks every child left to right and reports the first failing
// child's reason.
func (r AndRequirement) Evaluate() (bool, string) {
	for _, c := range r.Children {
		if ok, reason := c.Evaluate(); !ok {
			return false, reason
		}
	}
	return true, ""
}

func (TrueRequirement) Kind() string    { return "true_requirement" }
func (FalseRequirement) Kind() string   { return "false_requirement" }
func (FriendsRequirement) Kind() string { return "friends_requirement" }
func (LevelRequirement) Kind() string   { return "level_requirement" }
func (ItemRequirement) Kind() string    { return "item_requirement" }
func (StatRequirement) Kind() string    { return "stat_requirement" }
func (AndRequirement) Kind() string     { return "and" }

func (TrueRequirement) isRequirement()    {}
func (FalseRequirement) isRequirement()   {}
func (FriendsRequirement) isRequirement() {}
func (LevelRequirement) isRequirement()   {}
func (ItemRequirement) isRequirement()    {}
func (StatRequirement) isRequirement()    {}
func (AndRequirement) isRequirement()     {}
