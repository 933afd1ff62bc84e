package loader

import (
	"fmt"
	"strconv"

	"github.com/nathoo/rewardcore/types"
)

// Warning is a non-fatal finding about a parsed document.
type Warning struct {
	Path    string
	Message string
}

func (w Warning) String() string {
	return w.Path + ": " + w.Message
}

// Known stat types.
var validStatTypes = map[string]bool{
	"attribute": true,
	"currency":  true,
	"item":      true,
}

// Lint reports suspicious but legal constructs in a modifier list.
func Lint(mods []types.Modifier) []Warning {
	l := &linter{}
	l.modifiers(RootList, mods)
	return l.warnings
}

type linter struct {
	warnings []Warning
}

func (l *linter) warn(path, format string, args ...any) {
	l.warnings = append(l.warnings, Warning{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (l *linter) modifiers(path string, mods []types.Modifier) {
	for i, m := range mods {
		l.modifier(path+"/"+m.Kind()+"["+strconv.Itoa(i)+"]", m)
	}
}

func (l *linter) modifier(path string, m types.Modifier) {
	switch m := m.(type) {
	case types.GrantXp:
		if m.Value < 0 {
			l.warn(path, "grant_xp takes away %d xp", -m.Value)
		}
	case types.GrantXpRange:
		if m.Min == m.Max {
			l.warn(path, "range %d..%d always grants %d; use grant_xp", m.Min, m.Max, m.Min)
		}
	case types.GrantStat:
		l.statType(path, m.StatType)
	case types.GrantStatRange:
		l.statType(path, m.StatType)
		if m.Min == m.Max {
			l.warn(path, "range %d..%d always grants %d; use grant_stat", m.Min, m.Max, m.Min)
		}
	case types.IfThenElse:
		if len(m.Condition) == 0 {
			l.warn(path, "empty condition always takes the then branch")
		}
		l.modifiers(path+"/then", m.Then)
		l.modifiers(path+"/else", m.Else)
	case types.RandomChoice:
		if len(m.Choices) == 0 {
			l.warn(path, "random_choice has no choices and never grants anything")
		}
		for i, c := range m.Choices {
			l.modifiers(path+"/choice["+strconv.Itoa(i)+"]/modifier", c.Modifiers)
		}
	}
}

func (l *linter) statType(path, statType string) {
	if !validStatTypes[statType] {
		l.warn(path, "unknown stat type %q", statType)
	}
}
