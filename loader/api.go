package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// elementKey marks a Lua table built by one of the constructors.
const elementKey = "__element"

// constructors maps Lua global names to the element each one builds.
// If, Then and Else are capitalized because the lowercase words are
// Lua keywords.
var constructors = map[string]string{
	"GrantItem":      "grant_item",
	"GrantXp":        "grant_xp",
	"GrantXpRange":   "grant_xp_range",
	"GrantStat":      "grant_stat",
	"GrantStatRange": "grant_stat_range",
	"RemoveItems":    "remove_items",
	"Nothing":        "nothing",
	"IfThenElse":     "if_then_else",
	"If":             "if",
	"Then":           "then",
	"Else":           "else",
	"RandomChoice":   "random_choice",
	"Choice":         "choice",
	"Modifier":       "modifier",
	"Requirement":    "requirement",

	"And":                "and",
	"TrueRequirement":    "true_requirement",
	"FalseRequirement":   "false_requirement",
	"FriendsRequirement": "friends_requirement",
	"LevelRequirement":   "level_requirement",
	"ItemRequirement":    "item_requirement",
	"StatRequirement":    "stat_requirement",
}

// registerAPI registers the document constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	for global, name := range constructors {
		L.SetGlobal(global, L.NewFunction(construct(name)))
	}

	// Modifiers { ... } declares the document root.
	L.SetGlobal("Modifiers", L.NewFunction(func(L *lua.LState) int {
		if coll.root != nil {
			L.RaiseError("Modifiers may only be declared once per document")
			return 0
		}
		tbl := mark(L, RootList, L.OptTable(1, L.NewTable()))
		coll.root = tbl
		L.Push(tbl)
		return 1
	}))

	// Weight(78) or Weight { weight = 78 }.
	L.SetGlobal("Weight", L.NewFunction(func(L *lua.LState) int {
		if n, ok := L.Get(1).(lua.LNumber); ok {
			tbl := L.NewTable()
			tbl.RawSetString("weight", n)
			L.Push(mark(L, "weight", tbl))
			return 1
		}
		L.Push(mark(L, "weight", L.OptTable(1, L.NewTable())))
		return 1
	}))

	// Element("name", { ... }) builds any element by name.
	L.SetGlobal("Element", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(mark(L, name, L.OptTable(2, L.NewTable())))
		return 1
	}))
}

// construct returns a constructor taking an optional table: GrantXp { value = 5 }.
func construct(name string) lua.LGFunction {
	return func(L *lua.LState) int {
		L.Push(mark(L, name, L.OptTable(1, L.NewTable())))
		return 1
	}
}

// mark tags tbl as an element. A table can only become one element.
func mark(L *lua.LState, name string, tbl *lua.LTable) *lua.LTable {
	if prev, ok := tbl.RawGetString(elementKey).(lua.LString); ok {
		L.RaiseError("table is already a %s element", string(prev))
	}
	tbl.RawSetString(elementKey, lua.LString(name))
	return tbl
}
