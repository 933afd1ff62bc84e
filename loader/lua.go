package loader

import (
	"errors"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/rewardcore/document"
)

// collector holds what the constructors saw while the file ran.
type collector struct {
	root *lua.LTable
}

// runLua executes a document script in a fresh sandboxed VM and converts the
// table registered by Modifiers{...} into an element tree.
func runLua(path string) (*document.Element, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	if err := L.DoFile(path); err != nil {
		return nil, err
	}
	if coll.root == nil {
		return nil, errors.New("no Modifiers { ... } block found")
	}
	return toElement(coll.root)
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach the filesystem or break determinism.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("randomseed", lua.LNil)
		tbl.RawSetString("random", lua.LNil)
	}
}
