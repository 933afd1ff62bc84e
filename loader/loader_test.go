package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/rewardcore/document"
	"github.com/nathoo/rewardcore/engine/parser"
	"github.com/nathoo/rewardcore/types"
)

var wantReward = []types.Modifier{
	types.GrantItem{ItemKey: "sword"},
	types.GrantXp{Value: 54},
	types.GrantXpRange{Min: 5, Max: 10},
	types.IfThenElse{
		Condition: []types.Requirement{
			types.FriendsRequirement{Required: 2, Outcome: types.Outcome{Reason: "Insufficient friends"}},
			types.TrueRequirement{},
		},
		Then: []types.Modifier{types.GrantStat{StatType: "attribute", ItemKey: "_energy_max", Value: 1}},
		Else: []types.Modifier{
			types.GrantStatRange{StatType: "currency", ItemKey: "gamecoins", Min: 2, Max: 6},
			types.RemoveItems{},
		},
	},
	types.RandomChoice{Choices: []types.ChoiceEntry{
		{
			Weight:    78,
			Modifiers: []types.Modifier{types.Nothing{}, types.GrantXp{Value: 56}},
			Requirements: []types.Requirement{types.AndRequirement{Children: []types.Requirement{
				types.TrueRequirement{},
				types.FalseRequirement{Reason: "always fails"},
			}}},
		},
		{
			Weight:       22,
			Modifiers:    []types.Modifier{types.GrantItem{ItemKey: "gem"}},
			Requirements: []types.Requirement{},
		},
	}},
	types.Nothing{},
}

func TestLoadFile_AllFormatsAgree(t *testing.T) {
	for _, name := range []string{"reward.xml", "reward.yaml", "reward.lua"} {
		t.Run(name, func(t *testing.T) {
			doc, err := LoadFile(filepath.Join("testdata", name), parser.New())
			require.NoError(t, err)
			assert.Equal(t, RootList, doc.Root.Name())
			assert.Equal(t, wantReward, doc.Modifiers)
			assert.Empty(t, doc.Warnings)
		})
	}
}

func TestLoadFile_SingleModifierRoot(t *testing.T) {
	doc, err := LoadFile("testdata/single.xml", parser.New())
	require.NoError(t, err)
	assert.Equal(t, []types.Modifier{types.GrantXpRange{Min: 1, Max: 3}}, doc.Modifiers)
}

func TestLoad_XMLPositions(t *testing.T) {
	root, err := Load("testdata/reward.xml")
	require.NoError(t, err)

	pos, ok := root.(document.Positioner)
	require.True(t, ok)
	line, col := pos.Position()
	assert.Equal(t, 2, line)
	assert.Positive(t, col)

	xp := root.Children()[1]
	assert.Equal(t, "grant_xp", xp.Name())
	line, _ = xp.(document.Positioner).Position()
	assert.Equal(t, 4, line)
}

func TestLoadFile_ParseErrorCarriesPosition(t *testing.T) {
	path := writeFile(t, "bad.xml", "<modifiers>\n  <nothing/>\n  <grant_xp value=\"many\"/>\n</modifiers>\n")

	_, err := LoadFile(path, parser.New())
	require.ErrorIs(t, err, parser.ErrInvalidNumeric)
	assert.Contains(t, err.Error(), path)

	var pe *parser.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 3, pe.Line)
	assert.Equal(t, "modifiers/grant_xp[1]", pe.Path)
}

func TestLoadFile_YAMLErrorPosition(t *testing.T) {
	path := writeFile(t, "bad.yaml", "modifiers:\n  - grant_item: {}\n")

	_, err := LoadFile(path, parser.New())
	var pe *parser.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, parser.KindMissingAttribute, pe.Kind)
	assert.Equal(t, 2, pe.Line)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"unsupported extension", "reward.json", "{}", "unsupported document type"},
		{"malformed xml", "bad.xml", "<modifiers><nothing></modifiers>", "reading"},
		{"empty xml", "empty.xml", "", "no root element"},
		{"two xml roots", "two.xml", "<nothing/><nothing/>", "second root element"},
		{"malformed yaml", "bad.yaml", "modifiers: [\n", "reading"},
		{"yaml element with two keys", "two.yaml", "modifiers:\n  - {nothing: , remove_items: }\n", "exactly one key"},
		{"empty yaml", "empty.yaml", "", "empty document"},
		{"lua syntax error", "bad.lua", "Modifiers {", "executing"},
		{"lua without root", "none.lua", "local x = GrantXp { value = 1 }", "no Modifiers"},
		{"lua with two roots", "two.lua", "Modifiers {}\nModifiers {}", "only be declared once"},
		{"lua sandbox", "io.lua", "dofile('/etc/passwd')", "executing"},
		{"lua element under key", "keyed.lua", "Modifiers { first = Nothing {} }", "list it as an entry"},
		{"lua plain table entry", "plain.lua", "Modifiers { { value = 1 } }", "not a document element"},
		{"lua function attribute", "fn.lua", "Modifiers { GrantXp { value = print } }", "unsupported value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_SelfReferenceIsRejected(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml mapping alias", "map.yaml", "modifiers: &a\n  nested: *a\n"},
		{"yaml sequence alias", "seq.yaml", "modifiers: &s\n  - then: *s\n"},
		{"lua keyed table", "keyed.lua", "local t = {}\nt.self = t\nModifiers { GrantXp { value = 1, extra = t } }"},
		{"lua entry", "entry.lua", "local g = GrantXp { value = 1 }\ng[1] = g\nModifiers { g }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCycle)
			assert.Contains(t, err.Error(), path)
		})
	}
}

func TestLoad_SharedAliasIsNotACycle(t *testing.T) {
	path := writeFile(t, "shared.yaml", "modifiers:\n  - &x {grant_xp: {value: 1}}\n  - *x\n")
	root, err := Load(path)
	require.NoError(t, err)

	mods, err := Parse(root, parser.New())
	require.NoError(t, err)
	assert.Equal(t, []types.Modifier{types.GrantXp{Value: 1}, types.GrantXp{Value: 1}}, mods)
}

func TestLoad_LuaNestingLimit(t *testing.T) {
	path := writeFile(t, "deep.lua", `
local t = {}
local cur = t
for i = 1, 10001 do
  local n = {}
  cur.x = n
  cur = n
end
Modifiers { GrantXp { value = 1, extra = t } }
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooDeep)
}

func TestLoad_LuaGenericElementAndKeyedChildren(t *testing.T) {
	path := writeFile(t, "generic.lua", `
Modifiers {
  Element("random_choice", {
    Element("choice", {
      weight = 3,
      modifier = { GrantXp { value = 2 } },
    }),
  }),
}
`)
	root, err := Load(path)
	require.NoError(t, err)

	mods, err := Parse(root, parser.New())
	require.NoError(t, err)
	assert.Equal(t, []types.Modifier{types.RandomChoice{Choices: []types.ChoiceEntry{{
		Weight:       3,
		Modifiers:    []types.Modifier{types.GrantXp{Value: 2}},
		Requirements: []types.Requirement{},
	}}}}, mods)
}

func TestLoad_LuaMathIsDeterministic(t *testing.T) {
	path := writeFile(t, "math.lua", `
assert(math.random == nil)
assert(math.randomseed == nil)
Modifiers { GrantXp { value = math.floor(7.9) } }
`)
	root, err := Load(path)
	require.NoError(t, err)

	mods, err := Parse(root, parser.New())
	require.NoError(t, err)
	assert.Equal(t, []types.Modifier{types.GrantXp{Value: 7}}, mods)
}

func TestLoadDir(t *testing.T) {
	docs, err := LoadDir(context.Background(), "testdata", parser.New(), nil)
	require.NoError(t, err)
	require.Len(t, docs, 4)

	var paths []string
	for _, d := range docs {
		paths = append(paths, filepath.Base(d.Path))
	}
	assert.Equal(t, []string{"reward.lua", "reward.xml", "reward.yaml", "single.xml"}, paths)
	assert.Equal(t, docs[0].Modifiers, docs[2].Modifiers)
}

func TestLoadDir_FailureNamesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.xml"), []byte("<nothing/>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("grant_xp: {value: x}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	_, err := LoadDir(context.Background(), dir, parser.New(), nil)
	require.ErrorIs(t, err, parser.ErrInvalidNumeric)
	assert.Contains(t, err.Error(), "broken.yaml")
}

func TestLoadDir_Empty(t *testing.T) {
	_, err := LoadDir(context.Background(), t.TempDir(), parser.New(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no reward documents")
}

func TestLoadDir_MaxDepthApplies(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "deep.xml"),
		[]byte("<if_then_else><if/><then><nothing/></then><else/></if_then_else>"), 0o644))

	_, err := LoadDir(context.Background(), dir, parser.New().WithMaxDepth(1), nil)
	require.ErrorIs(t, err, parser.ErrDocumentTooDeep)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
