package parser

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/rewardcore/document"
	"github.com/nathoo/rewardcore/types"
)

// ifThenElseFixture mirrors:
//
//	<if_then_else>
//	  <if>
//	    <friends_requirement required="2" ok="false" reason="Insufficient friends"/>
//	    <true_requirement ok="true"/>
//	  </if>
//	  <then>
//	    <grant_stat type="attribute" ikey="_energy_max" value="0"/>
//	    <grant_xp value="54"/>
//	  </then>
//	  <else>
//	    <grant_stat_range type="currency" ikey="gamecoins" min="2" max="6"/>
//	    <remove_items/>
//	  </else>
//	</if_then_else>
func branchNodes() map[string]document.Node {
	return map[string]document.Node{
		"if": document.Elem("if", nil,
			document.Elem("friends_requirement", document.Attrs{"required": "2", "ok": "false", "reason": "Insufficient friends"}),
			document.Elem("true_requirement", document.Attrs{"ok": "true"}),
		),
		"then": document.Elem("then", nil,
			document.Elem("grant_stat", document.Attrs{"type": "attribute", "ikey": "_energy_max", "value": "0"}),
			document.Elem("grant_xp", document.Attrs{"value": "54"}),
		),
		"else": document.Elem("else", nil,
			document.Elem("grant_stat_range", document.Attrs{"type": "currency", "ikey": "gamecoins", "min": "2", "max": "6"}),
			document.Elem("remove_items", nil),
		),
	}
}

var wantIfThenElse = types.IfThenElse{
	Condition: []types.Requirement{
		types.FriendsRequirement{Required: 2, Outcome: types.Outcome{OK: false, Reason: "Insufficient friends"}},
		types.TrueRequirement{},
	},
	Then: []types.Modifier{
		types.GrantStat{StatType: "attribute", ItemKey: "_energy_max", Value: 0},
		types.GrantXp{Value: 54},
	},
	Else: []types.Modifier{
		types.GrantStatRange{StatType: "currency", ItemKey: "gamecoins", Min: 2, Max: 6},
		types.RemoveItems{},
	},
}

func TestIfThenElse_AnyBranchOrder(t *testing.T) {
	orders := [][]string{
		{"if", "then", "else"},
		{"if", "else", "then"},
		{"then", "if", "else"},
		{"then", "else", "if"},
		{"else", "if", "then"},
		{"else", "then", "if"},
	}
	p := New()

	for _, order := range orders {
		t.Run(strings.Join(order, ","), func(t *testing.T) {
			nodes := branchNodes()
			kids := make([]document.Node, 0, len(order))
			for _, name := range order {
				kids = append(kids, nodes[name])
			}

			got, err := p.ParseAModifier(document.Elem("if_then_else", nil, kids...))
			require.NoError(t, err)
			assert.Equal(t, wantIfThenElse, got)
		})
	}
}

func TestIfThenElse_MissingBranch(t *testing.T) {
	tests := []struct {
		name    string
		present []string
		missing string
	}{
		{"no if", []string{"then", "else"}, "if"},
		{"no then", []string{"if", "else"}, "then"},
		{"no else", []string{"then", "if"}, "else"},
		{"only if", []string{"if"}, "then"},
		{"empty", nil, "if"},
	}
	p := New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := branchNodes()
			var kids []document.Node
			for _, name := range tt.present {
				kids = append(kids, nodes[name])
			}

			_, err := p.ParseAModifier(document.Elem("if_then_else", nil, kids...))
			require.ErrorIs(t, err, ErrMissingBranch)
			assert.Contains(t, err.Error(), fmt.Sprintf("%q", tt.missing))
		})
	}
}

func TestIfThenElse_DuplicateOrStrayChild(t *testing.T) {
	nodes := branchNodes()
	p := New()

	_, err := p.ParseAModifier(document.Elem("if_then_else", nil,
		nodes["if"], nodes["then"], nodes["else"], nodes["then"]))
	require.ErrorIs(t, err, ErrUnexpectedElement)

	_, err = p.ParseAModifier(document.Elem("if_then_else", nil,
		nodes["if"], nodes["then"], nodes["else"], document.Elem("otherwise", nil)))
	require.ErrorIs(t, err, ErrUnexpectedElement)
	assert.Contains(t, err.Error(), "otherwise")
}

func TestIfThenElse_BranchErrorsPropagate(t *testing.T) {
	node := document.Elem("if_then_else", nil,
		document.Elem("if", nil, document.Elem("mystery_requirement", nil)),
		document.Elem("then", nil),
		document.Elem("else", nil),
	)

	_, err := New().ParseAModifier(node)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindUnknownRequirement, pe.Kind)
	assert.Equal(t, "mystery_requirement", pe.Element)
	assert.Equal(t, "if_then_else/if/mystery_requirement[0]", pe.Path)
}

func choice(weight string, mods []document.Node, reqs []document.Node) document.Node {
	return document.Elem("choice", nil,
		document.Elem("weight", document.Attrs{"weight": weight}),
		document.Elem("modifier", nil, mods...),
		document.Elem("requirement", nil, reqs...),
	)
}

func TestRandomChoice_OrderAndWeights(t *testing.T) {
	node := document.Elem("random_choice", nil,
		choice("78",
			[]document.Node{document.Elem("nothing", nil), document.Elem("grant_xp", document.Attrs{"value": "56"})},
			[]document.Node{document.Elem("and", document.Attrs{"ok": "false", "reason": "always fails"},
				document.Elem("true_requirement", document.Attrs{"ok": "true"}),
				document.Elem("false_requirement", document.Attrs{"ok": "false", "reason": "always fails"}),
			)},
		),
		choice("12",
			[]document.Node{document.Elem("nothing", nil)},
			[]document.Node{document.Elem("and", nil, document.Elem("true_requirement", nil))},
		),
		choice("1", nil, nil),
	)

	got, err := New().ParseAModifier(node)
	require.NoError(t, err)

	want := types.RandomChoice{Choices: []types.ChoiceEntry{
		{
			Weight:    78,
			Modifiers: []types.Modifier{types.Nothing{}, types.GrantXp{Value: 56}},
			Requirements: []types.Requirement{types.AndRequirement{Children: []types.Requirement{
				types.TrueRequirement{},
				types.FalseRequirement{Reason: "always fails"},
			}}},
		},
		{
			Weight:       12,
			Modifiers:    []types.Modifier{types.Nothing{}},
			Requirements: []types.Requirement{types.AndRequirement{Children: []types.Requirement{types.TrueRequirement{}}}},
		},
		{
			Weight:       1,
			Modifiers:    []types.Modifier{},
			Requirements: []types.Requirement{},
		},
	}}
	assert.Equal(t, want, got)
}

func TestRandomChoice_NoChoicesIsNotAnError(t *testing.T) {
	got, err := New().ParseAModifier(document.Elem("random_choice", nil))
	require.NoError(t, err)
	assert.Equal(t, types.RandomChoice{Choices: []types.ChoiceEntry{}}, got)
}

func TestRandomChoice_WeightOnChoiceElement(t *testing.T) {
	node := document.Elem("random_choice", nil,
		document.Elem("choice", document.Attrs{"weight": "5"},
			document.Elem("modifier", nil, document.Elem("grant_item", document.Attrs{"ikey": "gem"})),
		),
	)

	got, err := New().ParseAModifier(node)
	require.NoError(t, err)
	assert.Equal(t, types.RandomChoice{Choices: []types.ChoiceEntry{{
		Weight:       5,
		Modifiers:    []types.Modifier{types.GrantItem{ItemKey: "gem"}},
		Requirements: []types.Requirement{},
	}}}, got)
}

func TestRandomChoice_Errors(t *testing.T) {
	tests := []struct {
		name string
		node document.Node
		kind Kind
		path string
	}{
		{
			name: "weight child with wrong attribute key",
			node: document.Elem("random_choice", nil,
				document.Elem("choice", nil, document.Elem("weight", document.Attrs{"value": "3"}))),
			kind: KindMissingAttribute,
			path: "random_choice/choice[0]/weight",
		},
		{
			name: "no weight anywhere",
			node: document.Elem("random_choice", nil, document.Elem("choice", nil)),
			kind: KindMissingAttribute,
			path: "random_choice/choice[0]",
		},
		{
			name: "weight not an integer",
			node: document.Elem("random_choice", nil, choice("heavy", nil, nil)),
			kind: KindInvalidNumeric,
			path: "random_choice/choice[0]/weight",
		},
		{
			name: "zero weight",
			node: document.Elem("random_choice", nil, choice("0", nil, nil)),
			kind: KindInvalidWeight,
			path: "random_choice/choice[0]/weight",
		},
		{
			name: "negative weight on choice",
			node: document.Elem("random_choice", nil, document.Elem("choice", document.Attrs{"weight": "-2"})),
			kind: KindInvalidWeight,
			path: "random_choice/choice[0]",
		},
		{
			name: "non-choice child",
			node: document.Elem("random_choice", nil, choice("1", nil, nil), document.Elem("grant_xp", document.Attrs{"value": "1"})),
			kind: KindUnexpectedElement,
			path: "random_choice/grant_xp[1]",
		},
		{
			name: "stray element in choice",
			node: document.Elem("random_choice", nil,
				document.Elem("choice", document.Attrs{"weight": "1"}, document.Elem("bonus", nil))),
			kind: KindUnexpectedElement,
			path: "random_choice/choice[0]/bonus",
		},
		{
			name: "nested modifier error",
			node: document.Elem("random_choice", nil,
				choice("1", []document.Node{document.Elem("nothing", nil), document.Elem("grant_xp", nil)}, nil)),
			kind: KindMissingAttribute,
			path: "random_choice/choice[0]/modifier/grant_xp[1]",
		},
	}

	p := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ParseAModifier(tt.node)
			assert.Nil(t, got)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.kind, pe.Kind)
			assert.Equal(t, tt.path, pe.Path)
		})
	}
}

// nestedIf builds depth levels of if_then_else around a nothing.
func nestedIf(depth int) document.Node {
	var node document.Node = document.Elem("nothing", nil)
	for i := 1; i < depth; i++ {
		node = document.Elem("if_then_else", nil,
			document.Elem("if", nil),
			document.Elem("then", nil, node),
			document.Elem("else", nil),
		)
	}
	return node
}

func nestedChoice(depth int) document.Node {
	var node document.Node = document.Elem("nothing", nil)
	for i := 1; i < depth; i++ {
		node = document.Elem("random_choice", nil,
			document.Elem("choice", document.Attrs{"weight": "1"},
				document.Elem("modifier", nil, node)),
		)
	}
	return node
}

func TestMaxDepth(t *testing.T) {
	p := New().WithMaxDepth(5)

	for _, build := range []func(int) document.Node{nestedIf, nestedChoice} {
		_, err := p.ParseAModifier(build(5))
		require.NoError(t, err)

		_, err = p.ParseAModifier(build(6))
		require.ErrorIs(t, err, ErrDocumentTooDeep)
	}
}

func TestMaxDepth_ListRootCountsChildren(t *testing.T) {
	p := New().WithMaxDepth(3)
	root := document.Elem("modifiers", nil, nestedIf(3))
	_, err := p.ParseModifierList(root)
	require.NoError(t, err)

	root = document.Elem("modifiers", nil, nestedIf(4))
	_, err = p.ParseModifierList(root)
	require.ErrorIs(t, err, ErrDocumentTooDeep)
}

func TestMaxDepth_VeryDeepDocumentFailsCleanly(t *testing.T) {
	_, err := New().ParseAModifier(nestedIf(100_000))
	require.ErrorIs(t, err, ErrDocumentTooDeep)
}

func TestWithMaxDepth_NonPositiveRestoresDefault(t *testing.T) {
	assert.Equal(t, DefaultMaxDepth, New().WithMaxDepth(0).MaxDepth())
	assert.Equal(t, DefaultMaxDepth, New().WithMaxDepth(-4).MaxDepth())
	assert.Equal(t, 9, New().WithMaxDepth(9).MaxDepth())
}

func TestParser_ConcurrentUse(t *testing.T) {
	p := New()
	nodes := branchNodes()
	doc := document.Elem("modifiers", nil,
		document.Elem("if_then_else", nil, nodes["else"], nodes["if"], nodes["then"]),
		nestedChoice(10),
	)

	want, err := p.ParseModifierList(doc)
	require.NoError(t, err)

	const workers = 16
	results := make([][]types.Modifier, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = p.ParseModifierList(doc)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, want, results[i])
	}
}

func TestModifierKinds(t *testing.T) {
	assert.Equal(t, []string{
		"grant_item", "grant_stat", "grant_stat_range", "grant_xp", "grant_xp_range",
		"if_then_else", "nothing", "random_choice", "remove_items",
	}, ModifierKinds())
}
