package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/rewardcore/types"
)

// RenderTree prints a parsed modifier list, one element per line, children
// indented by two spaces.
func RenderTree(mods []types.Modifier, st *Styles) string {
	var sb strings.Builder
	t := &treeWriter{sb: &sb, st: st}
	t.modifiers(mods, 0)
	return sb.String()
}

type treeWriter struct {
	sb *strings.Builder
	st *Styles
}

func (t *treeWriter) line(depth int, text string) {
	t.sb.WriteString(strings.Repeat("  ", depth))
	t.sb.WriteString(text)
	t.sb.WriteByte('\n')
}

func (t *treeWriter) elem(depth int, name string, attrs ...string) {
	text := t.st.Kind(name)
	if len(attrs) > 0 {
		text += " " + t.st.Attr(strings.Join(attrs, " "))
	}
	t.line(depth, text)
}

func (t *treeWriter) modifiers(mods []types.Modifier, depth int) {
	for _, m := range mods {
		t.modifier(m, depth)
	}
}

func (t *treeWriter) modifier(m types.Modifier, depth int) {
	switch m := m.(type) {
	case types.GrantItem:
		t.elem(depth, m.Kind(), kv("ikey", m.ItemKey))
	case types.GrantXp:
		t.elem(depth, m.Kind(), kvInt("value", m.Value))
	case types.GrantXpRange:
		t.elem(depth, m.Kind(), kvInt("min", m.Min), kvInt("max", m.Max))
	case types.GrantStat:
		t.elem(depth, m.Kind(), kv("type", m.StatType), kv("ikey", m.ItemKey), kvInt("value", m.Value))
	case types.GrantStatRange:
		t.elem(depth, m.Kind(), kv("type", m.StatType), kv("ikey", m.ItemKey), kvInt("min", m.Min), kvInt("max", m.Max))
	case types.IfThenElse:
		t.elem(depth, m.Kind())
		t.line(depth+1, t.st.Branch("if"))
		t.requirements(m.Condition, depth+2)
		t.line(depth+1, t.st.Branch("then"))
		t.modifiers(m.Then, depth+2)
		t.line(depth+1, t.st.Branch("else"))
		t.modifiers(m.Else, depth+2)
	case types.RandomChoice:
		t.elem(depth, m.Kind())
		for _, c := range m.Choices {
			t.line(depth+1, t.st.Branch("choice")+" "+t.st.Attr(kvInt("weight", c.Weight)))
			if len(c.Modifiers) > 0 {
				t.line(depth+2, t.st.Branch("modifier"))
				t.modifiers(c.Modifiers, depth+3)
			}
			if len(c.Requirements) > 0 {
				t.line(depth+2, t.st.Branch("requirement"))
				t.requirements(c.Requirements, depth+3)
			}
		}
	default:
		t.elem(depth, m.Kind())
	}
}

func (t *treeWriter) requirements(reqs []types.Requirement, depth int) {
	for _, r := range reqs {
		ok, reason := r.Evaluate()
		text := r.Kind()
		switch r := r.(type) {
		case types.FriendsRequirement:
			text += " " + kvInt("required", r.Required)
		case types.LevelRequirement:
			text += " " + kvInt("level", r.Level)
		case types.ItemRequirement:
			text += " " + kv("ikey", r.ItemKey) + " " + kvInt("number", r.Number)
		case types.StatRequirement:
			text += " " + kv("type", r.StatType) + " " + kv("ikey", r.ItemKey) + " " + kvInt("value", r.Value)
		}
		if !ok && reason != "" {
			text += " " + kv("reason", reason)
		}
		t.line(depth, t.st.Requirement(text, ok))
		if and, isAnd := r.(types.AndRequirement); isAnd {
			t.requirements(and.Children, depth+1)
		}
	}
}

func kv(key, value string) string {
	if value == "" || strings.ContainsAny(value, " \t\"=") {
		return fmt.Sprintf("%s=%q", key, value)
	}
	return key + "=" + value
}

func kvInt(key string, v int) string {
	return key + "=" + strconv.Itoa(v)
}
