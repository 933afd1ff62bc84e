package loader

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/rewardcore/document"
)

// toElement converts a constructor-built Lua table into an element.
// Array entries become children in order. String keys with scalar values
// become attributes; string keys holding plain tables become a child element
// named by the key, after the array children, sorted by key.
func toElement(tbl *lua.LTable) (*document.Element, error) {
	c := &converter{}
	return c.element(tbl)
}

// converter refuses a table that is already being converted further up,
// since Lua tables may refer to themselves.
type converter struct {
	nest nesting[*lua.LTable]
}

func (c *converter) element(tbl *lua.LTable) (*document.Element, error) {
	name, ok := tbl.RawGetString(elementKey).(lua.LString)
	if !ok {
		return nil, fmt.Errorf("table is not a document element")
	}
	return c.table(string(name), tbl)
}

func (c *converter) table(name string, tbl *lua.LTable) (*document.Element, error) {
	if err := c.nest.enter(tbl); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer c.nest.leave(tbl)

	el := &document.Element{Tag: name}

	maxN := tbl.MaxN()
	for i := 1; i <= maxN; i++ {
		child, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("%s: entry %d is not an element", name, i)
		}
		kid, err := c.element(child)
		if err != nil {
			return nil, fmt.Errorf("%s: entry %d: %w", name, i, err)
		}
		el.Kids = append(el.Kids, kid)
	}

	var (
		keyed    []string
		nested   = map[string]*lua.LTable{}
		firstErr error
	)
	tbl.ForEach(func(k, v lua.LValue) {
		if firstErr != nil {
			return
		}
		key, ok := k.(lua.LString)
		if !ok {
			if _, isNum := k.(lua.LNumber); !isNum {
				firstErr = fmt.Errorf("%s: keys must be strings or array indexes", name)
			}
			return
		}
		if string(key) == elementKey {
			return
		}
		if t, ok := v.(*lua.LTable); ok {
			if _, marked := t.RawGetString(elementKey).(lua.LString); marked {
				firstErr = fmt.Errorf("%s: element stored under key %q; list it as an entry instead", name, string(key))
				return
			}
			keyed = append(keyed, string(key))
			nested[string(key)] = t
			return
		}
		s, err := attrString(v)
		if err != nil {
			firstErr = fmt.Errorf("%s: attribute %q: %w", name, string(key), err)
			return
		}
		if el.Attrs == nil {
			el.Attrs = document.Attrs{}
		}
		el.Attrs[string(key)] = s
	})
	if firstErr != nil {
		return nil, firstErr
	}

	sort.Strings(keyed)
	for _, key := range keyed {
		kid, err := c.table(key, nested[key])
		if err != nil {
			return nil, err
		}
		el.Kids = append(el.Kids, kid)
	}
	return el, nil
}

// attrString renders a scalar Lua value as an attribute string. Integral
// numbers print without a fraction so they parse as integers.
func attrString(v lua.LValue) (string, error) {
	switch val := v.(type) {
	case lua.LString:
		return string(val), nil
	case lua.LBool:
		return strconv.FormatBool(bool(val)), nil
	case lua.LNumber:
		f := float64(val)
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return strconv.FormatInt(int64(f), 10), nil
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported value of type %s", v.Type().String())
	}
}
