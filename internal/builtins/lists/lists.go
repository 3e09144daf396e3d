// Package lists registers the list queries and the list creation and
// mutation commands.
package lists

import (
	"ning/internal/builtins"
	"ning/internal/types"
	"ning/internal/value"
)

var num = types.SetOf(types.Number)

func init() {
	create("create number list []", types.Number)
	create("create string list []", types.String)
	create("create boolean list []", types.Boolean)

	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "length of []",
			Kind:      builtins.QueryKind,
			Name:      "list length",
			Refs:      []types.SquareSet{types.AnyList},
			Result:    types.Number,
		},
		Query: func(c *builtins.Call) (value.Value, error) {
			l, err := c.List(0)
			if err != nil {
				return value.Value{}, err
			}
			return value.Number(float64(len(l.Items))), nil
		},
	})

	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "item () of []",
			Kind:      builtins.QueryKind,
			Name:      "list item",
			Args:      []types.Set{num},
			Refs:      []types.SquareSet{types.AnyList},
			Output:    builtins.ElementOutput,
		},
		Query: func(c *builtins.Call) (value.Value, error) {
			index, err := c.Number(0)
			if err != nil {
				return value.Value{}, err
			}
			l, err := c.List(0)
			if err != nil {
				return value.Value{}, err
			}
			return l.Item(index), nil
		},
	})

	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature:  "index of () in []",
			Kind:       builtins.QueryKind,
			Name:       "list index of",
			Args:       []types.Set{types.AnyType},
			Refs:       []types.SquareSet{types.AnyList},
			Rule:       builtins.RuleElement,
			ElementArg: 0,
			Result:     types.Number,
		},
		Query: func(c *builtins.Call) (value.Value, error) {
			item, l, err := itemAndList(c, 0)
			if err != nil {
				return value.Value{}, err
			}
			return value.Number(float64(l.IndexOf(item))), nil
		},
	})

	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature:  "[] contains ()",
			Kind:       builtins.QueryKind,
			Name:       "list contains",
			Args:       []types.Set{types.AnyType},
			Refs:       []types.SquareSet{types.AnyList},
			Rule:       builtins.RuleElement,
			ElementArg: 0,
			Result:     types.Boolean,
		},
		Query: func(c *builtins.Call) (value.Value, error) {
			item, l, err := itemAndList(c, 0)
			if err != nil {
				return value.Value{}, err
			}
			return value.Bool(l.IndexOf(item) >= 0), nil
		},
	})

	mutation(builtins.Meta{
		Signature:  "replace item () of [] with ()",
		Name:       "replace list item",
		Args:       []types.Set{num, types.AnyType},
		Rule:       builtins.RuleElement,
		ElementArg: 1,
	}, func(c *builtins.Call, l *value.List) error {
		index, err := c.Number(0)
		if err != nil {
			return err
		}
		item, err := c.Arg(1)
		if err != nil {
			return err
		}
		l.Replace(index, item)
		return nil
	})

	mutation(builtins.Meta{
		Signature:  "insert () at () of []",
		Name:       "insert list item",
		Args:       []types.Set{types.AnyType, num},
		Rule:       builtins.RuleElement,
		ElementArg: 0,
	}, func(c *builtins.Call, l *value.List) error {
		item, err := c.Arg(0)
		if err != nil {
			return err
		}
		index, err := c.Number(1)
		if err != nil {
			return err
		}
		l.Insert(index, item)
		return nil
	})

	mutation(builtins.Meta{
		Signature: "delete item () of []",
		Name:      "delete list item",
		Args:      []types.Set{num},
	}, func(c *builtins.Call, l *value.List) error {
		index, err := c.Number(0)
		if err != nil {
			return err
		}
		l.Delete(index)
		return nil
	})

	mutation(builtins.Meta{
		Signature: "delete all of []",
		Name:      "clear list",
	}, func(c *builtins.Call, l *value.List) error {
		l.Clear()
		return nil
	})

	mutation(builtins.Meta{
		Signature:  "add () to []",
		Name:       "add list item",
		Args:       []types.Set{types.AnyType},
		Rule:       builtins.RuleElement,
		ElementArg: 0,
	}, func(c *builtins.Call, l *value.List) error {
		item, err := c.Arg(0)
		if err != nil {
			return err
		}
		l.Add(item)
		return nil
	})
}

func create(signature string, elem types.Type) {
	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: signature,
			Kind:      builtins.CommandKind,
			Name:      "create " + elem.String() + " list",
			Declares:  builtins.DeclareList,
			ListElem:  elem,
			InGlobal:  true,
			InQuery:   true,
		},
		Command: func(c *builtins.Call) (builtins.Completion, error) {
			c.Ctx.Frames().DeclareList(c.RefName(0), value.NewList(elem))
			return builtins.Continued, nil
		},
	})
}

// mutation registers a command that edits the list in reference 0. The
// arguments are evaluated by op, after the list has been resolved.
func mutation(m builtins.Meta, op func(c *builtins.Call, l *value.List) error) {
	m.Kind = builtins.CommandKind
	m.Refs = []types.SquareSet{types.AnyList}
	m.Mutates = true
	m.InQuery = true
	builtins.Register(builtins.Builtin{
		Meta: m,
		Command: func(c *builtins.Call) (builtins.Completion, error) {
			l, err := c.List(0)
			if err != nil {
				return builtins.Continued, err
			}
			return builtins.Continued, op(c, l)
		},
	})
}

func itemAndList(c *builtins.Call, slot int) (value.Value, *value.List, error) {
	item, err := c.Arg(slot)
	if err != nil {
		return value.Value{}, nil, err
	}
	l, err := c.List(0)
	return item, l, err
}
