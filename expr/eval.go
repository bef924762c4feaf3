// Copyright 2024 The TreeQL Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package expr

import (
	"github.com/treeql/treeql/schema"
	"github.com/treeql/treeql/value"
	"github.com/treeql/treeql/wire"
)

// Eval is a pure function over an expression tree and a scope stack,
// returning the cell the expression evaluates to. scopes[0] is always the
// root scope frame the dispatcher pushes before evaluating a query; deeper
// frames come from Filter, Map and MapVariant bodies.
//
// Every failure returned here is a fatal evaluation error in the sense of
// the wire protocol's error taxonomy: a path that no longer addresses a
// live cell, an operand of the wrong shape, an out of range Product field
// index or Insert position. The dispatcher turns any of these into a closed connection;
// Eval itself never manufactures a sentinel value to paper over one.
func Eval(n Node, scopes []*value.Cell) (*value.Cell, error) {
	switch n.Kind {
	case Path:
		cell, ok := value.WalkScopes(scopes, n.Segments)
		if !ok {
			return nil, wire.ErrInvalidData.New("path does not address a live cell")
		}
		return cell, nil

	case Value:
		return n.Literal, nil

	case Set:
		dest, err := Eval(n.Operands[0], scopes)
		if err != nil {
			return nil, err
		}
		src, err := Eval(n.Operands[1], scopes)
		if err != nil {
			return nil, err
		}
		// src is fully evaluated into a standalone clone before dest is
		// ever touched, so Set(x, x) is a well defined deep self-copy and
		// there is no risk of a cell trying to lock itself.
		clone := value.DeepClone(src)
		dest.Set(clone.Get())
		return unitCell(), nil

	case Equal:
		lhs, err := Eval(n.Operands[0], scopes)
		if err != nil {
			return nil, err
		}
		rhs, err := Eval(n.Operands[1], scopes)
		if err != nil {
			return nil, err
		}
		return boolCell(value.DeepEqual(lhs, rhs)), nil

	case Filter:
		list, err := Eval(n.Operands[0], scopes)
		if err != nil {
			return nil, err
		}
		listVal := list.Get()
		if listVal.Kind != schema.List {
			return nil, wire.ErrInvalidData.New("filter operand is not a list")
		}

		var kept []*value.Cell
		for _, elem := range listVal.Children {
			result, err := Eval(n.Operands[1], pushScope(scopes, elem))
			if err != nil {
				return nil, err
			}
			rv := result.Get()
			if rv.Kind != schema.Boolean {
				return nil, wire.ErrInvalidData.New("filter predicate did not evaluate to a boolean")
			}
			if rv.Bool {
				kept = append(kept, elem)
			}
		}
		return value.NewCell(value.List(kept...)), nil

	case Map:
		list, err := Eval(n.Operands[0], scopes)
		if err != nil {
			return nil, err
		}
		listVal := list.Get()
		if listVal.Kind != schema.List {
			return nil, wire.ErrInvalidData.New("map operand is not a list")
		}

		results := make([]*value.Cell, len(listVal.Children))
		for i, elem := range listVal.Children {
			result, err := Eval(n.Operands[1], pushScope(scopes, elem))
			if err != nil {
				return nil, err
			}
			results[i] = result
		}
		return value.NewCell(value.List(results...)), nil

	case And:
		lhs, err := Eval(n.Operands[0], scopes)
		if err != nil {
			return nil, err
		}
		rhs, err := Eval(n.Operands[1], scopes)
		if err != nil {
			return nil, err
		}
		lv, rv := lhs.Get(), rhs.Get()
		if lv.Kind != schema.Boolean || rv.Kind != schema.Boolean {
			return nil, wire.ErrInvalidData.New("and operand is not a boolean")
		}
		return boolCell(lv.Bool && rv.Bool), nil

	case MapVariant:
		target, err := Eval(n.Operands[0], scopes)
		if err != nil {
			return nil, err
		}
		tv := target.Get()
		if tv.Kind != schema.Sum {
			return nil, wire.ErrInvalidData.New("map_variant target is not a sum")
		}
		if tv.Discriminant != n.Discriminant {
			return target, nil
		}

		body, err := Eval(n.Operands[1], pushScope(scopes, tv.Children[0]))
		if err != nil {
			return nil, err
		}
		return value.NewCell(value.Sum(tv.Discriminant, body)), nil

	case Fuse:
		inner, err := Eval(n.Operands[0], scopes)
		if err != nil {
			return nil, err
		}
		iv := inner.Get()
		if iv.Kind != schema.Sum {
			return nil, wire.ErrInvalidData.New("fuse operand is not a sum")
		}
		return iv.Children[0], nil

	case Chain:
		if _, err := Eval(n.Operands[0], scopes); err != nil {
			return nil, err
		}
		return Eval(n.Operands[1], scopes)

	case Get:
		target, err := Eval(n.Operands[0], scopes)
		if err != nil {
			return nil, err
		}
		index, err := Eval(n.Operands[1], scopes)
		if err != nil {
			return nil, err
		}
		iv := index.Get()
		if iv.Kind != schema.U32 {
			return nil, wire.ErrInvalidData.New("get index is not a u32")
		}

		tv := target.Get()
		switch tv.Kind {
		case schema.Product:
			if int(iv.U32) >= len(tv.Children) {
				return nil, wire.ErrInvalidData.New("get index out of bounds on a product")
			}
			return tv.Children[iv.U32], nil

		case schema.List:
			if int(iv.U32) >= len(tv.Children) {
				return value.NewCell(value.Sum(0, unitCell())), nil
			}
			return value.NewCell(value.Sum(1, tv.Children[iv.U32])), nil

		default:
			return nil, wire.ErrInvalidData.New("get target is neither a product nor a list")
		}

	case Condition:
		cond, err := Eval(n.Operands[0], scopes)
		if err != nil {
			return nil, err
		}
		cv := cond.Get()
		if cv.Kind != schema.Boolean {
			return nil, wire.ErrInvalidData.New("condition is not a boolean")
		}
		if cv.Bool {
			return Eval(n.Operands[1], scopes)
		}
		return Eval(n.Operands[2], scopes)

	case MakeProduct:
		fields := make([]*value.Cell, len(n.Operands))
		for i, op := range n.Operands {
			cell, err := Eval(op, scopes)
			if err != nil {
				return nil, err
			}
			fields[i] = cell
		}
		return value.NewCell(value.Product(fields...)), nil

	case MakeSum:
		inner, err := Eval(n.Operands[0], scopes)
		if err != nil {
			return nil, err
		}
		return value.NewCell(value.Sum(n.Discriminant, inner)), nil

	case MakeList:
		elems := make([]*value.Cell, len(n.Operands))
		for i, op := range n.Operands {
			cell, err := Eval(op, scopes)
			if err != nil {
				return nil, err
			}
			elems[i] = cell
		}
		return value.NewCell(value.List(elems...)), nil

	case Insert:
		list, err := Eval(n.Operands[0], scopes)
		if err != nil {
			return nil, err
		}
		index, err := Eval(n.Operands[1], scopes)
		if err != nil {
			return nil, err
		}
		elem, err := Eval(n.Operands[2], scopes)
		if err != nil {
			return nil, err
		}

		lv := list.Get()
		iv := index.Get()
		if lv.Kind != schema.List {
			return nil, wire.ErrInvalidData.New("insert operand is not a list")
		}
		if iv.Kind != schema.U32 {
			return nil, wire.ErrInvalidData.New("insert index is not a u32")
		}
		if int(iv.U32) > len(lv.Children) {
			return nil, wire.ErrInvalidData.New("insert index out of bounds")
		}

		result := make([]*value.Cell, 0, len(lv.Children)+1)
		result = append(result, lv.Children[:iv.U32]...)
		result = append(result, elem)
		result = append(result, lv.Children[iv.U32:]...)
		return value.NewCell(value.List(result...)), nil

	case Length:
		list, err := Eval(n.Operands[0], scopes)
		if err != nil {
			return nil, err
		}
		lv := list.Get()
		if lv.Kind != schema.List {
			return nil, wire.ErrInvalidData.New("length operand is not a list")
		}
		return u32Cell(uint32(len(lv.Children))), nil

	default:
		return nil, wire.ErrInvalidData.New("unknown expression kind during evaluation")
	}
}

// pushScope returns a new scope stack with frame appended, leaving scopes
// itself untouched so sibling evaluations never observe each other's
// pushes.
func pushScope(scopes []*value.Cell, frame *value.Cell) []*value.Cell {
	next := make([]*value.Cell, len(scopes)+1)
	copy(next, scopes)
	next[len(scopes)] = frame
	return next
}

func unitCell() *value.Cell {
	return value.NewCell(value.Value{Kind: schema.Unit})
}

func boolCell(b bool) *value.Cell {
	return value.NewCell(value.Value{Kind: schema.Boolean, Bool: b})
}

func u32Cell(v uint32) *value.Cell {
	return value.NewCell(value.Value{Kind: schema.U32, U32: v})
}