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

package value

import (
	"github.com/treeql/treeql/schema"
)

// Product constructs a Product value from its field cells in order.
func Product(fields ...*Cell) Value {
	return Value{Kind: schema.Product, Children: fields}
}

// Sum constructs a Sum value selecting variant disc with the given inner
// cell.
func Sum(disc uint32, inner *Cell) Value {
	return Value{Kind: schema.Sum, Discriminant: disc, Children: []*Cell{inner}}
}

// List constructs a List value from its element cells in order.
func List(elems ...*Cell) Value {
	return Value{Kind: schema.List, Children: elems}
}

// Inner returns a Sum value's single inner cell. It panics if the receiver
// is not a Sum.
func (v Value) Inner() *Cell {
	if v.Kind != schema.Sum {
		panic("value: Inner called on a non-sum value")
	}
	return v.Children[0]
}

// Walk resolves the cell addressed by path starting at root. Each segment
// is interpreted against the current node: a field index into a Product, a
// required match against a Sum's discriminant (the walk then continues into
// its inner value), or an element index into a List. Scalars have no
// children, so any residual segment fails the walk. An empty path resolves
// to root itself.
func Walk(root *Cell, path []uint32) (*Cell, bool) {
	if len(path) == 0 {
		return root, true
	}

	segment, rest := path[0], path[1:]
	v := root.Get()

	switch v.Kind {
	case schema.Product, schema.List:
		if int(segment) >= len(v.Children) {
			return nil, false
		}
		return Walk(v.Children[segment], rest)

	case schema.Sum:
		if v.Discriminant != segment {
			return nil, false
		}
		return Walk(v.Children[0], rest)

	default:
		return nil, false
	}
}

// WalkScopes resolves a path against a stack of scope frames: the first
// segment selects the frame by index, and the remaining segments walk
// within it as Walk would.
func WalkScopes(scopes []*Cell, path []uint32) (*Cell, bool) {
	if len(path) == 0 {
		return nil, false
	}

	segment, rest := path[0], path[1:]
	if int(segment) >= len(scopes) {
		return nil, false
	}

	return Walk(scopes[segment], rest)
}

// DeepEqual reports whether two cells hold structurally equal values.
// Product comparison requires both sides to have the same length; a length
// mismatch is treated as a caller bug (mismatched schemas) and panics
// rather than returning false. Float comparison uses IEEE ==, so NaN never
// equals itself and -0 equals +0.
func DeepEqual(a, b *Cell) bool {
	av, bv := a.Get(), b.Get()

	if av.Kind != bv.Kind {
		panic("value: DeepEqual called on values of different schemas")
	}

	switch av.Kind {
	case schema.Product:
		if len(av.Children) != len(bv.Children) {
			panic("value: DeepEqual called on products of mismatched arity")
		}
		for i := range av.Children {
			if !DeepEqual(av.Children[i], bv.Children[i]) {
				return false
			}
		}
		return true

	case schema.Sum:
		return av.Discriminant == bv.Discriminant && DeepEqual(av.Children[0], bv.Children[0])

	case schema.List:
		if len(av.Children) != len(bv.Children) {
			return false
		}
		for i := range av.Children {
			if !DeepEqual(av.Children[i], bv.Children[i]) {
				return false
			}
		}
		return true

	case schema.String:
		return av.Str == bv.Str
	case schema.Boolean:
		return av.Bool == bv.Bool
	case schema.Unit:
		return true
	case schema.U8:
		return av.U8 == bv.U8
	case schema.U16:
		return av.U16 == bv.U16
	case schema.U32:
		return av.U32 == bv.U32
	case schema.U64:
		return av.U64 == bv.U64
	case schema.U128:
		return av.U128 == bv.U128
	case schema.I8:
		return av.I8 == bv.I8
	case schema.I16:
		return av.I16 == bv.I16
	case schema.I32:
		return av.I32 == bv.I32
	case schema.I64:
		return av.I64 == bv.I64
	case schema.I128:
		return av.I128 == bv.I128
	case schema.F32:
		return av.F32 == bv.F32
	case schema.F64:
		return av.F64 == bv.F64
	default:
		panic("value: DeepEqual called on an unrecognised kind")
	}
}

// DeepClone returns a new cell holding a full, independent copy of src:
// every composite descendant gets its own fresh cell, so mutating the clone
// never affects src or vice versa.
func DeepClone(src *Cell) *Cell {
	v := src.Get()

	switch v.Kind {
	case schema.Product, schema.Sum, schema.List:
		children := make([]*Cell, len(v.Children))
		for i, child := range v.Children {
			children[i] = DeepClone(child)
		}
		clone := v
		clone.Children = children
		return NewCell(clone)

	default:
		return NewCell(v)
	}
}