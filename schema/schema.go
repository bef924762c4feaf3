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

// Package schema implements the type universe's schema half: a closed,
// positional algebraic data type describing the shape a value or expression
// result must conform to. Schemas are trees built from products (fixed-arity
// records), sums (tagged unions), lists and scalar leaves. Field and variant
// names, where an implementation wants to keep them for debugging, never
// affect equality or wire order — position is identity.
package schema

import "fmt"

// Kind identifies which schema node variant a Node holds.
type Kind uint8

// Kind values double as the wire discriminant written ahead of a schema
// node; their numeric order is part of the wire protocol and must not
// change.
const (
	Product Kind = iota
	Sum
	List
	String
	Boolean
	Unit
	U8
	U16
	U32
	U64
	U128
	I8
	I16
	I32
	I64
	I128
	F32
	F64
)

func (k Kind) String() string {
	switch k {
	case Product:
		return "product"
	case Sum:
		return "sum"
	case List:
		return "list"
	case String:
		return "string"
	case Boolean:
		return "boolean"
	case Unit:
		return "unit"
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case U128:
		return "u128"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case I128:
		return "i128"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// isScalar reports whether a Kind carries no children.
func (k Kind) isScalar() bool {
	return k >= String
}

// Node is a schema tree node. Product and Sum carry an ordered slice of
// child schemas; List carries exactly one (validated by NewList); the
// scalar kinds carry none. DebugNames, when non-nil, holds one name per
// child of a Product or Sum for diagnostics only — it is never consulted by
// Equal, the codec or the evaluator.
type Node struct {
	Kind     Kind
	Children []Node

	// DebugNames optionally labels each child of a Product or Sum for
	// tooling (error messages, pretty-printing). Length, when present,
	// always matches len(Children). Ignored by Equal and the wire codec.
	DebugNames []string
}

// NewProduct builds a fixed-arity record schema from its field schemas in
// order; field position is identity.
func NewProduct(fields ...Node) Node {
	return Node{Kind: Product, Children: fields}
}

// NewSum builds a tagged union schema from its variant schemas in order;
// variant position is the discriminant.
func NewSum(variants ...Node) Node {
	return Node{Kind: Sum, Children: variants}
}

// NewList builds a homogeneous variable-length list schema over elem.
func NewList(elem Node) Node {
	return Node{Kind: List, Children: []Node{elem}}
}

// Leaf constructs a scalar schema node. It panics if k is not a scalar
// kind; scalars never carry children.
func Leaf(k Kind) Node {
	if !k.isScalar() {
		panic("schema: Leaf called with a non-scalar kind")
	}
	return Node{Kind: k}
}

// Elem returns the element schema of a List node. It panics if the
// receiver is not a List.
func (n Node) Elem() Node {
	if n.Kind != List {
		panic("schema: Elem called on a non-list node")
	}
	return n.Children[0]
}

// WithNames attaches debug field/variant names to a Product or Sum node,
// returning the modified copy. It panics if len(names) != len(n.Children)
// or n is not a Product or Sum.
func (n Node) WithNames(names ...string) Node {
	if n.Kind != Product && n.Kind != Sum {
		panic("schema: WithNames called on a node with no named children")
	}
	if len(names) != len(n.Children) {
		panic("schema: WithNames name count doesn't match child count")
	}
	n.DebugNames = names
	return n
}

// Equal reports whether two schemas are structurally identical. Debug
// names are ignored.
func Equal(a, b Node) bool {
	if a.Kind != b.Kind {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// Common leaf schema constants for convenience.
var (
	StringSchema  = Leaf(String)
	BooleanSchema = Leaf(Boolean)
	UnitSchema    = Leaf(Unit)
	U8Schema      = Leaf(U8)
	U16Schema     = Leaf(U16)
	U32Schema     = Leaf(U32)
	U64Schema     = Leaf(U64)
	U128Schema    = Leaf(U128)
	I8Schema      = Leaf(I8)
	I16Schema     = Leaf(I16)
	I32Schema     = Leaf(I32)
	I64Schema     = Leaf(I64)
	I128Schema    = Leaf(I128)
	F32Schema     = Leaf(F32)
	F64Schema     = Leaf(F64)
)