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

// Package expr implements the third member of the type universe: an
// expression tree describing a computation over stored values. Expressions
// are parsed off the wire, evaluated exactly once against a stack of
// lexical scopes, and released — they never outlive a single request.
package expr

import (
	"github.com/treeql/treeql/schema"
	"github.com/treeql/treeql/value"
)

// Kind identifies an expression node variant. Its numeric value is the
// wire discriminant written ahead of the node, and must stay stable and
// contiguous: clients encode it from a statically typed expression
// builder, the server only ever sees the numbers.
type Kind uint8

const (
	Path Kind = iota
	Value
	Set
	Equal
	Filter
	Map
	And
	MapVariant
	Fuse
	Chain
	Get
	Condition
	MakeProduct
	MakeSum
	MakeList
	Insert
	Length
)

// Node is one expression tree node. Which fields matter depends on Kind:
//
//   - Path: Segments
//   - Value: Schema, Literal
//   - Set, Equal, And, Chain: Operands[0], Operands[1]
//   - Filter, Map: Operands[0] (the list), Operands[1] (the body, evaluated
//     with the element pushed as a new scope frame)
//   - MapVariant: Operands[0] (the target), Discriminant, Operands[1] (the
//     body, evaluated with the inner value pushed as a new scope frame)
//   - Fuse: Operands[0]
//   - Get: Operands[0] (the target), Operands[1] (the index)
//   - Condition: Operands[0] (cond), Operands[1] (if), Operands[2] (else)
//   - MakeProduct, MakeList: Operands (fields/elements in order)
//   - MakeSum: Discriminant, Operands[0] (inner)
//   - Insert: Operands[0] (list), Operands[1] (index), Operands[2] (value)
//   - Length: Operands[0]
type Node struct {
	Kind Kind

	Segments []uint32

	Schema  schema.Node
	Literal *value.Cell

	Discriminant uint32

	Operands []Node
}

// PathExpr builds a Path node addressing segments from the current scope
// root.
func PathExpr(segments ...uint32) Node {
	return Node{Kind: Path, Segments: segments}
}

// ValueExpr builds a literal expression; s is kept only to serialise the
// eventual result, since the wire carries values schema-directed.
func ValueExpr(s schema.Node, v *value.Cell) Node {
	return Node{Kind: Value, Schema: s, Literal: v}
}

// SetExpr assigns source's evaluated value into the cell target resolves
// to.
func SetExpr(target, source Node) Node {
	return Node{Kind: Set, Operands: []Node{target, source}}
}

// EqualExpr compares lhs and rhs for structural equality.
func EqualExpr(lhs, rhs Node) Node {
	return Node{Kind: Equal, Operands: []Node{lhs, rhs}}
}

// FilterExpr keeps the elements of list for which predicate, evaluated
// with the element pushed as a new scope frame, yields true.
func FilterExpr(list, predicate Node) Node {
	return Node{Kind: Filter, Operands: []Node{list, predicate}}
}

// MapExpr produces a list of body's results, evaluated once per element of
// list with that element pushed as a new scope frame.
func MapExpr(list, body Node) Node {
	return Node{Kind: Map, Operands: []Node{list, body}}
}

// AndExpr evaluates both operands (no short-circuiting) and yields their
// conjunction.
func AndExpr(lhs, rhs Node) Node {
	return Node{Kind: And, Operands: []Node{lhs, rhs}}
}

// MapVariantExpr replaces target's inner value with body, evaluated with
// the inner value pushed as a new scope frame, when target's discriminant
// equals disc; otherwise target passes through unchanged.
func MapVariantExpr(target Node, disc uint32, body Node) Node {
	return Node{Kind: MapVariant, Operands: []Node{target, body}, Discriminant: disc}
}

// FuseExpr unwraps a Sum, yielding its inner value regardless of
// discriminant.
func FuseExpr(inner Node) Node {
	return Node{Kind: Fuse, Operands: []Node{inner}}
}

// ChainExpr evaluates lhs for its effects, then rhs; the result is rhs's.
func ChainExpr(lhs, rhs Node) Node {
	return Node{Kind: Chain, Operands: []Node{lhs, rhs}}
}

// GetExpr indexes into a Product (index must evaluate to a literal field
// position) or a List (yielding an option-shaped Sum).
func GetExpr(target, index Node) Node {
	return Node{Kind: Get, Operands: []Node{target, index}}
}

// ConditionExpr branches on cond, evaluating exactly one of ifBranch or
// elseBranch.
func ConditionExpr(cond, ifBranch, elseBranch Node) Node {
	return Node{Kind: Condition, Operands: []Node{cond, ifBranch, elseBranch}}
}

// ProductExpr constructs a Product value from field expressions in order.
func ProductExpr(fields ...Node) Node {
	return Node{Kind: MakeProduct, Operands: fields}
}

// SumExpr constructs a Sum value selecting variant disc.
func SumExpr(disc uint32, inner Node) Node {
	return Node{Kind: MakeSum, Discriminant: disc, Operands: []Node{inner}}
}

// ListExpr constructs a List value from element expressions in order.
func ListExpr(elements ...Node) Node {
	return Node{Kind: MakeList, Operands: elements}
}

// InsertExpr evaluates to a new list with value inserted at index.
func InsertExpr(list, index, val Node) Node {
	return Node{Kind: Insert, Operands: []Node{list, index, val}}
}

// LengthExpr evaluates to the length of list.
func LengthExpr(list Node) Node {
	return Node{Kind: Length, Operands: []Node{list}}
}