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

// Package binding is the typed-binding contract: a static, generic wrapper
// pairing a schema.Node with an expression-building surface so a client can
// compose queries that the Go compiler checks, instead of building raw
// expr.Node trees by hand. A code generator working off a user's Go
// struct/interface definitions would produce exactly this shape of code;
// what's here is the hand-rolled equivalent.
package binding

import (
	"github.com/treeql/treeql/expr"
	"github.com/treeql/treeql/schema"
	"github.com/treeql/treeql/value"
)

// Expr is a statically typed expression: T is a phantom marker for the Go
// shape the expression evaluates to (bool, string, a generated struct type,
// Option[U], ...). Schema is the schema.Node the underlying node evaluates
// against; it's what lets client.Query parse the response without the
// server ever being told a result type.
type Expr[T any] struct {
	node   expr.Node
	schema schema.Node
}

// Node returns the underlying untyped expression tree, for handing off to
// the wire codec.
func (e Expr[T]) Node() expr.Node { return e.node }

// Schema returns the schema the expression's result conforms to.
func (e Expr[T]) Schema() schema.Node { return e.schema }

// AnyExpr is any typed expression, used where the Go result type can't be
// named uniformly — Chain's left-hand side, or the heterogeneous fields of
// a Product.
type AnyExpr interface {
	Node() expr.Node
}

// Scope tracks how many Filter/Map/MapVariant bodies the query builder is
// currently nested inside, so each one's Path expressions address the
// right stack frame. The protocol's reference implementation keeps this in
// a thread-local; Go has no ergonomic equivalent, so here it is just an
// explicit argument threaded through the combinators that introduce a new
// frame — same contract, no hidden state. It is never sent over the wire:
// the server reconstructs scopes from the shape of the expression tree.
type Scope struct {
	depth uint32
}

// NewScope starts a scope at depth 0, the root frame.
func NewScope() *Scope {
	return &Scope{}
}

func (s *Scope) push() uint32 {
	s.depth++
	return s.depth
}

func (s *Scope) pop() {
	s.depth--
}

// FromPath builds a typed expression addressing segments from the current
// scope root, given the schema its result conforms to.
func FromPath[T any](s schema.Node, segments ...uint32) Expr[T] {
	return Expr[T]{node: expr.PathExpr(segments...), schema: s}
}

// Root is the binding query builders receive for the query's root scope
// frame.
func Root[T any](s schema.Node) Expr[T] {
	return FromPath[T](s, 0)
}

// Literal wraps a pre-built value as a literal expression.
func Literal[T any](s schema.Node, v *value.Cell) Expr[T] {
	return Expr[T]{node: expr.ValueExpr(s, v), schema: s}
}

// Equal compares two same-shaped expressions for structural equality.
func Equal[T any](lhs, rhs Expr[T]) Expr[bool] {
	return Expr[bool]{node: expr.EqualExpr(lhs.node, rhs.node), schema: schema.BooleanSchema}
}

// And combines two boolean expressions; the protocol does not guarantee
// short-circuiting, so never rely on rhs not being evaluated.
func And(lhs, rhs Expr[bool]) Expr[bool] {
	return Expr[bool]{node: expr.AndExpr(lhs.node, rhs.node), schema: schema.BooleanSchema}
}

// If branches on cond, evaluating exactly one of ifBranch or elseBranch.
func If[T any](cond Expr[bool], ifBranch, elseBranch Expr[T]) Expr[T] {
	return Expr[T]{
		node:   expr.ConditionExpr(cond.node, ifBranch.node, elseBranch.node),
		schema: ifBranch.schema,
	}
}

// Set assigns source's value into the cell target resolves to, yielding
// Unit.
func Set[T any](target, source Expr[T]) Expr[struct{}] {
	return Expr[struct{}]{node: expr.SetExpr(target.node, source.node), schema: schema.UnitSchema}
}

// Chain evaluates lhs for its effects, then rhs, yielding rhs's result.
func Chain[T any](lhs AnyExpr, rhs Expr[T]) Expr[T] {
	return Expr[T]{node: expr.ChainExpr(lhs.Node(), rhs.node), schema: rhs.schema}
}

// Get indexes into target at a literal position: a field index for a
// Product, or an element index for a List, whose result is the Option
// binding Get returns for list access. resultSchema is the schema the
// result conforms to — the field's schema for a Product, or
// Option-of-element for a List.
func Get[P, R any](target Expr[P], index uint32, resultSchema schema.Node) Expr[R] {
	idx := Expr[uint32]{node: expr.ValueExpr(schema.U32Schema, value.NewCell(value.Value{Kind: schema.U32, U32: index})), schema: schema.U32Schema}
	return Expr[R]{node: expr.GetExpr(target.node, idx.node), schema: resultSchema}
}

// Fuse unwraps a Sum expression, yielding its inner value regardless of
// discriminant. The caller is responsible for knowing the discriminants
// involved are isomorphic; nothing here checks that statically.
func Fuse[T, S any](e Expr[S], resultSchema schema.Node) Expr[T] {
	return Expr[T]{node: expr.FuseExpr(e.node), schema: resultSchema}
}

// Filter keeps the elements of list for which pred, built from a fresh
// per-element binding pushed as a new scope frame, evaluates true.
func Filter[E any](scope *Scope, list Expr[[]E], elemSchema schema.Node, pred func(Expr[E]) Expr[bool]) Expr[[]E] {
	depth := scope.push()
	defer scope.pop()

	elem := FromPath[E](elemSchema, depth)
	p := pred(elem)

	return Expr[[]E]{node: expr.FilterExpr(list.node, p.node), schema: list.schema}
}

// Map produces a list of body's results, evaluated once per element of
// list with that element pushed as a new scope frame.
func Map[E, R any](scope *Scope, list Expr[[]E], elemSchema schema.Node, body func(Expr[E]) Expr[R]) Expr[[]R] {
	depth := scope.push()
	defer scope.pop()

	elem := FromPath[E](elemSchema, depth)
	b := body(elem)

	return Expr[[]R]{node: expr.MapExpr(list.node, b.node), schema: schema.NewList(b.schema)}
}

// MapVariant replaces target's inner value with body, evaluated with the
// inner value pushed as a new scope frame, when target's discriminant
// equals disc; otherwise target passes through unchanged.
func MapVariant[S, I, R any](scope *Scope, target Expr[S], disc uint32, innerSchema schema.Node, body func(Expr[I]) Expr[R]) Expr[S] {
	depth := scope.push()
	defer scope.pop()

	inner := FromPath[I](innerSchema, depth)
	b := body(inner)

	return Expr[S]{node: expr.MapVariantExpr(target.node, disc, b.node), schema: target.schema}
}

// Product builds a Product value from field expressions in order.
func Product[T any](s schema.Node, fields ...AnyExpr) Expr[T] {
	operands := make([]expr.Node, len(fields))
	for i, f := range fields {
		operands[i] = f.Node()
	}
	return Expr[T]{node: expr.ProductExpr(operands...), schema: s}
}

// Sum builds a Sum value selecting variant disc.
func Sum[T any](s schema.Node, disc uint32, inner AnyExpr) Expr[T] {
	return Expr[T]{node: expr.SumExpr(disc, inner.Node()), schema: s}
}

// List builds a List value from element expressions in order.
func List[E any](elemSchema schema.Node, elements ...Expr[E]) Expr[[]E] {
	operands := make([]expr.Node, len(elements))
	for i, e := range elements {
		operands[i] = e.node
	}
	return Expr[[]E]{node: expr.ListExpr(operands...), schema: schema.NewList(elemSchema)}
}

// Insert evaluates to a new list with value inserted at index.
func Insert[E any](list Expr[[]E], index uint32, val Expr[E]) Expr[[]E] {
	idx := expr.ValueExpr(schema.U32Schema, value.NewCell(value.Value{Kind: schema.U32, U32: index}))
	return Expr[[]E]{node: expr.InsertExpr(list.node, idx, val.node), schema: list.schema}
}

// Length evaluates to the length of list.
func Length[E any](list Expr[[]E]) Expr[uint32] {
	return Expr[uint32]{node: expr.LengthExpr(list.node), schema: schema.U32Schema}
}