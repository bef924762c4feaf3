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

package value_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/treeql/treeql/expr"
	"github.com/treeql/treeql/schema"
	"github.com/treeql/treeql/value"
)

func listOfPeopleSchema() schema.Node {
	location := schema.NewSum(schema.UnitSchema, schema.NewProduct(schema.U64Schema, schema.U64Schema))
	person := schema.NewProduct(schema.StringSchema, location)
	return schema.NewList(person)
}

func makePerson(name string, loc *value.Cell) *value.Cell {
	return value.NewCell(value.Product(
		value.NewCell(value.Value{Kind: schema.String, Str: name}),
		loc,
	))
}

func some(x, y uint64) *value.Cell {
	return value.NewCell(value.Sum(1, value.NewCell(value.Product(
		value.NewCell(value.Value{Kind: schema.U64, U64: x}),
		value.NewCell(value.Value{Kind: schema.U64, U64: y}),
	))))
}

func none() *value.Cell {
	return value.NewCell(value.Sum(0, value.NewCell(value.Value{Kind: schema.Unit})))
}

func TestValueRoundTrip(t *testing.T) {
	s := listOfPeopleSchema()
	root := value.NewCell(value.List(
		makePerson("alice", some(10, 20)),
		makePerson("bob", none()),
	))

	var buf bytes.Buffer
	require.NoError(t, value.Write(&buf, root))

	decoded, err := value.Read(&buf, s)
	require.NoError(t, err)
	require.True(t, value.DeepEqual(root, decoded))
}

func TestWalk(t *testing.T) {
	root := value.NewCell(value.List(
		makePerson("alice", some(10, 20)),
		makePerson("bob", none()),
	))

	cell, ok := value.Walk(root, []uint32{0, 0})
	require.True(t, ok)
	require.Equal(t, "alice", cell.Get().Str)

	cell, ok = value.Walk(root, []uint32{0, 1, 1, 0})
	require.True(t, ok)
	require.Equal(t, uint64(10), cell.Get().U64)

	// bob has no location, the walk must fail rather than pick a default.
	_, ok = value.Walk(root, []uint32{1, 1, 1, 0})
	require.False(t, ok)

	_, ok = value.Walk(root, []uint32{5})
	require.False(t, ok)
}

// TestPathStabilityAcrossUnrelatedEval checks that walk(V, P) still
// resolves to the same cell after evaluating an expression that touches V
// but never Sets through a prefix of P.
func TestPathStabilityAcrossUnrelatedEval(t *testing.T) {
	root := value.NewCell(value.List(
		makePerson("alice", some(10, 20)),
		makePerson("bob", none()),
	))

	before, ok := value.Walk(root, []uint32{0, 0})
	require.True(t, ok)
	require.Equal(t, "alice", before.Get().Str)

	// An unrelated Map over the whole list (naming every element) builds an
	// entirely new result tree; it must not disturb anything reachable from
	// the original root, since it never Sets through it.
	index := expr.ValueExpr(schema.U32Schema, value.NewCell(value.Value{Kind: schema.U32, U32: 0}))
	nameOfEachPerson := expr.MapExpr(expr.PathExpr(0), expr.GetExpr(expr.PathExpr(1), index))
	_, err := expr.Eval(nameOfEachPerson, []*value.Cell{root})
	require.NoError(t, err)

	after, ok := value.Walk(root, []uint32{0, 0})
	require.True(t, ok)
	require.Same(t, before, after, "the same path must resolve to the same cell after an unrelated eval")
	require.Equal(t, "alice", after.Get().Str)
}

func TestDeepEqualSharesNothingAfterClone(t *testing.T) {
	original := makePerson("carol", some(1, 2))
	clone := value.DeepClone(original)

	require.True(t, value.DeepEqual(original, clone))

	clone.Get().Children[0].Set(value.Value{Kind: schema.String, Str: "dave"})
	require.False(t, value.DeepEqual(original, clone))
}

func TestFloatEqualityIsIEEE(t *testing.T) {
	nan := value.NewCell(value.Value{Kind: schema.F64, F64: math.NaN()})
	require.False(t, value.DeepEqual(nan, nan))

	negZero := value.NewCell(value.Value{Kind: schema.F64, F64: math.Copysign(0, -1)})
	posZero := value.NewCell(value.Value{Kind: schema.F64, F64: 0})
	require.True(t, value.DeepEqual(negZero, posZero))
}

func TestSetMutatesThroughSharedHandle(t *testing.T) {
	elem := value.NewCell(value.Value{Kind: schema.U32, U32: 1})
	list := value.NewCell(value.List(elem))
	filtered := value.NewCell(value.List(list.Get().Children...))

	elem.Set(value.Value{Kind: schema.U32, U32: 2})

	require.Equal(t, uint32(2), filtered.Get().Children[0].Get().U32)
}