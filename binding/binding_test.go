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

package binding_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/treeql/treeql/binding"
	"github.com/treeql/treeql/expr"
	"github.com/treeql/treeql/schema"
	"github.com/treeql/treeql/value"
)

func pointSchema() schema.Node {
	return schema.NewProduct(schema.U32Schema, schema.U32Schema).WithNames("x", "y")
}

func evalRoot(t *testing.T, root *value.Cell, e binding.AnyExpr) *value.Cell {
	t.Helper()
	result, err := expr.Eval(e.Node(), []*value.Cell{root})
	require.NoError(t, err)
	return result
}

func TestProductBuildsFieldsInOrder(t *testing.T) {
	root := value.NewCell(value.Value{Kind: schema.Unit})

	point := binding.Product[struct{ X, Y uint32 }](pointSchema(),
		binding.U32Value(3),
		binding.U32Value(4),
	)

	got := evalRoot(t, root, point)
	want := value.NewCell(value.Product(
		value.NewCell(value.Value{Kind: schema.U32, U32: 3}),
		value.NewCell(value.Value{Kind: schema.U32, U32: 4}),
	))
	require.True(t, value.DeepEqual(want, got))
}

func TestSumSelectsVariant(t *testing.T) {
	root := value.NewCell(value.Value{Kind: schema.Unit})
	sumSchema := schema.NewSum(schema.UnitSchema, schema.U32Schema)

	present := binding.Sum[any](sumSchema, 1, binding.U32Value(42))

	got := evalRoot(t, root, present)
	want := value.NewCell(value.Sum(1, value.NewCell(value.Value{Kind: schema.U32, U32: 42})))
	require.True(t, value.DeepEqual(want, got))
}

func TestMapVariantTransformsMatchingDiscriminant(t *testing.T) {
	optionU32 := schema.NewSum(schema.UnitSchema, schema.U32Schema)
	root := value.NewCell(value.Value(value.Sum(1, value.NewCell(value.Value{Kind: schema.U32, U32: 10}))))

	scope := binding.NewScope()
	doubled := binding.MapVariant[any, uint32, uint32](scope, binding.Root[any](optionU32), 1, schema.U32Schema,
		func(inner binding.Expr[uint32]) binding.Expr[uint32] {
			return binding.U32Value(20)
		})

	got := evalRoot(t, root, doubled)
	want := value.NewCell(value.Sum(1, value.NewCell(value.Value{Kind: schema.U32, U32: 20})))
	require.True(t, value.DeepEqual(want, got))
}

func TestChainEvaluatesLeftForEffectThenReturnsRight(t *testing.T) {
	root := value.NewCell(value.Value{Kind: schema.U32, U32: 0})

	rootExpr := binding.Root[uint32](schema.U32Schema)
	set := binding.Set[uint32](rootExpr, binding.U32Value(7))
	chained := binding.Chain[uint32](set, binding.U32Value(99))

	got := evalRoot(t, root, chained)
	require.Equal(t, uint32(99), got.Get().U32)
	require.Equal(t, uint32(7), root.Get().U32, "chain's left operand must still run for its effect")
}

func TestInsertGrowsListAtIndex(t *testing.T) {
	root := value.NewCell(value.Value{Kind: schema.Unit})
	list := binding.List[uint32](schema.U32Schema, binding.U32Value(1), binding.U32Value(3))
	inserted := binding.Insert[uint32](list, 1, binding.U32Value(2))

	got := evalRoot(t, root, inserted)
	gotValue := got.Get()
	require.Equal(t, 3, len(gotValue.Children))
	require.Equal(t, uint32(2), gotValue.Children[1].Get().U32)
}

func TestLengthCountsElements(t *testing.T) {
	root := value.NewCell(value.Value{Kind: schema.Unit})
	list := binding.List[uint32](schema.U32Schema, binding.U32Value(1), binding.U32Value(2), binding.U32Value(3))

	got := evalRoot(t, root, binding.Length[uint32](list))
	require.Equal(t, uint32(3), got.Get().U32)
}

func TestIfEvaluatesChosenBranchOnly(t *testing.T) {
	root := value.NewCell(value.Value{Kind: schema.Unit})

	cond := binding.Equal[uint32](binding.U32Value(1), binding.U32Value(1))
	branch := binding.If[uint32](cond, binding.U32Value(10), binding.U32Value(20))

	got := evalRoot(t, root, branch)
	require.Equal(t, uint32(10), got.Get().U32)
}

func TestFuseUnwrapsSumRegardlessOfDiscriminant(t *testing.T) {
	root := value.NewCell(value.Value(value.Sum(0, value.NewCell(value.Value{Kind: schema.U32, U32: 5}))))
	sumSchema := schema.NewSum(schema.U32Schema, schema.U32Schema)

	fused := binding.Fuse[uint32, any](binding.Root[any](sumSchema), schema.U32Schema)

	got := evalRoot(t, root, fused)
	require.Equal(t, uint32(5), got.Get().U32)
}
