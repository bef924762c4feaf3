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

// Package value implements the type universe's value half: a tree
// conforming to a schema.Node, held behind shared, interior-mutable cells so
// that a Set expression can mutate state observed by every other holder of
// the same cell. There is no cycle: a value is a DAG with strict
// parent-to-child direction, and every edge in it is a *Cell.
package value

import (
	"sync"

	"github.com/treeql/treeql/schema"
)

// Value is one node of a value tree. Which fields are meaningful depends on
// Kind: Product and List use Children (plus Discriminant for Sum, where
// Children always holds exactly one entry, the variant's inner cell); the
// scalar kinds use the matching leaf field.
type Value struct {
	Kind schema.Kind

	// Children holds, in order: a Product's fields, a Sum's single inner
	// cell, or a List's elements.
	Children []*Cell

	// Discriminant is the selected variant index of a Sum value.
	Discriminant uint32

	Str  string
	Bool bool

	U8   uint8
	U16  uint16
	U32  uint32
	U64  uint64
	U128 [16]byte

	I8   int8
	I16  int16
	I32  int32
	I64  int64
	I128 [16]byte

	F32 float32
	F64 float64
}

// Cell is a shared, interior-mutable handle to a Value. Composites refer to
// their children through cells so that several readers (an original List
// and a Filter result sharing one of its elements, for instance) observe the
// same mutations. Every access goes through Get/Set, which serialise on a
// per-cell mutex; the evaluator never holds one cell's lock across a
// recursive call that might try to lock another, so there is no
// self-deadlock risk even for Set(x, x).
type Cell struct {
	mu    sync.Mutex
	value Value
}

// NewCell wraps v in a fresh cell.
func NewCell(v Value) *Cell {
	return &Cell{value: v}
}

// Get returns a copy of the cell's current value. Child cells are shared,
// not copied, so mutating a child reached through the result still mutates
// the original.
func (c *Cell) Get() Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set replaces the cell's value in place.
func (c *Cell) Set(v Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = v
}