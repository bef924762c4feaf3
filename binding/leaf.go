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

package binding

import (
	"github.com/treeql/treeql/schema"
	"github.com/treeql/treeql/value"
)

// Bool, String, Unit and the fixed-width integer/float leaves are the base
// case a code generator's per-field bindings bottom out in. Each pairs a
// Go type with the schema.Node a value of that type actually conforms to.

func Bool(segments ...uint32) Expr[bool]       { return FromPath[bool](schema.BooleanSchema, segments...) }
func String(segments ...uint32) Expr[string]   { return FromPath[string](schema.StringSchema, segments...) }
func Unit(segments ...uint32) Expr[struct{}]   { return FromPath[struct{}](schema.UnitSchema, segments...) }
func U8(segments ...uint32) Expr[uint8]        { return FromPath[uint8](schema.U8Schema, segments...) }
func U16(segments ...uint32) Expr[uint16]      { return FromPath[uint16](schema.U16Schema, segments...) }
func U32(segments ...uint32) Expr[uint32]      { return FromPath[uint32](schema.U32Schema, segments...) }
func U64(segments ...uint32) Expr[uint64]      { return FromPath[uint64](schema.U64Schema, segments...) }
func I8(segments ...uint32) Expr[int8]         { return FromPath[int8](schema.I8Schema, segments...) }
func I16(segments ...uint32) Expr[int16]       { return FromPath[int16](schema.I16Schema, segments...) }
func I32(segments ...uint32) Expr[int32]       { return FromPath[int32](schema.I32Schema, segments...) }
func I64(segments ...uint32) Expr[int64]       { return FromPath[int64](schema.I64Schema, segments...) }
func F32(segments ...uint32) Expr[float32]     { return FromPath[float32](schema.F32Schema, segments...) }
func F64(segments ...uint32) Expr[float64]     { return FromPath[float64](schema.F64Schema, segments...) }

// BoolValue, StringValue etc. build literal leaf expressions. 128 bit
// integers have no native Go type; callers that need one hold its 16 raw
// bytes directly (value.Value.U128/I128) and address it with Literal.

func BoolValue(b bool) Expr[bool] {
	return Literal[bool](schema.BooleanSchema, value.NewCell(value.Value{Kind: schema.Boolean, Bool: b}))
}

func StringValue(s string) Expr[string] {
	return Literal[string](schema.StringSchema, value.NewCell(value.Value{Kind: schema.String, Str: s}))
}

func UnitValue() Expr[struct{}] {
	return Literal[struct{}](schema.UnitSchema, value.NewCell(value.Value{Kind: schema.Unit}))
}

func U8Value(v uint8) Expr[uint8] {
	return Literal[uint8](schema.U8Schema, value.NewCell(value.Value{Kind: schema.U8, U8: v}))
}

func U16Value(v uint16) Expr[uint16] {
	return Literal[uint16](schema.U16Schema, value.NewCell(value.Value{Kind: schema.U16, U16: v}))
}

func U32Value(v uint32) Expr[uint32] {
	return Literal[uint32](schema.U32Schema, value.NewCell(value.Value{Kind: schema.U32, U32: v}))
}

func U64Value(v uint64) Expr[uint64] {
	return Literal[uint64](schema.U64Schema, value.NewCell(value.Value{Kind: schema.U64, U64: v}))
}

func I8Value(v int8) Expr[int8] {
	return Literal[int8](schema.I8Schema, value.NewCell(value.Value{Kind: schema.I8, I8: v}))
}

func I16Value(v int16) Expr[int16] {
	return Literal[int16](schema.I16Schema, value.NewCell(value.Value{Kind: schema.I16, I16: v}))
}

func I32Value(v int32) Expr[int32] {
	return Literal[int32](schema.I32Schema, value.NewCell(value.Value{Kind: schema.I32, I32: v}))
}

func I64Value(v int64) Expr[int64] {
	return Literal[int64](schema.I64Schema, value.NewCell(value.Value{Kind: schema.I64, I64: v}))
}

func F32Value(v float32) Expr[float32] {
	return Literal[float32](schema.F32Schema, value.NewCell(value.Value{Kind: schema.F32, F32: v}))
}

func F64Value(v float64) Expr[float64] {
	return Literal[float64](schema.F64Schema, value.NewCell(value.Value{Kind: schema.F64, F64: v}))
}