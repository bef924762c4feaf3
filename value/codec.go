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
	"io"
	"math"
	"unicode/utf8"

	"github.com/treeql/treeql/schema"
	"github.com/treeql/treeql/wire"
)

// Read parses one value from r against s, schema-directed: the byte stream
// carries no discriminant of its own except the one written ahead of a
// Sum's inner value, since the schema already fixes the shape. The result
// is wrapped in a fresh cell so callers always hold a mutable handle.
func Read(r io.Reader, s schema.Node) (*Cell, error) {
	switch s.Kind {
	case schema.Product:
		children := make([]*Cell, len(s.Children))
		for i, field := range s.Children {
			child, err := Read(r, field)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		return NewCell(Product(children...)), nil

	case schema.Sum:
		disc, err := wire.ReadLen(r, "sum discriminant")
		if err != nil {
			return nil, err
		}
		if disc >= len(s.Children) {
			return nil, wire.ErrInvalidData.New("invalid discriminant in value for a sum schema")
		}
		inner, err := Read(r, s.Children[disc])
		if err != nil {
			return nil, err
		}
		return NewCell(Sum(uint32(disc), inner)), nil

	case schema.List:
		n, err := wire.ReadLen(r, "list value")
		if err != nil {
			return nil, err
		}
		elems := make([]*Cell, n)
		for i := range elems {
			elems[i], err = Read(r, s.Children[0])
			if err != nil {
				return nil, err
			}
		}
		return NewCell(List(elems...)), nil

	case schema.String:
		n, err := wire.ReadLen(r, "string value")
		if err != nil {
			return nil, err
		}
		b, err := wire.ReadBytes(r, n)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(b) {
			return nil, wire.ErrInvalidData.New("string value is not valid utf-8")
		}
		return NewCell(Value{Kind: schema.String, Str: string(b)}), nil

	case schema.Boolean:
		b, err := wire.ReadU8(r)
		if err != nil {
			return nil, err
		}
		return NewCell(Value{Kind: schema.Boolean, Bool: b != 0}), nil

	case schema.Unit:
		return NewCell(Value{Kind: schema.Unit}), nil

	case schema.U8:
		b, err := wire.ReadU8(r)
		if err != nil {
			return nil, err
		}
		return NewCell(Value{Kind: schema.U8, U8: b}), nil

	case schema.U16:
		b, err := wire.ReadBytes(r, 2)
		if err != nil {
			return nil, err
		}
		return NewCell(Value{Kind: schema.U16, U16: be16(b)}), nil

	case schema.U32:
		v, err := wire.ReadU32(r)
		if err != nil {
			return nil, err
		}
		return NewCell(Value{Kind: schema.U32, U32: v}), nil

	case schema.U64:
		b, err := wire.ReadBytes(r, 8)
		if err != nil {
			return nil, err
		}
		return NewCell(Value{Kind: schema.U64, U64: be64(b)}), nil

	case schema.U128:
		b, err := wire.ReadBytes(r, 16)
		if err != nil {
			return nil, err
		}
		var arr [16]byte
		copy(arr[:], b)
		return NewCell(Value{Kind: schema.U128, U128: arr}), nil

	case schema.I8:
		b, err := wire.ReadU8(r)
		if err != nil {
			return nil, err
		}
		return NewCell(Value{Kind: schema.I8, I8: int8(b)}), nil

	case schema.I16:
		b, err := wire.ReadBytes(r, 2)
		if err != nil {
			return nil, err
		}
		return NewCell(Value{Kind: schema.I16, I16: int16(be16(b))}), nil

	case schema.I32:
		v, err := wire.ReadU32(r)
		if err != nil {
			return nil, err
		}
		return NewCell(Value{Kind: schema.I32, I32: int32(v)}), nil

	case schema.I64:
		b, err := wire.ReadBytes(r, 8)
		if err != nil {
			return nil, err
		}
		return NewCell(Value{Kind: schema.I64, I64: int64(be64(b))}), nil

	case schema.I128:
		b, err := wire.ReadBytes(r, 16)
		if err != nil {
			return nil, err
		}
		var arr [16]byte
		copy(arr[:], b)
		return NewCell(Value{Kind: schema.I128, I128: arr}), nil

	case schema.F32:
		v, err := wire.ReadU32(r)
		if err != nil {
			return nil, err
		}
		return NewCell(Value{Kind: schema.F32, F32: math.Float32frombits(v)}), nil

	case schema.F64:
		b, err := wire.ReadBytes(r, 8)
		if err != nil {
			return nil, err
		}
		return NewCell(Value{Kind: schema.F64, F64: math.Float64frombits(be64(b))}), nil

	default:
		return nil, wire.ErrInvalidData.New("unknown schema kind while reading value")
	}
}

// Write encodes the cell's current value to w. Unlike Read, Write needs no
// schema: every Value node already carries the Kind that a schema would
// have supplied, so the recursion is directed by the value itself. The
// bytes produced are identical to what schema-directed writing would
// produce, since a value only ever holds the shape its originating schema
// gave it.
func Write(w io.Writer, c *Cell) error {
	v := c.Get()

	switch v.Kind {
	case schema.Product:
		for _, field := range v.Children {
			if err := Write(w, field); err != nil {
				return err
			}
		}
		return nil

	case schema.Sum:
		if err := wire.WriteLen(w, int(v.Discriminant), "sum discriminant"); err != nil {
			return err
		}
		return Write(w, v.Children[0])

	case schema.List:
		if err := wire.WriteLen(w, len(v.Children), "list value"); err != nil {
			return err
		}
		for _, elem := range v.Children {
			if err := Write(w, elem); err != nil {
				return err
			}
		}
		return nil

	case schema.String:
		b := []byte(v.Str)
		if err := wire.WriteLen(w, len(b), "string value"); err != nil {
			return err
		}
		_, err := w.Write(b)
		return err

	case schema.Boolean:
		var b uint8
		if v.Bool {
			b = 1
		}
		return wire.WriteU8(w, b)

	case schema.Unit:
		return nil

	case schema.U8:
		return wire.WriteU8(w, v.U8)
	case schema.U16:
		return writeBE16(w, v.U16)
	case schema.U32:
		return wire.WriteU32(w, v.U32)
	case schema.U64:
		return writeBE64(w, v.U64)
	case schema.U128:
		_, err := w.Write(v.U128[:])
		return err

	case schema.I8:
		return wire.WriteU8(w, uint8(v.I8))
	case schema.I16:
		return writeBE16(w, uint16(v.I16))
	case schema.I32:
		return wire.WriteU32(w, uint32(v.I32))
	case schema.I64:
		return writeBE64(w, uint64(v.I64))
	case schema.I128:
		_, err := w.Write(v.I128[:])
		return err

	case schema.F32:
		return wire.WriteU32(w, math.Float32bits(v.F32))
	case schema.F64:
		return writeBE64(w, math.Float64bits(v.F64))

	default:
		return wire.ErrInvalidData.New("unknown schema kind while writing value")
	}
}

func be16(b []byte) uint16 { return uint16(b[0])<<8 | uint16(b[1]) }

func be64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

func writeBE16(w io.Writer, v uint16) error {
	_, err := w.Write([]byte{byte(v >> 8), byte(v)})
	return err
}

func writeBE64(w io.Writer, v uint64) error {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	_, err := w.Write(b)
	return err
}