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
	"io"

	"github.com/treeql/treeql/schema"
	"github.com/treeql/treeql/value"
	"github.com/treeql/treeql/wire"
)

// Read parses one expression node from r.
func Read(r io.Reader) (Node, error) {
	disc, err := wire.ReadU8(r)
	if err != nil {
		return Node{}, err
	}

	switch Kind(disc) {
	case Path:
		n, err := wire.ReadLen(r, "path expression")
		if err != nil {
			return Node{}, err
		}
		segments := make([]uint32, n)
		for i := range segments {
			segments[i], err = wire.ReadU32(r)
			if err != nil {
				return Node{}, err
			}
		}
		return Node{Kind: Path, Segments: segments}, nil

	case Value:
		s, err := schema.Read(r)
		if err != nil {
			return Node{}, err
		}
		v, err := value.Read(r, s)
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: Value, Schema: s, Literal: v}, nil

	case Set, Equal, And, Chain:
		lhs, err := Read(r)
		if err != nil {
			return Node{}, err
		}
		rhs, err := Read(r)
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: Kind(disc), Operands: []Node{lhs, rhs}}, nil

	case Filter, Map, Get:
		lhs, err := Read(r)
		if err != nil {
			return Node{}, err
		}
		rhs, err := Read(r)
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: Kind(disc), Operands: []Node{lhs, rhs}}, nil

	case MapVariant:
		target, err := Read(r)
		if err != nil {
			return Node{}, err
		}
		d, err := wire.ReadU32(r)
		if err != nil {
			return Node{}, err
		}
		body, err := Read(r)
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: MapVariant, Operands: []Node{target, body}, Discriminant: d}, nil

	case Fuse, Length:
		inner, err := Read(r)
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: Kind(disc), Operands: []Node{inner}}, nil

	case Condition:
		cond, err := Read(r)
		if err != nil {
			return Node{}, err
		}
		ifB, err := Read(r)
		if err != nil {
			return Node{}, err
		}
		elseB, err := Read(r)
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: Condition, Operands: []Node{cond, ifB, elseB}}, nil

	case MakeProduct, MakeList:
		n, err := wire.ReadLen(r, "expression operand count")
		if err != nil {
			return Node{}, err
		}
		operands := make([]Node, n)
		for i := range operands {
			operands[i], err = Read(r)
			if err != nil {
				return Node{}, err
			}
		}
		return Node{Kind: Kind(disc), Operands: operands}, nil

	case MakeSum:
		d, err := wire.ReadU32(r)
		if err != nil {
			return Node{}, err
		}
		inner, err := Read(r)
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: MakeSum, Discriminant: d, Operands: []Node{inner}}, nil

	case Insert:
		list, err := Read(r)
		if err != nil {
			return Node{}, err
		}
		index, err := Read(r)
		if err != nil {
			return Node{}, err
		}
		val, err := Read(r)
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: Insert, Operands: []Node{list, index, val}}, nil

	default:
		return Node{}, wire.ErrInvalidData.New("unknown expression discriminant")
	}
}

// Write encodes an expression node to w.
func Write(w io.Writer, n Node) error {
	if err := wire.WriteU8(w, uint8(n.Kind)); err != nil {
		return err
	}

	switch n.Kind {
	case Path:
		if err := wire.WriteLen(w, len(n.Segments), "path expression"); err != nil {
			return err
		}
		for _, s := range n.Segments {
			if err := wire.WriteU32(w, s); err != nil {
				return err
			}
		}
		return nil

	case Value:
		if err := schema.Write(w, n.Schema); err != nil {
			return err
		}
		return value.Write(w, n.Literal)

	case MapVariant:
		if err := Write(w, n.Operands[0]); err != nil {
			return err
		}
		if err := wire.WriteU32(w, n.Discriminant); err != nil {
			return err
		}
		return Write(w, n.Operands[1])

	case MakeProduct, MakeList:
		if err := wire.WriteLen(w, len(n.Operands), "expression operand count"); err != nil {
			return err
		}
		for _, op := range n.Operands {
			if err := Write(w, op); err != nil {
				return err
			}
		}
		return nil

	case MakeSum:
		if err := wire.WriteU32(w, n.Discriminant); err != nil {
			return err
		}
		return Write(w, n.Operands[0])

	default:
		for _, op := range n.Operands {
			if err := Write(w, op); err != nil {
				return err
			}
		}
		return nil
	}
}