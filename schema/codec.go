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

package schema

import (
	"io"

	"github.com/treeql/treeql/wire"
)

// Read decodes one schema node from r: a one byte discriminant, then a
// u32 count plus that many children for Product/Sum, or exactly one child
// for List. Scalars carry no payload. An unrecognised discriminant yields
// wire.ErrInvalidData.
func Read(r io.Reader) (Node, error) {
	disc, err := wire.ReadU8(r)
	if err != nil {
		return Node{}, err
	}

	k := Kind(disc)
	switch k {
	case Product, Sum:
		n, err := wire.ReadLen(r, "schema child count")
		if err != nil {
			return Node{}, err
		}

		children := make([]Node, n)
		for i := range children {
			children[i], err = Read(r)
			if err != nil {
				return Node{}, err
			}
		}

		return Node{Kind: k, Children: children}, nil

	case List:
		elem, err := Read(r)
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: List, Children: []Node{elem}}, nil

	case String, Boolean, Unit,
		U8, U16, U32, U64, U128,
		I8, I16, I32, I64, I128,
		F32, F64:
		return Node{Kind: k}, nil

	default:
		return Node{}, wire.ErrInvalidData.New("unknown schema discriminant")
	}
}

// Write encodes a schema node to w in the format Read expects.
func Write(w io.Writer, n Node) error {
	if err := wire.WriteU8(w, uint8(n.Kind)); err != nil {
		return err
	}

	switch n.Kind {
	case Product, Sum:
		if err := wire.WriteLen(w, len(n.Children), "schema child count"); err != nil {
			return err
		}
		for _, child := range n.Children {
			if err := Write(w, child); err != nil {
				return err
			}
		}

	case List:
		return Write(w, n.Children[0])
	}

	return nil
}