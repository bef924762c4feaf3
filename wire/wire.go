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

// Package wire holds the low level byte-stream primitives shared by the
// schema, value and expression codecs: big-endian length-prefixed integers,
// strings and the error taxonomy produced when a peer sends something the
// codec cannot make sense of.
package wire

import (
	"encoding/binary"
	"io"

	errors "gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrInvalidData is returned when a peer sends a byte sequence that does
	// not decode into any valid schema, value or expression: an unknown
	// discriminant, an out of range sum discriminant, or malformed UTF-8.
	ErrInvalidData = errors.NewKind("invalid data: %s")

	// ErrOutOfMemory is returned when a length prefix read from the wire
	// would not fit in a native pointer-sized integer, or otherwise asks for
	// more memory than this process is willing to allocate on a peer's say.
	ErrOutOfMemory = errors.NewKind("out of memory: %s")
)

// ReadU8 reads a single byte.
func ReadU8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// WriteU8 writes a single byte.
func WriteU8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

// ReadU32 reads a big-endian uint32.
func ReadU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// WriteU32 writes a big-endian uint32.
func WriteU32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// ReadLen reads a u32 length prefix and checks it fits into an int on this
// platform, returning ErrOutOfMemory otherwise.
func ReadLen(r io.Reader, what string) (int, error) {
	n, err := ReadU32(r)
	if err != nil {
		return 0, err
	}
	if int64(n) > int64(^uint(0)>>1) {
		return 0, ErrOutOfMemory.New(what + " length doesn't fit into a pointer sized integer")
	}
	return int(n), nil
}

// WriteLen writes a length as a u32, returning ErrOutOfMemory if it
// overflows 32 bits.
func WriteLen(w io.Writer, n int, what string) error {
	if n < 0 || int64(n) > int64(^uint32(0)) {
		return ErrOutOfMemory.New(what + " length doesn't fit into a 32 bit unsigned integer")
	}
	return WriteU32(w, uint32(n))
}

// ReadBytes reads exactly n bytes.
func ReadBytes(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}