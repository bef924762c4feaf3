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

// Package client implements the other half of the wire protocol: a
// connection that asks the server for its schema, replaces the stored
// root, or runs a typed query built against the binding package.
package client

import (
	"io"
	"net"

	"github.com/treeql/treeql/binding"
	"github.com/treeql/treeql/expr"
	"github.com/treeql/treeql/request"
	"github.com/treeql/treeql/schema"
	"github.com/treeql/treeql/value"
	"github.com/treeql/treeql/wire"
)

// Client talks the protocol over any read/write stream, typically a
// net.Conn. A single Client is not safe for concurrent use: the protocol
// requires a connection's requests to be strictly serialised, response N
// written before request N+1 is read.
type Client struct {
	stream io.ReadWriter
}

// New wraps an already-connected stream.
func New(stream io.ReadWriter) *Client {
	return &Client{stream: stream}
}

// Dial connects to a server listening on a TCP address.
func Dial(address string) (*Client, error) {
	conn, err := net.Dial("tcp", address)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// Close closes the underlying stream, if it supports it.
func (c *Client) Close() error {
	if closer, ok := c.stream.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// GetSchema asks the server for its current root schema.
func (c *Client) GetSchema() (schema.Node, error) {
	if err := wire.WriteU8(c.stream, uint8(request.GetSchema)); err != nil {
		return schema.Node{}, err
	}
	return schema.Read(c.stream)
}

// Set replaces the server's stored root with (s, v). There is no response,
// so Set returns once the request is written, which may be before the
// server has applied it; later requests on this Client are handled after
// it and see the new state.
func (c *Client) Set(s schema.Node, v *value.Cell) error {
	if err := wire.WriteU8(c.stream, uint8(request.Set)); err != nil {
		return err
	}
	if err := schema.Write(c.stream, s); err != nil {
		return err
	}
	return value.Write(c.stream, v)
}

// Query builds an expression by calling build with the binding for the
// query's root, sends it, and parses the response against the expression's
// statically known result schema — the server is never told what that
// schema is. The root's own phantom type is irrelevant to the wire
// exchange, so it's erased to any; only the result type T need be named by
// the caller.
func Query[T any](c *Client, rootSchema schema.Node, build func(*binding.Scope, binding.Expr[any]) binding.Expr[T]) (*value.Cell, error) {
	scope := binding.NewScope()
	root := binding.Root[any](rootSchema)
	expression := build(scope, root)

	if err := wire.WriteU8(c.stream, uint8(request.Query)); err != nil {
		return nil, err
	}
	if err := expr.Write(c.stream, expression.Node()); err != nil {
		return nil, err
	}

	return value.Read(c.stream, expression.Schema())
}