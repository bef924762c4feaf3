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

// Package benchmark measures the dispatcher's request round-trip
// throughput: each benchmark drives one in-process connection, issuing its
// requests one after another against the server's root. It has no tables or
// fixtures of its own — the schema is built in-process — since there is no
// persistence layer to seed.
package benchmark

import (
	"context"
	"net"
	"testing"

	"github.com/treeql/treeql/expr"
	"github.com/treeql/treeql/request"
	"github.com/treeql/treeql/schema"
	"github.com/treeql/treeql/server"
	"github.com/treeql/treeql/value"
	"github.com/treeql/treeql/wire"
)

func newConnectedServer(b *testing.B) net.Conn {
	b.Helper()
	s := server.New(schema.U32Schema, value.NewCell(value.Value{Kind: schema.U32, U32: 0}))
	clientConn, serverConn := net.Pipe()

	go func() {
		_ = s.Listen(context.Background(), serverConn)
		serverConn.Close()
	}()

	b.Cleanup(func() { clientConn.Close() })
	return clientConn
}

// BenchmarkQueryRoot measures round-trip latency of the cheapest possible
// query: reading back the root value with no traversal.
func BenchmarkQueryRoot(b *testing.B) {
	conn := newConnectedServer(b)
	path := expr.PathExpr(0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := wire.WriteU8(conn, uint8(request.Query)); err != nil {
			b.Fatal(err)
		}
		if err := expr.Write(conn, path); err != nil {
			b.Fatal(err)
		}
		if _, err := value.Read(conn, schema.U32Schema); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSetThenQuery measures one write followed by one read per
// iteration, the pattern a client polling for its own write sees.
func BenchmarkSetThenQuery(b *testing.B) {
	conn := newConnectedServer(b)
	path := expr.PathExpr(0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		newRoot := value.NewCell(value.Value{Kind: schema.U32, U32: uint32(i)})

		if err := wire.WriteU8(conn, uint8(request.Set)); err != nil {
			b.Fatal(err)
		}
		if err := schema.Write(conn, schema.U32Schema); err != nil {
			b.Fatal(err)
		}
		if err := value.Write(conn, newRoot); err != nil {
			b.Fatal(err)
		}

		if err := wire.WriteU8(conn, uint8(request.Query)); err != nil {
			b.Fatal(err)
		}
		if err := expr.Write(conn, path); err != nil {
			b.Fatal(err)
		}
		if _, err := value.Read(conn, schema.U32Schema); err != nil {
			b.Fatal(err)
		}
	}
}
