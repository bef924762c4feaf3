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

package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/treeql/treeql/expr"
	"github.com/treeql/treeql/request"
	"github.com/treeql/treeql/schema"
	"github.com/treeql/treeql/value"
	"github.com/treeql/treeql/wire"
)

// This file is package server, not server_test: it pins afterQuerySnapshot,
// an unexported hook, to drive a real Set through the exact window between a
// Query's snapshot and its evaluation that the snapshot/release split
// (Server.snapshot, Server.replace) exists to make safe.

func connectTo(t *testing.T, s *Server) net.Conn {
	t.Helper()
	clientConn, serverConn := net.Pipe()

	go func() {
		_ = s.Listen(context.Background(), serverConn)
		serverConn.Close()
	}()

	t.Cleanup(func() { clientConn.Close() })
	return clientConn
}

// TestConcurrentSetDuringQueryDoesNotLeakIntoInFlightResult:
// C1 issues a Map that touches every element of the root list; while that
// Map is "in flight" (pinned there by afterQuerySnapshot), C2 issues a Set
// replacing the schema and root entirely. Once C2's Set has completed and
// C1 is released, C1's result must still reflect the root it snapshotted
// before the Set, and a third connection's GetSchema must see C2's new
// schema — neither connection's view leaks into the other's.
func TestConcurrentSetDuringQueryDoesNotLeakIntoInFlightResult(t *testing.T) {
	oldSchema := schema.NewList(schema.U32Schema)
	oldRoot := value.NewCell(value.List(
		value.NewCell(value.Value{Kind: schema.U32, U32: 1}),
		value.NewCell(value.Value{Kind: schema.U32, U32: 2}),
		value.NewCell(value.Value{Kind: schema.U32, U32: 3}),
	))
	s := New(oldSchema, oldRoot)

	snapshotTaken := make(chan struct{})
	proceed := make(chan struct{})
	s.afterQuerySnapshot = func() {
		close(snapshotTaken)
		<-proceed
	}

	c1 := connectTo(t, s)
	c2 := connectTo(t, s)
	c3 := connectTo(t, s)

	// C1: Map(root, λe. e) over the List<U32> root — touches every element.
	mapExpr := expr.MapExpr(expr.PathExpr(0), expr.PathExpr(1))

	c1Done := make(chan struct{})
	var c1Result *value.Cell
	var c1Err error
	go func() {
		defer close(c1Done)
		if err := wire.WriteU8(c1, uint8(request.Query)); err != nil {
			c1Err = err
			return
		}
		if err := expr.Write(c1, mapExpr); err != nil {
			c1Err = err
			return
		}
		c1Result, c1Err = value.Read(c1, schema.NewList(schema.U32Schema))
	}()

	select {
	case <-snapshotTaken:
	case <-time.After(2 * time.Second):
		t.Fatal("C1's query never reached its snapshot point")
	}

	// C2: Set, while C1 is parked right after its snapshot.
	newSchema := schema.U32Schema
	newRoot := value.NewCell(value.Value{Kind: schema.U32, U32: 99})
	require.NoError(t, wire.WriteU8(c2, uint8(request.Set)))
	require.NoError(t, schema.Write(c2, newSchema))
	require.NoError(t, value.Write(c2, newRoot))

	close(proceed)

	select {
	case <-c1Done:
	case <-time.After(2 * time.Second):
		t.Fatal("C1's query did not complete after being released")
	}
	require.NoError(t, c1Err)

	rv := c1Result.Get()
	require.Len(t, rv.Children, 3, "C1's result must reflect the pre-Set root it snapshotted")
	require.Equal(t, uint32(1), rv.Children[0].Get().U32)
	require.Equal(t, uint32(2), rv.Children[1].Get().U32)
	require.Equal(t, uint32(3), rv.Children[2].Get().U32)

	require.NoError(t, wire.WriteU8(c3, uint8(request.GetSchema)))
	gotSchema, err := schema.Read(c3)
	require.NoError(t, err)
	require.True(t, schema.Equal(newSchema, gotSchema), "a later GetSchema must see C2's new schema")
}
