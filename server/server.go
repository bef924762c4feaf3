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

// Package server implements the request dispatcher: the loop that reads one
// request per turn off a connection and drives the schema/value/expression
// engine to a response.
package server

import (
	"context"
	"io"
	"net"
	"sync"

	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"

	"github.com/treeql/treeql/auth"
	"github.com/treeql/treeql/expr"
	"github.com/treeql/treeql/request"
	"github.com/treeql/treeql/schema"
	"github.com/treeql/treeql/value"
	"github.com/treeql/treeql/wire"
)

// Server holds the single typed value tree every connection reads and
// mutates. schema and root are replaced together, atomically, by a Set
// request; reads snapshot both under mu and then release it before doing
// any potentially slow work, so a long running Query never blocks a
// concurrent Set on another connection.
type Server struct {
	mu     sync.RWMutex
	schema schema.Node
	root   *value.Cell

	Log  *logrus.Logger
	Auth auth.Auth

	// afterQuerySnapshot, when set, is called synchronously right after a
	// Query's snapshot is taken and before it is evaluated. Production code
	// never sets it; it exists so a test can pin down the exact moment the
	// snapshot/release split promises a concurrent Set is safe across, and
	// drive a real Set through that window deterministically.
	afterQuerySnapshot func()
}

// New creates a server whose root starts out as (s, v). Auth defaults to
// auth.None, so the server is usable without standing up an authorization
// policy; set Server.Auth after construction to change that.
func New(s schema.Node, v *value.Cell) *Server {
	return &Server{
		schema: s,
		root:   v,
		Log:    logrus.StandardLogger(),
		Auth:   auth.None{},
	}
}

func (s *Server) snapshot() (schema.Node, *value.Cell) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schema, s.root
}

func (s *Server) replace(newSchema schema.Node, newRoot *value.Cell) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schema = newSchema
	s.root = newRoot
}

// ListenTCP accepts connections on address forever, running each to
// completion with Listen in its own goroutine. It returns only if Accept
// fails.
func (s *Server) ListenTCP(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}
	defer listener.Close()

	s.Log.WithField("address", listener.Addr()).Info("listening")

	for {
		conn, err := listener.Accept()
		if err != nil {
			return err
		}

		log := s.Log.WithField("remote", conn.RemoteAddr())
		log.Info("connection accepted")

		go func() {
			defer conn.Close()
			if err := s.Listen(context.Background(), conn); err != nil {
				log.WithError(err).Warn("connection closed with error")
				return
			}
			log.Info("connection closed")
		}()
	}
}

// Listen runs one connection to completion: it reads requests and writes
// responses until the peer closes the stream cleanly between requests, or
// a transport, codec or evaluation error forces the connection shut.
//
// Within one connection requests are strictly serialised — the response to
// request N is written before request N+1 is read — but Listen places no
// ordering constraint on other connections; the only cross-connection
// atomicity guarantee is that a Set replaces schema and value together.
//
// ctx is checked before each request is read; cancelling it stops the loop
// there, without interrupting a read already blocked and without rolling
// back a request already in flight, in keeping with the protocol's
// no-rollback-on-disconnect design.
func (s *Server) Listen(ctx context.Context, conn io.ReadWriter) error {
	connID := uuid.NewV4().String()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		kindByte, err := wire.ReadU8(conn)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if err := s.dispatch(connID, conn, request.Kind(kindByte)); err != nil {
			return err
		}
	}
}

func (s *Server) dispatch(connID string, conn io.ReadWriter, kind request.Kind) error {
	switch kind {
	case request.GetSchema:
		if err := s.Auth.Allowed(connID, auth.ReadPerm); err != nil {
			return err
		}
		currentSchema, _ := s.snapshot()
		return schema.Write(conn, currentSchema)

	case request.Set:
		if err := s.Auth.Allowed(connID, auth.WritePerm); err != nil {
			return err
		}
		newSchema, err := schema.Read(conn)
		if err != nil {
			return err
		}
		newRoot, err := value.Read(conn, newSchema)
		if err != nil {
			return err
		}
		s.replace(newSchema, newRoot)
		return nil

	case request.Query:
		if err := s.Auth.Allowed(connID, auth.ReadPerm); err != nil {
			return err
		}
		expression, err := expr.Read(conn)
		if err != nil {
			return err
		}

		_, root := s.snapshot()
		if s.afterQuerySnapshot != nil {
			s.afterQuerySnapshot()
		}
		result, err := expr.Eval(expression, []*value.Cell{root})
		if err != nil {
			return err
		}

		return value.Write(conn, result)

	default:
		return wire.ErrInvalidData.New("invalid discriminant for request")
	}
}