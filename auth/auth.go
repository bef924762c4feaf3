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

// Package auth provides the dispatcher's pluggable authorization hook. The
// wire protocol itself has no concept of identity or credentials — that
// stays out of scope — but a server embedding the dispatcher still needs a
// place to decide whether a given connection may issue a Set or a
// Query/GetSchema, and to audit those decisions. Auth is that seam.
package auth

import (
	"strings"

	errors "gopkg.in/src-d/go-errors.v1"
)

// ErrNotAuthorized is returned by an Auth implementation that denies a
// request.
var ErrNotAuthorized = errors.NewKind("connection %s not authorized for: %s")

// Permission is a bitset of the operations a connection may perform.
type Permission int

const (
	// ReadPerm covers GetSchema and Query.
	ReadPerm Permission = 1 << iota
	// WritePerm covers Set.
	WritePerm
)

// AllPermissions grants both.
var AllPermissions = ReadPerm | WritePerm

// PermissionNames translates between the human and machine representation,
// for audit logs and config parsing.
var PermissionNames = map[string]Permission{
	"read":  ReadPerm,
	"write": WritePerm,
}

// String renders the permissions set to on, comma separated.
func (p Permission) String() string {
	var names []string
	for name, bit := range PermissionNames {
		if p&bit != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

// Auth decides whether a connection may perform an operation requiring
// permission. connID identifies the connection for audit purposes; it
// carries no authentication information of its own.
type Auth interface {
	Allowed(connID string, permission Permission) error
}
