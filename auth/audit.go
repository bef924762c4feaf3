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

package auth

import "github.com/sirupsen/logrus"

// AuditMethod is called to log the outcome of an authorization check.
type AuditMethod interface {
	Authorization(connID string, permission Permission, err error)
}

// NewAudit wraps auth so every Allowed call is also reported to method.
func NewAudit(auth Auth, method AuditMethod) Auth {
	return &audited{auth: auth, method: method}
}

type audited struct {
	auth   Auth
	method AuditMethod
}

// Allowed implements Auth.
func (a *audited) Allowed(connID string, permission Permission) error {
	err := a.auth.Allowed(connID, permission)
	a.method.Authorization(connID, permission, err)
	return err
}

// NewAuditLog creates an AuditMethod that logs to l under the "audit"
// system field, matching the field convention the rest of the module uses
// for connection lifecycle logging.
func NewAuditLog(l *logrus.Logger) AuditMethod {
	return &auditLog{log: l.WithField("system", "audit")}
}

type auditLog struct {
	log *logrus.Entry
}

// Authorization implements AuditMethod.
func (a *auditLog) Authorization(connID string, permission Permission, err error) {
	fields := logrus.Fields{
		"connection": connID,
		"permission": permission.String(),
		"success":    err == nil,
	}
	if err != nil {
		fields["err"] = err
	}
	a.log.WithFields(fields).Info("authorization check")
}
