// Copyright 2025 Talenthub Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// Kind classifies a domain failure so callers can branch on it.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound referenced event/invitation/link does not exist
	KindNotFound
	// KindValidation malformed input
	KindValidation
	// KindInvalidState operation not permitted given the current status
	KindInvalidState
	// KindAuthScope external provider denied the operation, re-grant required
	KindAuthScope
	// KindTransient network/backend error, safe to retry
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindInvalidState:
		return "invalid_state"
	case KindAuthScope:
		return "auth_scope"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

type kindError struct {
	kind Kind
	err  error
}

func (e *kindError) Error() string {
	return e.err.Error()
}

func (e *kindError) Unwrap() error {
	return e.err
}

// E creates a new error of the given kind.
func E(kind Kind, msg string) error {
	return &kindError{kind: kind, err: errors.New(msg)}
}

// Ef creates a new error of the given kind with formatting.
func Ef(kind Kind, format string, args ...interface{}) error {
	return &kindError{kind: kind, err: errors.Errorf(format, args...)}
}

// Wrap annotates err with a kind and message, preserving the cause chain.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: errors.Wrap(err, msg)}
}

// KindOf reports the kind of err, walking the unwrap chain.
// Errors without a kind report KindUnknown.
func KindOf(err error) Kind {
	for err != nil {
		if ke, ok := err.(*kindError); ok {
			return ke.kind
		}
		err = stderrors.Unwrap(err)
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
