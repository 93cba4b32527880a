/*
 * Copyright 2020 The Yorkie Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package errors defines the error taxonomy shared by the document and
// client packages. Errors are grouped by Kind so callers can decide
// whether to retry, reset local state, or surface the failure as-is.
package errors

import "errors"

// Kind classifies an error so callers can decide on a retry/reset policy
// without string-matching error messages.
type Kind string

// The error kinds this module distinguishes, per the failure semantics in
// the specification.
const (
	// KindClientState covers violations of the client's activation state.
	KindClientState Kind = "client-state"

	// KindDocumentState covers violations of a document's attachment state.
	KindDocumentState Kind = "document-state"

	// KindInvalidArgument covers malformed caller input (counter width
	// mismatch, bad text index, unknown attribute type, ...).
	KindInvalidArgument Kind = "invalid-argument"

	// KindSizeLimitExceeded covers local update rejection by admission
	// control.
	KindSizeLimitExceeded Kind = "size-limit-exceeded"

	// KindUnauthorized covers credential failures that should trigger an
	// auth-token refresh.
	KindUnauthorized Kind = "unauthorized"

	// KindTransport covers retryable RPC/network failures.
	KindTransport Kind = "transport"

	// KindConflict covers snapshot installation that detected divergence;
	// the document must be re-attached.
	KindConflict Kind = "conflict"
)

// Sentinel errors for client/document state guards. These are compared
// with errors.Is by callers, so wrapping with fmt.Errorf("%w", ...) is
// always safe.
var (
	ErrClientNotActive     = newState(KindClientState, "client is not active")
	ErrClientNotActivated  = newState(KindClientState, "client is not activated")
	ErrDocumentNotAttached = newState(KindDocumentState, "document is not attached")
	ErrDocumentNotDetached = newState(KindDocumentState, "document is not detached")
	ErrDocumentRemoved     = newState(KindDocumentState, "document is removed")

	ErrInvalidArgument   = New(KindInvalidArgument, "invalid argument")
	ErrSizeLimitExceeded = New(KindSizeLimitExceeded, "document size limit exceeded")
	ErrUnauthorized      = New(KindUnauthorized, "unauthorized")
	ErrPermissionDenied  = New(KindUnauthorized, "permission denied")
	ErrTransport         = New(KindTransport, "transport error")
	ErrConflict          = New(KindConflict, "conflict detected, document must be re-attached")
)

// Error is a classified error carrying a Kind alongside the usual message
// and wrapped cause.
type Error struct {
	kind    Kind
	message string
	cause   error
}

// New creates an *Error of the given Kind.
func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

func newState(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Wrap creates an *Error of the given Kind that wraps cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{kind: kind, message: message, cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

// Unwrap allows errors.Is/errors.As to see through to the cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Kind returns the classification of this error.
func (e *Error) Kind() Kind {
	return e.kind
}

// Is reports whether target has the same Kind and message, which is how
// the sentinel errors above compare equal across package boundaries.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.kind == other.kind && e.message == other.message
}

// IsRetryable reports whether the caller may retry the operation that
// produced err without resetting local state.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.kind == KindTransport
	}
	return false
}

// KindOf returns the Kind of err, or "" if err is not a classified error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return ""
}
