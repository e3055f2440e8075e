// Copyright 2026 The Sensorbridge Agent Authors
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

// Package apierrors holds the typed error kinds every component maps onto,
// following the teacher's internal/healthchecks.HealthCheckError shape
// (spec.md §7).
package apierrors

import (
	"errors"
	"fmt"
)

// Kind is one of the error kinds spec.md §7 enumerates.
type Kind string

const (
	KindProviderUnavailable Kind = "provider_unavailable"
	KindTransientIO         Kind = "transient_io"
	KindAssetMissing        Kind = "asset_missing"
	KindConfigInvalid       Kind = "config_invalid"
	KindClientUnknown       Kind = "client_unknown"
	KindClientInactive      Kind = "client_inactive"
	KindBadRequest          Kind = "bad_request"
	KindInternal            Kind = "internal"
)

// Error is the typed error value every handler and component returns
// instead of an ad-hoc error string, so status-code mapping stays in one
// place (httpapi.writeError).
type Error struct {
	Kind    Kind
	Message string
	Field   string // set for BadRequest
	Element string // set for ConfigInvalid
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func TransientIO(message string, err error) *Error {
	return &Error{Kind: KindTransientIO, Message: message, Err: err}
}

func AssetMissing(message string) *Error {
	return &Error{Kind: KindAssetMissing, Message: message}
}

// ConfigInvalid is returned on the enable path as an *Error of
// KindConfigInvalid, with Element set to the element name and Message to
// the reason (spec.md §4.8, §7).
func ConfigInvalid(element, reason string) *Error {
	return &Error{Kind: KindConfigInvalid, Element: element, Message: reason}
}

func ClientUnknown(mac string) *Error {
	return &Error{Kind: KindClientUnknown, Message: fmt.Sprintf("no client registered for mac %q", mac)}
}

func ClientInactive(mac string) *Error {
	return &Error{Kind: KindClientInactive, Message: fmt.Sprintf("client %q is not active", mac)}
}

func BadRequest(field, message string) *Error {
	return &Error{Kind: KindBadRequest, Field: field, Message: message}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// As reports whether err is an *Error and returns it, mirroring errors.As
// without requiring every call site to declare the target variable inline.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
