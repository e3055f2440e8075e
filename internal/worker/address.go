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

package worker

import (
	"net"

	"github.com/sensorbridge/agent/internal/apierrors"
)

// resolveAddress accepts a dotted-quad literal or a hostname resolved via
// DNS, and returns the first IPv4 address found (spec.md §4.7 step 1).
func resolveAddress(host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip4 := ip.To4(); ip4 != nil {
			return ip4.String(), nil
		}
		return "", apierrors.TransientIO("unresolved host "+host, errUnresolvedHost)
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return "", apierrors.TransientIO("unresolved host "+host, err)
	}
	for _, ip := range ips {
		if ip4 := ip.To4(); ip4 != nil {
			return ip4.String(), nil
		}
	}
	return "", apierrors.TransientIO("unresolved host "+host, errUnresolvedHost)
}

var errUnresolvedHost = unresolvedHostError{}

type unresolvedHostError struct{}

func (unresolvedHostError) Error() string { return "no IPv4 address found for host" }
