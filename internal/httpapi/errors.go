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

package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/sensorbridge/agent/internal/apierrors"
	"github.com/sensorbridge/agent/internal/logs"
)

// statusCode maps an apierrors.Kind onto an HTTP status (spec.md §6, §7).
// No stack traces cross the wire; only the message.
func statusCode(kind apierrors.Kind) int {
	switch kind {
	case apierrors.KindBadRequest:
		return http.StatusBadRequest
	case apierrors.KindClientInactive:
		return http.StatusForbidden
	case apierrors.KindClientUnknown:
		return http.StatusNotFound
	case apierrors.KindAssetMissing, apierrors.KindConfigInvalid:
		return http.StatusUnprocessableEntity
	case apierrors.KindTransientIO, apierrors.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// writeError is the single place every handler maps an error to a status
// code and JSON body (spec.md §7 "HTTP errors map to status codes; no
// stack traces are returned to clients").
func writeError(w http.ResponseWriter, logger logs.StructuredLogger, err error) {
	apiErr, ok := apierrors.As(err)
	if !ok {
		apiErr = apierrors.Internal(err)
	}
	logger.Warnf("request failed: %v", apiErr)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode(apiErr.Kind))
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": apiErr.Message,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
