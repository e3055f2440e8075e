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
	"bytes"
	"encoding/gob"

	"github.com/sensorbridge/agent/internal/apierrors"
)

// encodeAssetMap gob-encodes one prepare-phase payload (spec.md §4.7
// step 3: "each carrying a map {id -> bytes}").
func encodeAssetMap(data map[string][]byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return nil, apierrors.Internal(err)
	}
	return buf.Bytes(), nil
}
