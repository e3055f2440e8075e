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

package assets

import (
	"os"

	"github.com/sensorbridge/agent/internal/registry"
)

// FontsByFamily reads back every prepared Text element's cached font blob
// and returns it keyed by font family, the shape the renderer's input
// contract expects (spec.md §4.4 "{font_family -> font_bytes} map").
func FontsByFamily(cache *Cache, elements []registry.Element) map[string][]byte {
	out := make(map[string][]byte)
	for _, element := range elements {
		if element.Type != registry.ElementText || element.Text == nil {
			continue
		}
		family := element.Text.FontFamily
		if _, ok := out[family]; ok {
			continue
		}
		data, err := os.ReadFile(FontBlobPath(cache, element.ID))
		if err != nil {
			continue
		}
		out[family] = data
	}
	return out
}
