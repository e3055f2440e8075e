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
	"path/filepath"

	"github.com/sensorbridge/agent/internal/registry"
)

// BundleReader reads already-prepared cache entries back into the three
// maps the HTTP registration response and the push-mode prepare phase
// both need (spec.md §4.6, §4.7 step 3).
type BundleReader struct {
	Cache *Cache
}

// ReadPrepareData returns {id -> bytes} for each variant in cfg, skipping
// elements whose cache entry is missing (a failed preparation does not
// abort the others, per spec.md §4.3 "Failure policy").
func (b BundleReader) ReadPrepareData(cfg registry.DisplayConfig) (text, staticImage, conditionalImage map[string][]byte) {
	text = map[string][]byte{}
	staticImage = map[string][]byte{}
	conditionalImage = map[string][]byte{}

	for _, element := range cfg.Elements {
		switch element.Type {
		case registry.ElementText:
			if data, err := os.ReadFile(FontBlobPath(b.Cache, element.ID)); err == nil {
				text[element.ID] = data
			}
		case registry.ElementStaticImage:
			if data, err := os.ReadFile(ImageBlobPath(b.Cache, element.ID)); err == nil {
				staticImage[element.ID] = data
			}
		case registry.ElementConditionalImage:
			dir := b.Cache.ElementDir(registry.ElementConditionalImage, element.ID)
			entries, err := os.ReadDir(dir)
			if err != nil {
				continue
			}
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				if data, err := os.ReadFile(filepath.Join(dir, entry.Name())); err == nil {
					conditionalImage[element.ID+"/"+entry.Name()] = data
				}
			}
		}
	}
	return text, staticImage, conditionalImage
}
