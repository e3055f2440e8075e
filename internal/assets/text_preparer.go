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
	"context"
	"os"
	"path/filepath"

	"github.com/sensorbridge/agent/internal/apierrors"
	"github.com/sensorbridge/agent/internal/registry"
)

// fontBlobName is the cache file name a resolved font family is written
// under, read back by internal/render when building {family: bytes}.
const fontBlobName = "font.blob"

// TextPreparer resolves Text.FontFamily to a byte blob and caches it
// (spec.md §4.3).
type TextPreparer struct{}

func (TextPreparer) Prepare(ctx context.Context, cache *Cache, element registry.Element) error {
	if element.Text == nil {
		return apierrors.AssetMissing("text element missing its config")
	}

	data, err := ResolveFont(element.Text.FontFamily)
	if err != nil {
		return err
	}

	dir := cache.ElementDir(registry.ElementText, element.ID)
	if err := resetDir(dir); err != nil {
		return apierrors.TransientIO("resetting cache dir for "+element.ID, err)
	}
	if err := os.WriteFile(filepath.Join(dir, fontBlobName), data, 0o644); err != nil {
		return apierrors.TransientIO("writing font blob for "+element.ID, err)
	}
	return nil
}

// FontBlobPath returns the path a prepared Text element's font bytes were
// written to, for the renderer to read back.
func FontBlobPath(cache *Cache, elementID string) string {
	return filepath.Join(cache.ElementDir(registry.ElementText, elementID), fontBlobName)
}
