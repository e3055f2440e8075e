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
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/nfnt/resize"

	"github.com/sensorbridge/agent/internal/apierrors"
	"github.com/sensorbridge/agent/internal/registry"
)

// imageBlobName is the re-encoded PNG every StaticImage element is cached
// under.
const imageBlobName = "image.png"

// ImagePreparer loads a StaticImage's source, resizes it with a
// high-quality filter, and persists a PNG re-encode under the cache
// (spec.md §4.3).
type ImagePreparer struct{}

func (ImagePreparer) Prepare(ctx context.Context, cache *Cache, element registry.Element) error {
	if element.StaticImage == nil {
		return apierrors.AssetMissing("static image element missing its config")
	}
	cfg := element.StaticImage

	raw, err := loadSource(cfg.ImagePath)
	if err != nil {
		return err
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return apierrors.AssetMissing("decoding " + cfg.ImagePath + ": " + err.Error())
	}

	resized := resize.Resize(uint(cfg.Width), uint(cfg.Height), img, resize.Lanczos3)

	dir := cache.ElementDir(registry.ElementStaticImage, element.ID)
	if err := resetDir(dir); err != nil {
		return apierrors.TransientIO("resetting cache dir for "+element.ID, err)
	}

	return encodePNG(filepath.Join(dir, imageBlobName), resized)
}

// ImageBlobPath returns the path a prepared StaticImage element's PNG was
// written to, for the renderer to read back.
func ImageBlobPath(cache *Cache, elementID string) string {
	return filepath.Join(cache.ElementDir(registry.ElementStaticImage, elementID), imageBlobName)
}

func encodePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return apierrors.TransientIO("creating "+path, err)
	}
	defer f.Close()

	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(f, img); err != nil {
		return apierrors.TransientIO("encoding "+path, err)
	}
	return nil
}
