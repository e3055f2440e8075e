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

package render

import (
	"image"
	"image/draw"
	"image/png"
	"os"

	"github.com/sensorbridge/agent/internal/apierrors"
	"github.com/sensorbridge/agent/internal/assets"
	"github.com/sensorbridge/agent/internal/registry"
)

// paintStaticImage blits the pre-resized PNG from cache at (x, y)
// (spec.md §4.4).
func (r *Renderer) paintStaticImage(canvas *image.RGBA, rect image.Rectangle, element registry.Element) error {
	if element.StaticImage == nil {
		return apierrors.ConfigInvalid(element.Name, "static image element missing its config")
	}

	path := assets.ImageBlobPath(r.cache, element.ID)
	img, err := decodePNGFile(path)
	if err != nil {
		return err
	}
	draw.Draw(canvas, image.Rectangle{Min: rect.Min, Max: rect.Min.Add(img.Bounds().Size())}, img, image.Point{}, draw.Over)
	return nil
}

func decodePNGFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apierrors.AssetMissing("reading cached asset " + path + ": " + err.Error())
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, apierrors.AssetMissing("decoding cached asset " + path + ": " + err.Error())
	}
	return img, nil
}
