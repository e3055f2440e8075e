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
	"archive/zip"
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/nfnt/resize"

	"github.com/sensorbridge/agent/internal/apierrors"
	"github.com/sensorbridge/agent/internal/registry"
)

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
}

// ConditionalImagePreparer fetches a zip archive, flattens it into the
// element's cache directory, discards non-image entries, and resizes
// every surviving image in parallel (spec.md §4.3).
type ConditionalImagePreparer struct{}

func (ConditionalImagePreparer) Prepare(ctx context.Context, cache *Cache, element registry.Element) error {
	if element.ConditionalImage == nil {
		return apierrors.AssetMissing("conditional image element missing its config")
	}
	cfg := element.ConditionalImage

	raw, err := loadSource(cfg.ImagesPath)
	if err != nil {
		return err
	}
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return apierrors.AssetMissing("opening archive " + cfg.ImagesPath + ": " + err.Error())
	}

	dir := cache.ElementDir(registry.ElementConditionalImage, element.ID)
	if err := resetDir(dir); err != nil {
		return apierrors.TransientIO("resetting cache dir for "+element.ID, err)
	}

	flattened, err := extractFlattened(zr, dir)
	if err != nil {
		return err
	}

	return resizeAllParallel(flattened, cfg.Width, cfg.Height)
}

// extractFlattened writes every file entry of zr directly into dir (no
// subdirectories), renaming on collision, and returns the resulting paths
// (spec.md §4.3 "flatten any subdirectories into root (rename if needed)").
func extractFlattened(zr *zip.Reader, dir string) ([]string, error) {
	var paths []string
	seen := make(map[string]int)

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		base := filepath.Base(f.Name)
		target := uniqueName(dir, base, seen)

		if err := extractOne(f, target); err != nil {
			return nil, apierrors.TransientIO("extracting "+f.Name, err)
		}
		paths = append(paths, target)
	}
	return paths, nil
}

func uniqueName(dir, base string, seen map[string]int) string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	n := seen[base]
	seen[base] = n + 1
	if n == 0 {
		return filepath.Join(dir, base)
	}
	return filepath.Join(dir, stem+"_"+strconv.Itoa(n)+ext)
}

func extractOne(f *zip.File, target string) error {
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// resizeAllParallel deletes non-image entries, then resizes every
// remaining image to (width, height) with Lanczos3 and re-encodes as PNG,
// bounded to GOMAXPROCS concurrent transforms (spec.md §4.3 "Parallelism:
// image transforms proceed in parallel").
func resizeAllParallel(paths []string, width, height int) error {
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var result *multierror.Error

	for _, path := range paths {
		if !imageExtensions[strings.ToLower(filepath.Ext(path))] {
			os.Remove(path)
			continue
		}

		path := path
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if err := resizeInPlace(path, width, height); err != nil {
				mu.Lock()
				result = multierror.Append(result, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return result.ErrorOrNil()
}

// resizeInPlace re-encodes path as a PNG at (width, height), deleting the
// original if its extension was not already .png (spec.md §4.3 "delete
// original if the extension changed").
func resizeInPlace(path string, width, height int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apierrors.TransientIO("reading "+path, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return apierrors.AssetMissing("decoding " + path + ": " + err.Error())
	}
	resized := resize.Resize(uint(width), uint(height), img, resize.Lanczos3)

	wasPNG := strings.EqualFold(filepath.Ext(path), ".png")
	target := path
	if !wasPNG {
		target = strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
	}

	if err := encodePNG(target, resized); err != nil {
		return err
	}
	if !wasPNG {
		return os.Remove(path)
	}
	return nil
}
