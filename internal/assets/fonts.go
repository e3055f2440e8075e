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
	"strings"

	"github.com/sensorbridge/agent/internal/apierrors"
)

// fontDirs are searched, in order, for a file matching a requested font
// family. These are the conventional system font locations across the
// platforms gopsutil/the teacher already targets.
var fontDirs = []string{
	"/usr/share/fonts",
	"/usr/local/share/fonts",
	"/Library/Fonts",
	"/System/Library/Fonts",
	`C:\Windows\Fonts`,
}

var fontExtensions = []string{".ttf", ".otf"}

// ResolveFont walks fontDirs for a file whose base name matches family
// (case-insensitive, spaces/dashes ignored) and returns its bytes. Returns
// AssetMissing when no match exists, per spec.md §4.3 "Text: ... on font
// not found, fail with AssetMissing".
func ResolveFont(family string) ([]byte, error) {
	target := normalizeFontName(family)

	for _, dir := range fontDirs {
		entries, err := walkFontFiles(dir)
		if err != nil {
			continue
		}
		for _, path := range entries {
			name := normalizeFontName(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
			if name == target {
				data, err := os.ReadFile(path)
				if err != nil {
					continue
				}
				return data, nil
			}
		}
	}
	return nil, apierrors.AssetMissing("font family " + family + " not found on host")
}

func normalizeFontName(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

func walkFontFiles(root string) ([]string, error) {
	var out []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, want := range fontExtensions {
			if ext == want {
				out = append(out, path)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
