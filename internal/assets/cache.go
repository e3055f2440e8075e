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

// Package assets implements the content-addressed asset cache and the
// per-element-type preparers that populate it (spec.md §4.3, §6).
package assets

import (
	"os"
	"path/filepath"

	"github.com/sensorbridge/agent/internal/logs"
	"github.com/sensorbridge/agent/internal/registry"
)

// cacheTypeName returns the on-disk directory component for an element
// type (spec.md §6: "text", "static-image", "conditional-image").
func cacheTypeName(t registry.ElementType) string {
	switch t {
	case registry.ElementText:
		return "text"
	case registry.ElementStaticImage:
		return "static-image"
	case registry.ElementConditionalImage:
		return "conditional-image"
	default:
		return string(t)
	}
}

// Cache is the process-wide asset cache root, cleared and recreated at
// startup (spec.md §4.3).
type Cache struct {
	root   string
	logger logs.StructuredLogger
}

// CachePath returns <os-cache-dir>/<appName> (spec.md §2.3, §6).
func CachePath(appName string) (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// NewCache clears and recreates root, then returns a Cache rooted there.
func NewCache(root string, logger logs.StructuredLogger) (*Cache, error) {
	if err := os.RemoveAll(root); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	logger.Infof("asset cache reset at %s", root)
	return &Cache{root: root, logger: logger}, nil
}

// ElementDir returns (and does not create) the cache directory for one
// element, keyed by (element_id, element_type).
func (c *Cache) ElementDir(elementType registry.ElementType, elementID string) string {
	return filepath.Join(c.root, cacheTypeName(elementType), elementID)
}

// resetDir removes and recreates dir, per the AssetCacheEntry invariant
// "before repopulation the directory is removed then recreated"
// (spec.md §3).
func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}
