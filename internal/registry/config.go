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

package registry

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/sensorbridge/agent/internal/logs"
)

// ConfigPath returns <os-config-dir>/<appName>/config.json (spec.md §2.3, §6).
func ConfigPath(appName string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.json"), nil
}

// loadOrInit reads path, self-healing (writing and returning defaults) if
// the file is missing or fails to parse (spec.md §4.5 invariant 1, §6,
// §8 property 9, scenario S6).
func loadOrInit(path string, logger logs.StructuredLogger) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Infof("config %s missing, writing defaults", path)
		cfg := defaultConfig()
		if err := writeConfig(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		logger.Warnf("config %s is corrupt (%v), overwriting with defaults", path, err)
		fresh := defaultConfig()
		if err := writeConfig(path, fresh); err != nil {
			return nil, err
		}
		return fresh, nil
	}
	if cfg.RegisteredClients == nil {
		cfg.RegisteredClients = make(map[string]*RegisteredClient)
	}
	if cfg.HTTPPort == 0 {
		cfg.HTTPPort = DefaultHTTPPort
	}
	return &cfg, nil
}

// writeConfig serializes cfg to a temp file in path's directory then
// renames it over path, so a crash mid-write never leaves a truncated
// config behind (spec.md §5 ordering guarantees, §2.3).
func writeConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "config-*.json.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
