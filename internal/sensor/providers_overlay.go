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

package sensor

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// overlayMaxAge bounds how stale the newest overlay log file may be before
// it is treated as abandoned (spec.md §1 "game-overlay frame data").
const overlayMaxAge = 5 * time.Second

var overlayUnits = map[string]string{
	"fps":         "fps",
	"frametime":   "ms",
	"cpu_load":    "%",
	"gpu_load":    "%",
	"cpu_temp":    "°C",
	"gpu_temp":    "°C",
	"cpu_power":   "W",
	"gpu_power":   "W",
	"ram_used":    "GB",
	"vram_used":   "GB",
	"gpu_core_clock": "MHz",
}

// OverlayProvider reads the CSV logging output of a game-overlay tool
// (MangoHud) and republishes its most recent frame as sensor values.
// Grounded on original_source/src-tauri/src/linux_mangohud.rs: MangoHud
// writes one CSV file per session to a log directory, the newest of which
// holds the header + latest-sample row this provider wants.
type OverlayProvider struct {
	binary string
	logDir string
}

func NewOverlayProvider(logDir string) OverlayProvider {
	return OverlayProvider{binary: "/usr/bin/mangohud", logDir: logDir}
}

func (OverlayProvider) Name() string { return "overlay" }

func (p OverlayProvider) Collect(ctx context.Context) []Value {
	if p.logDir == "" {
		return nil
	}
	if _, err := os.Stat(p.binary); err != nil {
		return nil
	}

	latest, modTime, err := newestCSV(p.logDir)
	if err != nil || latest == "" {
		return nil
	}
	if time.Since(modTime) > overlayMaxAge {
		return nil
	}

	header, row, err := latestCSVRecord(latest)
	if err != nil {
		return nil
	}

	values := make([]Value, 0, len(header))
	for i, col := range header {
		if i >= len(row) {
			break
		}
		col = strings.TrimSpace(col)
		raw := strings.TrimSpace(row[i])
		parsed, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			parsed = 0
		}
		values = append(values, Value{
			ID:    fmt.Sprintf("mango_%s", col),
			Label: fmt.Sprintf("MangoHUD %s", strings.ReplaceAll(col, "_", " ")),
			Value: fmt.Sprintf("%.2f", parsed),
			Unit:  overlayUnits[col],
			Type:  Number,
		})
	}
	return values
}

// newestCSV returns the most recently modified *.csv file directly inside dir.
func newestCSV(dir string) (string, time.Time, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", time.Time{}, err
	}

	var (
		latestPath string
		latestTime time.Time
	)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".csv" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestPath = filepath.Join(dir, entry.Name())
		}
	}
	if latestPath == "" {
		return "", time.Time{}, fmt.Errorf("no csv log found in %s", dir)
	}
	return latestPath, latestTime, nil
}

// latestCSVRecord returns the header row and the last data row (the newest
// sample) of the MangoHud log, matching the Rust source's "take only the
// newest sample".
func latestCSVRecord(path string) ([]string, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("no data rows in %s", path)
	}
	return records[0], records[len(records)-1], nil
}
