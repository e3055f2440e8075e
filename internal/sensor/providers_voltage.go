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
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const sysClassHwmon = "/sys/class/hwmon"

// VoltageProvider walks the Linux hwmon tree for in*_input files (raw
// millivolts), surfacing mainboard voltage rails (spec.md §1). Grounded
// on the chip/feature walk in original_source/src-tauri/src/linux_lm_sensors.rs,
// reimplemented against raw sysfs instead of binding to the lm-sensors C
// library, since this pack carries no Cgo lm-sensors binding to reuse.
type VoltageProvider struct{}

func (VoltageProvider) Name() string { return "voltage" }

func (VoltageProvider) Collect(ctx context.Context) []Value {
	chips, err := os.ReadDir(sysClassHwmon)
	if err != nil {
		return nil
	}

	var values []Value
	for _, chip := range chips {
		chipDir := filepath.Join(sysClassHwmon, chip.Name())
		chipName := readTrimmed(filepath.Join(chipDir, "name"))
		if chipName == "" {
			chipName = chip.Name()
		}

		entries, err := os.ReadDir(chipDir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if !strings.HasPrefix(name, "in") || !strings.HasSuffix(name, "_input") {
				continue
			}
			raw, ok := readIntFile(filepath.Join(chipDir, name))
			if !ok {
				continue
			}
			feature := strings.TrimSuffix(name, "_input")
			label := readTrimmed(filepath.Join(chipDir, feature+"_label"))
			if label == "" {
				label = feature
			}
			values = append(values, Value{
				ID:    fmt.Sprintf("voltage_%s_%s", chipName, feature),
				Label: fmt.Sprintf("%s %s", chipName, label),
				Value: fmt.Sprintf("%.3f", float64(raw)/1000.0),
				Unit:  "V",
				Type:  Number,
			})
		}
	}
	return values
}

func readTrimmed(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

