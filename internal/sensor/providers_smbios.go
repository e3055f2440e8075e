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
	"bufio"
	"context"
	"os/exec"
	"strings"

	"github.com/sensorbridge/agent/internal/platform"
)

// SMBIOSProvider reads board/BIOS/memory-module identity once via a
// privileged sub-shell (dmidecode), per spec.md §4.1 and the AIDA64/SMBIOS
// field set recovered from original_source/src-tauri/src/aida64.rs and
// linux_dmidecode_sensors.rs (SPEC_FULL.md §4). All values are static
// text, probed once at startup through ReadStatic.
type SMBIOSProvider struct {
	// runner lets tests substitute a fake dmidecode without exec'ing a
	// real binary.
	runner func(keyword string) (string, error)
}

func NewSMBIOSProvider() SMBIOSProvider {
	return SMBIOSProvider{runner: runDmidecode}
}

func (SMBIOSProvider) Name() string { return "smbios" }

type smbiosField struct {
	id, label, keyword, dmiField string
}

var smbiosFields = []smbiosField{
	{"smbios_board_manufacturer", "Board Manufacturer", "baseboard", "Manufacturer"},
	{"smbios_board_name", "Board Name", "baseboard", "Product Name"},
	{"smbios_bios_version", "BIOS Version", "bios", "Version"},
	{"smbios_bios_release_date", "BIOS Release Date", "bios", "Release Date"},
	{"smbios_memory_manufacturer", "Memory Module Manufacturer", "memory", "Manufacturer"},
	{"smbios_memory_part_number", "Memory Module Part Number", "memory", "Part Number"},
}

func (p SMBIOSProvider) CollectStatic(ctx context.Context) []Value {
	runner := p.runner
	if runner == nil {
		runner = runDmidecode
	}

	var values []Value
	if hostname := platform.FromContext(ctx).Hostname(); hostname != "" {
		values = append(values, Value{ID: "smbios_hostname", Label: "Hostname", Value: hostname, Type: Text})
	}

	cache := map[string]string{}
	for _, f := range smbiosFields {
		out, ok := cache[f.keyword]
		if !ok {
			var err error
			out, err = runner(f.keyword)
			if err != nil {
				continue
			}
			cache[f.keyword] = out
		}
		val, ok := parseDmiField(out, f.dmiField)
		if !ok || val == "" {
			continue
		}
		values = append(values, Value{ID: f.id, Label: f.label, Value: val, Type: Text})
	}
	return values
}

// runDmidecode shells out to `dmidecode -t <keyword>`. dmidecode requires
// root; on any failure (missing binary, insufficient privilege) the field
// is simply omitted — a StaticProvider swallows its own errors exactly
// like a regular Provider (spec.md §4.1, §7 ErrProviderUnavailable).
func runDmidecode(keyword string) (string, error) {
	cmd := exec.Command("dmidecode", "-t", keyword)
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// parseDmiField finds "<field>: <value>" in dmidecode's block output.
func parseDmiField(block, field string) (string, bool) {
	scanner := bufio.NewScanner(strings.NewReader(block))
	prefix := field + ":"
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix)), true
		}
	}
	return "", false
}
