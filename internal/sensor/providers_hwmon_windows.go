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

//go:build windows

package sensor

import (
	"fmt"

	"github.com/yusufpapurcu/wmi"
)

// hwmonNamespace is the WMI namespace third-party hardware-monitor tools
// (e.g. LibreHardwareMonitor) publish their sensor tree under.
const hwmonNamespace = `root\LibreHardwareMonitor`

type hwmonSensor struct {
	Identifier string
	Name       string
	SensorType string
	Value      float32
}

func queryHardwareMonitor() []Value {
	var sensors []hwmonSensor
	query := "SELECT Identifier, Name, SensorType, Value FROM Sensor"
	if err := wmi.QueryNamespace(query, &sensors, hwmonNamespace); err != nil {
		return nil
	}

	values := make([]Value, 0, len(sensors))
	for _, s := range sensors {
		unit := hwmonUnit(s.SensorType)
		values = append(values, Value{
			ID:    fmt.Sprintf("hwmon_%s", s.Identifier),
			Label: s.Name,
			Value: fmt.Sprintf("%.2f", s.Value),
			Unit:  unit,
			Type:  Number,
		})
	}
	return values
}

func hwmonUnit(sensorType string) string {
	switch sensorType {
	case "Temperature":
		return "°C"
	case "Load":
		return "%"
	case "Fan":
		return "RPM"
	case "Voltage":
		return "V"
	case "Power":
		return "W"
	default:
		return ""
	}
}
