// Package sensors provides the CPU, GPU and coolant temperature readers
// feeding the dashboard. Each reader caches whatever is expensive to probe
// (hwmon paths, nvidia-smi output) and degrades to a zero reading on
// failure so a missing sensor never stalls the render loop.
package sensors

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Snapshot is one tick's worth of sensor readings in degrees Celsius.
// A zero value means the corresponding sensor was unreadable.
type Snapshot struct {
	CPUTemp     float64
	GPUTemp     float64
	CoolantTemp float64
}

// findHwmonInput walks the hwmon tree looking for a tempN_label matching
// the predicate and returns the path of the paired tempN_input, or "".
func findHwmonInput(root string, match func(label string) bool) string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		for i := 1; i <= 9; i++ {
			labelPath := filepath.Join(root, entry.Name(), "temp"+strconv.Itoa(i)+"_label")
			label, err := os.ReadFile(labelPath)
			if err != nil {
				continue
			}
			if match(string(label)) {
				return filepath.Join(root, entry.Name(), "temp"+strconv.Itoa(i)+"_input")
			}
		}
	}
	return ""
}

// readTempFile reads a hwmon temperature input. Values above 200 are taken
// to be millidegrees, the usual hwmon unit; small values pass through so
// fake sysfs trees in tests can write plain degrees.
func readTempFile(path string) float64 {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	raw, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	if raw > 200 {
		return float64(raw) / 1000.0
	}
	return float64(raw)
}
