package sensors

import "strings"

// CPUSensor reads the CPU package temperature from a hwmon input whose
// label is "Package id 0". The sysfs path is resolved once at startup.
type CPUSensor struct {
	inputPath string
}

// NewCPUSensor scans the hwmon tree under root and binds to the package
// temperature input. Available reports whether a sensor was found.
func NewCPUSensor(root string) *CPUSensor {
	return &CPUSensor{
		inputPath: findHwmonInput(root, func(label string) bool {
			return strings.Contains(label, "Package id 0")
		}),
	}
}

// Available reports whether a CPU temperature input was found.
func (s *CPUSensor) Available() bool {
	return s.inputPath != ""
}

// Read returns the CPU package temperature in degrees Celsius, 0 on failure.
func (s *CPUSensor) Read() float64 {
	if s.inputPath == "" {
		return 0
	}
	return readTempFile(s.inputPath)
}
