package sensors

import "strings"

// CoolantSensor reads the AIO coolant temperature from a hwmon input whose
// label mentions "Coolant". Most liquidctl-driven coolers expose one.
type CoolantSensor struct {
	inputPath string
}

// NewCoolantSensor scans the hwmon tree under root for a coolant input.
func NewCoolantSensor(root string) *CoolantSensor {
	return &CoolantSensor{
		inputPath: findHwmonInput(root, func(label string) bool {
			return strings.Contains(label, "Coolant") || strings.Contains(label, "coolant")
		}),
	}
}

// Available reports whether a coolant temperature input was found.
func (s *CoolantSensor) Available() bool {
	return s.inputPath != ""
}

// Read returns the coolant temperature in degrees Celsius, 0 on failure.
func (s *CoolantSensor) Read() float64 {
	if s.inputPath == "" {
		return 0
	}
	return readTempFile(s.inputPath)
}
