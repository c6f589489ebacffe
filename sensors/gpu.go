package sensors

import (
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// GPUSensor reads the GPU temperature via nvidia-smi. Queries are cached
// for a configurable interval because spawning nvidia-smi is expensive
// relative to the daemon tick.
type GPUSensor struct {
	available     bool
	cacheInterval time.Duration

	lastUpdate time.Time
	cachedTemp float64

	// runQuery is swappable for tests.
	runQuery func(args ...string) (string, error)
}

// NewGPUSensor probes for an NVIDIA GPU once and returns a sensor that
// reads 0 when none is present.
func NewGPUSensor(cacheInterval time.Duration) *GPUSensor {
	s := &GPUSensor{
		cacheInterval: cacheInterval,
		runQuery:      runNvidiaSMI,
	}
	if out, err := s.runQuery("-L"); err == nil && strings.TrimSpace(out) != "" {
		s.available = true
	}
	return s
}

func runNvidiaSMI(args ...string) (string, error) {
	out, err := exec.Command("nvidia-smi", args...).Output()
	return string(out), err
}

// Available reports whether an NVIDIA GPU was detected at startup.
func (s *GPUSensor) Available() bool {
	return s.available
}

// Read returns the GPU temperature in degrees Celsius, 0 on failure.
// Successive calls within the cache interval return the cached value.
func (s *GPUSensor) Read() float64 {
	if !s.available {
		return 0
	}
	now := time.Now()
	if !s.lastUpdate.IsZero() && now.Sub(s.lastUpdate) < s.cacheInterval {
		return s.cachedTemp
	}
	out, err := s.runQuery("--query-gpu=temperature.gpu", "--format=csv,noheader,nounits")
	if err != nil {
		return s.cachedTemp
	}
	temp, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		s.cachedTemp = 0
	} else {
		s.cachedTemp = temp
	}
	s.lastUpdate = now
	return s.cachedTemp
}
