package display

import (
	"math"

	"coolerdash/sensors"
)

// Gate decides whether a new snapshot differs enough from the last rendered
// one to justify a redraw and upload. It is the only throttling mechanism
// besides the daemon tick itself.
type Gate struct {
	last  sensors.Snapshot
	first bool
}

// NewGate returns a gate whose first ShouldUpdate call always reports true.
func NewGate() *Gate {
	return &Gate{first: true}
}

// ShouldUpdate reports whether snap warrants a redraw. The stored snapshot
// advances only on accepted updates, so slow drift eventually accumulates
// past the tolerance instead of being filtered forever. A delta exactly at
// the tolerance triggers a redraw.
func (g *Gate) ShouldUpdate(snap sensors.Snapshot, toleranceC float64) bool {
	if g.first {
		g.first = false
		g.last = snap
		return true
	}
	if math.Abs(snap.CPUTemp-g.last.CPUTemp) >= toleranceC ||
		math.Abs(snap.GPUTemp-g.last.GPUTemp) >= toleranceC {
		g.last = snap
		return true
	}
	return false
}

// Last returns the snapshot of the most recent accepted update.
func (g *Gate) Last() sensors.Snapshot {
	return g.last
}
