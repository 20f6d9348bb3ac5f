// Package signal derives audio control values from per-frame detections:
// a stereo pan from horizontal head position and a volume from the
// thumb-index pinch distance.
package signal

import (
	"sync"

	"github.com/ayusman/theremin/internal/detector"
)

// Default estimator tuning.
const (
	// DefaultSensitivity amplifies small head movements so the full pan
	// range is reachable before the head leaves the frame.
	DefaultSensitivity = 3.0

	// DefaultPinchMin is the pinch distance mapped to volume 0 (muted).
	DefaultPinchMin = 0.02

	// DefaultPinchMax is the pinch distance mapped to volume 1 (full).
	DefaultPinchMax = 0.18
)

// Estimator converts detections into bounded control values.
// Pan is always clamped to [-1,1] and volume to [0,1], regardless of
// detector noise. Estimation is stateless: identical inputs always yield
// identical outputs.
type Estimator struct {
	mu          sync.RWMutex
	sensitivity float64
	pinchMin    float64
	pinchMax    float64
}

// NewEstimator creates an Estimator with the default tuning.
func NewEstimator() *Estimator {
	return &Estimator{
		sensitivity: DefaultSensitivity,
		pinchMin:    DefaultPinchMin,
		pinchMax:    DefaultPinchMax,
	}
}

// Pan maps the horizontal center of a face box to a stereo pan in [-1,1].
// A centered head yields 0; movement left or right is amplified by the
// sensitivity factor and clamped at the range bounds.
func (e *Estimator) Pan(box detector.FaceBox) float64 {
	e.mu.RLock()
	sensitivity := e.sensitivity
	e.mu.RUnlock()

	raw := (box.CenterX()*2 - 1) * sensitivity
	return clamp(raw, -1, 1)
}

// Volume maps the distance between the thumb tip and index tip to a gain
// in [0,1]. Distances at or below the pinch minimum mute; distances at or
// above the pinch maximum give full volume; in between the mapping is
// linear.
func (e *Estimator) Volume(hand *detector.HandLandmarks) float64 {
	e.mu.RLock()
	lo, hi := e.pinchMin, e.pinchMax
	e.mu.RUnlock()

	dist := hand.PinchDistance()
	if dist <= lo {
		return 0.0
	}
	if dist >= hi {
		return 1.0
	}
	return clamp((dist-lo)/(hi-lo), 0, 1)
}

// SetSensitivity updates the pan sensitivity.
// Values less than or equal to 0 are ignored.
func (e *Estimator) SetSensitivity(s float64) {
	if s <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sensitivity = s
}

// Sensitivity returns the current pan sensitivity.
func (e *Estimator) Sensitivity() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sensitivity
}

// SetPinchRange updates the pinch distance domain.
// Ranges where lo is not strictly below hi are ignored.
func (e *Estimator) SetPinchRange(lo, hi float64) {
	if lo < 0 || lo >= hi {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pinchMin = lo
	e.pinchMax = hi
}

// PinchRange returns the current pinch distance domain.
func (e *Estimator) PinchRange() (lo, hi float64) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pinchMin, e.pinchMax
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
