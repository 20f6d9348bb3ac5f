package signal

import "sync"

// DefaultSmoothWindow is the default number of pan values averaged.
const DefaultSmoothWindow = 6

// Smoother damps jitter by averaging the last N values. It keeps a bounded
// FIFO: each Smooth call appends, evicts the oldest entry beyond capacity,
// and returns the arithmetic mean of the current contents.
//
// Only pan is smoothed. Volume stays raw so a snap gesture feels
// immediate; pan benefits from damping because small head jitter is
// distracting.
type Smoother struct {
	mu       sync.Mutex
	window   []float64
	capacity int
}

// NewSmoother creates a Smoother averaging over the given number of
// values. Capacities less than 1 fall back to the default window.
func NewSmoother(capacity int) *Smoother {
	if capacity < 1 {
		capacity = DefaultSmoothWindow
	}
	return &Smoother{
		window:   make([]float64, 0, capacity),
		capacity: capacity,
	}
}

// Smooth appends v to the window and returns the mean of the stored
// values.
func (s *Smoother) Smooth(v float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.window) >= s.capacity {
		copy(s.window, s.window[1:])
		s.window = s.window[:len(s.window)-1]
	}
	s.window = append(s.window, v)

	var sum float64
	for _, w := range s.window {
		sum += w
	}
	return sum / float64(len(s.window))
}

// Capacity returns the current window capacity.
func (s *Smoother) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capacity
}

// Len returns the number of values currently stored.
func (s *Smoother) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.window)
}

// SetCapacity resizes the window, evicting the oldest values if the new
// capacity is smaller. Values less than 1 are ignored.
func (s *Smoother) SetCapacity(capacity int) {
	if capacity < 1 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if excess := len(s.window) - capacity; excess > 0 {
		copy(s.window, s.window[excess:])
		s.window = s.window[:capacity]
	}
	s.capacity = capacity
}

// Reset clears the stored history.
func (s *Smoother) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window = s.window[:0]
}
