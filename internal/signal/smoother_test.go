package signal

import (
	"math"
	"testing"
)

func TestSmoother_Smooth(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		inputs   []float64
		want     float64
	}{
		{
			name:     "single value",
			capacity: 6,
			inputs:   []float64{0.5},
			want:     0.5,
		},
		{
			name:     "partial window mean",
			capacity: 6,
			inputs:   []float64{0, 1},
			want:     0.5,
		},
		{
			name:     "saturated constant input",
			capacity: 6,
			inputs:   []float64{1, 1, 1, 1, 1, 1, 1},
			want:     1.0,
		},
		{
			name:     "single spike in full window",
			capacity: 6,
			inputs:   []float64{0, 0, 0, 0, 0, 1},
			want:     1.0 / 6.0,
		},
		{
			name:     "oldest value evicted",
			capacity: 3,
			inputs:   []float64{9, 1, 1, 1},
			want:     1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSmoother(tt.capacity)

			var got float64
			for _, v := range tt.inputs {
				got = s.Smooth(v)
			}

			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Smooth() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestSmoother_BoundedMemory(t *testing.T) {
	s := NewSmoother(6)

	for i := 0; i < 100; i++ {
		s.Smooth(float64(i))
	}

	if got := s.Len(); got != 6 {
		t.Errorf("Len() = %d, want 6 after 100 inputs", got)
	}

	// Window now holds 94..99; one more input makes it 95..100.
	want := (95.0 + 96 + 97 + 98 + 99 + 100) / 6
	if got := s.Smooth(100); math.Abs(got-want) > 1e-9 {
		t.Errorf("Smooth() = %f, want %f", got, want)
	}
}

func TestSmoother_InvalidCapacity(t *testing.T) {
	s := NewSmoother(0)

	for i := 0; i < 10; i++ {
		s.Smooth(1)
	}

	if got := s.Len(); got != DefaultSmoothWindow {
		t.Errorf("Len() = %d, want default window %d", got, DefaultSmoothWindow)
	}
}

func TestSmoother_SetCapacity(t *testing.T) {
	s := NewSmoother(6)
	for i := 0; i < 6; i++ {
		s.Smooth(float64(i)) // window: 0..5
	}

	// Shrinking keeps the newest values: window becomes [4,5]
	s.SetCapacity(2)
	if got := s.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2 after shrink", got)
	}
	if got := s.Smooth(5); math.Abs(got-5.0) > 1e-9 {
		t.Errorf("Smooth() = %f, want 5.0 over window [5,5]", got)
	}

	// Invalid capacity ignored
	s.SetCapacity(0)
	s.SetCapacity(-3)
	s.Smooth(1)
	s.Smooth(1)
	s.Smooth(1)
	if got := s.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2 (capacity unchanged)", got)
	}
}

func TestSmoother_Reset(t *testing.T) {
	s := NewSmoother(6)
	s.Smooth(1)
	s.Smooth(1)

	s.Reset()

	if got := s.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0 after Reset", got)
	}
	if got := s.Smooth(0.25); got != 0.25 {
		t.Errorf("Smooth() = %f, want 0.25 on fresh history", got)
	}
}
