package detector

import (
	"errors"
	"math"
	"testing"
)

func TestFaceBox_CenterX(t *testing.T) {
	tests := []struct {
		name string
		box  FaceBox
		want float64
	}{
		{
			name: "centered box",
			box:  FaceBox{XMin: 0.4, Width: 0.2},
			want: 0.5,
		},
		{
			name: "left edge box",
			box:  FaceBox{XMin: 0.0, Width: 0.2},
			want: 0.1,
		},
		{
			name: "right edge box",
			box:  FaceBox{XMin: 0.8, Width: 0.2},
			want: 0.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.box.CenterX(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CenterX() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestHandLandmarks_PinchDistance(t *testing.T) {
	tests := []struct {
		name string
		hand HandLandmarks
		want float64
	}{
		{
			name: "pinched",
			hand: PinchedHand(),
			want: 0.0,
		},
		{
			name: "open",
			hand: OpenHand(),
			want: 0.25,
		},
		{
			name: "mid pinch",
			hand: HandWithPinch(0.10),
			want: 0.10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.hand.PinchDistance(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PinchDistance() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestHandLandmarks_PinchDistance_IgnoresDepth(t *testing.T) {
	hand := HandWithPinch(0.10)
	hand.Points[ThumbTip].Z = 0.4
	hand.Points[IndexTip].Z = -0.4

	if got := hand.PinchDistance(); math.Abs(got-0.10) > 1e-9 {
		t.Errorf("PinchDistance() = %f, want 0.10 (z must not contribute)", got)
	}
}

func TestMockTracker(t *testing.T) {
	m := NewMockTracker()

	// Empty by default
	res, err := m.Track(nil)
	if err != nil {
		t.Fatalf("Track() error = %v", err)
	}
	if len(res.Faces) != 0 || len(res.Hands) != 0 {
		t.Errorf("expected empty result, got %d faces, %d hands", len(res.Faces), len(res.Hands))
	}

	// Configured detections come back unchanged
	m.SetFaces([]FaceBox{CenteredFace()})
	m.SetHands([]HandLandmarks{OpenHand()})

	res, err = m.Track(nil)
	if err != nil {
		t.Fatalf("Track() error = %v", err)
	}
	if len(res.Faces) != 1 || len(res.Hands) != 1 {
		t.Fatalf("expected 1 face and 1 hand, got %d and %d", len(res.Faces), len(res.Hands))
	}
	if res.Faces[0].Score != 0.92 {
		t.Errorf("face score = %f, want 0.92", res.Faces[0].Score)
	}

	// Error takes precedence
	m.SetError(errors.New("boom"))
	if _, err := m.Track(nil); err == nil {
		t.Error("expected error from Track()")
	}

	if m.Calls() != 3 {
		t.Errorf("Calls() = %d, want 3", m.Calls())
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MaxHands != 1 {
		t.Errorf("MaxHands = %d, want 1", cfg.MaxHands)
	}
	if cfg.MinDetectionConf != 0.6 {
		t.Errorf("MinDetectionConf = %f, want 0.6", cfg.MinDetectionConf)
	}
	if cfg.MinTrackingConf != 0.6 {
		t.Errorf("MinTrackingConf = %f, want 0.6", cfg.MinTrackingConf)
	}
}
