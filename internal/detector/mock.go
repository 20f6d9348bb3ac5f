package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockTracker is a test implementation of the Tracker interface.
// It allows tests to control the detection results per frame, including
// while a capture loop is consuming it from another goroutine.
type MockTracker struct {
	mu    sync.Mutex
	faces []FaceBox
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockTracker creates a new MockTracker instance that detects nothing.
func NewMockTracker() *MockTracker {
	return &MockTracker{}
}

// SetFaces sets the faces that will be returned by Track.
func (m *MockTracker) SetFaces(faces []FaceBox) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faces = faces
}

// SetHands sets the hands that will be returned by Track.
func (m *MockTracker) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Track.
func (m *MockTracker) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the number of Track invocations so far.
func (m *MockTracker) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Track returns the pre-configured detections or error.
func (m *MockTracker) Track(frame *gocv.Mat) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &Result{
		Faces: append([]FaceBox(nil), m.faces...),
		Hands: append([]HandLandmarks(nil), m.hands...),
	}, nil
}

// Close is a no-op for the mock tracker.
func (m *MockTracker) Close() error {
	return nil
}

// CenteredFace returns a preset FaceBox whose horizontal center sits at
// exactly 0.5, i.e. a head looking straight into the camera.
func CenteredFace() FaceBox {
	return FaceBox{XMin: 0.4, YMin: 0.3, Width: 0.2, Height: 0.3, Score: 0.92}
}

// LeftEdgeFace returns a preset FaceBox near the left frame edge
// (center 0.1), far enough out to saturate the pan range.
func LeftEdgeFace() FaceBox {
	return FaceBox{XMin: 0.0, YMin: 0.3, Width: 0.2, Height: 0.3, Score: 0.88}
}

// HandWithPinch returns a preset HandLandmarks whose thumb-index pinch
// distance is exactly dist. The two tips sit horizontally apart at mid
// frame; the remaining landmarks form a plausible relaxed hand.
func HandWithPinch(dist float64) HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point{X: 0.5, Y: 0.8}

	landmarks.Points[ThumbCMC] = Point{X: 0.54, Y: 0.74}
	landmarks.Points[ThumbMCP] = Point{X: 0.56, Y: 0.68}
	landmarks.Points[ThumbIP] = Point{X: 0.53, Y: 0.62}
	landmarks.Points[ThumbTip] = Point{X: 0.5, Y: 0.5}

	landmarks.Points[IndexMCP] = Point{X: 0.52, Y: 0.66}
	landmarks.Points[IndexPIP] = Point{X: 0.52, Y: 0.58}
	landmarks.Points[IndexDIP] = Point{X: 0.51, Y: 0.53}
	landmarks.Points[IndexTip] = Point{X: 0.5 + dist, Y: 0.5}

	landmarks.Points[MiddleMCP] = Point{X: 0.49, Y: 0.66}
	landmarks.Points[MiddlePIP] = Point{X: 0.49, Y: 0.57}
	landmarks.Points[MiddleDIP] = Point{X: 0.49, Y: 0.51}
	landmarks.Points[MiddleTip] = Point{X: 0.49, Y: 0.45}

	landmarks.Points[RingMCP] = Point{X: 0.46, Y: 0.67}
	landmarks.Points[RingPIP] = Point{X: 0.46, Y: 0.59}
	landmarks.Points[RingDIP] = Point{X: 0.46, Y: 0.53}
	landmarks.Points[RingTip] = Point{X: 0.46, Y: 0.48}

	landmarks.Points[PinkyMCP] = Point{X: 0.43, Y: 0.69}
	landmarks.Points[PinkyPIP] = Point{X: 0.43, Y: 0.63}
	landmarks.Points[PinkyDIP] = Point{X: 0.43, Y: 0.58}
	landmarks.Points[PinkyTip] = Point{X: 0.43, Y: 0.54}

	return landmarks
}

// PinchedHand returns a hand with the thumb and index tips touching,
// i.e. the muted position.
func PinchedHand() HandLandmarks {
	return HandWithPinch(0.0)
}

// OpenHand returns a hand with the thumb and index tips wide apart,
// i.e. the full volume position.
func OpenHand() HandLandmarks {
	return HandWithPinch(0.25)
}
