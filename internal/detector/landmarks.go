// Package detector provides face and hand detection interfaces for the
// Theremin tracking pipeline.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point is a normalized landmark coordinate. X and Y are fractions of the
// frame width and height in [0,1]; Z is relative depth.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// FaceBox is a normalized face bounding box with a detection confidence.
// All box fields are fractions of the frame dimensions in [0,1].
type FaceBox struct {
	XMin   float64 `json:"xmin"`
	YMin   float64 `json:"ymin"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Score  float64 `json:"score"`
}

// CenterX returns the normalized horizontal center of the box.
func (b FaceBox) CenterX() float64 {
	return b.XMin + b.Width/2
}

// HandLandmarks is the 21-point hand skeleton detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point `json:"points"`
	Handedness string              `json:"handedness"` // "Left" or "Right"
	Score      float64             `json:"score"`
}

// PinchDistance returns the euclidean distance between the thumb tip and
// the index finger tip in the normalized image plane. Depth is ignored:
// the pinch gesture is read as a 2D quantity.
func (h *HandLandmarks) PinchDistance() float64 {
	thumb := h.Points[ThumbTip]
	index := h.Points[IndexTip]
	return math.Hypot(thumb.X-index.X, thumb.Y-index.Y)
}
