package detector

import "gocv.io/x/gocv"

// Tracker runs face and hand detection against a single video frame.
// Implementations are not safe for concurrent use: callers must serialize
// Track calls, one frame at a time.
type Tracker interface {
	// Track analyzes a frame and returns all detected faces and hands.
	// Both slices may be empty when nothing is found.
	Track(frame *gocv.Mat) (*Result, error)

	// Close releases any resources held by the tracker.
	Close() error
}

// Result holds the detections for one frame. Downstream consumers use only
// the first face and the first hand.
type Result struct {
	Faces []FaceBox       `json:"faces"`
	Hands []HandLandmarks `json:"hands"`
}

// Config holds configuration options for detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 1).
	MaxHands int

	// MinDetectionConf is the minimum detection confidence threshold (0.0-1.0).
	MinDetectionConf float64

	// MinTrackingConf is the minimum hand tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:         1,
		MinDetectionConf: 0.6,
		MinTrackingConf:  0.6,
	}
}
