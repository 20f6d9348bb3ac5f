package session

import (
	"encoding/base64"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ayusman/theremin/internal/detector"
)

func TestLoop_CenteredFacePublishesNeutralPan(t *testing.T) {
	tracker := detector.NewMockTracker()
	tracker.SetFaces([]detector.FaceBox{detector.CenteredFace()})

	ctrl, _, pub := newTestController(t, tracker)
	if err := ctrl.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	signals := waitForSignals(t, pub, 3)
	ctrl.Stop()

	for i, s := range signals {
		if math.Abs(s.Pan) > 1e-9 {
			t.Errorf("signal #%d pan = %f, want 0.0 for centered face", i, s.Pan)
		}
		if s.Confidence != 0.92 {
			t.Errorf("signal #%d confidence = %f, want 0.92", i, s.Confidence)
		}
		if s.Volume != 1.0 {
			t.Errorf("signal #%d volume = %f, want 1.0 with no hand", i, s.Volume)
		}
	}
}

func TestLoop_EdgeFaceClampsPan(t *testing.T) {
	tracker := detector.NewMockTracker()
	tracker.SetFaces([]detector.FaceBox{detector.LeftEdgeFace()})

	ctrl, _, pub := newTestController(t, tracker)
	if err := ctrl.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// cx=0.1 gives raw -2.4, clamped to -1; every smoothed mean of -1s is -1.
	signals := waitForSignals(t, pub, 3)
	ctrl.Stop()

	last := signals[len(signals)-1]
	if math.Abs(last.Pan-(-1.0)) > 1e-9 {
		t.Errorf("pan = %f, want -1.0 for left edge face", last.Pan)
	}
}

func TestLoop_HandControlsVolume(t *testing.T) {
	tracker := detector.NewMockTracker()
	tracker.SetHands([]detector.HandLandmarks{detector.HandWithPinch(0.10)})

	ctrl, _, pub := newTestController(t, tracker)
	if err := ctrl.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	signals := waitForSignals(t, pub, 2)
	ctrl.Stop()

	last := signals[len(signals)-1]
	if math.Abs(last.Volume-0.5) > 1e-9 {
		t.Errorf("volume = %f, want 0.5 for pinch distance 0.10", last.Volume)
	}
	// No face in the frame: confidence zero, pan held at its initial value.
	if last.Confidence != 0.0 {
		t.Errorf("confidence = %f, want 0.0 with no face", last.Confidence)
	}
	if last.Pan != 0.0 {
		t.Errorf("pan = %f, want held initial 0.0 with no face", last.Pan)
	}
}

func TestLoop_NoDetectionsPublishesDefaults(t *testing.T) {
	ctrl, _, pub := newTestController(t, detector.NewMockTracker())
	if err := ctrl.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	signals := waitForSignals(t, pub, 2)
	ctrl.Stop()

	want := SignalPayload{Pan: 0.0, Volume: 1.0, Confidence: 0.0}
	for i, s := range signals {
		if s != want {
			t.Errorf("signal #%d = %+v, want defaults %+v", i, s, want)
		}
	}
}

func TestLoop_PanHeldAfterFaceLost(t *testing.T) {
	tracker := detector.NewMockTracker()
	tracker.SetFaces([]detector.FaceBox{detector.LeftEdgeFace()})

	ctrl, _, pub := newTestController(t, tracker)
	if err := ctrl.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	waitForSignals(t, pub, 8)

	// Face disappears: pan must hold the last smoothed value while
	// confidence drops to zero.
	tracker.SetFaces(nil)
	before, _, _ := pub.snapshot()
	signals := waitForSignals(t, pub, len(before)+3)
	ctrl.Stop()

	last := signals[len(signals)-1]
	if math.Abs(last.Pan-(-1.0)) > 1e-9 {
		t.Errorf("pan = %f, want held -1.0 after face lost", last.Pan)
	}
	if last.Confidence != 0.0 {
		t.Errorf("confidence = %f, want 0.0 after face lost", last.Confidence)
	}
}

func TestLoop_SignalPrecedesFrame(t *testing.T) {
	ctrl, _, pub := newTestController(t, detector.NewMockTracker())
	if err := ctrl.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	waitForSignals(t, pub, 3)
	ctrl.Stop()

	_, frames, order := pub.snapshot()
	if len(frames) == 0 {
		t.Fatal("no frames published")
	}

	// Events must strictly alternate signal, frame, signal, frame, ...
	for i, kind := range order {
		want := "signal"
		if i%2 == 1 {
			want = "frame"
		}
		if kind != want {
			t.Fatalf("event #%d = %s, want %s (order: %v)", i, kind, want, order)
		}
	}
}

func TestLoop_FramesAreBase64JPEG(t *testing.T) {
	ctrl, _, pub := newTestController(t, detector.NewMockTracker())
	if err := ctrl.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	waitForSignals(t, pub, 2)
	ctrl.Stop()

	_, frames, _ := pub.snapshot()
	if len(frames) == 0 {
		t.Fatal("no frames published")
	}

	raw, err := base64.StdEncoding.DecodeString(frames[0])
	if err != nil {
		t.Fatalf("frame is not valid base64: %v", err)
	}
	if len(raw) < 4 || raw[0] != 0xFF || raw[1] != 0xD8 {
		t.Error("decoded frame does not start with a JPEG SOI marker")
	}
}

func TestLoop_CameraReadFailureSkipsTick(t *testing.T) {
	tracker := detector.NewMockTracker()
	ctrl, cam, pub := newTestController(t, tracker)

	if err := ctrl.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitForSignals(t, pub, 2)

	// Every read fails: publishing pauses but the loop keeps running.
	cam.SetError(errors.New("transient read failure"))
	time.Sleep(50 * time.Millisecond)
	during, _, _ := pub.snapshot()
	time.Sleep(50 * time.Millisecond)
	after, _, _ := pub.snapshot()

	if len(after) > len(during)+1 {
		t.Errorf("publishes continued during read failures: %d -> %d", len(during), len(after))
	}
	if !ctrl.IsRunning() {
		t.Error("loop must keep running through transient read failures")
	}

	// Recovery resumes publishing.
	cam.SetError(nil)
	waitForSignals(t, pub, len(after)+2)
	ctrl.Stop()
}

func TestLoop_TrackerErrorPublishesDefaults(t *testing.T) {
	tracker := detector.NewMockTracker()
	tracker.SetError(errors.New("sidecar crashed"))

	ctrl, _, pub := newTestController(t, tracker)
	if err := ctrl.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	signals := waitForSignals(t, pub, 2)
	ctrl.Stop()

	want := SignalPayload{Pan: 0.0, Volume: 1.0, Confidence: 0.0}
	for i, s := range signals {
		if s != want {
			t.Errorf("signal #%d = %+v, want defaults %+v on tracker error", i, s, want)
		}
	}
}
