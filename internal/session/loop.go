package session

import (
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/theremin/internal/detector"
)

// Overlay colors.
var (
	faceBoxColor = color.RGBA{R: 0, G: 255, B: 0, A: 0}   // green
	panTextColor = color.RGBA{R: 255, G: 0, B: 255, A: 0} // magenta
	volTextColor = color.RGBA{R: 255, G: 255, B: 0, A: 0} // yellow
)

// run is the capture/detect/publish loop. It executes on its own
// goroutine, paced by a monotonic ticker so variable per-tick cost does
// not accumulate cadence drift.
//
// Per tick: read a frame, mirror it, run detection, derive the signal
// payload, annotate the frame for display, JPEG-encode it, and publish
// signal then frame. A failed camera read skips the tick; the failure is
// transient by contract and the next tick retries.
func (c *Controller) run() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for range ticker.C {
		if !c.running.Load() {
			return
		}
		c.tick()
	}
}

// tick processes a single frame end to end.
func (c *Controller) tick() {
	frame, err := c.camera.ReadFrame()
	if err != nil {
		// Skip the tick; the next one retries.
		return
	}
	defer frame.Close()

	// Mirror so the displayed image matches natural viewing.
	mirrored := gocv.NewMat()
	defer mirrored.Close()
	gocv.Flip(*frame, &mirrored, 1)

	result, err := c.tracker.Track(&mirrored)
	if err != nil {
		log.Printf("Detection error: %v", err)
		result = &detector.Result{}
	}

	// Defaults: pan holds the last smoothed value, absence of a hand
	// means unmuted, absence of a face zeroes confidence.
	payload := SignalPayload{
		Pan:        c.lastPan,
		Volume:     1.0,
		Confidence: 0.0,
	}

	if len(result.Faces) > 0 {
		face := result.Faces[0]
		payload.Pan = c.smoother.Smooth(c.estimator.Pan(face))
		payload.Confidence = face.Score
		c.lastPan = payload.Pan
		drawFaceOverlay(&mirrored, face, payload.Pan)
	}

	if len(result.Hands) > 0 {
		hand := result.Hands[0]
		payload.Volume = c.estimator.Volume(&hand)
		drawVolumeOverlay(&mirrored, payload.Volume)
	}

	// Signal before frame keeps audio latency slightly ahead of video.
	c.publisher.PublishSignal(payload)

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, mirrored, []int{gocv.IMWriteJpegQuality, c.quality})
	if err != nil {
		log.Printf("Frame encode error: %v", err)
		return
	}
	defer buf.Close()

	c.publisher.PublishFrame(base64.StdEncoding.EncodeToString(buf.GetBytes()))
}

// drawFaceOverlay marks the detected face and the current pan on the
// frame. Display only; consumers of the signal payload never see this.
func drawFaceOverlay(frame *gocv.Mat, face detector.FaceBox, pan float64) {
	width := float64(frame.Cols())
	height := float64(frame.Rows())

	rect := image.Rect(
		int(face.XMin*width),
		int(face.YMin*height),
		int((face.XMin+face.Width)*width),
		int((face.YMin+face.Height)*height),
	)
	gocv.Rectangle(frame, rect, faceBoxColor, 3)
	gocv.PutText(frame, fmt.Sprintf("PAN: %.2f", pan), image.Pt(10, 40),
		gocv.FontHersheySimplex, 1, panTextColor, 2)
}

// drawVolumeOverlay writes the current volume on the frame.
func drawVolumeOverlay(frame *gocv.Mat, volume float64) {
	gocv.PutText(frame, fmt.Sprintf("VOL: %.2f", volume), image.Pt(10, 80),
		gocv.FontHersheySimplex, 1, volTextColor, 2)
}
