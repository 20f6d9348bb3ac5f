// Package session owns the capture/detect/publish loop and its lifecycle.
// At most one loop runs process-wide: every connected viewer observes the
// same broadcast stream, and any viewer's disconnect stops it for all.
package session

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/theremin/internal/capture"
	"github.com/ayusman/theremin/internal/detector"
	"github.com/ayusman/theremin/internal/signal"
	"github.com/ayusman/theremin/internal/store"
)

// Loop timing and encoding defaults.
const (
	// DefaultTickInterval caps the loop at roughly 33 frames per second.
	DefaultTickInterval = 30 * time.Millisecond
	// DefaultJPEGQuality is the encode quality for published frames.
	DefaultJPEGQuality = 70
)

// SignalPayload is the per-tick control message published to viewers.
type SignalPayload struct {
	Pan        float64 `json:"pan"`
	Volume     float64 `json:"volume"`
	Confidence float64 `json:"confidence"`
}

// Publisher delivers the two per-tick events to connected viewers.
// The loop publishes the signal payload first, then the frame, so the
// audio parameters stay slightly ahead of video display.
type Publisher interface {
	PublishSignal(p SignalPayload)
	PublishFrame(jpegBase64 string)
}

// Config holds the collaborators and tuning for a Controller.
type Config struct {
	Camera       capture.Camera
	Tracker      detector.Tracker
	Publisher    Publisher
	TickInterval time.Duration
	JPEGQuality  int
	Tuning       store.Tuning
}

// Controller starts and stops the capture/publish loop. The camera handle
// is owned exclusively by the controller: Start acquires it, Stop waits
// for the loop to exit and then releases the hardware for reuse.
type Controller struct {
	camera    capture.Camera
	tracker   detector.Tracker
	publisher Publisher
	interval  time.Duration
	quality   int

	estimator *signal.Estimator
	smoother  *signal.Smoother

	// running is the sole cancellation signal; the loop checks it at the
	// top of every tick, so stop latency is bounded by one interval.
	running atomic.Bool
	mu      sync.Mutex
	wg      sync.WaitGroup

	// lastPan holds the most recent smoothed pan. When no face is seen it
	// is republished unchanged while confidence drops to zero; this
	// hold/reset asymmetry is a deliberate contract, not a bug.
	lastPan float64
}

// New creates a Controller. Zero-valued timing and quality settings fall
// back to the package defaults, and zero-valued tuning fields fall back
// to the signal defaults.
func New(cfg Config) *Controller {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.JPEGQuality <= 0 {
		cfg.JPEGQuality = DefaultJPEGQuality
	}
	if cfg.Tuning.SmoothWindow < 1 {
		cfg.Tuning.SmoothWindow = signal.DefaultSmoothWindow
	}

	c := &Controller{
		camera:    cfg.Camera,
		tracker:   cfg.Tracker,
		publisher: cfg.Publisher,
		interval:  cfg.TickInterval,
		quality:   cfg.JPEGQuality,
		estimator: signal.NewEstimator(),
		smoother:  signal.NewSmoother(cfg.Tuning.SmoothWindow),
	}
	c.estimator.SetSensitivity(cfg.Tuning.Sensitivity)
	c.estimator.SetPinchRange(cfg.Tuning.PinchMin, cfg.Tuning.PinchMax)

	return c
}

// Start opens the camera if needed and launches the loop goroutine.
// Starting an already-running session is a no-op. A camera held by
// another process surfaces here as an error and the session stays
// stopped.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running.Load() {
		return nil
	}

	if !c.camera.IsOpen() {
		if err := c.camera.Open(); err != nil {
			return err
		}
	}

	c.running.Store(true)
	c.wg.Add(1)
	go c.run()

	log.Println("Tracking session started")
	return nil
}

// Stop signals the loop to exit, waits for it, and releases the camera.
// Stopping a stopped session is a no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running.Load() {
		return
	}

	c.running.Store(false)
	c.wg.Wait()

	if err := c.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	log.Println("Tracking session stopped")
}

// IsRunning reports whether the loop is active.
func (c *Controller) IsRunning() bool {
	return c.running.Load()
}

// ApplyTuning updates the live estimator and smoother. Invalid tuning is
// rejected.
func (c *Controller) ApplyTuning(t store.Tuning) error {
	if err := t.Validate(); err != nil {
		return err
	}

	c.estimator.SetSensitivity(t.Sensitivity)
	c.estimator.SetPinchRange(t.PinchMin, t.PinchMax)
	c.smoother.SetCapacity(t.SmoothWindow)
	return nil
}

// Tuning returns the currently applied tuning values.
func (c *Controller) Tuning() store.Tuning {
	lo, hi := c.estimator.PinchRange()
	return store.Tuning{
		Sensitivity:  c.estimator.Sensitivity(),
		SmoothWindow: c.smoother.Capacity(),
		PinchMin:     lo,
		PinchMax:     hi,
	}
}
