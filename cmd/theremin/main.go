package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/ayusman/theremin/internal/capture"
	"github.com/ayusman/theremin/internal/config"
	"github.com/ayusman/theremin/internal/detector"
	"github.com/ayusman/theremin/internal/server"
	"github.com/ayusman/theremin/internal/session"
	"github.com/ayusman/theremin/internal/store"
	"github.com/ayusman/theremin/internal/tray"
)

func main() {
	fmt.Println("Theremin - Head Pan + Pinch Volume")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".theremin")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	cfg, err := config.Load(filepath.Join(dataDir, "config.yaml"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "theremin.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	defaults := store.Tuning{
		Sensitivity:  cfg.Tracking.Sensitivity,
		SmoothWindow: cfg.Tracking.SmoothWindow,
		PinchMin:     cfg.Tracking.PinchMin,
		PinchMax:     cfg.Tracking.PinchMax,
	}
	tuning, err := st.Settings().LoadTuning(defaults)
	if err != nil {
		log.Fatalf("Failed to load tuning: %v", err)
	}

	// Try MediaPipe first, fall back to the mock tracker
	var tracker detector.Tracker
	if mp, err := detector.NewMediaPipeTracker(detector.DefaultConfig()); err == nil {
		tracker = mp
		log.Println("Using MediaPipe face and hand tracking")
	} else {
		log.Printf("MediaPipe not available (%v), using mock tracker", err)
		tracker = detector.NewMockTracker()
	}
	defer tracker.Close()

	hub := server.NewHub()

	ctrl := session.New(session.Config{
		Camera:       capture.NewCamera(cfg.Camera.DeviceID, cfg.Camera.Width, cfg.Camera.Height),
		Tracker:      tracker,
		Publisher:    hub,
		TickInterval: cfg.TickInterval(),
		JPEGQuality:  cfg.Tracking.JPEGQuality,
		Tuning:       tuning,
	})

	hub.OnStart(func() {
		if err := ctrl.Start(); err != nil {
			log.Printf("Failed to start tracking: %v", err)
		}
	})
	hub.OnDisconnect(ctrl.Stop)

	trackPath := cfg.Audio.TrackPath
	if trackPath == "" {
		trackPath = filepath.Join(dataDir, "song.mp3")
	}

	srv := server.New(server.Config{
		Hub:       hub,
		Store:     st,
		Session:   ctrl,
		Defaults:  defaults,
		TrackPath: trackPath,
	})

	addr := cfg.ServerAddress()
	go func() {
		fmt.Printf("Open http://localhost:%d\n", cfg.Server.Port)
		if err := srv.ListenAndServe(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	viewerURL := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	t := tray.New()
	t.OnToggle(func(enabled bool) {
		if enabled {
			if err := ctrl.Start(); err != nil {
				log.Printf("Failed to start tracking: %v", err)
				t.SetTracking(false)
			}
		} else {
			ctrl.Stop()
		}
	})
	t.OnOpen(func() { openBrowser(viewerURL) })
	t.OnQuit(ctrl.Stop)
	t.Run()
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
