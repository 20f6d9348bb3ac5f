// Package tray provides a system tray interface for Theremin.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func(enabled bool)
	onOpen   func()
	onQuit   func()
	enabled  bool
	mu       sync.RWMutex

	menuToggle *systray.MenuItem
}

// New creates a new Tray with tracking shown as stopped.
func New() *Tray {
	return &Tray{}
}

// OnToggle sets the callback invoked when tracking is toggled from the
// menu.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpen sets the callback invoked when the viewer menu item is clicked.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback invoked when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// SetTracking updates the menu to reflect the session state, e.g. when
// tracking was started from the browser rather than the menu.
func (t *Tray) SetTracking(enabled bool) {
	t.mu.Lock()
	t.enabled = enabled
	item := t.menuToggle
	t.mu.Unlock()

	if item == nil {
		return
	}
	if enabled {
		item.SetTitle("● Tracking")
	} else {
		item.SetTitle("○ Stopped")
	}
}

// onReady is called when the system tray is ready.
func (t *Tray) onReady() {
	systray.SetTitle("Theremin")
	systray.SetTooltip("Theremin - Head Pan + Pinch Volume")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem("○ Stopped", "Toggle tracking")
	toggle := t.menuToggle
	t.mu.Unlock()

	systray.AddSeparator()
	menuOpen := systray.AddMenuItem("Open Viewer...", "Open the viewer in a browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit Theremin")

	go func() {
		for {
			select {
			case <-toggle.ClickedCh:
				t.mu.Lock()
				t.enabled = !t.enabled
				enabled := t.enabled
				fn := t.onToggle
				t.mu.Unlock()

				t.SetTracking(enabled)
				if fn != nil {
					fn(enabled)
				}

			case <-menuOpen.ClickedCh:
				t.mu.RLock()
				fn := t.onOpen
				t.mu.RUnlock()
				if fn != nil {
					fn()
				}

			case <-menuQuit.ClickedCh:
				t.mu.RLock()
				fn := t.onQuit
				t.mu.RUnlock()
				if fn != nil {
					fn()
				}
				systray.Quit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is shutting down.
func (t *Tray) onExit() {}
