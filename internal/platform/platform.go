// Package platform implements component A: the window/surface, input
// device polling, and the monotonic clock the session controller paces
// ticks against. It is the one package allowed to know it's built on
// Ebiten; every other component only sees abstract types (pad.RawState,
// raw pixel bytes, time.Duration).
package platform

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/retrofe/retrofe/internal/frontend"
)

// Surface describes the fixed logical dimensions the video presenter
// draws into; the platform letterboxes/scales this onto whatever the
// physical display actually is.
type Surface struct {
	Width, Height int
}

// Platform owns the window and exposes the capability map the pad
// abstraction is built against.
type Platform struct {
	surface    Surface
	caps       Capabilities
	lastUpdate time.Time
}

// Capabilities reports which abstract buttons this device physically
// has, so the menu can hide bindings for absent hardware (e.g. a device
// with no L2/R2 triggers) instead of showing dead entries.
type Capabilities struct {
	HasAnalogStick bool
	HasL2R2        bool
	HasL3R3        bool
	HasVolumeKeys  bool
	PlayerCount    int
}

// Init sets up the Ebiten window for a fixed logical surface and probes
// gamepad capabilities. Returns a PlatformInit error when the surface
// has a non-positive width or height; it does not probe for a display or
// audio device.
func Init(surface Surface, windowTitle string) (*Platform, error) {
	if surface.Width <= 0 || surface.Height <= 0 {
		return nil, frontend.Wrap(frontend.KindPlatformInit, "platform_init", fmt.Errorf("invalid surface %dx%d", surface.Width, surface.Height))
	}

	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeOnlyFullscreen)
	ebiten.SetFullscreen(true)
	ebiten.SetScreenClearedEveryFrame(false)

	p := &Platform{
		surface:    surface,
		lastUpdate: time.Now(),
	}
	p.probeCapabilities()
	return p, nil
}

func (p *Platform) probeCapabilities() {
	ids := ebiten.AppendGamepadIDs(nil)
	p.caps = Capabilities{
		HasAnalogStick: len(ids) > 0,
		HasL2R2:        len(ids) > 0,
		HasL3R3:        len(ids) > 0,
		HasVolumeKeys:  true,
		PlayerCount:    maxInt(len(ids), 1),
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Capabilities returns which abstract buttons this device physically
// has.
func (p *Platform) Capabilities() Capabilities { return p.caps }

// Surface returns the fixed logical surface dimensions.
func (p *Platform) Surface() Surface { return p.surface }

// Now returns a monotonic instant suitable for pad edge-timing and
// tick-pacing arithmetic.
func Now() time.Time { return time.Now() }

// SleepUntil blocks until deadline. A deadline already in the past
// returns immediately. The session's tick loop does not call it; tick
// pacing comes from ebiten.SetTPS.
func SleepUntil(deadline time.Time) {
	d := time.Until(deadline)
	if d > 0 {
		time.Sleep(d)
	}
}

// Quit releases window-level resources. Ebiten itself has no explicit
// teardown call; this exists so callers have a symmetric Init/Quit pair
// per spec §4.A even though it is currently a no-op.
func (p *Platform) Quit() {}
