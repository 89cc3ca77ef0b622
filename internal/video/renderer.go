// Package video implements component E: framebuffer presentation,
// pixel format conversion, aspect-correct letterbox scaling, the HUD
// overlay, and the scanline/LCD post-process shaders.
package video

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/retrofe/retrofe/internal/libretro"
)

// ScalePolicy selects how the core's framebuffer maps onto the display
// surface (spec §4.E: Native-integer, Aspect-preserving, or
// Fullscreen-stretch).
type ScalePolicy int

const (
	ScaleAspect ScalePolicy = iota
	ScaleNative
	ScaleFullscreen
)

// Renderer owns the ebiten offscreen image the core's framebuffer is
// copied into and draws it letterboxed/PAR-corrected onto the screen
// (spec §3 "Video frame", §4.A "letterbox, rotate, or scale"), grounded
// on the teacher's FramebufferRenderer (standalone/renderer.go) and
// generalized from a single fixed pixel format to the three libretro
// negotiates.
type Renderer struct {
	offscreen *ebiten.Image
	rgba      []byte

	policy ScalePolicy
	filter ebiten.Filter

	lastDroppedStreak int
	overloaded        bool
}

// NewRenderer creates an empty renderer; the offscreen image is
// (re)allocated lazily to match the first (and any later-changing) core
// resolution.
func NewRenderer() *Renderer {
	return &Renderer{filter: ebiten.FilterNearest}
}

// SetScalePolicy changes how Draw maps the framebuffer onto the screen.
func (r *Renderer) SetScalePolicy(p ScalePolicy) { r.policy = p }

// SetBilinear switches the upscale filter between nearest-neighbor (crisp
// pixels, the default) and bilinear (smoothed) sampling.
func (r *Renderer) SetBilinear(bilinear bool) {
	if bilinear {
		r.filter = ebiten.FilterLinear
	} else {
		r.filter = ebiten.FilterNearest
	}
}

// Draw converts frame into RGBA8888, uploads it to the offscreen image,
// and blits it centered onto screen at the size the active ScalePolicy
// resolves (see displaySize).
func (r *Renderer) Draw(screen *ebiten.Image, frame libretro.VideoFrame, aspectRatio float64) {
	if frame.Width == 0 || frame.Height == 0 || frame.Data == nil {
		return
	}

	r.rgba = ConvertFrame(frame.Format, frame.Data, frame.Width, frame.Height, frame.Pitch, r.rgba)

	if r.offscreen == nil || r.offscreen.Bounds().Dx() != frame.Width || r.offscreen.Bounds().Dy() != frame.Height {
		r.offscreen = ebiten.NewImage(frame.Width, frame.Height)
	}
	r.offscreen.WritePixels(r.rgba)

	if aspectRatio <= 0 {
		aspectRatio = float64(frame.Width) / float64(frame.Height)
	}

	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	displayW, displayH := r.displaySize(screenW, screenH, frame.Width, frame.Height, aspectRatio)

	scaleX := displayW / float64(frame.Width)
	scaleY := displayH / float64(frame.Height)
	offsetX := (float64(screenW) - displayW) / 2
	offsetY := (float64(screenH) - displayH) / 2

	var opts ebiten.DrawImageOptions
	opts.GeoM.Scale(scaleX, scaleY)
	opts.GeoM.Translate(offsetX, offsetY)
	opts.Filter = r.filter
	screen.DrawImage(r.offscreen, &opts)
}

// displaySize resolves the on-screen width/height for the active scale
// policy. Fullscreen ignores aspect ratio and fills the surface, Native
// holds to the largest whole-number pixel multiple that fits (no
// fractional scaling seams), and Aspect letterboxes at the core's
// reported aspect ratio, the prior hardcoded behavior.
func (r *Renderer) displaySize(screenW, screenH, frameW, frameH int, aspectRatio float64) (float64, float64) {
	switch r.policy {
	case ScaleFullscreen:
		return float64(screenW), float64(screenH)

	case ScaleNative:
		mult := screenW / frameW
		if m := screenH / frameH; m < mult {
			mult = m
		}
		if mult < 1 {
			mult = 1
		}
		return float64(frameW * mult), float64(frameH * mult)

	default:
		displayW := float64(screenW)
		displayH := displayW / aspectRatio
		if displayH > float64(screenH) {
			displayH = float64(screenH)
			displayW = displayH * aspectRatio
		}
		return displayW, displayH
	}
}

// Snapshot returns the most recently presented frame as a PNG-encodable
// image, or false if nothing has been drawn yet (spec's supplemented
// screenshot action captures exactly what the player currently sees).
func (r *Renderer) Snapshot() (image.Image, bool) {
	if r.offscreen == nil {
		return nil, false
	}
	bounds := r.offscreen.Bounds()
	img := image.NewRGBA(bounds)
	r.offscreen.ReadPixels(img.Pix)
	return img, true
}

// NoteFrameDropped feeds the overload detector a single dropped-frame
// observation (spec's pacing component calls this when a tick misses
// its deadline). threshold consecutive drops mark the renderer
// Overloaded until a frame lands on time again.
func (r *Renderer) NoteFrameDropped(threshold int) {
	r.lastDroppedStreak++
	if r.lastDroppedStreak >= threshold {
		r.overloaded = true
	}
}

// NoteFrameOnTime clears the dropped-frame streak.
func (r *Renderer) NoteFrameOnTime() {
	r.lastDroppedStreak = 0
	r.overloaded = false
}

// Overloaded reports whether the renderer has seen enough consecutive
// dropped frames to warrant a degraded-performance indicator.
func (r *Renderer) Overloaded() bool { return r.overloaded }
