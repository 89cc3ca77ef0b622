// Package shader compiles and applies the frontend's post-process
// shaders. Trimmed from the teacher's eighteen-shader library
// (standalone/shader/manager.go: crt, bloom, ntsc, vhs, xBR scaling, and
// more) down to the two effects that make sense on the class of display
// a resource-constrained handheld actually has: scanlines (an emulated
// CRT gap) and an LCD subpixel grid. The rest of the teacher's catalog
// targets TV-emulation aesthetics a handheld's own small LCD doesn't
// benefit from and this frontend has no GPU budget to spare on.
package shader

import (
	_ "embed"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

//go:embed shaders/scanlines.kage
var scanlinesSrc []byte

//go:embed shaders/lcd.kage
var lcdSrc []byte

// ID identifies one of the two supported post-process effects.
type ID string

const (
	None       ID = ""
	Scanlines  ID = "scanlines"
	LCD        ID = "lcd"
)

var sources = map[ID][]byte{
	Scanlines: scanlinesSrc,
	LCD:       lcdSrc,
}

// Manager compiles shaders on first use and caches them, grounded on
// the teacher's Manager.LoadShader/shaders map but without the ping-
// pong chaining buffers the teacher needs for multi-shader stacks: this
// frontend applies at most one effect at a time.
type Manager struct {
	compiled map[ID]*ebiten.Shader
	buffer   *ebiten.Image
}

// NewManager creates an empty shader manager.
func NewManager() *Manager {
	return &Manager{compiled: make(map[ID]*ebiten.Shader)}
}

func (m *Manager) load(id ID) (*ebiten.Shader, error) {
	if sh, ok := m.compiled[id]; ok {
		return sh, nil
	}
	src, ok := sources[id]
	if !ok {
		return nil, fmt.Errorf("shader: unknown id %q", id)
	}
	sh, err := ebiten.NewShader(src)
	if err != nil {
		return nil, fmt.Errorf("shader: compile %q: %w", id, err)
	}
	m.compiled[id] = sh
	return sh, nil
}

// Apply draws src onto dst through the named effect, with uniforms set
// to sensible fixed strengths (the menu exposes no per-effect intensity
// slider; spec's cheats/options screens cover core options, not
// presentation effects). id == None draws src onto dst unmodified.
func (m *Manager) Apply(dst, src *ebiten.Image, id ID) error {
	if id == None {
		var opts ebiten.DrawImageOptions
		dst.DrawImage(src, &opts)
		return nil
	}

	sh, err := m.load(id)
	if err != nil {
		return err
	}

	opts := &ebiten.DrawRectShaderOptions{}
	opts.Images[0] = src
	switch id {
	case Scanlines:
		opts.Uniforms = map[string]any{"Intensity": float32(0.25)}
	case LCD:
		opts.Uniforms = map[string]any{"CellSize": float32(4.0)}
	}
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	dst.DrawRectShader(w, h, sh, opts)
	return nil
}
