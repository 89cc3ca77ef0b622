package video

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	hudFontOnce   sync.Once
	hudFontSource *text.GoTextFaceSource
	hudFontFace   text.Face
)

func hudFont() text.Face {
	hudFontOnce.Do(func() {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			return
		}
		hudFontSource = src
		hudFontFace = &text.GoTextFace{Source: hudFontSource, Size: 14}
	})
	return hudFontFace
}

// HUD draws the diagnostic overlay (FPS, audio ring fill, fast-forward
// multiplier, overload indicator), grounded on the teacher's
// Notification text rendering (standalone/notification.go's text.Draw
// over a cached GoTextFace) generalized into a corner readout that stays
// up while Visible is true instead of a timed toast.
type HUD struct {
	Visible bool
}

// NewHUD creates a hidden HUD. No menu option sets Visible, so Draw
// renders nothing unless a caller sets it.
func NewHUD() *HUD { return &HUD{} }

// Draw renders the overlay text in the top-left corner of screen.
func (h *HUD) Draw(screen *ebiten.Image, fps float64, ringFill float64, ffMultiplier int, overloaded bool) {
	if !h.Visible {
		return
	}
	face := hudFont()
	if face == nil {
		return
	}

	line := fmt.Sprintf("%.0f fps  ring %.0f%%", fps, ringFill*100)
	if ffMultiplier > 1 {
		line += fmt.Sprintf("  %dx", ffMultiplier)
	}
	if overloaded {
		line += "  OVERLOAD"
	}

	opts := &text.DrawOptions{}
	opts.GeoM.Translate(6, 4)
	opts.ColorScale.ScaleWithColor(color.NRGBA{0xff, 0xff, 0xff, 0xff})
	text.Draw(screen, line, face, opts)
}
