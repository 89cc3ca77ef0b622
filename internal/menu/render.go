package menu

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
	fontOnce sync.Once
	fontFace text.Face
)

func face() text.Face {
	fontOnce.Do(func() {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			return
		}
		fontFace = &text.GoTextFace{Source: src, Size: 16}
	})
	return fontFace
}

var (
	colorDim      = color.NRGBA{0x00, 0x00, 0x00, 0xa8}
	colorPanel    = color.NRGBA{0x20, 0x22, 0x28, 0xff}
	colorRow      = color.NRGBA{0x2d, 0x30, 0x38, 0xff}
	colorRowSel   = color.NRGBA{0x3f, 0x6f, 0xc4, 0xff}
	colorText     = color.NRGBA{0xf0, 0xf0, 0xf0, 0xff}
	colorTextDim  = color.NRGBA{0xa0, 0xa0, 0xa8, 0xff}
	rowHeight     = 28
	rowSpacing    = 4
	panelPaddingX = 14
	panelPaddingY = 12
)

// Render draws the currently active screen of m, dimming the game frame
// behind it. Grounded on the teacher's pausemenu.go Draw (dim overlay,
// centered panel, list of rows with a highlighted selection), generalized
// from a single fixed three-row menu to m's five data-driven screens.
func Render(screen *ebiten.Image, m *Menu) {
	if !m.IsOpen() {
		return
	}
	f := face()
	if f == nil {
		return
	}

	bounds := screen.Bounds()
	screenW, screenH := bounds.Dx(), bounds.Dy()

	dim := ebiten.NewImage(screenW, screenH)
	dim.Fill(colorDim)
	screen.DrawImage(dim, nil)

	rows, selected := rowsForScreen(m)
	panelW := screenW * 55 / 100
	if panelW < 220 {
		panelW = 220
	}
	panelH := panelPaddingY*2 + len(rows)*rowHeight + (len(rows)-1)*rowSpacing
	if len(rows) == 0 {
		panelH = panelPaddingY * 2
	}
	panelX := (screenW - panelW) / 2
	panelY := (screenH - panelH) / 2

	panel := ebiten.NewImage(panelW, panelH)
	panel.Fill(colorPanel)
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Translate(float64(panelX), float64(panelY))
	screen.DrawImage(panel, opts)

	for i, label := range rows {
		rowY := panelY + panelPaddingY + i*(rowHeight+rowSpacing)
		rowImg := ebiten.NewImage(panelW-panelPaddingX*2, rowHeight)
		if i == selected {
			rowImg.Fill(colorRowSel)
		} else {
			rowImg.Fill(colorRow)
		}
		rowOpts := &ebiten.DrawImageOptions{}
		rowOpts.GeoM.Translate(float64(panelX+panelPaddingX), float64(rowY))
		screen.DrawImage(rowImg, rowOpts)

		textOpts := &text.DrawOptions{}
		textOpts.GeoM.Translate(float64(panelX+panelPaddingX+8), float64(rowY+rowHeight/2))
		textOpts.PrimaryAlign = text.AlignStart
		textOpts.SecondaryAlign = text.AlignCenter
		c := colorText
		if label == "" {
			c = colorTextDim
		}
		textOpts.ColorScale.ScaleWithColor(c)
		text.Draw(screen, label, f, textOpts)
	}
}

func slotStatus(s SlotInfo) string {
	if s.Occupied {
		return "occupied"
	}
	return "empty"
}

// rowsForScreen returns the display label for every row of m's current
// screen plus the index of the currently selected row.
func rowsForScreen(m *Menu) ([]string, int) {
	snap := m.SnapshotView()
	switch m.Screen() {
	case ScreenMain:
		labels := []string{"Continue", "Save State", "Load State", "Options", "Cheats", "Disc", "Screenshot", "Quit"}
		return labels, m.MainIndex()

	case ScreenSlots:
		labels := make([]string, len(snap.Slots)+1)
		labels[0] = fmt.Sprintf("Auto (%s)", slotStatus(snap.Slots[0]))
		for i, s := range snap.Slots {
			labels[i+1] = fmt.Sprintf("Slot %d (%s)", i, slotStatus(s))
		}
		return labels, m.SlotIndex()

	case ScreenOptions:
		if len(snap.Options) == 0 {
			return []string{"(no options)"}, 0
		}
		labels := make([]string, len(snap.Options))
		for i, o := range snap.Options {
			labels[i] = fmt.Sprintf("%s: %s", o.DisplayName, o.Value())
		}
		return labels, m.OptionsIndex()

	case ScreenCheats:
		if len(snap.Cheats) == 0 {
			return []string{"(no cheats)"}, 0
		}
		labels := make([]string, len(snap.Cheats))
		for i, c := range snap.Cheats {
			state := "off"
			if c.Enabled {
				state = "on"
			}
			labels[i] = fmt.Sprintf("%s [%s]", c.Description, state)
		}
		return labels, m.CheatsIndex()

	case ScreenDisc:
		if len(snap.Discs) == 0 {
			return []string{"(no discs)"}, 0
		}
		labels := make([]string, len(snap.Discs))
		for i, d := range snap.Discs {
			marker := "  "
			if i == snap.CurrentDisc {
				marker = "->"
			}
			labels[i] = fmt.Sprintf("%s %s", marker, d)
		}
		return labels, m.DiscIndex()
	}
	return nil, 0
}
