package platform

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/retrofe/retrofe/internal/pad"
)

// keyBindings maps a keyboard key to the abstract button it drives when
// no config override is present, grounded on the teacher's
// inputmap.go default layout but trimmed to the fixed set of abstract
// buttons this frontend's Pad understands (no free-form per-core button
// table, since libretro's RETRO_DEVICE_ID_JOYPAD_* set is itself fixed).
var keyBindings = map[ebiten.Key]pad.Button{
	ebiten.KeyArrowUp:    pad.Up,
	ebiten.KeyArrowDown:  pad.Down,
	ebiten.KeyArrowLeft:  pad.Left,
	ebiten.KeyArrowRight: pad.Right,
	ebiten.KeyZ:          pad.A,
	ebiten.KeyX:          pad.B,
	ebiten.KeyA:          pad.X,
	ebiten.KeyS:          pad.Y,
	ebiten.KeyQ:          pad.L1,
	ebiten.KeyW:          pad.R1,
	ebiten.Key1:          pad.L2,
	ebiten.Key2:          pad.R2,
	ebiten.KeyEnter:      pad.Start,
	ebiten.KeyShift:      pad.Select,
	ebiten.KeyEscape:     pad.Menu,
	ebiten.KeyF12:        pad.Power,
}

// gamepadBindings maps an Ebiten standard gamepad button the same way.
var gamepadBindings = map[ebiten.StandardGamepadButton]pad.Button{
	ebiten.StandardGamepadButtonLeftTop:          pad.Up,
	ebiten.StandardGamepadButtonLeftBottom:       pad.Down,
	ebiten.StandardGamepadButtonLeftLeft:         pad.Left,
	ebiten.StandardGamepadButtonLeftRight:        pad.Right,
	ebiten.StandardGamepadButtonRightBottom:      pad.A,
	ebiten.StandardGamepadButtonRightRight:       pad.B,
	ebiten.StandardGamepadButtonRightTop:         pad.X,
	ebiten.StandardGamepadButtonRightLeft:        pad.Y,
	ebiten.StandardGamepadButtonFrontTopLeft:     pad.L1,
	ebiten.StandardGamepadButtonFrontTopRight:    pad.R1,
	ebiten.StandardGamepadButtonFrontBottomLeft:  pad.L2,
	ebiten.StandardGamepadButtonFrontBottomRight: pad.R2,
	ebiten.StandardGamepadButtonLeftStick:        pad.L3,
	ebiten.StandardGamepadButtonRightStick:       pad.R3,
	ebiten.StandardGamepadButtonCenterRight:      pad.Start,
	ebiten.StandardGamepadButtonCenterLeft:       pad.Select,
	ebiten.StandardGamepadButtonCenterCenter:     pad.Menu,
}

// PollRaw reads the current keyboard and (if present) first gamepad state
// into a pad.RawState, ready for pad.Pad.Poll. Keyboard and gamepad
// bindings are OR'd together so either input source can drive the same
// abstract button.
func PollRaw() pad.RawState {
	raw := pad.RawState{Pressed: make(map[pad.Button]bool, 20)}

	for key, btn := range keyBindings {
		if ebiten.IsKeyPressed(key) {
			raw.Pressed[btn] = true
		}
	}

	ids := ebiten.AppendGamepadIDs(nil)
	if len(ids) == 0 {
		return raw
	}
	id := ids[0]

	for gbtn, btn := range gamepadBindings {
		if ebiten.IsStandardGamepadButtonPressed(id, gbtn) {
			raw.Pressed[btn] = true
		}
	}

	raw.LeftX = axisToInt16(ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal))
	raw.LeftY = axisToInt16(ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical))
	raw.RightX = axisToInt16(ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal))
	raw.RightY = axisToInt16(ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical))

	return raw
}

// axisToInt16 converts Ebiten's [-1, 1] float axis reading to the
// [-32768, 32767] integer range pad.Pad's deadzone/remap expects.
func axisToInt16(v float64) int16 {
	if v <= -1 {
		return -32768
	}
	if v >= 1 {
		return 32767
	}
	return int16(v * 32767)
}
