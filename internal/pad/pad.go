// Package pad implements component C: repeat, analog deadzone remap,
// Menu tap detection, and edge-triggered (justPressed/justReleased)
// queries over the abstract button set the platform layer (component A)
// reports raw presses for. Edges come straight from each poll's raw
// state; there is no debounce filtering. It holds no dependency on any input backend — the
// platform abstraction is the only thing that talks to ebiten's
// keyboard/gamepad APIs (spec §4.A "Button codes are remapped from raw
// scancodes/axes into abstract buttons").
package pad

import "time"

// Button identifies one of the frontend's abstract buttons (spec §4.A
// "abstract buttons (A, B, X, Y, L1, R1, L2, R2, L3, R3, D-pad, Start,
// Select, Menu, Power, Vol+/-)").
type Button int

const (
	Up Button = iota
	Down
	Left
	Right
	A
	B
	X
	Y
	L1
	R1
	L2
	R2
	L3
	R3
	Start
	Select
	Menu
	Power
	VolUp
	VolDown

	buttonCount
)

const (
	repeatDelay    = 300 * time.Millisecond
	repeatInterval = 100 * time.Millisecond
	tapWindow      = 300 * time.Millisecond

	// deadzone is ~30% of the analog axis range (spec §4.C).
	deadzoneRatio = 0.30
	axisMax       = 32767
	axisMin       = -32768
)

// RawState is what the platform abstraction hands to Poll once per tick:
// the raw pressed set and the raw (pre-deadzone) analog axis readings,
// already in [-32768, 32767] range.
type RawState struct {
	Pressed              map[Button]bool
	LeftX, LeftY         int16
	RightX, RightY       int16
}

type buttonState struct {
	down         bool
	justPressed  bool
	justReleased bool
	justRepeated bool
	pressedAt    time.Time
	nextRepeat   time.Time
}

// Pad tracks abstract button and analog stick state across poll cycles
// (spec §3 "Pad state").
type Pad struct {
	buttons [buttonCount]buttonState
	leftX, leftY   int16
	rightX, rightY int16

	menuPressedAt time.Time
	menuDown      bool
	menuTainted   bool // some other button was touched during the Menu hold
	tapped        bool
}

// New creates an idle Pad.
func New() *Pad {
	return &Pad{}
}

// Poll ingests one tick's raw input batch, updates button state, and
// computes the edge flags (justPressed/justReleased/justRepeated) and
// tappedMenu for this cycle only -- they are cleared on the next Poll
// (spec §4.C "Edge flags are cleared on the next poll").
func (p *Pad) Poll(now time.Time, raw RawState) {
	p.tapped = false

	for b := Button(0); b < buttonCount; b++ {
		st := &p.buttons[b]
		st.justPressed = false
		st.justReleased = false
		st.justRepeated = false

		wasDown := st.down
		isDown := raw.Pressed[b]

		switch {
		case isDown && !wasDown:
			st.down = true
			st.justPressed = true
			st.pressedAt = now
			st.nextRepeat = now.Add(repeatDelay)
		case isDown && wasDown:
			if !now.Before(st.nextRepeat) {
				st.justRepeated = true
				st.nextRepeat = st.nextRepeat.Add(repeatInterval)
			}
		case !isDown && wasDown:
			st.down = false
			st.justReleased = true
		}

		if b != Menu && st.justPressed && p.menuDown {
			p.menuTainted = true
		}
	}

	p.leftX, p.leftY = applyDeadzone(raw.LeftX, raw.LeftY)
	p.rightX, p.rightY = applyDeadzone(raw.RightX, raw.RightY)

	p.pollMenuTap(now)
}

// pollMenuTap implements "Menu tap detection" (spec §4.C): tappedMenu is
// true iff Menu was pressed and released within 300ms with no other
// button touched in between.
func (p *Pad) pollMenuTap(now time.Time) {
	menu := &p.buttons[Menu]
	if menu.justPressed {
		p.menuDown = true
		p.menuTainted = false
		p.menuPressedAt = now
		return
	}
	if menu.justReleased {
		held := now.Sub(p.menuPressedAt)
		if p.menuDown && !p.menuTainted && held <= tapWindow {
			p.tapped = true
		}
		p.menuDown = false
		p.menuTainted = false
	}
}

// IsPressed reports whether b is currently held.
func (p *Pad) IsPressed(b Button) bool { return p.buttons[b].down }

// JustPressed reports whether b transitioned from up to down this poll.
func (p *Pad) JustPressed(b Button) bool { return p.buttons[b].justPressed }

// JustReleased reports whether b transitioned from down to up this poll.
func (p *Pad) JustReleased(b Button) bool { return p.buttons[b].justReleased }

// JustRepeated reports whether b's hold-repeat fired this poll (300ms
// initial delay, then every 100ms).
func (p *Pad) JustRepeated(b Button) bool { return p.buttons[b].justRepeated }

// TappedMenu reports whether Menu was pressed and released within the
// 300ms tap window with no other button touched (spec §4.C).
func (p *Pad) TappedMenu() bool { return p.tapped }

// LeftStick returns the deadzone-applied left stick axes.
func (p *Pad) LeftStick() (x, y int16) { return p.leftX, p.leftY }

// RightStick returns the deadzone-applied right stick axes.
func (p *Pad) RightStick() (x, y int16) { return p.rightX, p.rightY }

func applyDeadzone(x, y int16) (int16, int16) {
	return remapAxis(x), remapAxis(y)
}

func remapAxis(v int16) int16 {
	ratio := deadzoneRatio
	threshold := int32(axisMax * ratio)
	vv := int32(v)
	if vv > -threshold && vv < threshold {
		return 0
	}
	if vv > 0 {
		scaled := (vv - threshold) * axisMax / (axisMax - threshold)
		if scaled > axisMax {
			scaled = axisMax
		}
		return int16(scaled)
	}
	scaled := (vv + threshold) * -axisMin / (-axisMin - threshold)
	if scaled < axisMin {
		scaled = axisMin
	}
	return int16(scaled)
}

// DPad returns the net digital direction after cancelling opposing
// presses (spec §4.C "Opposing D-pad directions cancel"): dx/dy are each
// -1, 0, or 1.
func (p *Pad) DPad() (dx, dy int) {
	if p.buttons[Left].down && !p.buttons[Right].down {
		dx = -1
	} else if p.buttons[Right].down && !p.buttons[Left].down {
		dx = 1
	}
	if p.buttons[Up].down && !p.buttons[Down].down {
		dy = -1
	} else if p.buttons[Down].down && !p.buttons[Up].down {
		dy = 1
	}
	return dx, dy
}
