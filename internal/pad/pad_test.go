package pad

import (
	"testing"
	"time"
)

func poll(p *Pad, now time.Time, pressed ...Button) {
	set := make(map[Button]bool, len(pressed))
	for _, b := range pressed {
		set[b] = true
	}
	p.Poll(now, RawState{Pressed: set})
}

func TestJustPressedFiresOncePerPhysicalPress(t *testing.T) {
	p := New()
	t0 := time.Now()

	poll(p, t0, A)
	if !p.JustPressed(A) {
		t.Fatal("expected JustPressed(A) on first poll with A held")
	}

	poll(p, t0.Add(16*time.Millisecond), A)
	if p.JustPressed(A) {
		t.Fatal("JustPressed(A) should be false on the second poll while still held")
	}
	if !p.IsPressed(A) {
		t.Fatal("IsPressed(A) should remain true while held")
	}

	poll(p, t0.Add(32*time.Millisecond))
	if !p.JustReleased(A) {
		t.Fatal("expected JustReleased(A) once A is no longer in the pressed set")
	}
	if p.IsPressed(A) {
		t.Fatal("IsPressed(A) should be false after release")
	}
}

func TestRepeatFiresAt300ThenEvery100(t *testing.T) {
	p := New()
	t0 := time.Now()

	poll(p, t0, A)
	if p.JustRepeated(A) {
		t.Fatal("must not repeat on the initial press")
	}

	poll(p, t0.Add(250*time.Millisecond), A)
	if p.JustRepeated(A) {
		t.Fatal("must not repeat before 300ms")
	}

	poll(p, t0.Add(300*time.Millisecond), A)
	if !p.JustRepeated(A) {
		t.Fatal("expected repeat at 300ms")
	}

	poll(p, t0.Add(350*time.Millisecond), A)
	if p.JustRepeated(A) {
		t.Fatal("must not repeat again before the next 100ms interval")
	}

	poll(p, t0.Add(400*time.Millisecond), A)
	if !p.JustRepeated(A) {
		t.Fatal("expected second repeat 100ms after the first")
	}
}

func TestTappedMenuWithinWindow(t *testing.T) {
	p := New()
	t0 := time.Now()

	poll(p, t0, Menu)
	poll(p, t0.Add(100*time.Millisecond)) // release
	if !p.TappedMenu() {
		t.Fatal("expected TappedMenu() true for a press-release within 300ms")
	}
}

func TestTappedMenuFalseWhenHeldTooLong(t *testing.T) {
	p := New()
	t0 := time.Now()

	poll(p, t0, Menu)
	poll(p, t0.Add(400*time.Millisecond)) // release after 400ms
	if p.TappedMenu() {
		t.Fatal("TappedMenu() should be false when held past 300ms")
	}
}

func TestTappedMenuFalseWhenOtherButtonTouched(t *testing.T) {
	p := New()
	t0 := time.Now()

	poll(p, t0, Menu)
	poll(p, t0.Add(50*time.Millisecond), Menu, VolUp) // VolUp touched during hold
	poll(p, t0.Add(100*time.Millisecond))             // release both
	if p.TappedMenu() {
		t.Fatal("TappedMenu() should be false once another button was touched during the hold")
	}
}

func TestTappedMenuClearsNextPoll(t *testing.T) {
	p := New()
	t0 := time.Now()

	poll(p, t0, Menu)
	poll(p, t0.Add(100*time.Millisecond))
	if !p.TappedMenu() {
		t.Fatal("expected tap on the release poll")
	}
	poll(p, t0.Add(116*time.Millisecond))
	if p.TappedMenu() {
		t.Fatal("TappedMenu() must clear on the next poll")
	}
}

func TestDeadzoneClampsSmallValues(t *testing.T) {
	p := New()
	p.Poll(time.Now(), RawState{LeftX: 3000, LeftY: -3000}) // well under 30% of 32767
	x, y := p.LeftStick()
	if x != 0 || y != 0 {
		t.Fatalf("LeftStick() = (%d,%d), want (0,0) inside deadzone", x, y)
	}
}

func TestDeadzoneRemapsAboveThresholdToFullRange(t *testing.T) {
	p := New()
	p.Poll(time.Now(), RawState{LeftX: axisMax, LeftY: axisMin})
	x, y := p.LeftStick()
	if x != axisMax {
		t.Fatalf("LeftStick().x = %d, want %d at full deflection", x, axisMax)
	}
	if y != axisMin {
		t.Fatalf("LeftStick().y = %d, want %d at full deflection", y, axisMin)
	}
}

func TestDPadOpposingCancels(t *testing.T) {
	p := New()
	poll(p, time.Now(), Left, Right, Up)
	dx, dy := p.DPad()
	if dx != 0 {
		t.Fatalf("dx = %d, want 0 (Left+Right cancel)", dx)
	}
	if dy != -1 {
		t.Fatalf("dy = %d, want -1 (Up alone)", dy)
	}
}
