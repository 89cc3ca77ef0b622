package session

import (
	"testing"
	"time"

	"github.com/retrofe/retrofe/internal/pad"
)

func TestAverageAudioFoldsMultipleFrames(t *testing.T) {
	// Two stereo frames: [L0 R0 L1 R1] folded 2x should average pairwise.
	combined := []int16{100, 200, 300, 400}
	got := averageAudio(combined, 2)
	want := []int16{200, 300}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("out[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestAverageAudioPassthroughWhenNotFolding(t *testing.T) {
	combined := []int16{1, 2, 3, 4}
	got := averageAudio(combined, 1)
	if len(got) != 4 {
		t.Fatalf("expected passthrough, got %v", got)
	}
}

func TestAverageAudioEmptyInput(t *testing.T) {
	if got := averageAudio(nil, 3); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestHandleTurboHotkeyCyclesOffTo2xTo3xToOff(t *testing.T) {
	s := &Session{pd: pad.New(), turboMult: 1, turboCap: maxTurbo, fastForwardEnabled: true}

	press := func(buttons ...pad.Button) {
		pressed := make(map[pad.Button]bool)
		for _, b := range buttons {
			pressed[b] = true
		}
		s.pd.Poll(time.Now(), pad.RawState{Pressed: pressed})
		s.handleTurboHotkey()
	}
	release := func() {
		s.pd.Poll(time.Now(), pad.RawState{})
	}

	press(pad.L2, pad.R2)
	if s.turboMult != 2 {
		t.Fatalf("after first chord, turboMult = %d, want 2", s.turboMult)
	}
	release()

	press(pad.L2, pad.R2)
	if s.turboMult != 3 {
		t.Fatalf("after second chord, turboMult = %d, want 3", s.turboMult)
	}
	release()

	press(pad.L2, pad.R2)
	if s.turboMult != 1 {
		t.Fatalf("after third chord, turboMult = %d, want 1 (wrapped)", s.turboMult)
	}
}

func TestHandleTurboHotkeyDisabledWhenFastForwardOff(t *testing.T) {
	s := &Session{pd: pad.New(), turboMult: 1, turboCap: maxTurbo, fastForwardEnabled: false}
	s.pd.Poll(time.Now(), pad.RawState{Pressed: map[pad.Button]bool{pad.L2: true, pad.R2: true}})
	s.handleTurboHotkey()
	if s.turboMult != 1 {
		t.Fatalf("turboMult = %d, want 1 (fast-forward disabled)", s.turboMult)
	}
}
