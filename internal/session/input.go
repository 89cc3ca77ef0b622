package session

import (
	"time"

	"github.com/retrofe/retrofe/internal/frontend"
	"github.com/retrofe/retrofe/internal/libretro"
	"github.com/retrofe/retrofe/internal/menu"
	"github.com/retrofe/retrofe/internal/pad"
	"github.com/retrofe/retrofe/internal/persistence"
	"github.com/retrofe/retrofe/internal/platform"
)

// joypadIDs maps libretro's RETRO_DEVICE_ID_JOYPAD_* ids to this
// frontend's abstract Button set (spec §4.A "Button codes are remapped
// from raw scancodes/axes into abstract buttons", here read back out in
// the other direction for the core's input_state query).
var joypadIDs = map[int]pad.Button{
	libretro.JoypadUp:     pad.Up,
	libretro.JoypadDown:   pad.Down,
	libretro.JoypadLeft:   pad.Left,
	libretro.JoypadRight:  pad.Right,
	libretro.JoypadA:      pad.A,
	libretro.JoypadB:      pad.B,
	libretro.JoypadX:      pad.X,
	libretro.JoypadY:      pad.Y,
	libretro.JoypadL:      pad.L1,
	libretro.JoypadR:      pad.R1,
	libretro.JoypadL2:     pad.L2,
	libretro.JoypadR2:     pad.R2,
	libretro.JoypadL3:     pad.L3,
	libretro.JoypadR3:     pad.R3,
	libretro.JoypadStart:  pad.Start,
	libretro.JoypadSelect: pad.Select,
}

// onInputState answers the core's input_state_cb. Port 0 is the only
// port this frontend drives; every other port reports no input, since
// the platform abstraction exposes a single player's worth of buttons
// (spec §4.A's fixed abstract button set has no multi-pad concept).
func (s *Session) onInputState(port, device, index, id uint) int16 {
	if port != 0 || device != libretro.DeviceJoypad {
		return 0
	}
	b, ok := joypadIDs[int(id)]
	if !ok {
		return 0
	}
	if s.pd.IsPressed(b) {
		return 1
	}
	return 0
}

// updateGameplay handles the Running-state input: the Menu tap opens
// the pause menu, otherwise hotkeys are resolved and the core is
// ticked turboMult times per spec's fast-forward folding (§12
// supplemented feature, grounded on the teacher's turbo.go).
func (s *Session) updateGameplay() {
	if s.pd.TappedMenu() {
		s.openMenu()
		return
	}

	s.handleTurboHotkey()
	s.handleSaveStateHotkeys()
	s.handleRewindHold()

	if s.rewind != nil && s.rewind.IsRewinding() {
		return
	}

	n := s.turboMult
	if n < 1 {
		n = 1
	}

	s.turboFolding = n > 1
	s.turboAccum = s.turboAccum[:0]

	tickStart := platform.Now()
	for i := 0; i < n; i++ {
		if s.rewind != nil {
			s.rewind.Capture(s.host.SaveStateBytes)
		}
		if err := s.host.Tick(); err != nil {
			s.tickErr = err
			s.turboFolding = false
			if fe, ok := err.(*frontend.Error); ok && fe.Kind.Fatal() {
				s.quit = true
				s.exitCode = frontend.ExitCode(err)
			}
			return
		}
	}
	s.noteTickDeadline(platform.Now().Sub(tickStart), n)

	s.turboFolding = false
	if n > 1 && s.audio != nil {
		s.audio.PushFrames(averageAudio(s.turboAccum, n))
	}
}

// noteTickDeadline feeds the renderer's overload detector with whether
// the n ticks just run met their combined pacing budget (spec §4.E/§7
// "consecutive drops -> overload log -> reduce tick rate").
func (s *Session) noteTickDeadline(elapsed time.Duration, n int) {
	if s.tickBudget <= 0 {
		return
	}
	budget := s.tickBudget * time.Duration(n)
	if elapsed > budget {
		s.renderer.NoteFrameDropped(overloadThreshold)
	} else {
		s.renderer.NoteFrameOnTime()
	}
}

// handleTurboHotkey cycles Off -> 2x -> ... -> turboCap -> Off on L2+R2
// held together via a just-pressed edge on whichever completes the chord
// (mirrors the teacher's single-key cycle in turbo.go, adapted to this
// frontend's fixed button set which has no dedicated "turbo" key). Disabled
// entirely when the fast-forward frontend option is off.
func (s *Session) handleTurboHotkey() {
	if !s.fastForwardEnabled {
		return
	}
	if s.pd.JustPressed(pad.L2) && s.pd.IsPressed(pad.R2) ||
		s.pd.JustPressed(pad.R2) && s.pd.IsPressed(pad.L2) {
		s.turboMult++
		if s.turboMult > s.turboCap {
			s.turboMult = 1
		}
	}
}

func (s *Session) handleSaveStateHotkeys() {
	if s.pd.JustPressed(pad.L1) && s.pd.IsPressed(pad.Select) {
		data, err := s.host.SaveStateBytes()
		if err == nil {
			s.stateStore.SaveState(persistence.AutoSlot, data)
		}
	}
	if s.pd.JustPressed(pad.R1) && s.pd.IsPressed(pad.Select) {
		if data, err := s.stateStore.LoadState(persistence.AutoSlot); err == nil {
			s.host.LoadStateBytes(data)
		}
	}
}

// handleRewindHold starts/stops rewind while L2 is held, stepping
// backwards one state per tick. The hold-duration acceleration curve
// (persistence.ItemsForHoldDuration) is not applied here.
func (s *Session) handleRewindHold() {
	if s.rewind == nil {
		return
	}
	if s.pd.IsPressed(pad.L2) && !s.pd.IsPressed(pad.R2) {
		if !s.rewind.IsRewinding() {
			s.rewind.SetRewinding(true)
			if s.audio != nil {
				s.audio.Clear()
			}
		}
		s.rewind.Rewind(1, func(data []byte) error { return s.host.LoadStateBytes(data) })
	} else if s.rewind.IsRewinding() {
		s.rewind.SetRewinding(false)
	}
}

func (s *Session) openMenu() {
	s.host.Pause()
	s.flushMemoryRegions()
	opts := append([]libretro.Option{}, s.frontendOptions()...)
	opts = append(opts, s.host.Options()...)
	snap := menu.Snapshot{
		Options:     opts,
		Cheats:      s.cheats,
		CurrentDisc: s.currentDisc,
	}
	for i := range snap.Slots {
		snap.Slots[i] = menu.SlotInfo{Occupied: s.stateStore.HasState(i)}
	}
	for _, d := range s.discs {
		snap.Discs = append(snap.Discs, d)
	}
	s.m.Open(snap)
}

// updateMenu drives the pure Menu state machine from pad edges and
// applies whatever command list each confirm/back returns.
func (s *Session) updateMenu() {
	switch {
	case s.pd.JustPressed(pad.Up):
		s.m.Navigate(-1)
	case s.pd.JustPressed(pad.Down):
		s.m.Navigate(1)
	case s.pd.JustPressed(pad.A) || s.pd.JustPressed(pad.Start):
		s.applyCommands(s.m.Confirm())
	case s.pd.JustPressed(pad.B) || s.pd.JustPressed(pad.Menu):
		s.applyCommands(s.m.Back())
	}
}
