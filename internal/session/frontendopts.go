package session

import (
	"github.com/retrofe/retrofe/internal/libretro"
	"github.com/retrofe/retrofe/internal/video"
	"github.com/retrofe/retrofe/internal/video/shader"
)

// Reserved option keys the Options screen shows alongside whatever
// variables the core itself declares (spec §4.H: "scaling, sharpness,
// fast-forward toggle, CPU speed"). CmdSetOption on one of these is
// intercepted by applyFrontendOption instead of reaching host.ApplyOption.
const (
	optScaling     = "frontend_scaling"
	optSharpness   = "frontend_sharpness"
	optFastForward = "frontend_fastforward"
	optTurboSpeed  = "frontend_turbo_speed"
	optShader      = "frontend_shader"
)

var (
	scalingChoices   = []string{"aspect", "native", "fullscreen"}
	sharpnessChoices = []string{"sharp", "smooth"}
	toggleChoices    = []string{"on", "off"}
	turboChoices     = []string{"2x", "3x", "4x"}
	shaderChoices    = []string{"none", "scanlines", "lcd"}
)

// frontendOptions builds the synthetic option rows the pause menu's
// Options screen exposes, reusing Menu's existing cycle-and-confirm logic
// unchanged: a libretro.Option is already a generic multiple-choice value,
// nothing about it requires the core to have declared it.
func (s *Session) frontendOptions() []libretro.Option {
	return []libretro.Option{
		{Key: optScaling, DisplayName: "Scaling", Values: scalingChoices, Selected: scalingIndex(s.scalePolicy)},
		{Key: optSharpness, DisplayName: "Sharpness", Values: sharpnessChoices, Selected: boolIndex(!s.sharpBilinear)},
		{Key: optFastForward, DisplayName: "Fast Forward", Values: toggleChoices, Selected: boolIndex(s.fastForwardEnabled)},
		{Key: optTurboSpeed, DisplayName: "Turbo Speed", Values: turboChoices, Selected: turboIndex(s.turboCap)},
		{Key: optShader, DisplayName: "Shader", Values: shaderChoices, Selected: shaderIndex(s.shaderID)},
	}
}

func scalingIndex(p video.ScalePolicy) int {
	switch p {
	case video.ScaleNative:
		return 1
	case video.ScaleFullscreen:
		return 2
	default:
		return 0
	}
}

func boolIndex(b bool) int {
	if b {
		return 0
	}
	return 1
}

func turboIndex(turboCap int) int {
	idx := turboCap - 2
	if idx < 0 || idx >= len(turboChoices) {
		return 0
	}
	return idx
}

func shaderIndex(id shader.ID) int {
	switch id {
	case shader.Scanlines:
		return 1
	case shader.LCD:
		return 2
	default:
		return 0
	}
}

// applyFrontendOption applies a CmdSetOption whose Key is one of the
// reserved frontend keys. It reports false when key isn't one of them, so
// the caller falls back to forwarding the change to the core.
func (s *Session) applyFrontendOption(key, value string) bool {
	switch key {
	case optScaling:
		switch value {
		case "native":
			s.scalePolicy = video.ScaleNative
		case "fullscreen":
			s.scalePolicy = video.ScaleFullscreen
		default:
			s.scalePolicy = video.ScaleAspect
		}
		s.renderer.SetScalePolicy(s.scalePolicy)

	case optSharpness:
		s.sharpBilinear = value == "smooth"
		s.renderer.SetBilinear(s.sharpBilinear)

	case optFastForward:
		s.fastForwardEnabled = value == "on"

	case optTurboSpeed:
		switch value {
		case "3x":
			s.turboCap = 3
		case "4x":
			s.turboCap = 4
		default:
			s.turboCap = 2
		}
		if s.turboMult > s.turboCap {
			s.turboMult = 1
		}

	case optShader:
		switch value {
		case "scanlines":
			s.shaderID = shader.Scanlines
		case "lcd":
			s.shaderID = shader.LCD
		default:
			s.shaderID = shader.None
		}

	default:
		return false
	}
	return true
}

// applyConfiguredFrontendOptions resolves the frontend-only settings from
// the config cascade at boot, the same way applyConfiguredOptions does
// for core variables.
func (s *Session) applyConfiguredFrontendOptions() {
	s.turboCap = maxTurbo
	s.fastForwardEnabled = true
	for _, key := range []string{optScaling, optSharpness, optTurboSpeed, optShader} {
		if e, ok := s.cascade.Effective(key); ok {
			s.applyFrontendOption(key, e.Value)
		}
	}
	if e, ok := s.cascade.Effective(optFastForward); ok {
		s.fastForwardEnabled = e.Value != "false" && e.Value != "0" && e.Value != "off"
	}
}
