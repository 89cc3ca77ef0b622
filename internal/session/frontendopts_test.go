package session

import (
	"testing"

	"github.com/retrofe/retrofe/internal/video"
	"github.com/retrofe/retrofe/internal/video/shader"
)

func newTestSession() *Session {
	return &Session{
		renderer:           video.NewRenderer(),
		turboMult:          1,
		turboCap:           maxTurbo,
		fastForwardEnabled: true,
	}
}

func TestFrontendOptionsReflectCurrentState(t *testing.T) {
	s := newTestSession()
	s.applyFrontendOption(optScaling, "native")
	s.applyFrontendOption(optSharpness, "smooth")
	s.applyFrontendOption(optFastForward, "off")
	s.applyFrontendOption(optTurboSpeed, "4x")
	s.applyFrontendOption(optShader, "scanlines")

	opts := s.frontendOptions()
	want := map[string]string{
		optScaling:     "native",
		optSharpness:   "smooth",
		optFastForward: "off",
		optTurboSpeed:  "4x",
		optShader:      "scanlines",
	}
	for _, o := range opts {
		if got, ok := want[o.Key]; ok && got != o.Value() {
			t.Errorf("option %s = %q, want %q", o.Key, o.Value(), got)
		}
	}
}

func TestApplyFrontendOptionUnknownKeyReturnsFalse(t *testing.T) {
	s := newTestSession()
	if s.applyFrontendOption("core_variable", "1") {
		t.Fatal("expected applyFrontendOption to report false for a non-reserved key")
	}
}

func TestApplyFrontendOptionTurboCapDemotesMultiplierInRange(t *testing.T) {
	s := newTestSession()
	s.turboMult = 3
	s.applyFrontendOption(optTurboSpeed, "2x")
	if s.turboCap != 2 {
		t.Fatalf("turboCap = %d, want 2", s.turboCap)
	}
	if s.turboMult != 1 {
		t.Fatalf("turboMult = %d, want reset to 1 once it exceeds the new cap", s.turboMult)
	}
}

func TestApplyFrontendOptionShaderSelectsID(t *testing.T) {
	s := newTestSession()
	s.applyFrontendOption(optShader, "lcd")
	if s.shaderID != shader.LCD {
		t.Fatalf("shaderID = %v, want shader.LCD", s.shaderID)
	}
	s.applyFrontendOption(optShader, "none")
	if s.shaderID != shader.None {
		t.Fatalf("shaderID = %v, want shader.None", s.shaderID)
	}
}
