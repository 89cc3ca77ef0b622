package libretro

import (
	"testing"

	"github.com/retrofe/retrofe/internal/frontend"
)

func newTestHost() (*Host, *fakeCore) {
	var core *fakeCore
	h := NewHost(func(path string) (CoreAPI, error) {
		c, _ := newFakeCore(path)
		core = c.(*fakeCore)
		return c, nil
	}, "/system", "/saves", Sinks{})
	return h, core
}

func TestHostLifecycleHappyPath(t *testing.T) {
	h, core := newTestHost()

	if got := h.State(); got != StateUnloaded {
		t.Fatalf("initial state = %v, want Unloaded", got)
	}
	if err := h.Load("core.so"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !core.initCalled {
		t.Fatal("Load did not call core.Init")
	}
	if h.State() != StateLoaded {
		t.Fatalf("state after Load = %v, want Loaded", h.State())
	}

	if err := h.LoadGame("game.bin", []byte{1, 2, 3}); err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if h.State() != StateGameLoaded {
		t.Fatalf("state after LoadGame = %v, want GameLoaded", h.State())
	}
	if h.AVInfo().Geometry.BaseWidth != 256 {
		t.Fatalf("AVInfo not captured from core: %+v", h.AVInfo())
	}

	if err := h.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h.State() != StateRunning {
		t.Fatalf("state after Start = %v, want Running", h.State())
	}

	if err := h.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if core.runCalls != 1 {
		t.Fatalf("runCalls = %d, want 1", core.runCalls)
	}

	if err := h.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if h.State() != StatePaused {
		t.Fatalf("state after Pause = %v, want Paused", h.State())
	}
	if err := h.Tick(); err == nil {
		t.Fatal("Tick while Paused should fail")
	}

	if err := h.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if h.State() != StateRunning {
		t.Fatalf("state after Resume = %v, want Running", h.State())
	}

	if err := h.UnloadGame(); err != nil {
		t.Fatalf("UnloadGame: %v", err)
	}
	if h.State() != StateLoaded {
		t.Fatalf("state after UnloadGame = %v, want Loaded", h.State())
	}

	if err := h.Unload(); err != nil {
		t.Fatalf("Unload: %v", err)
	}
	if !core.deinitCalled || !core.closed {
		t.Fatal("Unload did not deinit/close the core")
	}
	if h.State() != StateUnloaded {
		t.Fatalf("state after Unload = %v, want Unloaded", h.State())
	}
}

func TestHostInvalidTransitions(t *testing.T) {
	h, _ := newTestHost()

	if err := h.LoadGame("game.bin", nil); err == nil {
		t.Fatal("LoadGame before Load should fail")
	}
	if err := h.Start(); err == nil {
		t.Fatal("Start before LoadGame should fail")
	}
	if err := h.Tick(); err == nil {
		t.Fatal("Tick before Start should fail")
	}

	if err := h.Load("core.so"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := h.Load("core.so"); err == nil {
		t.Fatal("double Load should fail")
	}
}

func TestEnvironmentSetAndGetVariable(t *testing.T) {
	h, _ := newTestHost()
	if err := h.Load("core.so"); err != nil {
		t.Fatalf("Load: %v", err)
	}

	ok := h.environment(EnvSetVariables, []VariableSchema{
		{Key: "fake_aspect", DisplayValue: "Aspect Ratio; 4:3|16:9"},
	})
	if !ok {
		t.Fatal("EnvSetVariables returned false")
	}
	opts := h.Options()
	if len(opts) != 1 || opts[0].Key != "fake_aspect" {
		t.Fatalf("options = %+v", opts)
	}
	if opts[0].DisplayName != "Aspect Ratio" {
		t.Fatalf("display name = %q", opts[0].DisplayName)
	}
	if got := opts[0].Value(); got != "4:3" {
		t.Fatalf("default value = %q, want 4:3", got)
	}

	kv := &struct {
		Key   string
		Value string
	}{Key: "fake_aspect"}
	if !h.environment(EnvGetVariable, kv) {
		t.Fatal("EnvGetVariable returned false")
	}
	if kv.Value != "4:3" {
		t.Fatalf("EnvGetVariable value = %q, want 4:3", kv.Value)
	}

	h.ApplyOption("fake_aspect", "16:9")
	var dirty bool
	if !h.environment(EnvGetVariableUpdate, &dirty) {
		t.Fatal("EnvGetVariableUpdate returned false")
	}
	if !dirty {
		t.Fatal("expected dirty=true after ApplyOption")
	}
	// A second read must report clean, matching RETRO_ENVIRONMENT_GET_VARIABLE_UPDATE
	// semantics (one-shot edge, not a level).
	dirty = true
	if !h.environment(EnvGetVariableUpdate, &dirty) {
		t.Fatal("EnvGetVariableUpdate (2nd) returned false")
	}
	if dirty {
		t.Fatal("expected dirty=false on second read")
	}
}

func TestEnvironmentSetPixelFormatAndShutdown(t *testing.T) {
	h, _ := newTestHost()
	if err := h.Load("core.so"); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !h.environment(EnvSetPixelFormat, PixelFormatXRGB8888) {
		t.Fatal("EnvSetPixelFormat returned false")
	}
	if h.PixelFormat() != PixelFormatXRGB8888 {
		t.Fatalf("pixel format = %v, want XRGB8888", h.PixelFormat())
	}

	shutdownCalled := false
	h.sinks.Shutdown = func() { shutdownCalled = true }
	if !h.environment(EnvShutdown, nil) {
		t.Fatal("EnvShutdown returned false")
	}
	if !shutdownCalled {
		t.Fatal("EnvShutdown did not invoke sinks.Shutdown")
	}
}

func TestEnvironmentUnknownCommandReturnsFalse(t *testing.T) {
	h, _ := newTestHost()
	if h.environment(9999, nil) {
		t.Fatal("unknown environment command must return false")
	}
}

func TestSaveLoadStateSizeMismatch(t *testing.T) {
	h, core := newTestHost()
	if err := h.Load("core.so"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := h.LoadGame("game.bin", nil); err != nil {
		t.Fatalf("LoadGame: %v", err)
	}

	buf, err := h.SaveStateBytes()
	if err != nil {
		t.Fatalf("SaveStateBytes: %v", err)
	}
	if uint(len(buf)) != core.size {
		t.Fatalf("save buffer len = %d, want %d", len(buf), core.size)
	}

	if err := h.LoadStateBytes(buf); err != nil {
		t.Fatalf("LoadStateBytes: %v", err)
	}

	short := buf[:len(buf)-1]
	err = h.LoadStateBytes(short)
	if err == nil {
		t.Fatal("LoadStateBytes with wrong size should fail")
	}
	fe, ok := err.(*frontend.Error)
	if !ok {
		t.Fatalf("error type = %T, want *frontend.Error", err)
	}
	if fe.Kind != frontend.KindStateSize {
		t.Fatalf("error kind = %v, want KindStateSize", fe.Kind)
	}
}

func TestSetCheatAppliesThroughCore(t *testing.T) {
	h, core := newTestHost()
	if err := h.Load("core.so"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	h.SetCheat(Cheat{Index: 0, Code: "ABCD-EFGH", Enabled: true})
	if len(core.cheats) != 1 || core.cheats[0].Code != "ABCD-EFGH" {
		t.Fatalf("cheats = %+v", core.cheats)
	}
	h.ResetCheats()
}
