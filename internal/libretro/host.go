package libretro

import (
	"fmt"
	"sync"

	"github.com/retrofe/retrofe/internal/frontend"
)

// State is the host's lifecycle state (spec §4.F lifecycle state
// machine): Unloaded -> Loaded -> GameLoaded -> Running <-> Paused ->
// GameUnloaded -> Unloaded.
type State int

const (
	StateUnloaded State = iota
	StateLoaded
	StateGameLoaded
	StateRunning
	StatePaused
	StateGameUnloaded
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "Unloaded"
	case StateLoaded:
		return "Loaded"
	case StateGameLoaded:
		return "GameLoaded"
	case StateRunning:
		return "Running"
	case StatePaused:
		return "Paused"
	case StateGameUnloaded:
		return "GameUnloaded"
	default:
		return "Invalid"
	}
}

// VideoFrame is handed to the host's video sink once per non-duplicate
// Video refresh callback (spec §3 "Video frame"). The pointer backing
// Data is only valid for the duration of the call — sinks must copy.
type VideoFrame struct {
	Data   []byte
	Width  int
	Height int
	Pitch  int
	Format PixelFormat
}

// Sinks wires the host's callback outputs to the rest of the runtime
// (video presenter, audio ring, pad). Set once at construction time; the
// host never changes which function it calls per pixel or per sample
// (Design Notes: "never re-dispatched per pixel").
type Sinks struct {
	Video      func(VideoFrame)
	Audio      func(frames []int16) // interleaved stereo
	PollInput  func()
	InputState func(port, device, index, id uint) int16
	Log        func(format string, args ...any)
	Shutdown   func() // invoked when the core requests RETRO_ENVIRONMENT_SHUTDOWN
}

// NewCoreFunc constructs a CoreAPI bound to the dynamic library at path.
// Production code passes NewDynCore (dyncore_unix.go); tests pass a fake.
type NewCoreFunc func(path string) (CoreAPI, error)

// Host owns exactly one loaded core at a time (spec §3 invariant: "exactly
// one at a time"). It is not safe for concurrent use — every method must
// be called from the single main thread per spec §5.
type Host struct {
	mu sync.Mutex // guards state only; callbacks run synchronously within Run()

	state   State
	newCore NewCoreFunc
	core    CoreAPI
	sinks   Sinks

	sysInfo     SystemInfo
	avInfo      SystemAVInfo
	pixelFormat PixelFormat

	options       []Option
	optionsDirty  bool
	cheats        []Cheat
	memDescs      []MemoryDescriptor
	supportNoGame bool

	systemDir string
	saveDir   string

	serializeSize uint
}

// NewHost creates a host that will use newCore to load the dynamic
// library. systemDir/saveDir are surfaced to the core via
// GET_SYSTEM_DIRECTORY / GET_SAVE_DIRECTORY (spec §4.F, path discipline
// §3).
func NewHost(newCore NewCoreFunc, systemDir, saveDir string, sinks Sinks) *Host {
	if sinks.Log == nil {
		sinks.Log = func(string, ...any) {}
	}
	return &Host{
		newCore:     newCore,
		sinks:       sinks,
		systemDir:   systemDir,
		saveDir:     saveDir,
		pixelFormat: PixelFormatRGB15,
	}
}

// State returns the current lifecycle state.
func (h *Host) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *Host) transitionErr(op string, want State) error {
	return frontend.Wrap(frontend.KindHostState, op,
		fmt.Errorf("invalid transition from %s (need %s)", h.state, want))
}

// Load opens the core's dynamic library and wires the environment and
// A/V callbacks. Must be called from StateUnloaded.
func (h *Host) Load(corePath string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateUnloaded {
		return h.transitionErr("load", StateUnloaded)
	}

	core, err := h.newCore(corePath)
	if err != nil {
		return frontend.Wrap(frontend.KindCoreLoad, "load", err)
	}

	core.SetEnvironment(h.environment)
	core.SetVideoRefresh(h.videoRefresh)
	core.SetAudioSample(h.audioSample)
	core.SetAudioSampleBatch(h.audioSampleBatch)
	core.SetInputPoll(func() {
		if h.sinks.PollInput != nil {
			h.sinks.PollInput()
		}
	})
	core.SetInputState(func(port, device, index, id uint) int16 {
		if h.sinks.InputState != nil {
			return h.sinks.InputState(port, device, index, id)
		}
		return 0
	})

	core.Init()
	h.sysInfo = core.GetSystemInfo()
	h.core = core
	h.state = StateLoaded
	return nil
}

// LoadGame loads game content (or calls with nil data if supportNoGame is
// set and the caller has no ROM). Must be called from StateLoaded.
func (h *Host) LoadGame(path string, data []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateLoaded {
		return h.transitionErr("load_game", StateLoaded)
	}

	info := &GameInfo{Path: path, Data: data}
	if !h.core.LoadGame(info) {
		return frontend.Wrap(frontend.KindGameLoad, "load_game", fmt.Errorf("core rejected content %q", path))
	}

	h.avInfo = h.core.GetSystemAVInfo()
	h.serializeSize = h.core.SerializeSize()
	h.state = StateGameLoaded
	return nil
}

// Start transitions GameLoaded -> Running. The first tick may only run
// after Start.
func (h *Host) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateGameLoaded && h.state != StatePaused {
		return h.transitionErr("start", StateGameLoaded)
	}
	h.state = StateRunning
	return nil
}

// Pause transitions Running -> Paused (spec §4.H menu entry). While
// Paused, Tick must not be called.
func (h *Host) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateRunning {
		return h.transitionErr("pause", StateRunning)
	}
	h.state = StatePaused
	return nil
}

// Resume transitions Paused -> Running.
func (h *Host) Resume() error {
	return h.Start()
}

// SystemInfo returns the core's static system info resolved at Load
// time (valid extensions, full-path requirement), used by the ROM
// loader to decide how to hand content to LoadGame.
func (h *Host) SystemInfo() SystemInfo { return h.sysInfo }

// AVInfo returns the system AV info resolved after LoadGame.
func (h *Host) AVInfo() SystemAVInfo { return h.avInfo }

// PixelFormat returns the negotiated pixel format.
func (h *Host) PixelFormat() PixelFormat { return h.pixelFormat }

// Options returns a read-only snapshot of the core's option schema merged
// with any overrides applied via ApplyOption.
func (h *Host) Options() []Option {
	out := make([]Option, len(h.options))
	copy(out, h.options)
	return out
}

// MemoryDescriptors returns the core's declared memory map (spec §3
// "memory descriptors").
func (h *Host) MemoryDescriptors() []MemoryDescriptor {
	out := make([]MemoryDescriptor, len(h.memDescs))
	copy(out, h.memDescs)
	return out
}

// ApplyOption sets the selected value for a core option by key (used by
// the config cascade on boot and by the menu's Options screen). Locked
// options are silently rejected — the menu is expected to check Locked
// before calling this (spec §4.B "locked flag").
func (h *Host) ApplyOption(key, value string) {
	for i := range h.options {
		if h.options[i].Key != key || h.options[i].Locked {
			continue
		}
		for vi, v := range h.options[i].Values {
			if v == value {
				h.options[i].Selected = vi
				h.options[i].Dirty = true
				h.optionsDirty = true
				return
			}
		}
	}
}

// Tick invokes core.Run() exactly once (spec §4.F "Run tick"). Must be
// called only from StateRunning. Any panic from inside the core's run
// (the Design Notes' "longjmp/abort" black-box concern translated to Go
// as a recovered panic) is converted into a Timing-class error, a kind
// Kind.Fatal reports as non-fatal, rather than crashing the process.
func (h *Host) Tick() (err error) {
	h.mu.Lock()
	state := h.state
	h.mu.Unlock()
	if state != StateRunning {
		return h.transitionErr("tick", StateRunning)
	}

	defer func() {
		if r := recover(); r != nil {
			err = frontend.Wrap(frontend.KindTiming, "tick", fmt.Errorf("core run panicked: %v", r))
		}
	}()

	h.core.Run()
	return nil
}

// Reset resets the loaded game in place.
func (h *Host) Reset() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateRunning && h.state != StatePaused {
		return h.transitionErr("reset", StateRunning)
	}
	h.core.Reset()
	return nil
}

// UnloadGame transitions to GameUnloaded then Loaded, releasing the
// current content but keeping the dynamic library mapped.
func (h *Host) UnloadGame() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch h.state {
	case StateGameLoaded, StateRunning, StatePaused:
	default:
		return h.transitionErr("unload_game", StateRunning)
	}
	h.core.UnloadGame()
	h.state = StateGameUnloaded
	h.options = nil
	h.memDescs = nil
	h.state = StateLoaded
	return nil
}

// Unload tears down the dynamic library. Must be called from Loaded (or
// GameUnloaded, which is equivalent for this purpose).
func (h *Host) Unload() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateLoaded && h.state != StateGameUnloaded {
		return h.transitionErr("unload", StateLoaded)
	}
	h.core.Deinit()
	if err := h.core.Close(); err != nil {
		h.sinks.Log("libretro: close core library: %v", err)
	}
	h.core = nil
	h.state = StateUnloaded
	return nil
}

// SerializeSize requeries the core's serialize size. Per the Open
// Questions decision (§13), this is never cached across a save — some
// cores legitimately shrink it between sessions.
func (h *Host) SerializeSize() uint {
	if h.core == nil {
		return 0
	}
	return h.core.SerializeSize()
}

// SaveStateBytes serializes the core's complete runtime state into a
// freshly sized buffer (spec §4.F "Save/load state").
func (h *Host) SaveStateBytes() ([]byte, error) {
	size := h.SerializeSize()
	buf := make([]byte, size)
	if !h.core.Serialize(buf) {
		return nil, frontend.Wrap(frontend.KindIO, "serialize", fmt.Errorf("core refused to serialize"))
	}
	return buf, nil
}

// LoadStateBytes restores state previously produced by SaveStateBytes.
// A size mismatch is reported as KindStateSize per spec §7.
func (h *Host) LoadStateBytes(data []byte) error {
	expected := h.SerializeSize()
	if uint(len(data)) != expected {
		return frontend.Wrap(frontend.KindStateSize, "unserialize",
			fmt.Errorf("buffer is %d bytes, core expects %d", len(data), expected))
	}
	if !h.core.Unserialize(data) {
		return frontend.Wrap(frontend.KindStateSize, "unserialize", fmt.Errorf("core refused to unserialize"))
	}
	return nil
}

// MemoryRegion returns a live view of a memory region exposed by the
// core (spec §3 "SRAM / RTC"), or nil if the core doesn't expose it.
func (h *Host) MemoryRegion(id MemoryID) []byte {
	if h.core == nil {
		return nil
	}
	return h.core.GetMemoryData(id)
}

// SetCheat applies or clears a single cheat via the core's cheat API
// (spec §3 "Cheat", applied "on core load and on toggle").
func (h *Host) SetCheat(c Cheat) {
	h.core.CheatSet(uint(c.Index), c.Enabled, c.Code)
}

// ResetCheats clears all cheats.
func (h *Host) ResetCheats() {
	h.core.CheatReset()
}
