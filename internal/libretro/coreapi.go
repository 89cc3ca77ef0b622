package libretro

// VideoRefreshFunc matches retro_video_refresh_t. data is nil for a
// duplicate-frame signal (spec §4.F "Video refresh"); pitch is in bytes.
type VideoRefreshFunc func(data []byte, width, height, pitch int)

// AudioSampleFunc matches retro_audio_sample_t: one stereo frame.
type AudioSampleFunc func(left, right int16)

// AudioSampleBatchFunc matches retro_audio_sample_batch_t: N interleaved
// stereo int16 frames, returns frames consumed.
type AudioSampleBatchFunc func(frames []int16) uint

// InputPollFunc matches retro_input_poll_t: a one-shot per-tick marker.
type InputPollFunc func()

// InputStateFunc matches retro_input_state_t.
type InputStateFunc func(port, device, index, id uint) int16

// EnvironmentFunc matches retro_environment_t: cmd identifies the
// command (the Env* constants), data is a command-specific payload the
// host type-asserts based on cmd. Returns false for unhandled commands
// (spec: "Unknown commands return false; core must continue").
type EnvironmentFunc func(cmd uint, data any) bool

// CoreAPI is the function-pointer surface resolved from a loaded core's
// dynamic library (spec §3 "Core handle": "function pointers (init,
// deinit, run, reset, serialize, ...)"). Production code binds this to
// the real shared library via purego (see dyncore_unix.go); tests bind it
// to an in-memory fake so the state machine and environment dispatch are
// testable without a real core present.
type CoreAPI interface {
	SetEnvironment(cb EnvironmentFunc)
	SetVideoRefresh(cb VideoRefreshFunc)
	SetAudioSample(cb AudioSampleFunc)
	SetAudioSampleBatch(cb AudioSampleBatchFunc)
	SetInputPoll(cb InputPollFunc)
	SetInputState(cb InputStateFunc)

	Init()
	Deinit()
	APIVersion() uint

	GetSystemInfo() SystemInfo
	GetSystemAVInfo() SystemAVInfo

	SetControllerPortDevice(port, device uint)
	Reset()
	Run()

	SerializeSize() uint
	Serialize(data []byte) bool
	Unserialize(data []byte) bool

	CheatReset()
	CheatSet(index uint, enabled bool, code string)

	LoadGame(game *GameInfo) bool
	UnloadGame()

	GetRegion() Region
	GetMemoryData(id MemoryID) []byte // nil if the core doesn't expose this region
	GetMemorySize(id MemoryID) uint

	// Close releases the dynamic library handle. No-op for fakes.
	Close() error
}
