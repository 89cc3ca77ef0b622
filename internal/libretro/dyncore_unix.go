//go:build linux || darwin

package libretro

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
)

// dynCore binds CoreAPI to a dynamically loaded libretro core (.so on
// Linux, .dylib on Darwin) via purego, the same cgo-free dynamic-loading
// mechanism ebitengine itself uses to resolve OpenGL/EGL symbols. This is
// the "load a core, resolve its retro_* symbols" half of spec §4.F; the
// teacher repo only ever implements the other half (being a core).
//
// Exactly one dynCore may be alive at a time (spec §3 invariant). The
// registered callbacks are kept in this instance's fields, and the
// trampolines handed to the C side are closures over the instance.
type dynCore struct {
	handle uintptr

	fnInit             func()
	fnDeinit           func()
	fnAPIVersion       func() uint32
	fnGetSystemInfo    func(info unsafe.Pointer)
	fnGetSystemAVInfo  func(info unsafe.Pointer)
	fnSetControllerPD  func(port, device uint32)
	fnReset            func()
	fnRun              func()
	fnSerializeSize    func() uintptr
	fnSerialize        func(data unsafe.Pointer, size uintptr) byte
	fnUnserialize      func(data unsafe.Pointer, size uintptr) byte
	fnCheatReset       func()
	fnCheatSet         func(index uint32, enabled byte, code string)
	fnLoadGame         func(game unsafe.Pointer) byte
	fnUnloadGame       func()
	fnGetRegion        func() uint32
	fnGetMemoryData    func(id uint32) unsafe.Pointer
	fnGetMemorySize    func(id uint32) uintptr

	fnSetEnvironment func(cb uintptr)
	fnSetVideoRefresh func(cb uintptr)
	fnSetAudioSample  func(cb uintptr)
	fnSetAudioBatch   func(cb uintptr)
	fnSetInputPoll    func(cb uintptr)
	fnSetInputState   func(cb uintptr)

	env        EnvironmentFunc
	video      VideoRefreshFunc
	audio      AudioSampleFunc
	audioBatch AudioSampleBatchFunc
	inputPoll  InputPollFunc
	inputState InputStateFunc

	memStrides map[MemoryID]uintptr
	strPins    map[string][]byte
}

// cRetroSystemInfo mirrors struct retro_system_info. Pointers are to
// const char* owned by the core for the lifetime of the process.
type cRetroSystemInfo struct {
	libraryName     *byte
	libraryVersion  *byte
	validExtensions *byte
	needFullpath    byte
	blockExtract    byte
}

// cRetroGameGeometry mirrors struct retro_game_geometry.
type cRetroGameGeometry struct {
	baseWidth, baseHeight uint32
	maxWidth, maxHeight   uint32
	aspectRatio           float32
}

// cRetroSystemTiming mirrors struct retro_system_timing.
type cRetroSystemTiming struct {
	fps        float64
	sampleRate float64
}

// cRetroSystemAVInfo mirrors struct retro_system_av_info.
type cRetroSystemAVInfo struct {
	geometry cRetroGameGeometry
	timing   cRetroSystemTiming
}

// cRetroGameInfo mirrors struct retro_game_info.
type cRetroGameInfo struct {
	path *byte
	data unsafe.Pointer
	size uintptr
	meta *byte
}

// NewDynCore loads the core at path and resolves every required retro_*
// symbol. It is the NewCoreFunc passed to NewHost in production
// (internal/session/session.go).
func NewDynCore(path string) (CoreAPI, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("dlopen %s: %w", path, err)
	}

	c := &dynCore{handle: handle, memStrides: make(map[MemoryID]uintptr)}

	reg := func(fptr any, name string) {
		purego.RegisterLibFunc(fptr, handle, name)
	}
	reg(&c.fnInit, "retro_init")
	reg(&c.fnDeinit, "retro_deinit")
	reg(&c.fnAPIVersion, "retro_api_version")
	reg(&c.fnGetSystemInfo, "retro_get_system_info")
	reg(&c.fnGetSystemAVInfo, "retro_get_system_av_info")
	reg(&c.fnSetControllerPD, "retro_set_controller_port_device")
	reg(&c.fnReset, "retro_reset")
	reg(&c.fnRun, "retro_run")
	reg(&c.fnSerializeSize, "retro_serialize_size")
	reg(&c.fnSerialize, "retro_serialize")
	reg(&c.fnUnserialize, "retro_unserialize")
	reg(&c.fnCheatReset, "retro_cheat_reset")
	reg(&c.fnCheatSet, "retro_cheat_set")
	reg(&c.fnLoadGame, "retro_load_game")
	reg(&c.fnUnloadGame, "retro_unload_game")
	reg(&c.fnGetRegion, "retro_get_region")
	reg(&c.fnGetMemoryData, "retro_get_memory_data")
	reg(&c.fnGetMemorySize, "retro_get_memory_size")
	reg(&c.fnSetEnvironment, "retro_set_environment")
	reg(&c.fnSetVideoRefresh, "retro_set_video_refresh")
	reg(&c.fnSetAudioSample, "retro_set_audio_sample")
	reg(&c.fnSetAudioBatch, "retro_set_audio_sample_batch")
	reg(&c.fnSetInputPoll, "retro_set_input_poll")
	reg(&c.fnSetInputState, "retro_set_input_state")

	return c, nil
}

func (c *dynCore) SetEnvironment(cb EnvironmentFunc) {
	c.env = cb
	trampoline := purego.NewCallback(func(cmd uint32, data unsafe.Pointer) byte {
		if c.dispatchEnvironment(cmd, data) {
			return 1
		}
		return 0
	})
	c.fnSetEnvironment(trampoline)
}

func (c *dynCore) SetVideoRefresh(cb VideoRefreshFunc) {
	c.video = cb
	trampoline := purego.NewCallback(func(data unsafe.Pointer, width, height uint32, pitch uintptr) {
		var buf []byte
		if data != nil {
			buf = unsafe.Slice((*byte)(data), int(pitch)*int(height))
		}
		c.video(buf, int(width), int(height), int(pitch))
	})
	c.fnSetVideoRefresh(trampoline)
}

func (c *dynCore) SetAudioSample(cb AudioSampleFunc) {
	c.audio = cb
	trampoline := purego.NewCallback(func(left, right int16) {
		c.audio(left, right)
	})
	c.fnSetAudioSample(trampoline)
}

func (c *dynCore) SetAudioSampleBatch(cb AudioSampleBatchFunc) {
	c.audioBatch = cb
	trampoline := purego.NewCallback(func(data unsafe.Pointer, frames uintptr) uintptr {
		samples := unsafe.Slice((*int16)(data), int(frames)*2)
		return uintptr(c.audioBatch(samples))
	})
	c.fnSetAudioBatch(trampoline)
}

func (c *dynCore) SetInputPoll(cb InputPollFunc) {
	c.inputPoll = cb
	trampoline := purego.NewCallback(func() {
		c.inputPoll()
	})
	c.fnSetInputPoll(trampoline)
}

func (c *dynCore) SetInputState(cb InputStateFunc) {
	c.inputState = cb
	trampoline := purego.NewCallback(func(port, device, index, id uint32) int16 {
		return c.inputState(uint(port), uint(device), uint(index), uint(id))
	})
	c.fnSetInputState(trampoline)
}

func (c *dynCore) Init()   { c.fnInit() }
func (c *dynCore) Deinit() { c.fnDeinit() }
func (c *dynCore) APIVersion() uint { return uint(c.fnAPIVersion()) }

func (c *dynCore) GetSystemInfo() SystemInfo {
	var raw cRetroSystemInfo
	c.fnGetSystemInfo(unsafe.Pointer(&raw))
	return SystemInfo{
		LibraryName:     cStr(raw.libraryName),
		LibraryVersion:  cStr(raw.libraryVersion),
		ValidExtensions: splitPipe(cStr(raw.validExtensions)),
		NeedFullpath:    raw.needFullpath != 0,
		BlockExtract:    raw.blockExtract != 0,
	}
}

func (c *dynCore) GetSystemAVInfo() SystemAVInfo {
	var raw cRetroSystemAVInfo
	c.fnGetSystemAVInfo(unsafe.Pointer(&raw))
	return SystemAVInfo{
		Geometry: GameGeometry{
			BaseWidth: int(raw.geometry.baseWidth), BaseHeight: int(raw.geometry.baseHeight),
			MaxWidth: int(raw.geometry.maxWidth), MaxHeight: int(raw.geometry.maxHeight),
			AspectRatio: float64(raw.geometry.aspectRatio),
		},
		Timing: SystemTiming{FPS: raw.timing.fps, SampleRate: raw.timing.sampleRate},
	}
}

func (c *dynCore) SetControllerPortDevice(port, device uint) {
	c.fnSetControllerPD(uint32(port), uint32(device))
}
func (c *dynCore) Reset() { c.fnReset() }
func (c *dynCore) Run()   { c.fnRun() }

func (c *dynCore) SerializeSize() uint { return uint(c.fnSerializeSize()) }

func (c *dynCore) Serialize(data []byte) bool {
	if len(data) == 0 {
		return c.fnSerialize(nil, 0) != 0
	}
	return c.fnSerialize(unsafe.Pointer(&data[0]), uintptr(len(data))) != 0
}

func (c *dynCore) Unserialize(data []byte) bool {
	if len(data) == 0 {
		return c.fnUnserialize(nil, 0) != 0
	}
	return c.fnUnserialize(unsafe.Pointer(&data[0]), uintptr(len(data))) != 0
}

func (c *dynCore) CheatReset() { c.fnCheatReset() }
func (c *dynCore) CheatSet(index uint, enabled bool, code string) {
	var e byte
	if enabled {
		e = 1
	}
	c.fnCheatSet(uint32(index), e, code)
}

func (c *dynCore) LoadGame(game *GameInfo) bool {
	if game == nil {
		return c.fnLoadGame(nil) != 0
	}
	pathBytes := append([]byte(game.Path), 0)
	raw := cRetroGameInfo{
		path: &pathBytes[0],
		size: uintptr(len(game.Data)),
	}
	if len(game.Data) > 0 {
		raw.data = unsafe.Pointer(&game.Data[0])
	}
	return c.fnLoadGame(unsafe.Pointer(&raw)) != 0
}

func (c *dynCore) UnloadGame() { c.fnUnloadGame() }

func (c *dynCore) GetRegion() Region { return Region(c.fnGetRegion()) }

func (c *dynCore) GetMemoryData(id MemoryID) []byte {
	ptr := c.fnGetMemoryData(uint32(id))
	size := c.fnGetMemorySize(uint32(id))
	if ptr == nil || size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(ptr), int(size))
}

func (c *dynCore) GetMemorySize(id MemoryID) uint {
	return uint(c.fnGetMemorySize(uint32(id)))
}

func (c *dynCore) Close() error {
	return purego.Dlclose(c.handle)
}

func cStr(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for {
		b := *(*byte)(unsafe.Add(unsafe.Pointer(p), n))
		if b == 0 {
			break
		}
		n++
	}
	return string(unsafe.Slice(p, n))
}
