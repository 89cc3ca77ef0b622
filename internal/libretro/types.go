// Package libretro hosts a single libretro core per process (spec §3
// "Core handle", §4.F "Libretro host"). It never implements emulation
// itself; it dynamically loads a core's shared library, negotiates the
// environment protocol, and drives one Run() per tick.
package libretro

// PixelFormat identifies the core's negotiated framebuffer format (spec
// §3: "negotiated pixel format (RGB565, XRGB8888, or RGB15)").
type PixelFormat int

const (
	PixelFormatRGB15 PixelFormat = iota // RETRO_PIXEL_FORMAT_0RGB1555
	PixelFormatXRGB8888
	PixelFormatRGB565
)

// Environment command identifiers the host must handle (spec §4.F). The
// numeric values match the public libretro.h RETRO_ENVIRONMENT_* enum so a
// real core built against libretro.h resolves to the same command codes.
const (
	EnvSetRumbleInterface        = 7
	EnvGetInputDeviceCapabilities = 24
	EnvSetPixelFormat            = 10
	EnvSetInputDescriptors       = 11
	EnvSetKeyboardCallback       = 12
	EnvSetControllerInfo         = 35
	EnvSetMemoryMaps             = 36
	EnvSetGeometry               = 37
	EnvGetSystemDirectory        = 9
	EnvGetSaveDirectory          = 31
	EnvSetVariables              = 16
	EnvGetVariable               = 15
	EnvGetVariableUpdate         = 17
	EnvSetSupportNoGame          = 18
	EnvGetLanguage               = 39
	EnvSetPerformanceCounter     = 13 // RETRO_ENVIRONMENT_PERFCOUNTER_START used loosely; no-op per spec
	EnvGetLogInterface           = 27
	EnvShutdown                  = 22
)

// Region mirrors RETRO_REGION_NTSC / RETRO_REGION_PAL.
type Region uint

const (
	RegionNTSC Region = 0
	RegionPAL  Region = 1
)

// DeviceJoypad is the RETRO_DEVICE_JOYPAD device type passed to
// input_state_cb's device argument; this frontend only ever advertises
// the digital joypad, never analog/mouse/pointer device types.
const DeviceJoypad = 1

// Joypad* mirror the RETRO_DEVICE_ID_JOYPAD_* button ids input_state_cb
// is queried with when device is DeviceJoypad.
const (
	JoypadB      = 0
	JoypadY      = 1
	JoypadSelect = 2
	JoypadStart  = 3
	JoypadUp     = 4
	JoypadDown   = 5
	JoypadLeft   = 6
	JoypadRight  = 7
	JoypadA      = 8
	JoypadX      = 9
	JoypadL      = 10
	JoypadR      = 11
	JoypadL2     = 12
	JoypadR2     = 13
	JoypadL3     = 14
	JoypadR3     = 15
)

// MemoryID mirrors RETRO_MEMORY_* identifiers used by get_memory_data/size.
type MemoryID uint

const (
	MemorySaveRAM MemoryID = 0
	MemoryRTC     MemoryID = 1
	MemorySystemRAM MemoryID = 2
	MemoryVideoRAM  MemoryID = 3
)

// GameGeometry mirrors struct retro_game_geometry.
type GameGeometry struct {
	BaseWidth, BaseHeight int
	MaxWidth, MaxHeight   int
	AspectRatio           float64
}

// SystemTiming mirrors struct retro_system_timing.
type SystemTiming struct {
	FPS        float64
	SampleRate float64
}

// SystemAVInfo mirrors struct retro_system_av_info (spec §3 "resolved
// system AV info").
type SystemAVInfo struct {
	Geometry GameGeometry
	Timing   SystemTiming
}

// SystemInfo mirrors struct retro_system_info.
type SystemInfo struct {
	LibraryName     string
	LibraryVersion  string
	ValidExtensions []string
	NeedFullpath    bool
	BlockExtract    bool
}

// GameInfo mirrors struct retro_game_info passed to load_game.
type GameInfo struct {
	Path string
	Data []byte
	Meta string
}

// MemoryDescriptor is a simplified view of struct retro_memory_descriptor,
// enough for the host's bookkeeping (spec §3 "memory descriptors"):
// a named, sized region the menu/persistence layer can snapshot.
type MemoryDescriptor struct {
	Flags uint64
	Start uint64
	Len   uint64
	Name  string
}

// Option is the host's mirror of a core-declared variable (spec §3
// "Option"): the environment SET_VARIABLES schema merged with config
// cascade overrides.
type Option struct {
	Key         string
	DisplayName string
	Description string
	Values      []string
	Selected    int
	Default     int
	Locked      bool
	Dirty       bool

	// RequiresRestart is set when the core's display name declares the
	// "(Restart Required)" marker some cores append to variables that
	// can't be applied live. The menu defers a reset-and-reload for
	// these until the pause menu is closed instead of applying them
	// mid-frame.
	RequiresRestart bool
}

// Value returns the option's currently selected string value.
func (o Option) Value() string {
	if o.Selected < 0 || o.Selected >= len(o.Values) {
		return ""
	}
	return o.Values[o.Selected]
}

// Cheat mirrors spec §3 "Cheat".
type Cheat struct {
	Index       int
	Description string
	Code        string
	Enabled     bool
}
