package libretro

// fakeCore is a minimal in-memory CoreAPI used to exercise Host without a
// real dynamic library, mirroring how the teacher's api package tests
// fake out coreif.Emulator rather than loading a real .so.
type fakeCore struct {
	env        EnvironmentFunc
	video      VideoRefreshFunc
	audio      AudioSampleFunc
	audioBatch AudioSampleBatchFunc
	inputPoll  InputPollFunc
	inputState InputStateFunc

	sysInfo   SystemInfo
	avInfo    SystemAVInfo
	region    Region
	size      uint
	lastSave  []byte
	rejectLoadGame bool
	rejectUnserialize bool

	initCalled   bool
	deinitCalled bool
	runCalls     int
	resetCalls   int
	closed       bool

	memory map[MemoryID][]byte

	cheats []Cheat
}

func newFakeCore(path string) (CoreAPI, error) {
	return &fakeCore{
		sysInfo: SystemInfo{LibraryName: "fakecore", ValidExtensions: []string{"bin"}},
		avInfo: SystemAVInfo{
			Geometry: GameGeometry{BaseWidth: 256, BaseHeight: 224, AspectRatio: 4.0 / 3.0},
			Timing:   SystemTiming{FPS: 60, SampleRate: 48000},
		},
		size:   16,
		memory: map[MemoryID][]byte{MemorySaveRAM: make([]byte, 8)},
	}, nil
}

func (c *fakeCore) SetEnvironment(cb EnvironmentFunc)           { c.env = cb }
func (c *fakeCore) SetVideoRefresh(cb VideoRefreshFunc)         { c.video = cb }
func (c *fakeCore) SetAudioSample(cb AudioSampleFunc)           { c.audio = cb }
func (c *fakeCore) SetAudioSampleBatch(cb AudioSampleBatchFunc) { c.audioBatch = cb }
func (c *fakeCore) SetInputPoll(cb InputPollFunc)               { c.inputPoll = cb }
func (c *fakeCore) SetInputState(cb InputStateFunc)             { c.inputState = cb }

func (c *fakeCore) Init()               { c.initCalled = true }
func (c *fakeCore) Deinit()             { c.deinitCalled = true }
func (c *fakeCore) APIVersion() uint    { return 1 }
func (c *fakeCore) GetSystemInfo() SystemInfo     { return c.sysInfo }
func (c *fakeCore) GetSystemAVInfo() SystemAVInfo { return c.avInfo }

func (c *fakeCore) SetControllerPortDevice(port, device uint) {}
func (c *fakeCore) Reset()                                    { c.resetCalls++ }
func (c *fakeCore) Run()                                      { c.runCalls++ }

func (c *fakeCore) SerializeSize() uint { return c.size }
func (c *fakeCore) Serialize(data []byte) bool {
	c.lastSave = append([]byte(nil), data...)
	for i := range data {
		data[i] = byte(i)
	}
	return true
}
func (c *fakeCore) Unserialize(data []byte) bool {
	return !c.rejectUnserialize
}

func (c *fakeCore) CheatReset() { c.cheats = nil }
func (c *fakeCore) CheatSet(index uint, enabled bool, code string) {
	c.cheats = append(c.cheats, Cheat{Index: int(index), Code: code, Enabled: enabled})
}

func (c *fakeCore) LoadGame(game *GameInfo) bool { return !c.rejectLoadGame }
func (c *fakeCore) UnloadGame()                  {}

func (c *fakeCore) GetRegion() Region { return c.region }
func (c *fakeCore) GetMemoryData(id MemoryID) []byte { return c.memory[id] }
func (c *fakeCore) GetMemorySize(id MemoryID) uint   { return uint(len(c.memory[id])) }

func (c *fakeCore) Close() error { c.closed = true; return nil }
