// Package session implements component I, the process owner: it wires
// every other component together in the order startup/shutdown require
// (spec's component order A..H) and runs the single cooperative tick
// loop as an ebiten.Game. Grounded on the teacher's directRunner
// (standalone/directrun.go) and GameplayManager
// (standalone/gameplay.go), but collapsed onto one thread: where the
// teacher runs emulation on a dedicated goroutine synchronized with the
// Ebiten thread through SharedInput/SharedFramebuffer, this frontend's
// concurrency model reserves the separate thread for the audio driver
// callback alone, so Tick/Draw/input all happen inside Update/Draw.
package session

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/retrofe/retrofe/internal/audioring"
	"github.com/retrofe/retrofe/internal/config"
	"github.com/retrofe/retrofe/internal/frontend"
	"github.com/retrofe/retrofe/internal/libretro"
	"github.com/retrofe/retrofe/internal/menu"
	"github.com/retrofe/retrofe/internal/pad"
	"github.com/retrofe/retrofe/internal/persistence"
	"github.com/retrofe/retrofe/internal/platform"
	"github.com/retrofe/retrofe/internal/romloader"
	"github.com/retrofe/retrofe/internal/video"
	"github.com/retrofe/retrofe/internal/video/shader"
)

// Env is the launcher's handoff contract (spec §6 "Environment
// variables"), read by cmd/retrofe and passed through unchanged.
type Env struct {
	Platform     string
	Device       string
	SDCardPath   string
	SystemPath   string
	UserdataPath string
	BiosPath     string
	SavesPath    string
	CoresPath    string
	LogsPath     string
}

// Options is everything Session.New needs beyond Env: the argv content
// and the display surface the platform layer already sized.
type Options struct {
	CorePath string
	ROMPath  string
	System   string // console short name (e.g. "GBA"), used for config.Paths
	Env      Env
	Surface  platform.Surface
}

// Session owns every component instance and is the ebiten.Game the
// main loop runs. Exactly one exists per process (spec §3 invariant:
// "the frontend hosts exactly one libretro core per process").
type Session struct {
	opts Options

	plat    *platform.Platform
	logger  *platform.Logger
	host    *libretro.Host
	pd      *pad.Pad
	cascade *config.Cascade

	stateStore *persistence.StateStore
	memStore   *persistence.MemoryStore
	rewind     *persistence.RewindBuffer

	audio     *audioring.Sink
	renderer  *video.Renderer
	shaders   *shader.Manager
	shaderID  shader.ID
	shaderBuf *ebiten.Image
	hud       *video.HUD

	m *menu.Menu

	discs       []string
	currentDisc int
	cheats      []libretro.Cheat

	lastFrame     libretro.VideoFrame
	haveFrame     bool
	turboMult     int
	turboCap      int
	turboFolding  bool
	turboAccum    []int16
	rewindHeld    time.Time
	rewindHolding bool

	fastForwardEnabled bool
	scalePolicy        video.ScalePolicy
	sharpBilinear      bool
	tickBudget         time.Duration

	tickErr         error
	quit            bool
	quitMidGame     bool
	autoResume      bool
	scheduleRestart bool
	exitCode        int
	sigQuit         atomic.Bool
	sigReload       atomic.Bool
}

const maxTurbo = 3

// overloadThreshold is the number of consecutive deadline-missing ticks
// that mark the renderer overloaded (spec §4.E/§7 "consecutive drops ->
// overload log -> reduce tick rate").
const overloadThreshold = 3

// New runs the full startup sequence: init A (platform) and the
// ambient logger, load B (config), construct C (pad), the renderer and
// HUD, H (menu) and the G (persistence) stores, then create F (host) and
// boot it, which loads the core and game, transfers configured options
// and starts the audio sink (D) once the core's sample rate is known.
func New(opts Options) (*Session, error) {
	plat, err := platform.Init(opts.Surface, "retrofe")
	if err != nil {
		return nil, frontend.Wrap(frontend.KindPlatformInit, "platform_init", err)
	}

	logPath := filepath.Join(opts.Env.LogsPath, "retrofe.log")
	logger, err := platform.NewLogger(logPath, 1<<20, 3)
	if err != nil {
		return nil, frontend.Wrap(frontend.KindPlatformInit, "logger_init", err)
	}

	paths := config.Paths{
		SystemDir: opts.Env.SystemPath,
		Platform:  opts.Env.Platform,
		Device:    opts.Env.Device,
		System:    opts.System,
	}
	cascade, parseErrs, err := config.Load(paths, opts.ROMPath)
	if err != nil {
		logger.Close()
		return nil, frontend.Wrap(frontend.KindPlatformInit, "config_load", err)
	}
	for _, pe := range parseErrs {
		logger.Printf("config: %v", pe)
	}

	s := &Session{
		opts:               opts,
		plat:               plat,
		logger:             logger,
		pd:                 pad.New(),
		cascade:            cascade,
		renderer:           video.NewRenderer(),
		shaders:            shader.NewManager(),
		hud:                video.NewHUD(),
		m:                  menu.New(),
		turboMult:          1,
		turboCap:           maxTurbo,
		fastForwardEnabled: true,
	}

	romBase := strings.TrimSuffix(filepath.Base(opts.ROMPath), filepath.Ext(opts.ROMPath))
	s.stateStore = persistence.NewStateStore(opts.Env.SavesPath, romBase)
	s.memStore = persistence.NewMemoryStore(opts.Env.SavesPath, romBase)

	sinks := libretro.Sinks{
		Video:      s.onVideoFrame,
		Audio:      s.onAudio,
		PollInput:  s.onPollInput,
		InputState: s.onInputState,
		Log:        func(f string, a ...any) { s.logger.LogKindRateLimited(frontend.KindCoreLoad, f, a...) },
		Shutdown:   func() { s.quit = true; s.exitCode = 0 },
	}
	s.host = libretro.NewHost(libretro.NewDynCore, opts.Env.SystemPath, opts.Env.SavesPath, sinks)

	if err := s.boot(); err != nil {
		logger.LogFatal(err)
		logger.Close()
		return nil, err
	}
	return s, nil
}

// boot loads the core and content and starts the tick loop running
// (spec's Startup sequence continued: "Instruct F to load core, then
// load game... Transfer configured options... Register all
// callbacks"). Callback registration itself happens inside host.Load.
func (s *Session) boot() error {
	if err := s.host.Load(s.opts.CorePath); err != nil {
		return err
	}

	recentPath := s.opts.ROMPath
	if err := s.loadDiscs(); err != nil {
		return err
	}

	sysInfo := s.host.SystemInfo()
	result, err := romloader.Load(s.opts.ROMPath, sysInfo.ValidExtensions)
	if err != nil {
		return frontend.Wrap(frontend.KindGameLoad, "rom_load", err)
	}

	loadPath := result.SourcePath
	var data []byte
	if !sysInfo.NeedFullpath {
		data = result.Data
	}
	if err := s.host.LoadGame(loadPath, data); err != nil {
		return err
	}

	s.applyConfiguredOptions()
	s.applyConfiguredFrontendOptions()
	s.restoreMemoryRegions()
	s.loadCheats()
	s.configureTiming()
	s.initAudio()
	s.initRewind()

	if err := s.host.Start(); err != nil {
		return err
	}

	s.autoResume = true
	if e, ok := s.cascade.Effective("auto_resume_enabled"); ok {
		s.autoResume = e.Value != "false" && e.Value != "0"
	}

	s.pushRecent(recentPath)
	return nil
}

// configureTiming paces ebiten's own tick rate to the core's reported
// frame rate (spec §4.I startup "set frame pacing from AV info") instead
// of leaving it at ebiten's 60 TPS default, and records the per-tick time
// budget the overload detector below measures against.
func (s *Session) configureTiming() {
	fps := s.host.AVInfo().Timing.FPS
	if fps <= 0 {
		fps = 60
	}
	ebiten.SetTPS(int(fps + 0.5))
	s.tickBudget = time.Duration(float64(time.Second) / fps)
}

// pushRecent records path (the ROM or M3U path as launched, before
// loadDiscs resolves it to the first disc) in the shared recent list
// (spec §6 "recent.txt").
func (s *Session) pushRecent(path string) {
	recentPath := filepath.Join(s.opts.Env.UserdataPath, "recent.txt")
	entries, err := persistence.LoadRecent(recentPath)
	if err != nil {
		s.logger.Printf("load recent: %v", err)
	}
	entries = persistence.PushRecent(entries, persistence.RecentEntry{Path: path})
	if err := persistence.SaveRecent(recentPath, entries, 20); err != nil {
		s.logger.Printf("save recent: %v", err)
	}
}

// applyConfiguredOptions transfers the config cascade's resolved
// key/value pairs onto any matching core option (spec's Startup
// "Transfer configured options" step).
func (s *Session) applyConfiguredOptions() {
	for _, opt := range s.host.Options() {
		if e, ok := s.cascade.Effective(opt.Key); ok {
			s.host.ApplyOption(opt.Key, e.Value)
		}
	}
}

// restoreMemoryRegions copies any previously saved SRAM/RTC bytes into
// the core's live memory region (spec §4.F "SRAM/RTC ... snapshotted on
// boot").
func (s *Session) restoreMemoryRegions() {
	for _, region := range []struct {
		name string
		id   libretro.MemoryID
	}{{"sram", libretro.MemorySaveRAM}, {"rtc", libretro.MemoryRTC}} {
		data, err := s.memStore.LoadOnBoot(region.name)
		if err != nil {
			s.logger.LogKindRateLimited(frontend.KindIO, "load %s: %v", region.name, err)
			continue
		}
		if data == nil {
			continue
		}
		dst := s.host.MemoryRegion(region.id)
		copy(dst, data)
	}
}

func (s *Session) initAudio() {
	timing := s.host.AVInfo().Timing
	rate := timing.SampleRate
	if rate <= 0 {
		rate = 44100
	}
	sink, err := audioring.NewSink(rate, 48000, 1<<15, 1.0)
	if err != nil {
		s.logger.Printf("audio init failed: %v", err)
		return
	}
	s.audio = sink
}

func (s *Session) initRewind() {
	bufMB := 8
	if e, ok := s.cascade.Effective("rewind_buffer_mb"); ok {
		fmt.Sscanf(e.Value, "%d", &bufMB)
	}
	enabled := true
	if e, ok := s.cascade.Effective("rewind_enabled"); ok {
		enabled = e.Value != "false" && e.Value != "0"
	}
	if !enabled {
		return
	}
	size := int(s.host.SerializeSize())
	if size == 0 {
		return
	}
	s.rewind = persistence.NewRewindBuffer(bufMB, 1, size)
}

// loadDiscs populates the multi-disc playlist when the ROM path names
// an M3U file (spec's supplemented multi-disc support).
func (s *Session) loadDiscs() error {
	if !strings.EqualFold(filepath.Ext(s.opts.ROMPath), ".m3u") {
		s.discs = []string{s.opts.ROMPath}
		return nil
	}
	pl, err := romloader.LoadPlaylist(s.opts.ROMPath)
	if err != nil {
		return frontend.Wrap(frontend.KindGameLoad, "m3u_load", err)
	}
	s.discs = pl.Discs
	if len(s.discs) > 0 {
		s.opts.ROMPath = s.discs[0]
	}
	return nil
}

// Update implements ebiten.Game. It is the single cooperative tick
// point (spec §5): poll input, resolve menu or gameplay input, run
// Tick zero-or-more times (turbo folds several ticks into one audio
// push), and surface any fatal tick error as the process exit reason.
func (s *Session) Update() error {
	if s.sigQuit.Load() {
		s.quit = true
		s.exitCode = 0
	}
	s.reloadConfigIfRequested()

	raw := platform.PollRaw()
	s.pd.Poll(platform.Now(), raw)

	if s.m.IsOpen() {
		s.updateMenu()
	} else {
		s.updateGameplay()
	}

	if s.quit {
		return errSessionQuit
	}
	return nil
}

var errSessionQuit = fmt.Errorf("session: quit requested")

// RequestQuit sets the cancellation flag a SIGINT/SIGTERM handler
// raises from outside the tick loop (spec §4.I "Cancellation... sets a
// flag polled at loop boundaries; the current tick completes, then
// shutdown runs"). Safe to call from any goroutine.
func (s *Session) RequestQuit() {
	s.sigQuit.Store(true)
}

// RequestConfigReload marks the cascade for a re-parse at the next tick
// boundary (spec §6 "SIGHUP -> reload config on next tick boundary").
// Safe to call from any goroutine.
func (s *Session) RequestConfigReload() {
	s.sigReload.Store(true)
}

// reloadConfigIfRequested re-parses every layer from disk and
// re-applies the resolved values onto the live core options, picking up
// edits made to a config file out-of-band since boot.
func (s *Session) reloadConfigIfRequested() {
	if !s.sigReload.CompareAndSwap(true, false) {
		return
	}
	paths := config.Paths{
		SystemDir: s.opts.Env.SystemPath,
		Platform:  s.opts.Env.Platform,
		Device:    s.opts.Env.Device,
		System:    s.opts.System,
	}
	cascade, parseErrs, err := config.Load(paths, s.opts.ROMPath)
	if err != nil {
		s.logger.Printf("config reload: %v", err)
		return
	}
	for _, pe := range parseErrs {
		s.logger.Printf("config reload: %v", pe)
	}
	s.cascade = cascade
	s.applyConfiguredOptions()
}

// Draw implements ebiten.Game.
func (s *Session) Draw(screen *ebiten.Image) {
	if s.haveFrame {
		target := screen
		if s.shaderID != shader.None {
			if s.shaderBuf == nil || s.shaderBuf.Bounds() != screen.Bounds() {
				s.shaderBuf = ebiten.NewImage(screen.Bounds().Dx(), screen.Bounds().Dy())
			}
			target = s.shaderBuf
		}
		target.Clear()
		s.renderer.Draw(target, s.lastFrame, s.host.AVInfo().Geometry.AspectRatio)
		if target != screen {
			s.shaders.Apply(screen, target, s.shaderID)
		}
	}

	s.hud.Draw(screen, ebiten.ActualFPS(), s.audioFillRatio(), s.turboMult, s.renderer.Overloaded())
	menu.Render(screen, s.m)
}

func (s *Session) audioFillRatio() float64 {
	if s.audio == nil {
		return 0
	}
	return float64(s.audio.Buffered()) / float64(48000*4/10)
}

// Layout implements ebiten.Game, returning the fixed handheld surface
// resolved once at boot (spec §4.A: there is no resizable window on
// this class of device).
func (s *Session) Layout(outsideWidth, outsideHeight int) (int, int) {
	return s.plat.Surface().Width, s.plat.Surface().Height
}

// ExitCode returns the process exit code to report once the ebiten run
// loop returns (spec §6 exit codes).
func (s *Session) ExitCode() int { return s.exitCode }

func (s *Session) onVideoFrame(f libretro.VideoFrame) {
	s.lastFrame = f
	s.haveFrame = true
}

func (s *Session) onAudio(frames []int16) {
	if s.audio == nil {
		return
	}
	if s.turboFolding {
		s.turboAccum = append(s.turboAccum, frames...)
		return
	}
	s.audio.PushFrames(frames)
}

func (s *Session) onPollInput() {}
