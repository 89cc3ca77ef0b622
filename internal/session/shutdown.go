package session

import (
	"github.com/retrofe/retrofe/internal/config"
	"github.com/retrofe/retrofe/internal/libretro"
)

// Close runs the shutdown sequence in the order spec's Shutdown section
// names: flush SRAM/RTC, write the resume token if quitting mid-game,
// save dirty user config, unload the core, then quit D/E/C/A. This
// frontend has no component D/E owning their own OS resources beyond
// the audio sink and platform window, both closed here.
func (s *Session) Close() {
	s.flushMemoryRegions()

	if s.quitMidGame && s.autoResume {
		if err := s.stateStore.WriteResumeToken(s.opts.CorePath, s.opts.ROMPath, s.autoResume, "resume"); err != nil {
			s.logger.Printf("resume token: %v", err)
		}
	} else {
		s.stateStore.ClearResumeToken()
	}

	s.saveDirtyConfig()

	s.host.UnloadGame()
	s.host.Unload()

	if s.audio != nil {
		s.audio.Close()
	}
	if s.plat != nil {
		s.plat.Quit()
	}
	if s.logger != nil {
		s.logger.Close()
	}
}

// flushMemoryRegions snapshots the core's live SRAM/RTC bytes into the
// dirty-tracking store and writes whichever regions actually changed
// (spec §4.F "flushed to disk on pause, slot change, and clean exit").
func (s *Session) flushMemoryRegions() {
	for _, region := range []struct {
		name string
		id   libretro.MemoryID
	}{{"sram", libretro.MemorySaveRAM}, {"rtc", libretro.MemoryRTC}} {
		data := s.host.MemoryRegion(region.id)
		if data == nil {
			continue
		}
		s.memStore.Snapshot(region.name, data)
	}
	if err := s.memStore.Flush(); err != nil {
		s.logger.Printf("flush memory regions: %v", err)
	}
}

func (s *Session) saveDirtyConfig() {
	resolved := make(map[string]config.Entry)
	for _, opt := range s.host.Options() {
		if !opt.Dirty {
			continue
		}
		resolved[opt.Key] = config.Entry{Value: opt.Value(), Locked: opt.Locked}
	}
	if len(resolved) == 0 {
		return
	}
	paths := config.Paths{
		SystemDir: s.opts.Env.SystemPath,
		Platform:  s.opts.Env.Platform,
		Device:    s.opts.Env.Device,
		System:    s.opts.System,
	}
	if err := s.cascade.SaveUser(paths, s.opts.ROMPath, resolved); err != nil {
		s.logger.Printf("save user config: %v", err)
	}
}
