package session

import (
	"path/filepath"
	"time"

	"github.com/retrofe/retrofe/internal/menu"
	"github.com/retrofe/retrofe/internal/persistence"
	"github.com/retrofe/retrofe/internal/romloader"
)

// applyCommands performs the session-side effect of each command the
// menu's Confirm/Back returned, closing the snapshot/command loop the
// specification's design note describes (menu.go never touches the
// host directly; this is the "session controller" it hands commands
// to).
func (s *Session) applyCommands(cmds []menu.Command) {
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case menu.CmdResume:
			s.host.Resume()
			if s.scheduleRestart {
				s.scheduleRestart = false
				s.host.Reset()
			}

		case menu.CmdSaveSlot:
			if data, err := s.host.SaveStateBytes(); err == nil {
				s.stateStore.SaveState(c.Slot, data)
			}
			s.flushMemoryRegions()

		case menu.CmdLoadSlot:
			if data, err := s.stateStore.LoadState(c.Slot); err == nil {
				s.host.LoadStateBytes(data)
			}
			s.flushMemoryRegions()

		case menu.CmdSetOption:
			if !s.applyFrontendOption(c.Key, c.Value) {
				s.host.ApplyOption(c.Key, c.Value)
			}

		case menu.CmdScheduleRestart:
			s.scheduleRestart = true

		case menu.CmdToggleCheat:
			s.toggleCheat(c.Index)

		case menu.CmdDiscEject:
			s.host.UnloadGame()

		case menu.CmdDiscInsert:
			s.insertDisc(c.Index)

		case menu.CmdQuit:
			s.quit = true
			s.quitMidGame = true
			s.exitCode = 4

		case menu.CmdScreenshot:
			s.takeScreenshot()
		}
	}
}

// takeScreenshot PNG-encodes whatever the renderer last presented, next
// to the ROM's save states (spec's supplemented screenshot action).
func (s *Session) takeScreenshot() {
	img, ok := s.renderer.Snapshot()
	if !ok {
		return
	}
	path := s.stateStore.ScreenshotPath(time.Now().Unix())
	if err := persistence.SaveScreenshot(path, img); err != nil {
		s.logger.Printf("screenshot: %v", err)
	}
}

func (s *Session) toggleCheat(index int) {
	if index < 0 || index >= len(s.cheats) {
		return
	}
	s.cheats[index].Enabled = !s.cheats[index].Enabled
	s.host.SetCheat(s.cheats[index])
	persistence.SaveCheats(s.stateStore.CheatsPath(), s.cheats)
}

// insertDisc loads discs[index] into the already-ejected core (spec's
// Disc screen "eject, insert, select next disc from M3U"). A disc swap
// error is logged rather than treated as fatal: the
// player can simply try again or pick a different disc.
func (s *Session) insertDisc(index int) {
	if index < 0 || index >= len(s.discs) {
		return
	}
	path := s.discs[index]
	resolved, err := romloader.ResolveDiscCase(filepath.Dir(path), filepath.Base(path))
	if err != nil {
		s.logger.Printf("disc insert %s: %v", path, err)
		return
	}
	path = resolved
	sysInfo := s.host.SystemInfo()
	result, err := romloader.Load(path, sysInfo.ValidExtensions)
	if err != nil {
		s.logger.Printf("disc insert %s: %v", path, err)
		return
	}
	var data []byte
	if !sysInfo.NeedFullpath {
		data = result.Data
	}
	if err := s.host.LoadGame(result.SourcePath, data); err != nil {
		s.logger.Printf("disc insert %s: %v", path, err)
		return
	}
	s.currentDisc = index
}

// loadCheats reads the per-ROM cheat list (see persistence.LoadCheats)
// and applies whichever entries start out enabled.
func (s *Session) loadCheats() {
	cheats, err := persistence.LoadCheats(s.stateStore.CheatsPath())
	if err != nil {
		s.logger.Printf("load cheats: %v", err)
		return
	}
	s.cheats = cheats
	for _, c := range s.cheats {
		if c.Enabled {
			s.host.SetCheat(c)
		}
	}
}
