package persistence

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/retrofe/retrofe/internal/frontend"
)

// AutoSlot is the slot auto-save uses, following the spec's ".st0"-like
// convention: slot 0 doubles as both the first numbered slot and the
// implicit auto-save target.
const AutoSlot = 0

// NumSlots is the menu's numbered slot count (component H's Slots screen:
// 10 numbered slots).
const NumSlots = 10

// StateStore locates and persists save states, the resume marker, and
// screenshots for one ROM.
type StateStore struct {
	saveDir     string
	romBasename string
}

// NewStateStore roots a StateStore at saveDir for the given ROM basename
// (extension stripped, matching "<save_dir>/<rom_basename>.st<slot>").
func NewStateStore(saveDir, romBasename string) *StateStore {
	return &StateStore{
		saveDir:     saveDir,
		romBasename: stripExt(romBasename),
	}
}

func stripExt(name string) string {
	ext := filepath.Ext(name)
	return name[:len(name)-len(ext)]
}

// StatePath returns the on-disk path for slot.
func (s *StateStore) StatePath(slot int) string {
	return filepath.Join(s.saveDir, fmt.Sprintf("%s.st%d", s.romBasename, slot))
}

// HasState reports whether slot has a saved state.
func (s *StateStore) HasState(slot int) bool {
	return Exists(s.StatePath(slot))
}

// SaveState atomically writes data (the core's serialize() output) to
// slot.
func (s *StateStore) SaveState(slot int, data []byte) error {
	if err := WriteFile(s.StatePath(slot), data); err != nil {
		return frontend.Wrap(frontend.KindIO, "save_state", err)
	}
	return nil
}

// LoadState reads the bytes previously written for slot.
func (s *StateStore) LoadState(slot int) ([]byte, error) {
	data, err := ReadFile(s.StatePath(slot))
	if err != nil {
		return nil, frontend.Wrap(frontend.KindIO, "load_state", err)
	}
	return data, nil
}

// resumeTokenName is the marker file the launcher reads after this
// process exits to decide whether to relaunch straight into gameplay.
const resumeTokenName = ".resume"

// ResumeTokenPath returns the path of the resume marker for this ROM.
func (s *StateStore) ResumeTokenPath() string {
	return filepath.Join(s.saveDir, s.romBasename+resumeTokenName)
}

// WriteResumeToken persists the session token (spec §3: "ROM path, core
// path, auto-resume flag, exit command") so the launcher can relaunch
// directly into the same game. Called on a mid-game Quit, gated by the
// auto-resume config flag, not on every exit.
func (s *StateStore) WriteResumeToken(corePath, romPath string, autoResume bool, exitCommand string) error {
	content := corePath + "\n" + romPath + "\n" + strconv.FormatBool(autoResume) + "\n" + exitCommand + "\n"
	if err := WriteFile(s.ResumeTokenPath(), []byte(content)); err != nil {
		return frontend.Wrap(frontend.KindIO, "write_resume_token", err)
	}
	return nil
}

// ClearResumeToken removes the marker, e.g. after the launcher has
// consumed it or the user chose "New Game" instead of "Continue".
func (s *StateStore) ClearResumeToken() error {
	return removeIfExists(s.ResumeTokenPath())
}
