// Package menu implements component H: the pause-menu state machine.
// Per the specification's design note on breaking the menu/host cycle,
// Menu is a pure function of a read-only Snapshot handed to it on Open:
// it never touches the libretro host directly. Navigate/Confirm/Back
// return a []Command describing what should happen; the session
// controller applies those commands to the host between ticks.
package menu

import "github.com/retrofe/retrofe/internal/libretro"

// Screen identifies which pause-menu screen is active.
type Screen int

const (
	ScreenNone Screen = iota
	ScreenMain
	ScreenSlots
	ScreenOptions
	ScreenCheats
	ScreenDisc
)

// MainEntry enumerates the Main screen's rows in display order.
type MainEntry int

const (
	MainContinue MainEntry = iota
	MainSaveState
	MainLoadState
	MainOptions
	MainCheats
	MainDisc
	MainScreenshot
	MainQuit
	mainEntryCount
)

// SlotMode distinguishes whether the Slots screen was entered to save or
// to load.
type SlotMode int

const (
	SlotModeSave SlotMode = iota
	SlotModeLoad
)

// SlotInfo describes one numbered save slot for display.
type SlotInfo struct {
	Occupied bool
}

// Snapshot is the read-only view of host/option/cheat/disc state the
// menu is opened with; it never mutates the live host.
type Snapshot struct {
	Options     []libretro.Option
	Cheats      []libretro.Cheat
	Slots       [10]SlotInfo
	Discs       []string
	CurrentDisc int
}

// Command is something the session controller must apply to the host or
// persistence layer after the menu returns control.
type Command interface{ isCommand() }

type CmdResume struct{}
type CmdSaveSlot struct{ Slot int }
type CmdLoadSlot struct{ Slot int }
type CmdSetOption struct{ Key, Value string }
type CmdToggleCheat struct{ Index int }
type CmdDiscEject struct{}
type CmdDiscInsert struct{ Index int }
type CmdQuit struct{}
type CmdScreenshot struct{}

// CmdScheduleRestart marks that an option requiring a restart (per the
// core's option schema) was changed; the session performs the deferred
// reset-and-reload after the menu closes, not immediately, so multiple
// restart-requiring edits in one visit only cause one restart.
type CmdScheduleRestart struct{}

func (CmdResume) isCommand()          {}
func (CmdSaveSlot) isCommand()        {}
func (CmdLoadSlot) isCommand()        {}
func (CmdSetOption) isCommand()       {}
func (CmdToggleCheat) isCommand()     {}
func (CmdDiscEject) isCommand()       {}
func (CmdDiscInsert) isCommand()      {}
func (CmdQuit) isCommand()            {}
func (CmdScreenshot) isCommand()      {}
func (CmdScheduleRestart) isCommand() {}

// Menu tracks pause-menu navigation state across one Open/Close visit.
type Menu struct {
	screen   Screen
	snapshot Snapshot

	mainIndex    int
	slotMode     SlotMode
	slotIndex    int
	optionsIndex int
	cheatsIndex  int
	discIndex    int
}

// New creates a closed menu.
func New() *Menu { return &Menu{screen: ScreenNone} }

// Open transitions the menu to visible on the Main screen with snapshot
// as its data source. Called by the session exactly when it has already
// moved the host Running -> Paused.
func (m *Menu) Open(snapshot Snapshot) {
	m.screen = ScreenMain
	m.snapshot = snapshot
	m.mainIndex = 0
	m.optionsIndex = 0
	m.cheatsIndex = 0
	m.discIndex = snapshot.CurrentDisc
}

// IsOpen reports whether the menu is currently showing any screen.
func (m *Menu) IsOpen() bool { return m.screen != ScreenNone }

// Screen returns the currently active screen.
func (m *Menu) Screen() Screen { return m.screen }

// Navigate moves the current screen's selection by one step in the given
// direction (dy: -1 up, +1 down).
func (m *Menu) Navigate(dy int) {
	switch m.screen {
	case ScreenMain:
		m.mainIndex = wrap(m.mainIndex+dy, int(mainEntryCount))
	case ScreenSlots:
		// +1 for the leading "Auto" row, which aliases numbered slot 0
		// rather than owning separate storage (spec §4.H "10 numbered +
		// Auto").
		m.slotIndex = wrap(m.slotIndex+dy, len(m.snapshot.Slots)+1)
	case ScreenOptions:
		if n := len(m.snapshot.Options); n > 0 {
			m.optionsIndex = wrap(m.optionsIndex+dy, n)
		}
	case ScreenCheats:
		if n := len(m.snapshot.Cheats); n > 0 {
			m.cheatsIndex = wrap(m.cheatsIndex+dy, n)
		}
	case ScreenDisc:
		if n := len(m.snapshot.Discs); n > 0 {
			m.discIndex = wrap(m.discIndex+dy, n)
		}
	}
}

func wrap(i, n int) int {
	if n == 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// Confirm applies the currently selected entry, returning zero or more
// commands for the session to apply. A screen transition alone (e.g.
// Main -> Slots) returns no commands.
func (m *Menu) Confirm() []Command {
	switch m.screen {
	case ScreenMain:
		return m.confirmMain()
	case ScreenSlots:
		return m.confirmSlot()
	case ScreenOptions:
		return m.confirmOption()
	case ScreenCheats:
		return m.confirmCheat()
	case ScreenDisc:
		return m.confirmDisc()
	}
	return nil
}

func (m *Menu) confirmMain() []Command {
	switch MainEntry(m.mainIndex) {
	case MainContinue:
		m.screen = ScreenNone
		return []Command{CmdResume{}}
	case MainSaveState:
		m.screen = ScreenSlots
		m.slotMode = SlotModeSave
		m.slotIndex = 0
		return nil
	case MainLoadState:
		m.screen = ScreenSlots
		m.slotMode = SlotModeLoad
		m.slotIndex = 0
		return nil
	case MainOptions:
		m.screen = ScreenOptions
		m.optionsIndex = 0
		return nil
	case MainCheats:
		m.screen = ScreenCheats
		m.cheatsIndex = 0
		return nil
	case MainDisc:
		if len(m.snapshot.Discs) > 1 {
			m.screen = ScreenDisc
			m.discIndex = m.snapshot.CurrentDisc
		}
		return nil
	case MainScreenshot:
		return []Command{CmdScreenshot{}}
	case MainQuit:
		m.screen = ScreenNone
		return []Command{CmdQuit{}}
	}
	return nil
}

func (m *Menu) confirmSlot() []Command {
	// Row 0 is "Auto"; it and row 1 ("Slot 0") both address numbered slot
	// 0, so row index 1..10 map to slots 0..9.
	slot := m.slotIndex - 1
	if slot < 0 {
		slot = 0
	}
	m.screen = ScreenMain
	if m.slotMode == SlotModeSave {
		return []Command{CmdSaveSlot{Slot: slot}}
	}
	if !m.snapshot.Slots[slot].Occupied {
		return nil
	}
	return []Command{CmdLoadSlot{Slot: slot}}
}

func (m *Menu) confirmOption() []Command {
	if len(m.snapshot.Options) == 0 {
		return nil
	}
	opt := m.snapshot.Options[m.optionsIndex]
	// An option with a single possible value is not editable; Confirm on
	// it is a no-op.
	if len(opt.Values) <= 1 {
		return nil
	}
	next := cycleChoice(opt)
	cmds := []Command{CmdSetOption{Key: opt.Key, Value: next}}
	if opt.RequiresRestart {
		cmds = append(cmds, CmdScheduleRestart{})
	}
	return cmds
}

func cycleChoice(opt libretro.Option) string {
	cur := opt.Value()
	for i, choice := range opt.Values {
		if choice == cur {
			return opt.Values[(i+1)%len(opt.Values)]
		}
	}
	return opt.Values[0]
}

func (m *Menu) confirmCheat() []Command {
	if len(m.snapshot.Cheats) == 0 {
		return nil
	}
	return []Command{CmdToggleCheat{Index: m.cheatsIndex}}
}

func (m *Menu) confirmDisc() []Command {
	idx := m.discIndex
	m.screen = ScreenMain
	if idx == m.snapshot.CurrentDisc {
		return nil
	}
	return []Command{CmdDiscEject{}, CmdDiscInsert{Index: idx}}
}

// Back returns to the parent screen, or closes the menu (with an
// implicit resume) if already at Main.
func (m *Menu) Back() []Command {
	switch m.screen {
	case ScreenMain, ScreenNone:
		m.screen = ScreenNone
		return []Command{CmdResume{}}
	default:
		m.screen = ScreenMain
		return nil
	}
}

// MainIndex, SlotIndex, OptionsIndex, CheatsIndex, DiscIndex expose the
// current selection for rendering.
// SnapshotView exposes the snapshot the menu was opened with, for the
// renderer to read row labels and occupancy/enabled state from. The
// renderer must treat it as read-only, same as Menu itself does.
func (m *Menu) SnapshotView() Snapshot { return m.snapshot }

func (m *Menu) MainIndex() int     { return m.mainIndex }
func (m *Menu) SlotIndex() int     { return m.slotIndex }
func (m *Menu) SlotMode() SlotMode { return m.slotMode }
func (m *Menu) OptionsIndex() int  { return m.optionsIndex }
func (m *Menu) CheatsIndex() int   { return m.cheatsIndex }
func (m *Menu) DiscIndex() int     { return m.discIndex }
