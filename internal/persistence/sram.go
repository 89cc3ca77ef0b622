package persistence

import (
	"path/filepath"
	"sync"

	"github.com/retrofe/retrofe/internal/frontend"
)

// MemoryStore snapshots a core's battery-backed memory regions (SRAM,
// RTC) on boot and flushes them back to disk on pause, slot change, and
// clean exit. A dirty flag per region avoids rewriting an unchanged
// region, matching the host's "snapshotted on boot, flushed on pause"
// contract.
type MemoryStore struct {
	mu       sync.Mutex
	saveDir  string
	basename string
	regions  map[string]*memoryRegion
}

type memoryRegion struct {
	ext   string
	data  []byte
	dirty bool
}

// NewMemoryStore roots a MemoryStore at saveDir for the given ROM
// basename.
func NewMemoryStore(saveDir, romBasename string) *MemoryStore {
	return &MemoryStore{
		saveDir:  saveDir,
		basename: stripExt(romBasename),
		regions: map[string]*memoryRegion{
			"sram": {ext: ".sav"},
			"rtc":  {ext: ".rtc"},
		},
	}
}

func (m *MemoryStore) path(region string) string {
	return filepath.Join(m.saveDir, m.basename+m.regions[region].ext)
}

// LoadOnBoot reads an existing region file from disk, if any, for the
// session to copy into the core's live memory region (Host.MemoryRegion)
// right after the game is loaded. A
// missing file is not an error: a fresh cartridge has no prior SRAM.
func (m *MemoryStore) LoadOnBoot(region string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.regions[region]
	if !ok {
		return nil, nil
	}
	if !Exists(m.path(region)) {
		return nil, nil
	}
	data, err := ReadFile(m.path(region))
	if err != nil {
		return nil, frontend.Wrap(frontend.KindIO, "load_memory_region:"+region, err)
	}
	r.data = data
	r.dirty = false
	return data, nil
}

// Snapshot records the core's current memory region contents (from
// get_memory_data/get_memory_size) as the in-memory copy to flush later.
// Marks the region dirty only if the bytes actually changed, so a flush
// triggered by a mere pause with no writes since boot is a no-op.
func (m *MemoryStore) Snapshot(region string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.regions[region]
	if !ok {
		return
	}
	if bytesEqual(r.data, data) {
		return
	}
	r.data = append([]byte(nil), data...)
	r.dirty = true
}

// Flush writes every dirty region to disk atomically and clears the
// dirty flags. Called on pause, slot change, and clean exit.
func (m *MemoryStore) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, r := range m.regions {
		if !r.dirty || r.data == nil {
			continue
		}
		if err := WriteFile(m.path(name), r.data); err != nil {
			return frontend.Wrap(frontend.KindIO, "flush_memory_region:"+name, err)
		}
		r.dirty = false
	}
	return nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
