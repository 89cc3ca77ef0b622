package persistence

import "testing"

func TestMemoryStoreSnapshotThenFlush(t *testing.T) {
	dir := t.TempDir()
	m := NewMemoryStore(dir, "game.gba")

	if data, err := m.LoadOnBoot("sram"); err != nil || data != nil {
		t.Fatalf("LoadOnBoot on fresh cart: data=%v err=%v", data, err)
	}

	m.Snapshot("sram", []byte{1, 2, 3})
	if err := m.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if !Exists(m.path("sram")) {
		t.Fatal("sram file missing after flush")
	}
}

func TestMemoryStoreFlushSkipsUnchangedRegion(t *testing.T) {
	dir := t.TempDir()
	m := NewMemoryStore(dir, "game.gba")

	m.Snapshot("sram", []byte{1, 2, 3})
	if err := m.Flush(); err != nil {
		t.Fatal(err)
	}

	// Same bytes again: Snapshot should not mark dirty, so a second
	// Flush with no changes must not error and should leave the file as
	// it was (nothing to verify beyond "still succeeds").
	m.Snapshot("sram", []byte{1, 2, 3})
	if err := m.Flush(); err != nil {
		t.Fatalf("second Flush: %v", err)
	}
}

func TestMemoryStoreLoadOnBootRestoresPriorSnapshot(t *testing.T) {
	dir := t.TempDir()
	m1 := NewMemoryStore(dir, "game.gba")
	m1.Snapshot("sram", []byte{9, 9, 9})
	if err := m1.Flush(); err != nil {
		t.Fatal(err)
	}

	m2 := NewMemoryStore(dir, "game.gba")
	data, err := m2.LoadOnBoot("sram")
	if err != nil {
		t.Fatalf("LoadOnBoot: %v", err)
	}
	if string(data) != string([]byte{9, 9, 9}) {
		t.Fatalf("got %v, want [9 9 9]", data)
	}
}
