package persistence

import (
	"errors"
	"testing"

	"github.com/retrofe/retrofe/internal/frontend"
)

func TestSaveStatePathStripsROMExtension(t *testing.T) {
	s := NewStateStore("/saves", "zelda.gba")
	if got, want := s.StatePath(3), "/saves/zelda.st3"; got != want {
		t.Fatalf("StatePath = %q, want %q", got, want)
	}
}

func TestSaveThenLoadStateRoundTrips(t *testing.T) {
	dir := t.TempDir()
	s := NewStateStore(dir, "game.gba")

	if s.HasState(AutoSlot) {
		t.Fatal("HasState true before any save")
	}
	want := []byte{0xaa, 0xbb, 0xcc}
	if err := s.SaveState(AutoSlot, want); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if !s.HasState(AutoSlot) {
		t.Fatal("HasState false after save")
	}
	got, err := s.LoadState(AutoSlot)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLoadStateMissingSlotReturnsIOKind(t *testing.T) {
	dir := t.TempDir()
	s := NewStateStore(dir, "game.gba")

	_, err := s.LoadState(5)
	if err == nil {
		t.Fatal("expected error for missing slot")
	}
	var fe *frontend.Error
	if !errors.As(err, &fe) {
		t.Fatalf("error is not a frontend.Error: %v", err)
	}
	if fe.Kind != frontend.KindIO {
		t.Fatalf("Kind = %v, want KindIO", fe.Kind)
	}
}

func TestResumeTokenWriteReadClear(t *testing.T) {
	dir := t.TempDir()
	s := NewStateStore(dir, "game.gba")

	if Exists(s.ResumeTokenPath()) {
		t.Fatal("resume token exists before write")
	}
	if err := s.WriteResumeToken("/cores/gba.so", "/roms/game.gba", true, "resume"); err != nil {
		t.Fatalf("WriteResumeToken: %v", err)
	}
	if !Exists(s.ResumeTokenPath()) {
		t.Fatal("resume token missing after write")
	}
	if err := s.ClearResumeToken(); err != nil {
		t.Fatalf("ClearResumeToken: %v", err)
	}
	if Exists(s.ResumeTokenPath()) {
		t.Fatal("resume token still present after clear")
	}
	// Clearing an already-absent token must not error.
	if err := s.ClearResumeToken(); err != nil {
		t.Fatalf("ClearResumeToken on absent token: %v", err)
	}
}
