package romloader

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRawFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.gba")
	want := []byte{0xde, 0xad, 0xbe, 0xef}
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Load(path, []string{".gba"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(res.Data) != string(want) {
		t.Fatalf("data = %v, want %v", res.Data, want)
	}
	if res.Name != "game.gba" {
		t.Fatalf("name = %q", res.Name)
	}
}

func TestLoadUnrecognizedExtensionErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.unknown")
	os.WriteFile(path, []byte{1, 2, 3}, 0o644)

	if _, err := Load(path, []string{".gba"}); err == nil {
		t.Fatal("expected error for unrecognized container")
	}
}

func TestLoadFromZIPExtractsMatchingMember(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "game.zip")
	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("readme.txt")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("not a rom"))
	w, err = zw.Create("game.gba")
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{1, 2, 3, 4}
	w.Write(want)
	zw.Close()
	f.Close()

	res, err := Load(zipPath, []string{".gba"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(res.Data) != string(want) {
		t.Fatalf("data = %v, want %v", res.Data, want)
	}
	if res.Name != "game.gba" {
		t.Fatalf("name = %q, want game.gba", res.Name)
	}
}

func TestLoadRejectsOversizedMember(t *testing.T) {
	old := MaxROMSize
	MaxROMSize = 4
	defer func() { MaxROMSize = old }()

	dir := t.TempDir()
	path := filepath.Join(dir, "game.gba")
	os.WriteFile(path, []byte{1, 2, 3, 4, 5}, 0o644)

	if _, err := Load(path, []string{".gba"}); err == nil {
		t.Fatal("expected oversized-member error")
	}
}
