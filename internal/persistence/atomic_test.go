package persistence

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileThenReadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "x.bin")
	want := []byte{1, 2, 3, 4, 5}

	if err := WriteFile(path, want); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestWriteFileLeavesNoTmpOnSuccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.bin")
	if err := WriteFile(path, []byte{1}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected no .tmp remnant after success, stat err = %v", err)
	}
}

func TestExistsIgnoresTmpRemnant(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.bin")
	os.WriteFile(path+".tmp", []byte{1}, 0o644)

	if Exists(path) {
		t.Fatal("Exists reported true for a .tmp-only remnant")
	}
}

func TestWriteFileOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.bin")
	if err := WriteFile(path, []byte("old")); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(path, []byte("newvalue")); err != nil {
		t.Fatal(err)
	}
	got, _ := ReadFile(path)
	if string(got) != "newvalue" {
		t.Fatalf("got %q, want newvalue", got)
	}
}
