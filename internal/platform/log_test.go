package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retrofe/retrofe/internal/frontend"
)

func TestNewLoggerCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	l, err := NewLogger(path, 1024, 3)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer l.Close()

	l.Printf("hello %d", 1)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello 1") {
		t.Fatalf("log missing written line: %q", data)
	}
}

func TestLoggerRotatesWhenOverBudget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	l, err := NewLogger(path, 64, 2)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer l.Close()

	for i := 0; i < 20; i++ {
		l.Printf("line number %d of filler text to exceed budget", i)
	}

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Fatalf("expected a .1 rotation to exist: %v", err)
	}
}

func TestLoggerRotationShiftsAndCapsAtMaxRotate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	l, err := NewLogger(path, 32, 2)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer l.Close()

	for i := 0; i < 60; i++ {
		l.Printf("filler line %d pushing past the byte budget repeatedly", i)
	}

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Fatalf("expected .1 to exist: %v", err)
	}
	if _, err := os.Stat(path + ".2"); err != nil {
		t.Fatalf("expected .2 to exist: %v", err)
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Fatalf("expected no .3 beyond maxRotate=2, stat err = %v", err)
	}
}

func TestLogKindRateLimitedSuppressesWithinWindow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	l, err := NewLogger(path, 1<<20, 3)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer l.Close()

	l.LogKindRateLimited(frontend.KindAudioUnderflow, "underflow 1")
	l.LogKindRateLimited(frontend.KindAudioUnderflow, "underflow 2")

	data, _ := os.ReadFile(path)
	if strings.Count(string(data), "underflow") != 1 {
		t.Fatalf("expected exactly one rate-limited line, got: %q", data)
	}
}
