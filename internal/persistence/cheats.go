package persistence

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/retrofe/retrofe/internal/libretro"
)

// CheatsPath returns the per-ROM cheat list file (spec §3 "Cheat":
// index, description, code string, enabled).
func (s *StateStore) CheatsPath() string {
	return filepath.Join(s.saveDir, s.romBasename+".cht")
}

// LoadCheats reads a cheat list in the simple tolerant format this
// frontend writes: one cheat per line, "description|code|enabled",
// `#`-prefixed comments and blank lines skipped, grounded on the same
// bufio.Scanner tolerant-parsing idiom config.ParseLayer uses for its
// own line-oriented format. A missing file is not an error: a ROM with
// no cheat list simply has none.
func LoadCheats(path string) ([]libretro.Cheat, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var out []libretro.Cheat
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "|", 3)
		if len(parts) != 3 {
			continue
		}
		out = append(out, libretro.Cheat{
			Index:       len(out),
			Description: parts[0],
			Code:        parts[1],
			Enabled:     parts[2] == "1" || parts[2] == "true",
		})
	}
	return out, scanner.Err()
}

// SaveCheats persists cheats back to path atomically, preserving
// whatever enabled/disabled state the menu's Cheats screen produced.
func SaveCheats(path string, cheats []libretro.Cheat) error {
	var b strings.Builder
	for _, c := range cheats {
		enabled := "0"
		if c.Enabled {
			enabled = "1"
		}
		fmt.Fprintf(&b, "%s|%s|%s\n", c.Description, c.Code, enabled)
	}
	return WriteFile(path, []byte(b.String()))
}
