package romloader

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Playlist is a parsed M3U disc list, in file order. Relative entries
// are joined onto the M3U's directory, so they are absolute only when the
// M3U path itself is.
type Playlist struct {
	Discs []string
}

// LoadPlaylist reads an M3U file: one disc path per line, relative to the
// M3U's own directory, blank lines and "#" comments ignored, CRLF
// tolerant.
func LoadPlaylist(path string) (*Playlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open m3u: %w", err)
	}
	defer f.Close()

	dir := filepath.Dir(path)
	var discs []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !filepath.IsAbs(line) {
			line = filepath.Join(dir, line)
		}
		discs = append(discs, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read m3u: %w", err)
	}
	return &Playlist{Discs: discs}, nil
}

// ResolveDiscCase verifies that want names a disc in the playlist using an
// exact, case-sensitive match against the entries actually present on
// disk in dir. An exact match is returned even when other entries differ
// from it only in case. Without an exact match, entries that match only
// case-insensitively are reported as an error rather than silently
// picking one: the menu's Disc screen fails rather than guessing which
// image to insert.
func ResolveDiscCase(dir, want string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read disc dir: %w", err)
	}

	var exact string
	var foldMatches []string
	for _, e := range entries {
		name := e.Name()
		if name == want {
			exact = name
		}
		if strings.EqualFold(name, want) {
			foldMatches = append(foldMatches, name)
		}
	}

	if exact != "" {
		return filepath.Join(dir, exact), nil
	}
	if len(foldMatches) == 0 {
		return "", fmt.Errorf("disc image %q not found in %s", want, dir)
	}
	return "", fmt.Errorf("disc image %q ambiguous in %s (case-insensitive matches: %v) and no exact match exists", want, dir, foldMatches)
}
