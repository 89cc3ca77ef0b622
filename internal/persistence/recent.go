package persistence

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/retrofe/retrofe/internal/frontend"
)

// RecentEntry is one line of recent.txt: a ROM path and an optional
// display name.
type RecentEntry struct {
	Path        string
	DisplayName string
}

// LoadRecent reads "<path>[\t<display_name>]" lines, newest-first, and
// drops entries whose Path no longer exists on disk.
func LoadRecent(path string) ([]RecentEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, frontend.Wrap(frontend.KindIO, "load_recent", err)
	}
	defer f.Close()

	var entries []RecentEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		e := RecentEntry{Path: parts[0]}
		if len(parts) == 2 {
			e.DisplayName = parts[1]
		}
		if !Exists(e.Path) {
			continue
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, frontend.Wrap(frontend.KindIO, "load_recent", err)
	}
	return entries, nil
}

// SaveRecent atomically rewrites recent.txt, newest-first, capping it to
// maxEntries so the file never grows unbounded across a long play
// history.
func SaveRecent(path string, entries []RecentEntry, maxEntries int) error {
	if len(entries) > maxEntries {
		entries = entries[:maxEntries]
	}
	var b strings.Builder
	for _, e := range entries {
		if e.DisplayName != "" {
			fmt.Fprintf(&b, "%s\t%s\n", e.Path, e.DisplayName)
		} else {
			fmt.Fprintf(&b, "%s\n", e.Path)
		}
	}
	if err := WriteFile(path, []byte(b.String())); err != nil {
		return frontend.Wrap(frontend.KindIO, "save_recent", err)
	}
	return nil
}

// PushRecent moves entry to the front of entries, removing any prior
// occurrence of the same path so a re-launched ROM jumps back to the top
// instead of appearing twice.
func PushRecent(entries []RecentEntry, entry RecentEntry) []RecentEntry {
	out := make([]RecentEntry, 0, len(entries)+1)
	out = append(out, entry)
	for _, e := range entries {
		if e.Path != entry.Path {
			out = append(out, e)
		}
	}
	return out
}
