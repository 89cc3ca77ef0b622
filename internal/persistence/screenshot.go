package persistence

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/retrofe/retrofe/internal/frontend"
)

// ScreenshotPath returns where the next screenshot for this ROM would
// land: "<save_dir>/screenshots/<rom_basename>-<unixSeconds>.png". Slot
// previews use a fixed name instead, see SlotPreviewPath.
func (s *StateStore) ScreenshotPath(unixSeconds int64) string {
	return filepath.Join(s.saveDir, "screenshots", fmt.Sprintf("%s-%d.png", s.romBasename, unixSeconds))
}

// SlotPreviewPath returns the PNG path paired with a numbered save slot,
// so the Slots menu screen can show a thumbnail next to each entry.
func (s *StateStore) SlotPreviewPath(slot int) string {
	return filepath.Join(s.saveDir, fmt.Sprintf("%s.st%d.png", s.romBasename, slot))
}

// SaveScreenshot PNG-encodes img to path, creating the parent directory
// on demand. Unlike save states this is not written atomically: a
// screenshot is a convenience artifact, not data whose corruption would
// lose progress.
func SaveScreenshot(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return frontend.Wrap(frontend.KindIO, "screenshot_mkdir", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return frontend.Wrap(frontend.KindIO, "screenshot_create", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return frontend.Wrap(frontend.KindIO, "screenshot_encode", err)
	}
	return nil
}
