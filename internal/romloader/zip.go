package romloader

import (
	"archive/zip"
	"fmt"
	"path/filepath"
)

func extractFromZIP(path string, extensions []string) ([]byte, string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !isROMFile(f.Name, extensions) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, "", fmt.Errorf("open %s in zip: %w", f.Name, err)
		}
		data, err := limitedRead(rc)
		rc.Close()
		if err != nil {
			return nil, "", fmt.Errorf("read %s: %w", f.Name, err)
		}
		return data, filepath.Base(f.Name), nil
	}
	return nil, "", fmt.Errorf("no matching ROM member in %s", path)
}
