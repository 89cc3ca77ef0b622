package romloader

import (
	"fmt"
	"path/filepath"

	"github.com/bodgit/sevenzip"
)

func extractFrom7z(path string, extensions []string) ([]byte, string, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("open 7z: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !isROMFile(f.Name, extensions) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, "", fmt.Errorf("open %s in 7z: %w", f.Name, err)
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
