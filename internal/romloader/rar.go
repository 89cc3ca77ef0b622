package romloader

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/nwaples/rardecode/v2"
)

func extractFromRAR(path string, extensions []string) ([]byte, string, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("open rar: %w", err)
	}
	defer r.Close()

	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("read rar entry: %w", err)
		}
		if header.IsDir || !isROMFile(header.Name, extensions) {
			continue
		}
		data, err := limitedRead(r)
		if err != nil {
			return nil, "", fmt.Errorf("read %s: %w", header.Name, err)
		}
		return data, filepath.Base(header.Name), nil
	}
	return nil, "", fmt.Errorf("no matching ROM member in %s", path)
}
