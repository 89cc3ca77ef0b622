package romloader

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

func extractFromGzip(path string, extensions []string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open gzip: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, "", fmt.Errorf("gzip reader: %w", err)
	}
	defer gr.Close()

	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz") {
		return extractFromTar(gr, extensions)
	}

	data, err := limitedRead(gr)
	if err != nil {
		return nil, "", fmt.Errorf("decompress gzip: %w", err)
	}
	name := filepath.Base(path)
	if strings.HasSuffix(strings.ToLower(name), ".gz") {
		name = name[:len(name)-3]
	}
	return data, name, nil
}

func extractFromTar(r io.Reader, extensions []string) ([]byte, string, error) {
	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("read tar entry: %w", err)
		}
		if header.Typeflag != tar.TypeReg || !isROMFile(header.Name, extensions) {
			continue
		}
		data, err := limitedRead(tr)
		if err != nil {
			return nil, "", fmt.Errorf("read %s from tar: %w", header.Name, err)
		}
		return data, filepath.Base(header.Name), nil
	}
	return nil, "", fmt.Errorf("no matching ROM member in tar")
}
