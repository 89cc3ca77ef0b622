// Package romloader resolves a ROM path argument into the raw bytes the
// libretro core should receive, transparently reaching into ZIP, 7z, RAR
// and gzip/tar.gz archives when the ROM itself lives inside one. Archive
// members are matched against the platform's known ROM extensions the
// same way the underlying core would name them.
package romloader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/retrofe/retrofe/internal/frontend"
)

var (
	magicZIP    = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4B, 0x05, 0x06} // empty zip
	magic7z     = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip   = []byte{0x1F, 0x8B}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21} // "Rar!"
)

// MaxROMSize bounds any single extracted member; a handheld's SDCARD_PATH
// budget is finite and a corrupt archive claiming an absurd member size
// should fail loudly rather than exhaust memory. Overridable for cores
// whose largest legitimate ROM exceeds the default (e.g. PS1 discs).
var MaxROMSize int64 = 64 * 1024 * 1024

type formatType int

const (
	formatUnknown formatType = iota
	formatRaw
	formatZIP
	format7z
	formatGzip
	formatRAR
)

// Result is a resolved ROM: its bytes, the display name of the member
// actually loaded (useful when an archive's inner filename differs from
// the archive's own basename), and the path that was opened on disk.
type Result struct {
	Data       []byte
	Name       string
	SourcePath string
}

// Load resolves path into ROM bytes, auto-detecting archives by magic
// bytes (falling back to extension) and extracting the first member whose
// name matches one of extensions. A plain, non-archived file matching one
// of extensions is read as-is.
func Load(path string, extensions []string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, frontend.Wrap(frontend.KindGameLoad, "rom_open", err)
	}
	defer f.Close()

	header := make([]byte, 16)
	n, err := f.Read(header)
	if err != nil && err != io.EOF {
		return Result{}, frontend.Wrap(frontend.KindGameLoad, "rom_header", err)
	}
	header = header[:n]

	format := detectFormat(header, path, extensions)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return Result{}, frontend.Wrap(frontend.KindGameLoad, "rom_seek", err)
	}

	var data []byte
	var name string
	switch format {
	case formatRaw:
		data, err = limitedRead(f)
		name = filepath.Base(path)
	case formatZIP:
		data, name, err = extractFromZIP(path, extensions)
	case format7z:
		data, name, err = extractFrom7z(path, extensions)
	case formatGzip:
		data, name, err = extractFromGzip(path, extensions)
	case formatRAR:
		data, name, err = extractFromRAR(path, extensions)
	default:
		err = fmt.Errorf("unrecognized ROM container: %s", path)
	}
	if err != nil {
		return Result{}, frontend.Wrap(frontend.KindGameLoad, "rom_extract", err)
	}
	return Result{Data: data, Name: name, SourcePath: path}, nil
}

func detectFormat(header []byte, path string, extensions []string) formatType {
	ext := strings.ToLower(filepath.Ext(path))

	if len(header) >= 4 {
		if bytes.HasPrefix(header, magicZIP) || bytes.HasPrefix(header, magicZIPEnd) {
			return formatZIP
		}
		if bytes.HasPrefix(header, magicRAR) {
			return formatRAR
		}
	}
	if len(header) >= 6 && bytes.HasPrefix(header, magic7z) {
		return format7z
	}
	if len(header) >= 2 && bytes.HasPrefix(header, magicGzip) {
		return formatGzip
	}

	switch ext {
	case ".zip":
		return formatZIP
	case ".7z":
		return format7z
	case ".gz", ".tgz":
		return formatGzip
	case ".rar":
		return formatRAR
	}
	if strings.HasSuffix(strings.ToLower(path), ".tar.gz") {
		return formatGzip
	}

	for _, romExt := range extensions {
		if ext == strings.ToLower(romExt) {
			return formatRaw
		}
	}
	return formatUnknown
}

// isROMFile matches name against extensions case-insensitively; archive
// tooling on every platform in practice normalizes extension casing
// inconsistently, so this is distinct from the M3U disc-name matching in
// m3u.go, which must stay case-sensitive.
func isROMFile(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

func limitedRead(r io.Reader) ([]byte, error) {
	lr := io.LimitReader(r, MaxROMSize+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > MaxROMSize {
		return nil, fmt.Errorf("member exceeds %d byte limit", MaxROMSize)
	}
	return data, nil
}
