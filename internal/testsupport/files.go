package testsupport

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// TIFF tag IDs used by the EXIF fixtures.
const (
	TagDateTime         uint16 = 0x0132
	TagDateTimeOriginal uint16 = 0x9003
)

// WriteFile creates path (and its parent directories) with the given content.
func WriteFile(t testing.TB, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteTIFF writes a minimal little-endian TIFF whose first IFD carries the
// given ASCII tags. A nil map produces a valid TIFF with no entries.
func WriteTIFF(t testing.TB, path string, tags map[uint16]string) {
	t.Helper()
	WriteFile(t, path, BuildTIFF(tags))
}

// BuildTIFF returns the bytes WriteTIFF would write.
func BuildTIFF(tags map[uint16]string) []byte {
	ids := make([]int, 0, len(tags))
	for id := range tags {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)

	le := binary.LittleEndian
	header := []byte{0x49, 0x49, 0x2A, 0x00, 0x08, 0x00, 0x00, 0x00}

	ifdSize := 2 + 12*len(ids) + 4
	dataOffset := uint32(len(header) + ifdSize)

	ifd := make([]byte, 0, ifdSize)
	ifd = le.AppendUint16(ifd, uint16(len(ids)))

	var data []byte
	for _, id := range ids {
		ascii := append([]byte(tags[uint16(id)]), 0x00)

		ifd = le.AppendUint16(ifd, uint16(id))
		ifd = le.AppendUint16(ifd, 2) // ASCII
		ifd = le.AppendUint32(ifd, uint32(len(ascii)))

		if len(ascii) <= 4 {
			inline := make([]byte, 4)
			copy(inline, ascii)
			ifd = append(ifd, inline...)
			continue
		}
		ifd = le.AppendUint32(ifd, dataOffset+uint32(len(data)))
		data = append(data, ascii...)
	}
	ifd = le.AppendUint32(ifd, 0) // next IFD

	out := append(header, ifd...)
	return append(out, data...)
}
