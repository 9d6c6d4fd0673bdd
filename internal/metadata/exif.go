package metadata

import (
	"fmt"
	"os"
	"strings"

	"github.com/On-Jun9/MediaStamp/pkg/types"
	"github.com/rwcarlsen/goexif/exif"
)

// EXIF fields in priority order: original capture time, then the generic
// image datetime.
var exifTimestampFields = []exif.FieldName{
	exif.DateTimeOriginal,
	exif.DateTime,
}

type EXIFExtractor struct{}

func NewEXIFExtractor() *EXIFExtractor {
	return &EXIFExtractor{}
}

// Extract returns the first populated EXIF timestamp field of the image. A
// file with no EXIF block at all is reported as having no timestamp; only
// I/O failures are returned as errors.
func (e *EXIFExtractor) Extract(entry types.MediaFile) (types.TimestampCandidate, error) {
	f, err := os.Open(entry.Path)
	if err != nil {
		return types.TimestampCandidate{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		if exif.IsCriticalError(err) {
			return types.TimestampCandidate{Source: "EXIF"}, nil
		}
		// Non-critical errors still leave the parsed fields usable.
		if x == nil {
			return types.TimestampCandidate{}, fmt.Errorf("decode exif: %w", err)
		}
	}

	for _, field := range exifTimestampFields {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		strVal, err := tag.StringVal()
		if err != nil {
			continue
		}
		strVal = strings.TrimSpace(strVal)
		if strVal == "" {
			continue
		}
		return types.TimestampCandidate{
			Raw:    strVal,
			Source: "EXIF:" + string(field),
			Found:  true,
		}, nil
	}

	return types.TimestampCandidate{Source: "EXIF"}, nil
}
