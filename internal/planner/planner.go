package planner

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/On-Jun9/MediaStamp/pkg/types"
)

// ErrMalformedTimestamp is returned in strict mode when a raw timestamp does
// not match the layout its metadata source is expected to use.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

const (
	exifLayout  = "2006:01:02 15:04:05"
	videoLayout = "2006-01-02 15:04:05"
)

type Planner struct {
	strict bool
}

// New returns a planner. In strict mode raw timestamps are parsed and
// validated before any name is derived; otherwise only characters are
// substituted.
func New(strict bool) *Planner {
	return &Planner{strict: strict}
}

// Plan builds the rename task for entry. A task without a DestPath means no
// usable timestamp was found.
func (p *Planner) Plan(entry types.MediaFile, ts types.TimestampCandidate) (types.RenameTask, error) {
	task := types.RenameTask{
		Source:    entry,
		Timestamp: ts,
	}

	if !ts.Found {
		task.Action = types.RenameActionNoTimestamp
		return task, nil
	}

	var stem string
	switch entry.Kind {
	case types.MediaKindImage:
		if p.strict {
			if _, err := time.Parse(exifLayout, ts.Raw); err != nil {
				task.Action = types.RenameActionNoTimestamp
				return task, fmt.Errorf("%w: %q: %v", ErrMalformedTimestamp, ts.Raw, err)
			}
		}
		stem = ImageStem(ts.Raw)
	case types.MediaKindVideo:
		if p.strict {
			if _, err := time.Parse(videoLayout, stripUTC(ts.Raw)); err != nil {
				task.Action = types.RenameActionNoTimestamp
				return task, fmt.Errorf("%w: %q: %v", ErrMalformedTimestamp, ts.Raw, err)
			}
		}
		stem = VideoStem(ts.Raw)
	default:
		return task, fmt.Errorf("cannot plan rename for %s file %s", entry.Kind, entry.Name)
	}

	task.DestPath = filepath.Join(entry.Dir, stem+filepath.Ext(entry.Name))
	return task, nil
}

// ImageStem turns an EXIF datetime into a filename stem: spaces become
// underscores and colons are dropped ("2023:10:10 12:34:56" -> "20231010_123456").
func ImageStem(raw string) string {
	return strings.ReplaceAll(strings.ReplaceAll(raw, " ", "_"), ":", "")
}

// VideoStem turns a container encoded date into a filename stem. The UTC
// marker is removed, colons and hyphens are dropped and the remaining space
// becomes an underscore ("UTC 2023-10-10 12:34:56" -> "20231010_123456").
func VideoStem(raw string) string {
	// MediaInfo reports "UTC 2023-10-10 12:34:56"; the prefix is dropped as
	// well so names start with the date instead of "UTC_".
	s := stripUTC(raw)
	s = strings.ReplaceAll(s, ":", "")
	s = strings.ReplaceAll(s, "-", "")
	return strings.ReplaceAll(s, " ", "_")
}

// stripUTC removes the UTC marker MediaInfo puts either before or after the date.
func stripUTC(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, " UTC")
	s = strings.TrimPrefix(s, "UTC ")
	return s
}
