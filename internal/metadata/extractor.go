package metadata

import (
	"context"
	"fmt"

	"github.com/On-Jun9/MediaStamp/pkg/types"
)

// TrackReader lists the container tracks of a video file.
type TrackReader interface {
	Tracks(ctx context.Context, path string) ([]Track, error)
}

// TrackDumper receives every parsed track list, for diagnostics only.
type TrackDumper func(entry types.MediaFile, tracks []Track)

type Extractor struct {
	exif      *EXIFExtractor
	tracks    TrackReader
	trackType types.TrackType
	dump      TrackDumper
}

func New(tracks TrackReader, trackType types.TrackType) *Extractor {
	if trackType == "" {
		trackType = types.DefaultTrackType
	}
	return &Extractor{
		exif:      NewEXIFExtractor(),
		tracks:    tracks,
		trackType: trackType,
	}
}

func (e *Extractor) SetTrackDumper(fn TrackDumper) {
	e.dump = fn
}

// Extract returns the timestamp candidate for an image or video file.
func (e *Extractor) Extract(ctx context.Context, entry types.MediaFile) (types.TimestampCandidate, error) {
	switch entry.Kind {
	case types.MediaKindImage:
		return e.exif.Extract(entry)
	case types.MediaKindVideo:
		tracks, err := e.tracks.Tracks(ctx, entry.Path)
		if err != nil {
			return types.TimestampCandidate{}, err
		}
		if e.dump != nil {
			e.dump(entry, tracks)
		}
		return EncodedDate(tracks, e.trackType), nil
	default:
		return types.TimestampCandidate{}, fmt.Errorf("unsupported media kind %q for %s", entry.Kind, entry.Name)
	}
}
