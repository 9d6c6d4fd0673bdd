package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/On-Jun9/MediaStamp/pkg/types"
)

// ErrMediaInfoNotFound is returned when the mediainfo binary cannot be located.
var ErrMediaInfoNotFound = errors.New("mediainfo binary not found")

const encodedDateAttr = "Encoded_Date"

// Track is one track descriptor reported by MediaInfo.
type Track struct {
	Type       string
	Attributes map[string]string
}

// Attr looks up an attribute by name, ignoring case.
func (t Track) Attr(name string) (string, bool) {
	if v, ok := t.Attributes[name]; ok {
		return v, true
	}
	for k, v := range t.Attributes {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// AttrNames returns the attribute names in sorted order.
func (t Track) AttrNames() []string {
	names := make([]string, 0, len(t.Attributes))
	for k := range t.Attributes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// MediaInfoParser reads container metadata by running the mediainfo CLI.
type MediaInfoParser struct {
	binary string
}

func NewMediaInfoParser(binary string) *MediaInfoParser {
	if binary == "" {
		binary = "mediainfo"
	}
	return &MediaInfoParser{binary: binary}
}

// Tracks runs a single mediainfo JSON call against path.
func (p *MediaInfoParser) Tracks(ctx context.Context, path string) ([]Track, error) {
	bin, err := exec.LookPath(p.binary)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.binary, ErrMediaInfoNotFound)
	}

	cmd := exec.CommandContext(ctx, bin, "--Output=JSON", path)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("mediainfo %q: %w", path, err)
	}

	return ParseMediaInfoJSON(out)
}

// ParseMediaInfoJSON converts raw mediainfo JSON output into tracks.
// Exported for testing without a real mediainfo binary.
func ParseMediaInfoJSON(data []byte) ([]Track, error) {
	var raw mediaInfoOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse mediainfo JSON: %w", err)
	}

	tracks := make([]Track, 0, len(raw.Media.Track))
	for _, rt := range raw.Media.Track {
		tr := Track{Attributes: make(map[string]string, len(rt))}
		for k, v := range rt {
			if k == "@type" {
				tr.Type = stringify(v)
				continue
			}
			flatten(tr.Attributes, k, v)
		}
		tracks = append(tracks, tr)
	}
	return tracks, nil
}

// EncodedDate returns the encoded date of the first track of the given type.
func EncodedDate(tracks []Track, trackType types.TrackType) types.TimestampCandidate {
	source := "MediaInfo:" + string(trackType) + "/" + encodedDateAttr
	for _, tr := range tracks {
		if tr.Type != string(trackType) {
			continue
		}
		date, ok := tr.Attr(encodedDateAttr)
		date = strings.TrimSpace(date)
		if !ok || date == "" {
			return types.TimestampCandidate{Source: source}
		}
		return types.TimestampCandidate{Raw: date, Source: source, Found: true}
	}
	return types.TimestampCandidate{Source: source}
}

// --- mediainfo JSON wire types ---

type mediaInfoOutput struct {
	Media struct {
		Ref   string           `json:"@ref"`
		Track []map[string]any `json:"track"`
	} `json:"media"`
}

func flatten(dst map[string]string, key string, v any) {
	if nested, ok := v.(map[string]any); ok {
		for nk, nv := range nested {
			flatten(dst, key+"."+nk, nv)
		}
		return
	}
	dst[key] = stringify(v)
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
