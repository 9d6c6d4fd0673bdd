package tagger

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/On-Jun9/MediaStamp/pkg/types"
	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
)

var id3Magic = []byte("ID3")

// id3v2 only parses v2.3 and v2.4 tags; older ones are rewritten as v2.4.
const minWritableVersion = 3

// headerVersion returns the major version byte of the ID3v2 header at the
// start of path, or 0 when the file has none.
func headerVersion(path string) (byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	header := make([]byte, len(id3Magic)+1)
	if _, err := io.ReadFull(f, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, nil
		}
		return 0, err
	}
	if !bytes.Equal(header[:len(id3Magic)], id3Magic) {
		return 0, nil
	}
	return header[len(id3Magic)], nil
}

// HasContainer reports whether the file starts with an ID3v2 header.
func HasContainer(path string) (bool, error) {
	version, err := headerVersion(path)
	return version > 0, err
}

// WriteFields opens the tag container of path, creating one when the file has
// none, sets every field and saves the file once. It reports whether a new
// container was created.
func WriteFields(path string, fields map[types.TagField]string) (bool, error) {
	version, err := headerVersion(path)
	if err != nil {
		return false, err
	}

	var carried types.TagSet
	if version > 0 && version < minWritableVersion {
		if carried, err = dropLegacyTag(path); err != nil {
			return false, fmt.Errorf("upgrade ID3v2.%d tag: %w", version, err)
		}
	}

	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return false, fmt.Errorf("open tag: %w", err)
	}
	defer t.Close()

	t.SetVersion(4)
	t.SetDefaultEncoding(id3v2.EncodingUTF8)

	merged := make(map[types.TagField]string, len(fields)+4)
	for _, field := range []types.TagField{types.TagTitle, types.TagTrackNumber, types.TagArtist, types.TagAlbum} {
		if v := carried.Get(field); v != "" {
			merged[field] = v
		}
	}
	for field, value := range fields {
		merged[field] = value
	}

	for field, value := range merged {
		switch field {
		case types.TagTitle:
			t.SetTitle(value)
		case types.TagArtist:
			t.SetArtist(value)
		case types.TagAlbum:
			t.SetAlbum(value)
		case types.TagTrackNumber:
			t.AddTextFrame(t.CommonID("Track number/Position in set"), t.DefaultEncoding(), value)
		default:
			return false, fmt.Errorf("unsupported tag field %q", field)
		}
	}

	if err := t.Save(); err != nil {
		return false, fmt.Errorf("save tag: %w", err)
	}
	return version == 0, nil
}

// dropLegacyTag reads the fields of an old ID3v2 tag and strips the whole tag
// block from the file, leaving the audio data in place.
func dropLegacyTag(path string) (types.TagSet, error) {
	set, _, err := Read(path)
	if err != nil {
		return types.TagSet{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return types.TagSet{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.TagSet{}, err
	}
	if len(data) < 10 {
		return types.TagSet{}, fmt.Errorf("truncated ID3 header")
	}

	end := 10 + syncsafe(data[6:10])
	if end > len(data) {
		end = len(data)
	}
	if err := os.WriteFile(path, data[end:], info.Mode().Perm()); err != nil {
		return types.TagSet{}, err
	}
	return set, nil
}

// syncsafe decodes a 4-byte integer that uses 7 bits per byte.
func syncsafe(b []byte) int {
	n := 0
	for _, c := range b {
		n = n<<7 | int(c&0x7f)
	}
	return n
}

// Read returns the simplified tag view of path. A file without any tags
// yields an empty set and false.
func Read(path string) (types.TagSet, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.TagSet{}, false, err
	}
	defer f.Close()

	// The ID3v1 probe seeks 128 bytes back from the end.
	if info, err := f.Stat(); err == nil && info.Size() < 128 {
		if has, err := HasContainer(path); err == nil && !has {
			return types.TagSet{}, false, nil
		}
	}

	m, err := tag.ReadFrom(f)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return types.TagSet{}, false, nil
		}
		return types.TagSet{}, false, fmt.Errorf("read tags: %w", err)
	}

	set := types.TagSet{
		Title:  m.Title(),
		Artist: m.Artist(),
		Album:  m.Album(),
	}
	if raw, ok := m.Raw()["TRCK"].(string); ok {
		set.TrackNumber = raw
	} else if raw, ok := m.Raw()["TRK"].(string); ok {
		set.TrackNumber = raw
	} else if n, _ := m.Track(); n > 0 {
		set.TrackNumber = strconv.Itoa(n)
	}
	return set, true, nil
}
