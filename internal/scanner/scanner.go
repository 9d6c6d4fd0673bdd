package scanner

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/On-Jun9/MediaStamp/pkg/types"
	"github.com/karrick/godirwalk"
)

// ErrNotADirectory is returned when a root path is missing or not a directory.
var ErrNotADirectory = errors.New("not a directory")

// errStopWalk ends a walk early when the consumer stops ranging.
var errStopWalk = errors.New("walk stopped")

var (
	ImageExtensions = []string{"jpg", "jpeg", "tiff", "tif"}
	VideoExtensions = []string{"mp4", "mov", "avi", "mkv"}
	AudioExtensions = []string{"mp3"}
)

// CheckDir verifies that root exists and is a directory.
func CheckDir(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%s: %w", root, ErrNotADirectory)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", root, ErrNotADirectory)
	}
	return nil
}

// Walk yields every regular file under root by recursive descent. Entries are
// sorted within each directory, so the order is stable for an unchanged tree.
// The sequence cannot be restarted once the consumer stops.
//
// A root that is itself a symlink is resolved before walking; yielded paths
// still start with root as given.
func Walk(root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		walkRoot, err := filepath.EvalSymlinks(root)
		if err != nil {
			yield("", err)
			return
		}

		err = godirwalk.Walk(walkRoot, &godirwalk.Options{
			Unsorted: false,
			Callback: func(osPathname string, de *godirwalk.Dirent) error {
				if isDir, err := de.IsDirOrSymlinkToDir(); err == nil && isDir {
					return nil
				}
				path := osPathname
				if rel, err := filepath.Rel(walkRoot, osPathname); err == nil {
					path = filepath.Join(root, rel)
				}
				if !yield(path, nil) {
					return errStopWalk
				}
				return nil
			},
		})
		if err != nil && !errors.Is(err, errStopWalk) {
			yield("", err)
		}
	}
}

type Scanner struct {
	kinds map[string]types.MediaKind
}

// New builds a scanner keeping only the given image, video and audio
// extensions. Matching is case-insensitive.
func New(image, video, audio []string) *Scanner {
	kinds := make(map[string]types.MediaKind)
	add := func(exts []string, kind types.MediaKind) {
		for _, ext := range exts {
			kinds[normalizeExt(ext)] = kind
		}
	}
	add(image, types.MediaKindImage)
	add(video, types.MediaKindVideo)
	add(audio, types.MediaKindAudio)
	return &Scanner{kinds: kinds}
}

// Scan walks root and returns every matching file. The full list is collected
// before returning so callers can mutate the tree afterwards.
func (s *Scanner) Scan(root string) ([]types.MediaFile, error) {
	var entries []types.MediaFile

	for path, err := range Walk(root) {
		if err != nil {
			return entries, err
		}

		entry := NewMediaFile(path)
		kind, ok := s.kinds[entry.Extension]
		if !ok {
			continue
		}
		entry.Kind = kind
		entries = append(entries, entry)
	}

	return entries, nil
}

// Classify returns the media kind the scanner assigns to ext.
func (s *Scanner) Classify(ext string) types.MediaKind {
	if kind, ok := s.kinds[normalizeExt(ext)]; ok {
		return kind
	}
	return types.MediaKindOther
}

// NewMediaFile describes path without touching the filesystem.
func NewMediaFile(path string) types.MediaFile {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	dir := filepath.Dir(path)
	return types.MediaFile{
		Path:       path,
		Name:       filepath.Base(path),
		Dir:        dir,
		ParentName: filepath.Base(dir),
		Extension:  normalizeExt(filepath.Ext(path)),
		Kind:       types.MediaKindOther,
	}
}

func normalizeExt(ext string) string {
	return strings.TrimPrefix(strings.ToLower(ext), ".")
}
