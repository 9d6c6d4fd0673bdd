// Package tagger rewrites audio tag fields from filesystem context.
package tagger

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/On-Jun9/MediaStamp/internal/log"
	"github.com/On-Jun9/MediaStamp/internal/scanner"
	"github.com/On-Jun9/MediaStamp/pkg/types"
)

// FieldFunc derives the tag fields to write for one audio file.
type FieldFunc func(file types.MediaFile) map[types.TagField]string

type Editor struct {
	scanner *scanner.Scanner
	policy  types.ErrorPolicy
	logger  *log.Logger
}

func New(audioExtensions []string, policy types.ErrorPolicy, logger *log.Logger) *Editor {
	if policy == "" {
		policy = types.ErrorPolicyContinue
	}
	return &Editor{
		scanner: scanner.New(nil, nil, audioExtensions),
		policy:  policy,
		logger:  logger,
	}
}

// SetTitleAndTrackFromFilename sets title and tracknumber of every audio file
// under dir from its "NNx Title.mp3" style filename.
func (e *Editor) SetTitleAndTrackFromFilename(dir string) (*types.RunSummary, error) {
	return e.Apply(dir, func(file types.MediaFile) map[types.TagField]string {
		return map[types.TagField]string{
			types.TagTitle:       TitleFromFilename(file.Name),
			types.TagTrackNumber: TrackFromFilename(file.Name),
		}
	})
}

// SetArtistFromFolder sets the artist of every audio file under dir to the
// base name of dir itself, regardless of the subfolder a file sits in.
func (e *Editor) SetArtistFromFolder(dir string) (*types.RunSummary, error) {
	artist := filepath.Base(filepath.Clean(dir))
	return e.Apply(dir, func(types.MediaFile) map[types.TagField]string {
		return map[types.TagField]string{types.TagArtist: artist}
	})
}

// SetAlbum writes album into every audio file under dir.
func (e *Editor) SetAlbum(dir, album string) (*types.RunSummary, error) {
	return e.Apply(dir, func(types.MediaFile) map[types.TagField]string {
		return map[types.TagField]string{types.TagAlbum: album}
	})
}

// Apply enumerates every audio file under dir, then writes the fields
// returned by fn into each one, saving once per file.
func (e *Editor) Apply(dir string, fn FieldFunc) (*types.RunSummary, error) {
	startTime := time.Now()

	if err := scanner.CheckDir(dir); err != nil {
		return nil, err
	}

	files, err := e.scanner.Scan(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	summary := &types.RunSummary{
		ScannedFiles: len(files),
		TotalFiles:   len(files),
		StartTime:    startTime,
	}
	e.logger.Info(fmt.Sprintf("Found %d audio files in '%s'", len(files), dir))

	for i, file := range files {
		e.logger.Progress(i+1, len(files), file.Name)

		task := types.TagTask{File: file, Fields: fn(file)}
		created, err := WriteFields(file.Path, task.Fields)
		task.CreatedContainer = created

		if err != nil {
			task.Error = err.Error()
			summary.Failed++
			e.logger.LogTag(task)
			if e.policy == types.ErrorPolicyFailFast {
				finish(summary)
				e.logger.Summary(*summary)
				return summary, fmt.Errorf("tag %s: %w", file.Path, err)
			}
			continue
		}

		summary.Tagged++
		e.logger.LogTag(task)
	}

	finish(summary)
	e.logger.Summary(*summary)
	return summary, nil
}

func finish(summary *types.RunSummary) {
	summary.EndTime = time.Now()
	summary.Duration = summary.EndTime.Sub(summary.StartTime)
}
