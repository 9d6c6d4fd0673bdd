// Package renamer renames images and videos after their embedded timestamps.
package renamer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/On-Jun9/MediaStamp/internal/config"
	"github.com/On-Jun9/MediaStamp/internal/log"
	"github.com/On-Jun9/MediaStamp/internal/metadata"
	"github.com/On-Jun9/MediaStamp/internal/mover"
	"github.com/On-Jun9/MediaStamp/internal/planner"
	"github.com/On-Jun9/MediaStamp/internal/policy"
	"github.com/On-Jun9/MediaStamp/internal/scanner"
	"github.com/On-Jun9/MediaStamp/pkg/types"
)

// fileMover performs the rename once a target has been claimed.
type fileMover interface {
	Move(src, dst string) error
	DryRun() bool
}

type Renamer struct {
	cfg      *config.Config
	scanner  *scanner.Scanner
	meta     *metadata.Extractor
	planner  *planner.Planner
	conflict *policy.ConflictResolver
	mover    fileMover
	logger   *log.Logger
}

// New builds a renamer that reads video metadata with the mediainfo CLI.
func New(cfg *config.Config, logger *log.Logger) *Renamer {
	return NewWithTrackReader(cfg, metadata.NewMediaInfoParser(cfg.MediaInfoPath), logger)
}

// NewWithTrackReader builds a renamer around a custom video track reader.
func NewWithTrackReader(cfg *config.Config, tracks metadata.TrackReader, logger *log.Logger) *Renamer {
	meta := metadata.New(tracks, cfg.TrackType)
	meta.SetTrackDumper(func(entry types.MediaFile, tracks []metadata.Track) {
		dumpTracks(logger, entry, tracks)
	})

	return &Renamer{
		cfg:      cfg,
		scanner:  scanner.New(cfg.ImageExtensions, cfg.VideoExtensions, nil),
		meta:     meta,
		planner:  planner.New(cfg.StrictTimestamps),
		conflict: policy.NewConflictResolver(),
		mover:    mover.New(cfg.DryRun),
		logger:   logger,
	}
}

// ListMediaFiles returns every image and video under dir.
func (r *Renamer) ListMediaFiles(dir string) ([]types.MediaFile, error) {
	if err := scanner.CheckDir(dir); err != nil {
		return nil, err
	}
	return r.scanner.Scan(dir)
}

// RenameImageByExif renames one image after its EXIF capture time.
func (r *Renamer) RenameImageByExif(ctx context.Context, file types.MediaFile) types.RenameTask {
	file.Kind = types.MediaKindImage
	return r.process(ctx, file)
}

// RenameVideoByMetadata renames one video after its container encoded date.
func (r *Renamer) RenameVideoByMetadata(ctx context.Context, file types.MediaFile) types.RenameTask {
	file.Kind = types.MediaKindVideo
	return r.process(ctx, file)
}

// process never returns an error: every failure is recorded on the task.
func (r *Renamer) process(ctx context.Context, file types.MediaFile) types.RenameTask {
	ts, err := r.meta.Extract(ctx, file)
	if err != nil {
		return failed(types.RenameTask{Source: file}, err)
	}

	task, err := r.planner.Plan(file, ts)
	if err != nil {
		if errors.Is(err, planner.ErrMalformedTimestamp) {
			r.logger.Debug(fmt.Sprintf("%s: %v", file.Path, err))
			task.Action = types.RenameActionNoTimestamp
			task.DestPath = ""
			return task
		}
		return failed(task, err)
	}
	if task.Action == types.RenameActionNoTimestamp {
		return task
	}

	resolution := r.conflict.Resolve(&task)
	if resolution.Skip {
		task.Action = resolution.Action
		if !resolution.SelfCollision {
			r.noteDuplicate(task)
		}
		return task
	}

	if err := r.mover.Move(file.Path, task.DestPath); err != nil {
		if errors.Is(err, mover.ErrTargetExists) {
			task.Action = types.RenameActionCollision
			return task
		}
		r.conflict.Release(task.DestPath)
		return failed(task, err)
	}

	task.Action = types.RenameActionRenamed
	if r.mover.DryRun() {
		task.Action = types.RenameActionDryRun
	}
	return task
}

func (r *Renamer) noteDuplicate(task types.RenameTask) {
	dup, err := policy.IsDuplicate(task.Source.Path, task.DestPath)
	if err == nil && dup {
		r.logger.Info(fmt.Sprintf("%s has the same content as %s", task.Source.Name, filepath.Base(task.DestPath)))
	}
}

// Run enumerates every media file under dir first, then processes each one
// in order. Per-file failures are reported and, unless the error policy is
// fail-fast, processing continues.
func (r *Renamer) Run(ctx context.Context, dir string) (*types.RunSummary, error) {
	startTime := time.Now()

	r.logger.Info("Starting scan: '" + dir + "'")

	entries, err := r.ListMediaFiles(dir)
	if err != nil {
		return nil, err
	}

	r.logger.Info(strconv.Itoa(len(entries)) + " files found.")

	summary := &types.RunSummary{
		ScannedFiles: len(entries),
		TotalFiles:   len(entries),
		StartTime:    startTime,
	}
	r.conflict = policy.NewConflictResolver()

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			finish(summary)
			return summary, err
		}

		r.logger.Progress(i+1, len(entries), entry.Name)

		var task types.RenameTask
		switch entry.Kind {
		case types.MediaKindImage:
			task = r.RenameImageByExif(ctx, entry)
		case types.MediaKindVideo:
			task = r.RenameVideoByMetadata(ctx, entry)
		default:
			continue
		}

		r.logger.LogRename(task)

		switch task.Action {
		case types.RenameActionRenamed:
			summary.Renamed++
		case types.RenameActionDryRun:
			summary.DryRun++
		case types.RenameActionNoTimestamp:
			summary.NoTimestamp++
		case types.RenameActionCollision:
			summary.Collisions++
		case types.RenameActionFailed:
			summary.Failed++
			if r.cfg.ErrorPolicy == types.ErrorPolicyFailFast {
				finish(summary)
				r.logger.Summary(*summary)
				return summary, fmt.Errorf("rename %s: %s", entry.Path, task.Error)
			}
		}
	}

	finish(summary)
	r.logger.Summary(*summary)
	return summary, nil
}

func failed(task types.RenameTask, err error) types.RenameTask {
	task.Action = types.RenameActionFailed
	task.Error = err.Error()
	return task
}

func finish(summary *types.RunSummary) {
	summary.EndTime = time.Now()
	summary.Duration = summary.EndTime.Sub(summary.StartTime)
}

func dumpTracks(logger *log.Logger, entry types.MediaFile, tracks []metadata.Track) {
	logger.Debug(fmt.Sprintf("%s: %d tracks", entry.Path, len(tracks)))
	for _, tr := range tracks {
		logger.Debug("track type: " + tr.Type)
		for _, name := range tr.AttrNames() {
			logger.Debug(fmt.Sprintf("  %s: %s", name, tr.Attributes[name]))
		}
	}
}
