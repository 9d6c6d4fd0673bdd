package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/On-Jun9/MediaStamp/internal/metadata"
	"github.com/On-Jun9/MediaStamp/internal/planner"
	"github.com/On-Jun9/MediaStamp/internal/scanner"
	"github.com/On-Jun9/MediaStamp/internal/tagger"
	"github.com/On-Jun9/MediaStamp/pkg/types"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <dir>",
	Short: "Show current tags and timestamp candidates without changing anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := scanner.CheckDir(args[0]); err != nil {
			return err
		}

		files, err := scanner.New(cfg.ImageExtensions, cfg.VideoExtensions, cfg.AudioExtensions).Scan(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		extractor := metadata.New(metadata.NewMediaInfoParser(cfg.MediaInfoPath), cfg.TrackType)
		rows := inspectRows(ctx, files, extractor, planner.New(cfg.StrictTimestamps))

		fmt.Fprintln(cmd.OutOrStdout(), renderTable(
			[]string{"File", "Kind", "Value", "Source", "Target"},
			rows,
		))
		return nil
	},
}

type timestampExtractor interface {
	Extract(ctx context.Context, entry types.MediaFile) (types.TimestampCandidate, error)
}

func inspectRows(ctx context.Context, files []types.MediaFile, extractor timestampExtractor, p *planner.Planner) [][]string {
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		row := []string{f.Name, string(f.Kind), "", "", ""}

		switch f.Kind {
		case types.MediaKindAudio:
			set, ok, err := tagger.Read(f.Path)
			switch {
			case err != nil:
				row[2] = "error: " + err.Error()
			case !ok:
				row[2] = "(no tag)"
			default:
				row[2] = fmt.Sprintf("%s. %s / %s / %s", set.TrackNumber, set.Title, set.Artist, set.Album)
				row[3] = "ID3"
			}
		case types.MediaKindImage, types.MediaKindVideo:
			ts, err := extractor.Extract(ctx, f)
			if err != nil {
				row[2] = "error: " + err.Error()
				break
			}
			row[3] = ts.Source
			if !ts.Found {
				row[2] = "(no timestamp)"
				break
			}
			row[2] = ts.Raw
			if task, err := p.Plan(f, ts); err == nil && task.DestPath != "" {
				row[4] = filepath.Base(task.DestPath)
			}
		}

		rows = append(rows, row)
	}
	return rows
}
