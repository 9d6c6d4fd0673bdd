package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/On-Jun9/MediaStamp/internal/config"
	"github.com/On-Jun9/MediaStamp/internal/log"
	"github.com/On-Jun9/MediaStamp/internal/renamer"
	"github.com/On-Jun9/MediaStamp/internal/scanner"
	"github.com/On-Jun9/MediaStamp/internal/tagger"
	"github.com/On-Jun9/MediaStamp/pkg/types"
	"github.com/spf13/cobra"
)

var (
	appVersion       = "0.1.0"
	cfgFile          string
	logFile          string
	logJSON          bool
	verbose          bool
	errorPolicy      string
	dryRun           bool
	trackType        string
	strictTimestamps bool
	mediainfoPath    string
	albumName        string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mediastamp",
	Short: "Rename photos/videos by capture date and fix MP3 tags",
	Long: `MediaStamp renames images and videos in place after the timestamp found
in their metadata (EXIF/container), and rewrites MP3 tags from the filename,
the folder name or a given album name.`,
	SilenceUsage: true,
}

var renameCmd = &cobra.Command{
	Use:   "rename [dir]",
	Short: "Rename images and videos after their embedded timestamp",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRename,
}

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Rewrite MP3 tag fields",
}

var tagTitleCmd = &cobra.Command{
	Use:   "title <dir>",
	Short: `Set title and track number from "NN-Title.mp3" filenames`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTag(args[0], func(e *tagger.Editor, dir string) (*types.RunSummary, error) {
			return e.SetTitleAndTrackFromFilename(dir)
		})
	},
}

var tagArtistCmd = &cobra.Command{
	Use:   "artist <dir>",
	Short: "Set artist to the name of <dir> for every MP3 below it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTag(args[0], func(e *tagger.Editor, dir string) (*types.RunSummary, error) {
			return e.SetArtistFromFolder(dir)
		})
	},
}

var tagAlbumCmd = &cobra.Command{
	Use:   "album <dir>",
	Short: "Set album for every MP3 below <dir>",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		album := albumName
		if album == "" {
			if err := survey.AskOne(&survey.Input{Message: "Album name:"}, &album, survey.WithValidator(survey.Required)); err != nil {
				return err
			}
		}
		return runTag(args[0], func(e *tagger.Editor, dir string) (*types.RunSummary, error) {
			return e.SetAlbum(dir, album)
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(appVersion)
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
	tagCmd.AddCommand(tagTitleCmd, tagArtistCmd, tagAlbumCmd)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file path")
	pf.StringVar(&logFile, "log-file", "", "log file path")
	pf.BoolVar(&logJSON, "log-json", false, "write JSON lines to the log file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "print debug output (track dumps)")
	pf.StringVar(&errorPolicy, "error-policy", "", "per-file error policy: continue, fail-fast")

	renameCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report planned renames without renaming")
	renameCmd.Flags().StringVar(&trackType, "track-type", "", "video track whose Encoded_Date is used: General, Video, Audio, Other")
	renameCmd.Flags().BoolVar(&strictTimestamps, "strict", false, "skip files whose timestamp does not parse")
	renameCmd.Flags().StringVar(&mediainfoPath, "mediainfo", "", "path to the mediainfo binary")

	tagAlbumCmd.Flags().StringVar(&albumName, "name", "", "album name (prompted when empty)")

	inspectCmd.Flags().StringVar(&trackType, "track-type", "", "video track whose Encoded_Date is used")
	inspectCmd.Flags().StringVar(&mediainfoPath, "mediainfo", "", "path to the mediainfo binary")
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		cfg = config.DefaultConfig()
	}

	if logFile != "" {
		cfg.LogFile = logFile
	}
	if logJSON {
		cfg.LogJSON = true
	}
	if verbose {
		cfg.Verbose = true
	}
	if errorPolicy != "" {
		cfg.ErrorPolicy = types.ErrorPolicy(errorPolicy)
	}
	if dryRun {
		cfg.DryRun = true
	}
	if trackType != "" {
		cfg.TrackType = types.TrackType(trackType)
	}
	if strictTimestamps {
		cfg.StrictTimestamps = true
	}
	if mediainfoPath != "" {
		cfg.MediaInfoPath = mediainfoPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runRename(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var target string
	if len(args) == 1 {
		target = args[0]
	} else if err := survey.AskOne(&survey.Input{Message: "Directory to process:"}, &target, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	if err := scanner.CheckDir(target); err != nil {
		return fmt.Errorf("the path is not a valid directory, rerun with a correct path: %w", err)
	}

	logger, err := log.New(cfg.LogFile, cfg.LogJSON, cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	_, err = renamer.New(cfg, logger).Run(ctx, target)
	return err
}

func runTag(dir string, op func(e *tagger.Editor, dir string) (*types.RunSummary, error)) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := scanner.CheckDir(dir); err != nil {
		return err
	}

	logger, err := log.New(cfg.LogFile, cfg.LogJSON, cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	_, err = op(tagger.New(cfg.AudioExtensions, cfg.ErrorPolicy, logger), dir)
	return err
}
