package config

import (
	"os"
	"strings"

	"github.com/On-Jun9/MediaStamp/internal/scanner"
	"github.com/On-Jun9/MediaStamp/pkg/types"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ImageExtensions  []string          `yaml:"image_extensions" json:"image_extensions"`
	VideoExtensions  []string          `yaml:"video_extensions" json:"video_extensions"`
	AudioExtensions  []string          `yaml:"audio_extensions" json:"audio_extensions"`
	TrackType        types.TrackType   `yaml:"track_type" json:"track_type"`
	ErrorPolicy      types.ErrorPolicy `yaml:"error_policy" json:"error_policy"`
	MediaInfoPath    string            `yaml:"mediainfo_path" json:"mediainfo_path"`
	StrictTimestamps bool              `yaml:"strict_timestamps" json:"strict_timestamps"`
	DryRun           bool              `yaml:"dry_run" json:"dry_run"`
	LogFile          string            `yaml:"log_file" json:"log_file"`
	LogJSON          bool              `yaml:"log_json" json:"log_json"`
	Verbose          bool              `yaml:"verbose" json:"verbose"`
}

func DefaultConfig() *Config {
	return &Config{
		ImageExtensions:  append([]string(nil), scanner.ImageExtensions...),
		VideoExtensions:  append([]string(nil), scanner.VideoExtensions...),
		AudioExtensions:  append([]string(nil), scanner.AudioExtensions...),
		TrackType:        types.DefaultTrackType,
		ErrorPolicy:      types.ErrorPolicyContinue,
		MediaInfoPath:    "mediainfo",
		StrictTimestamps: false,
		DryRun:           false,
		LogFile:          "",
		LogJSON:          false,
		Verbose:          false,
	}
}

func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.TrackType == "" {
		c.TrackType = types.DefaultTrackType
	}
	if !c.TrackType.Valid() {
		return &ValidationError{Field: "track_type", Message: "must be one of General, Video, Audio, Other"}
	}

	switch c.ErrorPolicy {
	case "":
		c.ErrorPolicy = types.ErrorPolicyContinue
	case types.ErrorPolicyContinue, types.ErrorPolicyFailFast:
	default:
		return &ValidationError{Field: "error_policy", Message: "must be continue or fail-fast"}
	}

	c.ImageExtensions = normalizeExtensions(c.ImageExtensions)
	c.VideoExtensions = normalizeExtensions(c.VideoExtensions)
	c.AudioExtensions = normalizeExtensions(c.AudioExtensions)
	if len(c.ImageExtensions) == 0 && len(c.VideoExtensions) == 0 && len(c.AudioExtensions) == 0 {
		return &ValidationError{Field: "extensions", Message: "at least one extension is required"}
	}

	if c.MediaInfoPath == "" {
		c.MediaInfoPath = "mediainfo"
	}

	return nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	seen := make(map[string]bool)
	for _, ext := range exts {
		ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		out = append(out, ext)
	}
	return out
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
