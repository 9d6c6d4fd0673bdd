// Package types defines core data structures used across MediaStamp modules.
package types

import (
	"time"
)

// MediaKind classifies a file by its extension.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
	MediaKindAudio MediaKind = "audio"
	MediaKindOther MediaKind = "other"
)

// MediaFile represents a file discovered by the walker.
type MediaFile struct {
	// Path is the absolute path to the file.
	Path string
	// Name is the base filename.
	Name string
	// Dir is the directory containing the file.
	Dir string
	// ParentName is the last path component of Dir.
	ParentName string
	// Extension is the lowercase file extension without dot (e.g., "jpg", "mp4").
	Extension string
	// Kind is the media classification derived from Extension.
	Kind MediaKind
}

// TagField names a field in an audio tag container.
type TagField string

const (
	TagTitle       TagField = "title"
	TagTrackNumber TagField = "tracknumber"
	TagArtist      TagField = "artist"
	TagAlbum       TagField = "album"
)

// TagSet holds the simplified tag view of an audio file.
type TagSet struct {
	Title       string `json:"title,omitempty"`
	TrackNumber string `json:"tracknumber,omitempty"`
	Artist      string `json:"artist,omitempty"`
	Album       string `json:"album,omitempty"`
}

// Get returns the value of a named field.
func (t TagSet) Get(field TagField) string {
	switch field {
	case TagTitle:
		return t.Title
	case TagTrackNumber:
		return t.TrackNumber
	case TagArtist:
		return t.Artist
	case TagAlbum:
		return t.Album
	}
	return ""
}

// TimestampCandidate is a date/time string extracted from file metadata.
type TimestampCandidate struct {
	// Raw is the value exactly as the metadata reader returned it.
	Raw string
	// Source indicates where the value came from (e.g., "EXIF:DateTimeOriginal").
	Source string
	// Found is false when no field in the priority order held a value.
	Found bool
}

// TrackType selects the container track whose encoded date is used for videos.
type TrackType string

const (
	TrackTypeGeneral TrackType = "General"
	TrackTypeVideo   TrackType = "Video"
	TrackTypeAudio   TrackType = "Audio"
	TrackTypeOther   TrackType = "Other"
)

// DefaultTrackType is the selector used when none is configured.
const DefaultTrackType = TrackTypeOther

// Valid reports whether t is one of the known track types.
func (t TrackType) Valid() bool {
	switch t {
	case TrackTypeGeneral, TrackTypeVideo, TrackTypeAudio, TrackTypeOther:
		return true
	}
	return false
}

// ErrorPolicy defines what happens when a single file fails.
type ErrorPolicy string

const (
	// ErrorPolicyContinue records the failure and moves on to the next file.
	ErrorPolicyContinue ErrorPolicy = "continue"
	// ErrorPolicyFailFast aborts the whole directory operation.
	ErrorPolicyFailFast ErrorPolicy = "fail-fast"
)

// RenameAction represents the outcome for a single file in the renamer.
type RenameAction string

const (
	RenameActionRenamed     RenameAction = "renamed"
	RenameActionNoTimestamp RenameAction = "skipped-no-timestamp"
	RenameActionCollision   RenameAction = "skipped-collision"
	RenameActionDryRun      RenameAction = "dry-run"
	RenameActionFailed      RenameAction = "failed"
)

// RenameTask represents a planned or executed rename.
type RenameTask struct {
	// Source is the file being renamed.
	Source MediaFile
	// Timestamp is the candidate the canonical name was derived from.
	Timestamp TimestampCandidate
	// DestPath is the canonical path in the same directory. Empty when no
	// timestamp was found.
	DestPath string
	// Action indicates what was done.
	Action RenameAction
	// Error contains the error message if the task failed.
	Error string
}

// TagTask records the tag fields written to one audio file.
type TagTask struct {
	File MediaFile
	// Fields holds the values written, keyed by field name.
	Fields map[TagField]string
	// CreatedContainer is true when the file had no tag header before.
	CreatedContainer bool
	Error            string
}

// RunSummary contains statistics for a completed run.
type RunSummary struct {
	ScannedFiles int
	TotalFiles   int
	Renamed      int
	Tagged       int
	NoTimestamp  int
	Collisions   int
	DryRun       int
	Failed       int
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
}
