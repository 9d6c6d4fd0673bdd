package renamer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/On-Jun9/MediaStamp/internal/config"
	"github.com/On-Jun9/MediaStamp/internal/log"
	"github.com/On-Jun9/MediaStamp/internal/metadata"
	"github.com/On-Jun9/MediaStamp/internal/mover"
	"github.com/On-Jun9/MediaStamp/internal/scanner"
	"github.com/On-Jun9/MediaStamp/internal/testsupport"
	"github.com/On-Jun9/MediaStamp/pkg/types"
)

// fakeTracks serves canned MediaInfo tracks keyed by file name.
type fakeTracks struct {
	byName map[string][]metadata.Track
	err    error
}

func (f *fakeTracks) Tracks(ctx context.Context, path string) ([]metadata.Track, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byName[filepath.Base(path)], nil
}

func otherTrack(date string) []metadata.Track {
	return []metadata.Track{
		{Type: "General", Attributes: map[string]string{"Format": "MPEG-4"}},
		{Type: "Other", Attributes: map[string]string{"Encoded_Date": date}},
	}
}

func newTestRenamer(t *testing.T, tracks metadata.TrackReader, mutate func(*config.Config)) *Renamer {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid config: %v", err)
	}
	if tracks == nil {
		tracks = &fakeTracks{}
	}
	return NewWithTrackReader(cfg, tracks, log.NewConsole(io.Discard, false))
}

func writeImage(t *testing.T, path, dateTimeOriginal string) {
	t.Helper()
	tags := map[uint16]string{}
	if dateTimeOriginal != "" {
		tags[testsupport.TagDateTimeOriginal] = dateTimeOriginal
	}
	testsupport.WriteTIFF(t, path, tags)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// TestRun_RenamesImageFromExif는 테스트 코드 동작을 검증하거나 보조합니다.
func TestRun_RenamesImageFromExif(t *testing.T) {
	// EXIF 원본 촬영 시각으로 같은 폴더 안에서 이름이 바뀌어야 한다.
	dir := t.TempDir()
	src := filepath.Join(dir, "IMG_0001.jpg")
	writeImage(t, src, "2023:10:10 12:34:56")

	summary, err := newTestRenamer(t, nil, nil).Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if summary.Renamed != 1 {
		t.Fatalf("expected 1 rename, got %+v", summary)
	}
	if exists(src) {
		t.Fatal("source should have been renamed")
	}
	if !exists(filepath.Join(dir, "20231010_123456.jpg")) {
		t.Fatal("expected canonical file to exist")
	}
}

// TestRun_SecondRunSelfCollides는 테스트 코드 동작을 검증하거나 보조합니다.
func TestRun_SecondRunSelfCollides(t *testing.T) {
	// 이미 정규 이름인 파일은 두 번째 실행에서 자기 충돌로 skip되어야 한다.
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "IMG_0001.jpg"), "2023:10:10 12:34:56")

	r := newTestRenamer(t, nil, nil)
	if _, err := r.Run(context.Background(), dir); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	summary, err := r.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if summary.Renamed != 0 || summary.Collisions != 1 || summary.Failed != 0 {
		t.Fatalf("unexpected second run summary: %+v", summary)
	}
	if !exists(filepath.Join(dir, "20231010_123456.jpg")) {
		t.Fatal("canonical file must survive the second run")
	}
}

// TestRun_SameTimestampRenamesExactlyOne는 테스트 코드 동작을 검증하거나 보조합니다.
func TestRun_SameTimestampRenamesExactlyOne(t *testing.T) {
	// 같은 정규 이름으로 매핑되는 두 파일 중 하나만 바뀌고 다른 하나는 그대로여야 한다.
	dir := t.TempDir()
	first := filepath.Join(dir, "IMG_0001.jpg")
	second := filepath.Join(dir, "IMG_0002.jpg")
	writeImage(t, first, "2023:10:10 12:34:56")
	writeImage(t, second, "2023:10:10 12:34:56")

	summary, err := newTestRenamer(t, nil, nil).Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if summary.Renamed != 1 || summary.Collisions != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if exists(first) {
		t.Fatal("first file should have been renamed")
	}
	if !exists(second) {
		t.Fatal("second file must be left untouched")
	}
}

func TestRun_NoExifIsSkipped(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.jpg")
	testsupport.WriteFile(t, plain, []byte("not a jpeg"))
	noDate := filepath.Join(dir, "scan.tif")
	writeImage(t, noDate, "")

	summary, err := newTestRenamer(t, nil, nil).Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if summary.NoTimestamp != 2 || summary.Renamed != 0 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !exists(plain) || !exists(noDate) {
		t.Fatal("files without timestamps must not be touched")
	}
}

// TestRun_RenamesVideoFromTrack는 테스트 코드 동작을 검증하거나 보조합니다.
func TestRun_RenamesVideoFromTrack(t *testing.T) {
	// 설정된 트랙(Other)의 Encoded_Date로 비디오 이름이 바뀌어야 한다.
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "clip.MOV"), []byte("video"))
	testsupport.WriteFile(t, filepath.Join(dir, "nodate.mp4"), []byte("video"))

	tracks := &fakeTracks{byName: map[string][]metadata.Track{
		"clip.MOV": otherTrack("UTC 2023-10-10 12:34:56"),
		"nodate.mp4": {
			{Type: "General", Attributes: map[string]string{"Encoded_Date": "UTC 2020-01-01 00:00:00"}},
		},
	}}

	summary, err := newTestRenamer(t, tracks, nil).Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if summary.Renamed != 1 || summary.NoTimestamp != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !exists(filepath.Join(dir, "20231010_123456.MOV")) {
		t.Fatal("expected canonical video name with original extension")
	}
	if !exists(filepath.Join(dir, "nodate.mp4")) {
		t.Fatal("video without an Other track must be left alone")
	}
}

func TestRun_TrackTypeOverride(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "clip.mp4"), []byte("video"))

	tracks := &fakeTracks{byName: map[string][]metadata.Track{
		"clip.mp4": {{Type: "General", Attributes: map[string]string{"Encoded_Date": "2021-05-06 07:08:09 UTC"}}},
	}}
	r := newTestRenamer(t, tracks, func(cfg *config.Config) { cfg.TrackType = types.TrackTypeGeneral })

	if _, err := r.Run(context.Background(), dir); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !exists(filepath.Join(dir, "20210506_070809.mp4")) {
		t.Fatal("expected rename from General track")
	}
}

// TestListMediaFiles_CountsAllowListOnly는 테스트 코드 동작을 검증하거나 보조합니다.
func TestListMediaFiles_CountsAllowListOnly(t *testing.T) {
	// 허용 목록(대소문자 무시)에 맞는 파일만 세어야 한다.
	dir := t.TempDir()
	for _, name := range []string{
		"a.jpg", "b.JPEG", "c.tiff", "sub/d.TIF",
		"e.mp4", "sub/deep/f.Mov", "g.avi", "h.mkv",
		"readme.txt", "song.mp3", "sub/photo.png",
	} {
		testsupport.WriteFile(t, filepath.Join(dir, name), []byte("x"))
	}

	files, err := newTestRenamer(t, nil, nil).ListMediaFiles(dir)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	images, videos := 0, 0
	for _, f := range files {
		switch f.Kind {
		case types.MediaKindImage:
			images++
		case types.MediaKindVideo:
			videos++
		}
	}
	if len(files) != 8 || images != 4 || videos != 4 {
		t.Fatalf("expected 4 images + 4 videos, got %d files (%d images, %d videos)", len(files), images, videos)
	}
}

// TestRun_ContinuesPastFailures는 테스트 코드 동작을 검증하거나 보조합니다.
func TestRun_ContinuesPastFailures(t *testing.T) {
	// 파일 단위 오류는 기록만 하고 다음 파일을 계속 처리해야 한다.
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "a_clip.mp4"), []byte("video"))
	writeImage(t, filepath.Join(dir, "b_photo.jpg"), "2023:10:10 12:34:56")

	tracks := &fakeTracks{err: errors.New("mediainfo exploded")}
	summary, err := newTestRenamer(t, tracks, nil).Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("continue policy should not abort: %v", err)
	}
	if summary.Failed != 1 || summary.Renamed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestRun_FailFastStopsAtFirstFailure(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "a_clip.mp4"), []byte("video"))
	photo := filepath.Join(dir, "b_photo.jpg")
	writeImage(t, photo, "2023:10:10 12:34:56")

	tracks := &fakeTracks{err: errors.New("mediainfo exploded")}
	r := newTestRenamer(t, tracks, func(cfg *config.Config) { cfg.ErrorPolicy = types.ErrorPolicyFailFast })

	summary, err := r.Run(context.Background(), dir)
	if err == nil {
		t.Fatal("expected fail-fast error")
	}
	if summary.Failed != 1 || summary.Renamed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !exists(photo) {
		t.Fatal("files after the failure must be untouched")
	}
}

// TestRun_DryRun는 테스트 코드 동작을 검증하거나 보조합니다.
func TestRun_DryRun(t *testing.T) {
	// dry-run은 계획만 보고하고 파일을 바꾸지 않아야 하며, 중복 대상은 충돌로 보고해야 한다.
	dir := t.TempDir()
	first := filepath.Join(dir, "IMG_0001.jpg")
	second := filepath.Join(dir, "IMG_0002.jpg")
	writeImage(t, first, "2023:10:10 12:34:56")
	writeImage(t, second, "2023:10:10 12:34:56")

	r := newTestRenamer(t, nil, func(cfg *config.Config) { cfg.DryRun = true })
	summary, err := r.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if summary.DryRun != 1 || summary.Collisions != 1 || summary.Renamed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !exists(first) || !exists(second) {
		t.Fatal("dry run must not rename anything")
	}
}

func TestRun_StrictTimestampsSkipMalformed(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "IMG_0001.jpg")
	writeImage(t, src, "0000:00:00 00:00:00")

	r := newTestRenamer(t, nil, func(cfg *config.Config) { cfg.StrictTimestamps = true })
	summary, err := r.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if summary.NoTimestamp != 1 || !exists(src) {
		t.Fatalf("malformed timestamp should be skipped: %+v", summary)
	}
}

func TestRun_RejectsInvalidRoot(t *testing.T) {
	_, err := newTestRenamer(t, nil, nil).Run(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, scanner.ErrNotADirectory) {
		t.Fatalf("expected ErrNotADirectory, got %v", err)
	}
}

func TestRenameImageByExif_Direct(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "DSC_1.tif")
	writeImage(t, src, "2024:01:02 03:04:05")

	r := newTestRenamer(t, nil, nil)
	task := r.RenameImageByExif(context.Background(), scanner.NewMediaFile(src))

	if task.Action != types.RenameActionRenamed {
		t.Fatalf("unexpected action %s (%s)", task.Action, task.Error)
	}
	if filepath.Base(task.DestPath) != "20240102_030405.tif" {
		t.Fatalf("unexpected dest %s", task.DestPath)
	}
	if task.Timestamp.Source != "EXIF:DateTimeOriginal" {
		t.Fatalf("unexpected timestamp source %s", task.Timestamp.Source)
	}
}

// flakyMover fails the move of one source file and renames everything else.
type flakyMover struct {
	failSrc string
	inner   *mover.Mover
}

func (m *flakyMover) Move(src, dst string) error {
	if filepath.Base(src) == m.failSrc {
		return os.ErrPermission
	}
	return m.inner.Move(src, dst)
}

func (m *flakyMover) DryRun() bool { return false }

// TestRun_FailedMoveReleasesTarget는 테스트 코드 동작을 검증하거나 보조합니다.
func TestRun_FailedMoveReleasesTarget(t *testing.T) {
	// 충돌이 아닌 이유로 이동이 실패하면 같은 이름의 다음 파일은 충돌 없이 이름이 바뀌어야 한다.
	dir := t.TempDir()
	first := filepath.Join(dir, "a.jpg")
	second := filepath.Join(dir, "b.jpg")
	writeImage(t, first, "2023:10:10 12:34:56")
	writeImage(t, second, "2023:10:10 12:34:56")

	r := newTestRenamer(t, nil, nil)
	r.mover = &flakyMover{failSrc: "a.jpg", inner: mover.New(false)}

	summary, err := r.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if summary.Failed != 1 || summary.Renamed != 1 || summary.Collisions != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !exists(first) || exists(second) || !exists(filepath.Join(dir, "20231010_123456.jpg")) {
		t.Fatal("expected b.jpg to take the canonical name")
	}
}

// TestRun_FailFastPrintsSummary는 테스트 코드 동작을 검증하거나 보조합니다.
func TestRun_FailFastPrintsSummary(t *testing.T) {
	// fail-fast로 중단되어도 그때까지의 집계가 출력되어야 한다.
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "a_clip.mp4"), []byte("video"))

	cfg := config.DefaultConfig()
	cfg.ErrorPolicy = types.ErrorPolicyFailFast
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	r := NewWithTrackReader(cfg, &fakeTracks{err: errors.New("mediainfo exploded")}, log.NewConsole(&out, false))

	if _, err := r.Run(context.Background(), dir); err == nil {
		t.Fatal("expected fail-fast error")
	}
	if !strings.Contains(out.String(), "=== MediaStamp Summary ===") || !strings.Contains(out.String(), "Failed:         1") {
		t.Fatalf("expected summary output, got:\n%s", out.String())
	}
}
