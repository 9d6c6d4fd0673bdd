package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/On-Jun9/MediaStamp/pkg/types"
)

// TestDefaultConfig_MatchesAllowLists는 테스트 코드 동작을 검증하거나 보조합니다.
func TestDefaultConfig_MatchesAllowLists(t *testing.T) {
	// 기본 설정은 고정된 이미지/비디오/오디오 확장자 목록과 Other 트랙을 사용해야 한다.
	cfg := DefaultConfig()

	if strings.Join(cfg.ImageExtensions, ",") != "jpg,jpeg,tiff,tif" {
		t.Fatalf("unexpected image extensions: %v", cfg.ImageExtensions)
	}
	if strings.Join(cfg.VideoExtensions, ",") != "mp4,mov,avi,mkv" {
		t.Fatalf("unexpected video extensions: %v", cfg.VideoExtensions)
	}
	if strings.Join(cfg.AudioExtensions, ",") != "mp3" {
		t.Fatalf("unexpected audio extensions: %v", cfg.AudioExtensions)
	}
	if cfg.TrackType != types.TrackTypeOther {
		t.Fatalf("expected Other track type, got %s", cfg.TrackType)
	}
	if cfg.ErrorPolicy != types.ErrorPolicyContinue {
		t.Fatalf("expected continue policy, got %s", cfg.ErrorPolicy)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

// TestConfigValidate_FillsDefaults는 테스트 코드 동작을 검증하거나 보조합니다.
func TestConfigValidate_FillsDefaults(t *testing.T) {
	// 비어 있는 값은 기본값으로 보정되고 확장자는 정규화되어야 한다.
	cfg := &Config{
		ImageExtensions: []string{".JPG", "jpg", " Tif "},
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if cfg.TrackType != types.DefaultTrackType {
		t.Fatalf("expected default track type, got %s", cfg.TrackType)
	}
	if cfg.ErrorPolicy != types.ErrorPolicyContinue {
		t.Fatalf("expected default error policy, got %s", cfg.ErrorPolicy)
	}
	if cfg.MediaInfoPath != "mediainfo" {
		t.Fatalf("unexpected mediainfo path: %s", cfg.MediaInfoPath)
	}
	if strings.Join(cfg.ImageExtensions, ",") != "jpg,tif" {
		t.Fatalf("unexpected normalized extensions: %v", cfg.ImageExtensions)
	}
}

func TestConfigValidate_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"track type", Config{TrackType: "Menu", AudioExtensions: []string{"mp3"}}, "track_type"},
		{"error policy", Config{ErrorPolicy: "retry", AudioExtensions: []string{"mp3"}}, "error_policy"},
		{"extensions", Config{}, "extensions"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validationErr.Field != tc.field {
				t.Fatalf("expected field %s, got %s", tc.field, validationErr.Field)
			}
		})
	}
}

// TestLoadFromFile_ReadsYAMLIntoConfig는 테스트 코드 동작을 검증하거나 보조합니다.
func TestLoadFromFile_ReadsYAMLIntoConfig(t *testing.T) {
	// YAML 파일 로드 시 명시 필드가 Config에 반영되고 나머지는 기본값을 유지해야 한다.
	yamlContent := strings.Join([]string{
		"track_type: Video",
		"error_policy: fail-fast",
		"strict_timestamps: true",
		"audio_extensions: [mp3, MP2]",
	}, "\n")

	filePath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(filePath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromFile(filePath)
	if err != nil {
		t.Fatalf("load from file failed: %v", err)
	}
	if cfg.TrackType != types.TrackTypeVideo || cfg.ErrorPolicy != types.ErrorPolicyFailFast {
		t.Fatalf("unexpected track type/policy: %+v", cfg)
	}
	if !cfg.StrictTimestamps {
		t.Fatal("expected strict timestamps")
	}
	if len(cfg.ImageExtensions) != 4 {
		t.Fatalf("expected default image extensions to survive, got %v", cfg.ImageExtensions)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if strings.Join(cfg.AudioExtensions, ",") != "mp3,mp2" {
		t.Fatalf("unexpected audio extensions: %v", cfg.AudioExtensions)
	}
}

// TestLoadFromFile_ReturnsReadError는 테스트 코드 동작을 검증하거나 보조합니다.
func TestLoadFromFile_ReturnsReadError(t *testing.T) {
	// 존재하지 않는 설정 파일은 read 에러를 반환해야 한다.
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected read error for missing config file")
	}
}

// TestLoadFromFile_ReturnsYAMLParseError는 테스트 코드 동작을 검증하거나 보조합니다.
func TestLoadFromFile_ReturnsYAMLParseError(t *testing.T) {
	// 잘못된 YAML 문법은 unmarshal 에러를 반환해야 한다.
	filePath := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(filePath, []byte("track_type: ["), 0644); err != nil {
		t.Fatalf("failed to write broken yaml: %v", err)
	}

	_, err := LoadFromFile(filePath)
	if err == nil {
		t.Fatal("expected yaml parse error")
	}
}

// TestValidationError_ErrorFormat는 테스트 코드 동작을 검증하거나 보조합니다.
func TestValidationError_ErrorFormat(t *testing.T) {
	err := (&ValidationError{Field: "track_type", Message: "is invalid"}).Error()
	if err != "track_type: is invalid" {
		t.Fatalf("unexpected validation error format: %s", err)
	}
}
