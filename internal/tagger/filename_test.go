package tagger

import "testing"

func TestTitleFromFilename(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"01-Intro.mp3", "Intro"},
		{"07 Sadeness.mp3", "Sadeness"},
		{"12 Mea Culpa.mp3", "Mea Culpa"},
		{"03 原来的我.mp3", "原来的我"},
		{"01-.mp3", ""},
		{"a.mp3", ""},
	}
	for _, tc := range cases {
		if got := TitleFromFilename(tc.name); got != tc.want {
			t.Errorf("TitleFromFilename(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

// TestTrackFromFilename는 테스트 코드 동작을 검증하거나 보조합니다.
func TestTrackFromFilename(t *testing.T) {
	// 앞자리 0은 제거하고, 모두 0이면 "0"으로 정규화해야 한다.
	cases := map[string]string{
		"00 Hidden.mp3": "0",
		"07 Track.mp3":  "7",
		"12 Track.mp3":  "12",
		"01-Intro.mp3":  "1",
		"1":             "1",
	}
	for name, want := range cases {
		if got := TrackFromFilename(name); got != want {
			t.Errorf("TrackFromFilename(%q) = %q, want %q", name, got, want)
		}
	}
}
