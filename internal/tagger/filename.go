package tagger

import "strings"

const (
	prefixLen = 3 // "NN-" or "NN "
	suffixLen = 4 // ".mp3"
	trackLen  = 2
)

// TitleFromFilename strips the 3-character ordering prefix and the
// 4-character extension from name ("01-Intro.mp3" -> "Intro"). Names too
// short to hold both give an empty title.
func TitleFromFilename(name string) string {
	r := []rune(name)
	if len(r) <= prefixLen+suffixLen {
		return ""
	}
	return string(r[prefixLen : len(r)-suffixLen])
}

// TrackFromFilename returns the first two characters of name without
// leading zeros. An all-zero prefix yields "0".
func TrackFromFilename(name string) string {
	r := []rune(name)
	if len(r) > trackLen {
		r = r[:trackLen]
	}
	prefix := string(r)
	track := strings.TrimLeft(prefix, "0")
	if track == "" && prefix != "" {
		return "0"
	}
	return track
}
