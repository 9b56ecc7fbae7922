package usecase

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// maxNameBytes is the file name limit of the common Linux file systems.
	maxNameBytes = 255
	// longestSuffix is what UniqueMP4Path may append to a stem.
	longestSuffix = len("_(254).mp4")
)

// DestStem builds the output file name (without extension) for a video:
// the title with whitespace replaced by underscores, made safe for common
// file systems, followed by "_" and the video id. The title part is shortened
// so that the stem plus any suffix from UniqueMP4Path fits in maxNameBytes.
func DestStem(title, videoID string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsSpace(r) {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}
	budget := maxNameBytes - longestSuffix - len("_") - len(videoID)
	return truncate(sanitize(b.String()), budget) + "_" + videoID
}

var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == utf8.RuneError, unicode.IsControl(r):
			b.WriteRune('_')
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	out := strings.Trim(b.String(), ". ")

	if _, ok := reservedNames[strings.ToUpper(out)]; ok {
		out = "_" + out
	}
	return out
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
