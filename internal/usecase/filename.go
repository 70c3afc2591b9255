package usecase

import (
	"strings"
	"unicode"
)

const rtspScheme = "rtsp://"

// SnapshotFileName derives the output file name of a source. Identical
// sources map to the same name, so duplicates overwrite each other.
func SnapshotFileName(source string) string {
	name := strings.TrimPrefix(source, rtspScheme) + ".jpg"
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return r
		case r == '-', r == '_', r == '.', r == ' ':
			return r
		}
		return '_'
	}, name)
}
