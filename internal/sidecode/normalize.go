package sidecode

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const dash = '-'

// Normalize composes the plate to NFC, removes all whitespace and upper-cases it.
// When ignoreDashes is set every dash is removed as well. The boolean is false
// when nothing but whitespace was supplied. The result is NFC again after
// upper-casing, since an upper-cased base rune may compose with a following mark.
func Normalize(raw string, ignoreDashes bool) (string, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", false
	}

	composed := norm.NFC.String(raw)

	var b strings.Builder
	b.Grow(len(composed))
	for _, r := range composed {
		if unicode.IsSpace(r) {
			continue
		}
		if ignoreDashes && r == dash {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}

	if b.Len() == 0 {
		return "", false
	}
	return norm.NFC.String(b.String()), true
}

func removeDashes(s string) string {
	return strings.ReplaceAll(s, string(dash), "")
}
