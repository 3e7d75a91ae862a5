// SPDX-License-Identifier: EPL-2.0

package sanitize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// MaxBytes is the longest name the target filesystem accepts.
	MaxBytes = 255

	// Fallback replaces names that sanitize to nothing.
	Fallback = "sample"

	maxExtLen = 10
)

// Filename maps any string to a hardware-safe file name: lower-case ASCII
// letters, digits, '_', '-' and '.', never empty and at most MaxBytes long.
// A trailing extension of up to ten alphanumeric characters is kept intact
// when the name has to be shortened. Filename is idempotent.
func Filename(name string) string {
	return settle(clean(name), true, MaxBytes, Fallback)
}

// Stem sanitizes name as a bare stem: dots are treated as ordinary
// characters and the result is at most limit bytes (MaxBytes when limit is
// not positive). Use it when the caller appends its own extension.
func Stem(name string, limit int) string {
	return StemOr(name, Fallback, limit)
}

// StemOr is Stem with fallback returned for names that sanitize to
// nothing. fallback must already be a clean stem.
func StemOr(name, fallback string, limit int) string {
	if limit <= 0 || limit > MaxBytes {
		limit = MaxBytes
	}

	return settle(clean(name), false, limit, fallback)
}

// clean folds to ASCII and reduces the alphabet.
func clean(name string) string {
	s := fold(name)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), "_")

	var b strings.Builder
	b.Grow(len(s))

	var prev byte
	for i := range len(s) {
		c := s[i]
		if !allowed(c) {
			continue
		}
		if isSeparator(c) && isSeparator(prev) {
			continue
		}
		b.WriteByte(c)
		prev = c
	}

	return b.String()
}

// fold decomposes to NFKD, drops combining marks, maps whitespace to a
// plain space and drops everything else outside printable ASCII.
func fold(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

	s, _, err := transform.String(t, name)
	if err != nil {
		s = name
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case r > 0x20 && r < 0x7f:
			b.WriteRune(r)
		}
	}

	return b.String()
}

// settle trims, falls back and truncates until the name no longer changes.
// Truncation can expose a new trailing separator, hence the loop.
func settle(s string, withExt bool, limit int, fallback string) string {
	for {
		next := finish(s, withExt, limit, fallback)
		if next == s {
			return s
		}
		s = next
	}
}

func finish(s string, withExt bool, limit int, fallback string) string {
	stem, ext := s, ""
	if withExt {
		stem, ext = splitExt(s)
	}

	stem = strings.TrimLeft(stem, ".-")
	stem = strings.TrimRight(stem, "_-.")

	if len(stem)+len(ext) > limit {
		stem = stem[:limit-len(ext)]
		stem = strings.TrimRight(stem, "_-.")
	}

	if stem == "" {
		stem = fallback
	}

	return stem + ext
}

// splitExt returns the stem and the extension including its dot. Only
// short alphanumeric suffixes count as extensions.
func splitExt(s string) (string, string) {
	i := strings.LastIndexByte(s, '.')
	if i < 0 {
		return s, ""
	}

	ext := s[i+1:]
	if ext == "" || len(ext) > maxExtLen {
		return s, ""
	}
	for j := range len(ext) {
		if !isAlnum(ext[j]) {
			return s, ""
		}
	}

	return s[:i], s[i:]
}

func allowed(c byte) bool {
	return isAlnum(c) || c == '_' || c == '-' || c == '.'
}

func isSeparator(c byte) bool { return c == '_' || c == '-' }

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
