package utils

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9\s-]+`)
	slugSeps     = regexp.MustCompile(`[\s_-]+`)

	// letters that do not decompose into base + combining mark
	foldExtra = strings.NewReplacer("đ", "d", "Đ", "D", "ø", "o", "Ø", "O", "ß", "ss", "æ", "ae", "Æ", "AE", "ł", "l", "Ł", "L")
)

// RemoveDiacritics folds accented letters to ASCII ("Nguyễn Ánh" -> "Nguyen Anh").
func RemoveDiacritics(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, foldExtra.Replace(input))
	if err != nil {
		return input
	}
	return folded
}

// GenerateSlug lowercases, folds to ASCII, drops punctuation and joins words
// with single hyphens. An input with no usable characters yields "".
func GenerateSlug(input string) string {
	lower := strings.ToLower(RemoveDiacritics(input))
	cleaned := nonSlugChars.ReplaceAllString(lower, "")
	hyphenated := slugSeps.ReplaceAllString(strings.TrimSpace(cleaned), "-")
	return strings.Trim(hyphenated, "-")
}

// UniqueSlug picks base, or base-2, base-3, ... when taken, keeping the
// result within maxLen. fallback replaces an empty base.
func UniqueSlug(base, fallback string, maxLen int, taken func(string) bool) string {
	if base == "" {
		base = fallback
	}
	base = truncateSlug(base, maxLen)
	if !taken(base) {
		return base
	}

	for n := 2; ; n++ {
		suffix := "-" + strconv.Itoa(n)
		candidate := truncateSlug(base, maxLen-len(suffix)) + suffix
		if !taken(candidate) {
			return candidate
		}
	}
}

func truncateSlug(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return strings.TrimRight(s[:maxLen], "-")
}
