package validate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const MaxCommentLen = 500

var (
	reID   = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reSlug = regexp.MustCompile(`[^a-z0-9]+`)
)

// ID validates a simple resource identifier (product/category ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string, max int) (string, bool) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" || len(s) > max {
		return "", false
	}
	return s, true
}

// Comment trims the text, drops control characters other than newlines and
// tabs, and caps the length. An empty result means "nothing to submit".
func Comment(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > MaxCommentLen {
		s = strings.TrimSpace(string(r[:MaxCommentLen]))
	}
	return s
}

// Stars parses a star value; anything outside 1..5 returns 0.
func Stars(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 5 {
		return 0
	}
	return n
}

// Slug lowercases s and joins its alphanumeric runs with dashes.
func Slug(s string) string {
	s = reSlug.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	s = strings.Trim(s, "-")
	if len(s) > 40 {
		s = strings.TrimRight(s[:40], "-")
	}
	return s
}
