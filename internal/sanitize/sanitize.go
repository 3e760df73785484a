// Package sanitize holds the input cleaning helpers applied before any
// value reaches the repository layer. They are a defense-in-depth measure on
// top of GORM's parameterized queries, not the sole injection defense.
package sanitize

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxNumeric = 999_999_999

	MaxTitleLen       = 200
	MaxAuthorLen      = 120
	MaxDescriptionLen = 5000
	MaxCodeLen        = 40
	MaxSearchLen      = 100
)

var (
	stringStrip  = regexp.MustCompile(`[<>'"` + "`" + `\\;]`)
	angleStrip   = regexp.MustCompile(`[<>]`)
	jsProtocol   = regexp.MustCompile(`(?i)javascript:`)
	eventHandler = regexp.MustCompile(`(?i)\bon\w+\s*=`)
	searchStrip  = regexp.MustCompile(`['"` + "`" + `\\;%_]|--|/\*|\*/|#`)
	sqlKeyword   = regexp.MustCompile(`(?i)\b(select|insert|update|delete|drop|create|alter|truncate|union|join|where|from|having|exec|execute|declare|grant|revoke|script)\b`)
)

// String strips markup and quote characters, trims and truncates to max bytes.
func String(s string, max int) string {
	s = stringStrip.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return truncate(s, max)
}

// HTML cleans free text that may legitimately contain punctuation: angle
// brackets, javascript: URLs and inline event handlers are removed.
func HTML(s string, max int) string {
	s = angleStrip.ReplaceAllString(s, "")
	s = jsProtocol.ReplaceAllString(s, "")
	s = eventHandler.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return truncate(s, max)
}

// truncate caps s at max bytes without cutting a multibyte rune in half:
// the cut point walks back to the nearest rune boundary so the result stays
// valid UTF-8.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// Number rejects non-finite or out-of-range values and rounds the rest to
// two decimal places, half away from zero.
func Number(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v > MaxNumeric || v < -MaxNumeric {
		return 0, false
	}
	return math.Round(v*100) / 100, true
}

// Integer rejects negative or out-of-range values.
func Integer(v int) (int, bool) {
	if v < 0 || v > MaxNumeric {
		return 0, false
	}
	return v, true
}

// SearchTerm strips quoting and SQL comment markers from a user-supplied
// search string. It reports false when the cleaned term still contains a SQL
// reserved keyword as a whole word; callers must then apply no text filter.
func SearchTerm(s string) (string, bool) {
	s = searchStrip.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = truncate(s, MaxSearchLen)
	if s == "" {
		return "", false
	}
	if sqlKeyword.MatchString(s) {
		return "", false
	}
	return s, true
}
