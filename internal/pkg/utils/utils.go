package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the storage format of calendar dates (start, expiry).
const DateLayout = "2006-01-02"

// Clock returns the current instant. Components take a Clock so tests can pin "today".
type Clock func() time.Time

// SystemClock returns a Clock reading wall time in loc.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return func() time.Time { return time.Now().In(loc) }
}

// FixedClock always returns t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// Today returns the calendar date of the clock as UTC midnight.
func (c Clock) Today() time.Time {
	return DateOf(c())
}

// DateOf drops the time of day, keeping the calendar date in t's location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a calendar date in storage format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a storage-format date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// DaysBetween returns whole days from a to b (negative when b is before a).
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

// NewPaymentID returns a 12-character lowercase hex token.
func NewPaymentID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// digitZeros are the zero code points of non-ASCII digit blocks that phone keyboards emit:
// Arabic-Indic, extended Arabic-Indic and fullwidth.
var digitZeros = []rune{'\u0660', '\u06F0', '\uFF10'}

// NormalizeDigits rewrites non-ASCII decimal digits as ASCII 0-9 and leaves everything else intact.
func NormalizeDigits(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		for _, zero := range digitZeros {
			if r >= zero && r <= zero+9 {
				r = '0' + (r - zero)
				break
			}
		}
		result.WriteRune(r)
	}
	return result.String()
}

var slugStrip = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// SanitizeSlug keeps ASCII letters, digits and underscore, dropping a leading '@'.
func SanitizeSlug(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "@")
	return slugStrip.ReplaceAllString(s, "")
}

// FormatAmount renders an amount without trailing zeros (5, 7.5, 14.25).
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
