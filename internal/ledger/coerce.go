package ledger

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// placeholderCategory is the sheet's "no category" filler token.
const placeholderCategory = "999"

var serialDateRe = regexp.MustCompile(`Date\((\d+),(\d+),(\d+)`)

// ToNumber coerces a raw cell value to a float64. Empty, nil, and
// unparseable input degrade to 0; the coercion never fails. String input is
// stripped of every character that is not a digit, '.', or '-' before
// parsing, so currency symbols and thousands separators are tolerated.
func ToNumber(raw any) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	case float32:
		return ToNumber(float64(v))
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0
		}
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				return r
			}
			return -1
		}, s)
		return parseLeadingFloat(cleaned)
	default:
		return 0
	}
}

// parseLeadingFloat parses the longest valid float prefix of s, matching the
// lenient parse the reporting sheets have always relied on ("1.2.3" is 1.2).
func parseLeadingFloat(s string) float64 {
	end := 0
	seenDot := false
	seenDigit := false
	for i, c := range s {
		switch {
		case c == '-' && i == 0:
			end = i + 1
		case c == '.' && !seenDot:
			seenDot = true
			end = i + 1
		case c >= '0' && c <= '9':
			seenDigit = true
			end = i + 1
		default:
			end = i
			goto parse
		}
	}
	end = len(s)
parse:
	if !seenDigit {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0
	}
	return f
}

// ParseDate parses a ledger date cell, returning nil when the value cannot
// be interpreted as a date. The Google Visualization API wraps dates in
// "Date(year,month,day[,...])" text with a zero-based month; that form is
// decomposed directly because generic date parsing mangles it. Anything else
// falls through to a set of common layouts.
func ParseDate(raw any) *time.Time {
	switch v := raw.(type) {
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return &v
	case *time.Time:
		if v == nil || v.IsZero() {
			return nil
		}
		return v
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		if m := serialDateRe.FindStringSubmatch(s); m != nil {
			year, _ := strconv.Atoi(m[1])
			month, _ := strconv.Atoi(m[2])
			day, _ := strconv.Atoi(m[3])
			t := time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.Local)
			return &t
		}
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return &t
			}
		}
		return nil
	default:
		return nil
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"Jan 2, 2006",
}

// IsNewMarker reports whether a raw cell carries the new-customer flag.
// Only "true", the checkmark glyph, and "1" count, case-insensitively.
func IsNewMarker(raw any) bool {
	s := strings.ToLower(strings.TrimSpace(toString(raw)))
	return s == "true" || s == "✔" || s == "1"
}

// SplitCategories splits the raw comma-delimited category field into trimmed
// tags, discarding empty tokens and the placeholder.
func SplitCategories(raw any) []string {
	s := toString(raw)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var tags []string
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" || tok == placeholderCategory {
			continue
		}
		tags = append(tags, tok)
	}
	return tags
}

// toString renders a raw cell as the string the sheet displays.
func toString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}
