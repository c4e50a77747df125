package render

import (
	"strings"
	"time"
)

// dateTokens maps Unicode date pattern letters, as used by the footer's
// dateFormat setting, to Go layout fragments. Longest runs first.
var dateTokens = []struct {
	pattern string
	layout  string
}{
	{"yyyy", "2006"},
	{"yy", "06"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"MM", "01"},
	{"M", "1"},
	{"dd", "02"},
	{"d", "2"},
	{"EEEE", "Monday"},
	{"EEE", "Mon"},
	{"E", "Mon"},
	{"HH", "15"},
	{"H", "15"},
	{"hh", "03"},
	{"h", "3"},
	{"mm", "04"},
	{"m", "4"},
	{"ss", "05"},
	{"s", "5"},
	{"a", "PM"},
}

// FormatDate formats t with a date-fns style pattern such as "MMM yyyy".
// Text inside single quotes is copied literally and '' outside quoted text
// is a literal quote.
func FormatDate(t time.Time, pattern string) string {
	var sb strings.Builder
	for i := 0; i < len(pattern); {
		if pattern[i] == '\'' {
			end := strings.IndexByte(pattern[i+1:], '\'')
			if end < 0 {
				sb.WriteString(pattern[i+1:])
				break
			}
			if end == 0 {
				sb.WriteByte('\'')
			} else {
				sb.WriteString(pattern[i+1 : i+1+end])
			}
			i += end + 2
			continue
		}
		matched := false
		for _, tok := range dateTokens {
			if strings.HasPrefix(pattern[i:], tok.pattern) {
				sb.WriteString(t.Format(tok.layout))
				i += len(tok.pattern)
				matched = true
				break
			}
		}
		if !matched {
			sb.WriteByte(pattern[i])
			i++
		}
	}
	return sb.String()
}

// ParseSettingsDate accepts the ISO forms the settings date is stored in
func ParseSettingsDate(value string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FooterDate renders the settings date with the footer format, falling
// back to the raw value when it cannot be parsed.
func FooterDate(value, pattern string) string {
	if value == "" {
		return ""
	}
	t, ok := ParseSettingsDate(value)
	if !ok {
		return value
	}
	if pattern == "" {
		pattern = "MMM yyyy"
	}
	return FormatDate(t, pattern)
}
