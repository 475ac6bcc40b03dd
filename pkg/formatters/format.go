// Package formatters converts raw telemetry values into display strings.
package formatters

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Duration renders a millisecond measurement in the most natural unit.
func Duration(ms float64) string {
	switch {
	case ms < 0:
		return "-"
	case ms < 1:
		return fmt.Sprintf("%.0fµs", ms*1000)
	case ms < 1000:
		return fmt.Sprintf("%.1fms", ms)
	case ms < 60_000:
		return fmt.Sprintf("%.2fs", ms/1000)
	default:
		d := time.Duration(ms * float64(time.Millisecond))
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}

// Bytes renders a byte count using binary (IEC) units.
func Bytes(n int64) string {
	if n < 0 {
		return "-"
	}
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// Count renders an integer with thousands separators, e.g. 9876 -> "9,876".
func Count(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, ch := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// Percent renders an error-rate fraction (0..1) as a percentage.
func Percent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

// URI normalizes a call URI for table display: scheme and host are dropped
// when present, the path and query are kept, and the result is truncated to
// max runes with a trailing ellipsis.
func URI(raw string, max int) string {
	s := raw
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" && u.Host != "" {
		s = u.RequestURI()
	}
	if s == "" {
		s = "/"
	}
	if max > 3 {
		if r := []rune(s); len(r) > max {
			return string(r[:max-3]) + "..."
		}
	}
	return s
}

// timestampLayouts are tried in order when parsing backend timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

func parseTimestamp(ts string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// RelativeTime renders a backend timestamp as "Ns/Nm/Nh ago" relative to now.
// Unparseable input is returned verbatim so the operator still sees something.
func RelativeTime(ts string, now time.Time) string {
	t, ok := parseTimestamp(ts)
	if !ok {
		return ts
	}
	d := now.Sub(t)
	switch {
	case d < 0:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh %dm ago", int(d.Hours()), int(d.Minutes())%60)
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// Timestamp renders a backend timestamp in the canonical second-precision
// form used across the dashboard. Unparseable input is returned verbatim.
func Timestamp(ts string) string {
	t, ok := parseTimestamp(ts)
	if !ok {
		return ts
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}
