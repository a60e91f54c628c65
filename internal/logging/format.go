package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

const consoleTimestampLayout = "2006-01-02 15:04:05 MST"

// Size is a byte count. Console output renders it with binary units while
// JSON output keeps the raw number.
type Size int64

func (s Size) String() string { return FormatBytes(int64(s)) }

// Bytes records a byte count under key.
func Bytes(key string, n int64) Attr { return slog.Any(key, Size(n)) }

// FormatBytes renders n with binary units, e.g. "1.50 KiB".
func FormatBytes(n int64) string {
	const (
		kiB = 1024
		miB = kiB * 1024
		giB = miB * 1024
		tiB = giB * 1024
	)
	switch {
	case n >= tiB:
		return fmt.Sprintf("%.2f TiB", float64(n)/float64(tiB))
	case n >= giB:
		return fmt.Sprintf("%.2f GiB", float64(n)/float64(giB))
	case n >= miB:
		return fmt.Sprintf("%.2f MiB", float64(n)/float64(miB))
	case n >= kiB:
		return fmt.Sprintf("%.2f KiB", float64(n)/float64(kiB))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// consoleTimestamp renders ts in the run's timezone so log lines line up
// with the acquisition timestamps printed by scan reports.
func consoleTimestamp(ts time.Time, loc *time.Location) string {
	if ts.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return ts.In(loc).Format(consoleTimestampLayout)
}

// consoleValue renders one attribute value as a logfmt token.
func (h *prettyHandler) consoleValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindTime:
		return quoteIfNeeded(consoleTimestamp(v.Time(), h.loc))
	case slog.KindAny:
		switch x := v.Any().(type) {
		case Size:
			return quoteIfNeeded(x.String())
		case error:
			return quoteIfNeeded(x.Error())
		case []string:
			return quoteIfNeeded(strings.Join(x, ","))
		default:
			return quoteIfNeeded(fmt.Sprint(x))
		}
	default:
		return quoteIfNeeded(v.String())
	}
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' {
			return strconv.Quote(s)
		}
	}
	return s
}

// jsonAttr normalizes built-in keys and domain values for JSON output.
// Timestamps are always UTC so files from different sites merge cleanly.
func jsonAttr(_ []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		attr.Key = "ts"
		if attr.Value.Kind() == slog.KindTime {
			attr.Value = slog.StringValue(attr.Value.Time().UTC().Format("2006-01-02T15:04:05.000Z"))
		}
		return attr
	case slog.LevelKey:
		attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
		return attr
	case slog.SourceKey:
		if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
			attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", shortFile(src.File), src.Line))
		}
		return attr
	}
	if attr.Value.Kind() == slog.KindAny {
		switch x := attr.Value.Any().(type) {
		case Size:
			attr.Value = slog.Int64Value(int64(x))
		case error:
			attr.Value = slog.StringValue(x.Error())
		}
	}
	return attr
}
