// Package window resolves relative start and end expressions into an
// absolute time window for event queries.
package window

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/flanksource/commons/duration"
	"github.com/rs/zerolog"

	"github.com/Nao-Mk2/aws-log-lister/internal/model"
)

// DefaultLookback is used when start is empty or cannot be parsed.
const DefaultLookback = time.Hour

// phrase matches human durations like "2 hours", "1.5 hrs ago" or "15 min".
var phrase = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([a-z]+)$`)

var units = map[string]string{
	"ms": "ms", "msec": "ms", "msecs": "ms", "millisecond": "ms", "milliseconds": "ms",
	"s": "s", "sec": "s", "secs": "s", "second": "s", "seconds": "s",
	"m": "m", "min": "m", "mins": "m", "minute": "m", "minutes": "m",
	"h": "h", "hr": "h", "hrs": "h", "hour": "h", "hours": "h",
	"d": "d", "day": "d", "days": "d",
	"w": "w", "week": "w", "weeks": "w",
	"y": "y", "year": "y", "years": "y",
}

// ParseAgo parses a relative duration expression. Both compact forms
// ("90m", "2d", "1h30m") and phrases ("2 hours", "1 hour ago") are accepted.
func ParseAgo(expr string) (time.Duration, error) {
	s := strings.ToLower(strings.TrimSpace(expr))
	s = strings.TrimSpace(strings.TrimSuffix(s, "ago"))
	if s == "" {
		return 0, fmt.Errorf("empty duration %q", expr)
	}
	if d, err := duration.ParseDuration(s); err == nil {
		return time.Duration(d), nil
	}
	m := phrase.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid duration %q", expr)
	}
	unit, ok := units[m[2]]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q in %q", m[2], expr)
	}
	d, err := duration.ParseDuration(m[1] + unit)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", expr, err)
	}
	return time.Duration(d), nil
}

func resolve(expr string, fallback time.Duration) time.Duration {
	if expr == "" {
		return fallback
	}
	d, err := ParseAgo(expr)
	if err != nil {
		return fallback
	}
	return d
}

// Resolve turns start and end expressions into an absolute window relative to now.
// Empty or unparseable start means one hour ago; empty or unparseable end means now.
func Resolve(start, end string, now time.Time) model.TimeWindow {
	n := now.Unix()
	return model.TimeWindow{
		Start: n - int64(resolve(start, DefaultLookback)/time.Second),
		End:   n - int64(resolve(end, 0)/time.Second),
	}
}

// Resolver resolves windows against a clock and reports each result on
// the diagnostic logger.
type Resolver struct {
	now    func() time.Time
	logger zerolog.Logger
}

// NewResolver returns a Resolver. A nil now uses time.Now.
func NewResolver(now func() time.Time, logger zerolog.Logger) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{now: now, logger: logger}
}

// Resolve captures now once and resolves the window against it.
func (r *Resolver) Resolve(start, end string) model.TimeWindow {
	now := r.now()
	w := Resolve(start, end, now)
	r.logger.Info().
		Str("start", time.Unix(w.Start, 0).UTC().Format(time.RFC3339)).
		Str("end", time.Unix(w.End, 0).UTC().Format(time.RFC3339)).
		Str("now", time.Unix(now.Unix(), 0).UTC().Format(time.RFC3339)).
		Msg("listing events in window")
	return w
}
