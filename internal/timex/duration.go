// Package timex parses the compact duration strings used in configuration
// and token options, e.g. "15m", "1h", "2d" or "0ms".
package timex

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// Day is not provided by the time package.
const Day = 24 * time.Hour

var (
	configPattern = regexp.MustCompile(`^(\d+)(m|h|d)$`)
	anyPattern    = regexp.MustCompile(`^(\d+)(ms|s|m|h|d)$`)
)

var units = map[string]time.Duration{
	"ms": time.Millisecond,
	"s":  time.Second,
	"m":  time.Minute,
	"h":  time.Hour,
	"d":  Day,
}

func parse(re *regexp.Regexp, s string) (time.Duration, error) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	unit := units[m[2]]
	if n > math.MaxInt64/int64(unit) {
		return 0, fmt.Errorf("duration %q out of range", s)
	}
	return time.Duration(n) * unit, nil
}

// ParseConfigDuration accepts only <int><m|h|d>.
func ParseConfigDuration(s string) (time.Duration, error) {
	return parse(configPattern, s)
}

// ParseDuration accepts <int><ms|s|m|h|d>.
func ParseDuration(s string) (time.Duration, error) {
	return parse(anyPattern, s)
}

// Format renders d with the largest of d, h or m that divides it evenly.
// Durations that are not whole minutes fall back to milliseconds.
func Format(d time.Duration) string {
	switch {
	case d != 0 && d%Day == 0:
		return strconv.FormatInt(int64(d/Day), 10) + "d"
	case d != 0 && d%time.Hour == 0:
		return strconv.FormatInt(int64(d/time.Hour), 10) + "h"
	case d%time.Minute == 0:
		return strconv.FormatInt(int64(d/time.Minute), 10) + "m"
	default:
		return strconv.FormatInt(int64(d/time.Millisecond), 10) + "ms"
	}
}

// Duration is a JSON friendly time.Duration. It unmarshals only
// configuration strings such as "1h".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(Format(d.Duration))
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var value string
	if err := json.Unmarshal(b, &value); err != nil {
		return fmt.Errorf("invalid duration %s", string(b))
	}
	parsed, err := ParseConfigDuration(value)
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}
