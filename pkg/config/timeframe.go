package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xhit/go-str2duration/v2"
)

const month = 30 * 24 * time.Hour

// ParseTimeframe converts a timeframe label ("1m", "4h", "1d", "1w", "1M")
// into a candle interval. Month labels use a fixed 30 day interval.
func ParseTimeframe(label string) (time.Duration, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return 0, fmt.Errorf("empty timeframe")
	}

	if strings.HasSuffix(label, "M") {
		n, err := strconv.Atoi(strings.TrimSuffix(label, "M"))
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid timeframe %q", label)
		}
		return time.Duration(n) * month, nil
	}

	d, err := str2duration.ParseDuration(label)
	if err != nil {
		return 0, fmt.Errorf("invalid timeframe %q: %w", label, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid timeframe %q", label)
	}

	return d, nil
}

// IntervalSeconds returns the interval of label in seconds, or fallback
// when the label cannot be parsed.
func IntervalSeconds(label string, fallback int64) int64 {
	d, err := ParseTimeframe(label)
	if err != nil {
		return fallback
	}
	return int64(d / time.Second)
}
