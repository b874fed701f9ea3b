package helpers

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DateLayout is the calendar date format accepted alongside RFC 3339
const DateLayout = "2006-01-02"

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	if durationStr == "" {
		return defaultDuration
	}
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		// Global logger: config is parsed before the logger is configured.
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// ParseDate accepts either YYYY-MM-DD or an RFC 3339 timestamp
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", value)
	}
	return t, nil
}

// ParseOptionalDate is ParseDate for optional values; nil or blank input yields nil
func ParseOptionalDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := ParseDate(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
