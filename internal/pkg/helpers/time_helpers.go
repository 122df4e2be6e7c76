package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration returns fallback for empty or malformed input. Config
// validation rejects bad values at startup, so a fallback here only
// happens for optional settings.
func ParseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Warn().Err(err).Str("value", value).Dur("fallback", fallback).Msg("Invalid duration, using fallback")
		return fallback
	}
	return d
}
