package domain

import (
	"fmt"
	"time"
)

// Interval bounds for automatic checks, in minutes.
const (
	MinIntervalMinutes     = 10
	MaxIntervalMinutes     = 1440
	DefaultIntervalMinutes = 60
)

// Settings holds the scheduling switches that an operator can change at runtime.
type Settings struct {
	// AutoCheckEnabled turns the periodic check cycle on or off.
	AutoCheckEnabled bool

	// IntervalMinutes is the cycle period, within [MinIntervalMinutes, MaxIntervalMinutes].
	IntervalMinutes int
}

// DefaultSettings returns the settings used when nothing has been stored yet.
func DefaultSettings() Settings {
	return Settings{
		AutoCheckEnabled: true,
		IntervalMinutes:  DefaultIntervalMinutes,
	}
}

// Interval returns the cycle period as a duration.
func (s Settings) Interval() time.Duration {
	return time.Duration(s.IntervalMinutes) * time.Minute
}

// Validate checks that the settings are within bounds.
func (s Settings) Validate() error {
	return ValidateInterval(s.IntervalMinutes)
}

// ValidateInterval checks an interval in minutes against the allowed range.
func ValidateInterval(minutes int) error {
	if minutes < MinIntervalMinutes || minutes > MaxIntervalMinutes {
		return fmt.Errorf("%w: interval must be between %d and %d minutes, got %d",
			ErrInvalidInput, MinIntervalMinutes, MaxIntervalMinutes, minutes)
	}
	return nil
}

// SettingsUpdate is a partial change to Settings. Nil fields are left untouched.
type SettingsUpdate struct {
	AutoCheckEnabled *bool
	IntervalMinutes  *int
}

// IsEmpty reports whether the update changes nothing.
func (u SettingsUpdate) IsEmpty() bool {
	return u.AutoCheckEnabled == nil && u.IntervalMinutes == nil
}

// Apply returns s with the update applied. The result is validated.
func (u SettingsUpdate) Apply(s Settings) (Settings, error) {
	if u.AutoCheckEnabled != nil {
		s.AutoCheckEnabled = *u.AutoCheckEnabled
	}
	if u.IntervalMinutes != nil {
		if err := ValidateInterval(*u.IntervalMinutes); err != nil {
			return s, err
		}
		s.IntervalMinutes = *u.IntervalMinutes
	}
	return s, nil
}
