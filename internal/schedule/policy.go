package schedule

import (
	"errors"
	"fmt"
	"time"

	"museo/internal/config"
)

var (
	ErrPastDate           = errors.New("visit date is in the past")
	ErrInsufficientNotice = errors.New("insufficient advance notice")
	ErrNotOperatingDay    = errors.New("not an operating day")
	ErrInvalidBlock       = errors.New("invalid time block")
)

// PolicyError carries the human-readable rejection alongside the rule that
// fired; handlers surface Message and switch on the wrapped sentinel.
type PolicyError struct {
	Rule    error
	Message string
}

func (e *PolicyError) Error() string { return e.Message }

func (e *PolicyError) Unwrap() error { return e.Rule }

// ValidateVisit checks a candidate (date, block) pair in order: past date,
// minimum advance notice, operating weekday, block membership. The first
// failing rule wins. Maximum advance notice is configurable but not
// enforced. Returns nil when the pair is bookable.
func ValidateVisit(now, visitDate time.Time, blockLabel string, cfg config.VisitConfig) error {
	today := civilDay(now)
	day := civilDay(visitDate)

	if day.Before(today) {
		return &PolicyError{
			Rule:    ErrPastDate,
			Message: "visits cannot be booked on past dates",
		}
	}

	daysAhead := int(day.Sub(today) / (24 * time.Hour))
	if daysAhead < cfg.MinAdvanceDays {
		return &PolicyError{
			Rule:    ErrInsufficientNotice,
			Message: fmt.Sprintf("visits must be booked at least %d day(s) in advance", cfg.MinAdvanceDays),
		}
	}

	if !cfg.OperatingWeekdays[day.Weekday()] {
		return &PolicyError{
			Rule:    ErrNotOperatingDay,
			Message: fmt.Sprintf("%s is not an operating day", day.Weekday()),
		}
	}

	if !ValidBlock(blockLabel, cfg) {
		return &PolicyError{
			Rule:    ErrInvalidBlock,
			Message: fmt.Sprintf("block %s is not valid; operating hours are %s - %s", blockLabel, cfg.OpeningTime, cfg.ClosingTime),
		}
	}

	return nil
}

// civilDay pins t's calendar date to UTC midnight. The clock carries the
// server's zone while request dates parse as UTC, so comparing the raw
// instants would let the zone offset eat a day; all day-level rules compare
// normalized dates instead.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Slot occupancy states reported by availability queries. Wire values are
// fixed; frontends key off them.
const (
	SlotOpen       = "disponible"
	SlotNearlyFull = "casi_lleno"
	SlotFull       = "completo"
)

// nearlyFullThreshold is the occupancy share at which a slot stops being
// reported as open. Design constant, not configuration.
const nearlyFullThreshold = 0.60

// SlotState classifies a block by occupancy against capacity.
func SlotState(occupied, capacity int) string {
	if occupied >= capacity {
		return SlotFull
	}
	if float64(occupied) >= nearlyFullThreshold*float64(capacity) {
		return SlotNearlyFull
	}
	return SlotOpen
}
