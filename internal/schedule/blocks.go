package schedule

import (
	"fmt"
	"time"

	"museo/internal/config"
)

const blockLabelFormat = "15:04"

// DailyBlocks generates the ordered slot labels for one operating day:
// opening time stepped by the block duration up to and including the closing
// time, with every block inside the lunch window [LunchStart, LunchEnd]
// omitted. The set does not depend on the date. Recomputed per call; it is
// cheap and the config may differ between deployments.
//
// A misconfigured window (lunch end before lunch start, opening after
// closing) yields an empty or truncated sequence; callers are expected to
// ship sane configuration.
func DailyBlocks(cfg config.VisitConfig) []string {
	open, err1 := minuteOfDay(cfg.OpeningTime)
	closing, err2 := minuteOfDay(cfg.ClosingTime)
	lunchStart, err3 := minuteOfDay(cfg.LunchStart)
	lunchEnd, err4 := minuteOfDay(cfg.LunchEnd)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || cfg.BlockMinutes <= 0 {
		return nil
	}

	blocks := make([]string, 0, (closing-open)/cfg.BlockMinutes+1)
	for m := open; m <= closing; m += cfg.BlockMinutes {
		if m >= lunchStart && m <= lunchEnd {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return blocks
}

// ValidBlock reports whether label belongs to the day's generated slot set.
func ValidBlock(label string, cfg config.VisitConfig) bool {
	for _, b := range DailyBlocks(cfg) {
		if b == label {
			return true
		}
	}
	return false
}

// BlockID derives the composite key grouping visits that share a date and
// slot: "YYYYMMDD-HHMM".
func BlockID(date time.Time, blockLabel string) string {
	hhmm := ""
	if t, err := time.Parse(blockLabelFormat, blockLabel); err == nil {
		hhmm = t.Format("1504")
	}
	return date.Format("20060102") + "-" + hhmm
}

func minuteOfDay(label string) (int, error) {
	t, err := time.Parse(blockLabelFormat, label)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
