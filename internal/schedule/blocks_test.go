package schedule

import (
	"testing"
	"time"

	"museo/internal/config"

	"github.com/stretchr/testify/assert"
)

func testVisitConfig() config.VisitConfig {
	return config.VisitConfig{
		OpeningTime:  "08:00",
		ClosingTime:  "16:30",
		LunchStart:   "12:30",
		LunchEnd:     "13:30",
		BlockMinutes: 30,
		OperatingWeekdays: map[time.Weekday]bool{
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
		},
		MaxPerBlock:    40,
		MinPartySize:   2,
		MaxPartySize:   25,
		MinAdvanceDays: 1,
	}
}

func TestDailyBlocks_ExcludesLunchWindow(t *testing.T) {
	blocks := DailyBlocks(testVisitConfig())

	assert.NotEmpty(t, blocks)
	for _, b := range blocks {
		assert.NotContains(t, []string{"12:30", "13:00", "13:30"}, b)
	}
	assert.Contains(t, blocks, "12:00")
	assert.Contains(t, blocks, "14:00")
}

func TestDailyBlocks_IncludesClosingTime(t *testing.T) {
	blocks := DailyBlocks(testVisitConfig())

	assert.Equal(t, "08:00", blocks[0])
	assert.Equal(t, "16:30", blocks[len(blocks)-1])
}

func TestDailyBlocks_DeterministicAndAscending(t *testing.T) {
	cfg := testVisitConfig()

	first := DailyBlocks(cfg)
	second := DailyBlocks(cfg)

	assert.Equal(t, first, second)
	for i := 1; i < len(first); i++ {
		assert.Less(t, first[i-1], first[i])
	}
}

func TestDailyBlocks_CountMatchesWindow(t *testing.T) {
	// 08:00..16:30 every 30 min is 18 slots; lunch removes 12:30, 13:00, 13:30.
	blocks := DailyBlocks(testVisitConfig())
	assert.Len(t, blocks, 15)
}

func TestDailyBlocks_HourlyStep(t *testing.T) {
	cfg := testVisitConfig()
	cfg.BlockMinutes = 60
	cfg.ClosingTime = "16:00"

	blocks := DailyBlocks(cfg)

	assert.Equal(t, []string{"08:00", "09:00", "10:00", "11:00", "12:00", "14:00", "15:00", "16:00"}, blocks)
}

func TestValidBlock(t *testing.T) {
	cfg := testVisitConfig()

	assert.True(t, ValidBlock("09:00", cfg))
	assert.True(t, ValidBlock("16:30", cfg))
	assert.False(t, ValidBlock("13:00", cfg)) // lunch
	assert.False(t, ValidBlock("07:30", cfg))
	assert.False(t, ValidBlock("17:00", cfg))
	assert.False(t, ValidBlock("9:00", cfg)) // not zero-padded
}

func TestBlockID(t *testing.T) {
	date := time.Date(2026, 3, 9, 15, 42, 0, 0, time.UTC)

	assert.Equal(t, "20260309-0930", BlockID(date, "09:30"))
}

func TestSlotState_Thresholds(t *testing.T) {
	assert.Equal(t, SlotOpen, SlotState(0, 40))
	assert.Equal(t, SlotOpen, SlotState(23, 40)) // 57.5%
	assert.Equal(t, SlotNearlyFull, SlotState(24, 40))
	assert.Equal(t, SlotNearlyFull, SlotState(39, 40))
	assert.Equal(t, SlotFull, SlotState(40, 40))
	assert.Equal(t, SlotFull, SlotState(45, 40))
}
