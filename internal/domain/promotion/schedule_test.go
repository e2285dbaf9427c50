//go:build unit

package promotion_test

import (
	"testing"
	"time"

	"promo-engine/internal/domain/promotion"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	scheduleStart = time.Date(2024, 11, 20, 0, 0, 0, 0, time.UTC)
	scheduleEnd   = time.Date(2024, 11, 30, 23, 59, 59, 0, time.UTC)
)

func TestNewSchedule(t *testing.T) {
	t.Run("valid schedule", func(t *testing.T) {
		schedule, err := promotion.NewSchedule(scheduleStart, scheduleEnd, "UTC", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, scheduleStart, schedule.StartAt())
		assert.Equal(t, scheduleEnd, schedule.EndAt())
	})

	t.Run("empty timezone defaults to UTC", func(t *testing.T) {
		_, err := promotion.NewSchedule(scheduleStart, scheduleEnd, "", nil, nil)
		require.NoError(t, err)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := promotion.NewSchedule(scheduleEnd, scheduleStart, "UTC", nil, nil)
		require.ErrorIs(t, err, promotion.ErrMalformedSchedule)
	})

	t.Run("unknown timezone", func(t *testing.T) {
		_, err := promotion.NewSchedule(scheduleStart, scheduleEnd, "Mars/Olympus_Mons", nil, nil)
		require.ErrorIs(t, err, promotion.ErrUnknownTimezone)
	})

	t.Run("window minutes out of range", func(t *testing.T) {
		windows := []promotion.TimeWindow{{StartMinute: 600, EndMinute: 25 * 60}}
		_, err := promotion.NewSchedule(scheduleStart, scheduleEnd, "UTC", windows, nil)
		require.ErrorIs(t, err, promotion.ErrMalformedWindow)
	})

	t.Run("window start at or after end", func(t *testing.T) {
		windows := []promotion.TimeWindow{{StartMinute: 720, EndMinute: 600}}
		_, err := promotion.NewSchedule(scheduleStart, scheduleEnd, "UTC", windows, nil)
		require.ErrorIs(t, err, promotion.ErrMalformedWindow)
	})

	t.Run("malformed exclusion date", func(t *testing.T) {
		_, err := promotion.NewSchedule(scheduleStart, scheduleEnd, "UTC", nil, []string{"11/25/2024"})
		require.ErrorIs(t, err, promotion.ErrMalformedExclusion)
	})
}

func TestScheduleIsOpenAt(t *testing.T) {
	t.Run("absolute range boundaries", func(t *testing.T) {
		schedule, err := promotion.NewSchedule(scheduleStart, scheduleEnd, "UTC", nil, nil)
		require.NoError(t, err)

		cases := []struct {
			name string
			now  time.Time
			open bool
		}{
			{"day before start", time.Date(2024, 11, 19, 12, 0, 0, 0, time.UTC), false},
			{"exact start", scheduleStart, true},
			{"midway", time.Date(2024, 11, 25, 12, 0, 0, 0, time.UTC), true},
			{"exact end", scheduleEnd, true},
			{"day after end", time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), false},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				assert.Equal(t, c.open, schedule.IsOpenAt(c.now))
			})
		}
	})

	t.Run("recurring windows match in schedule timezone", func(t *testing.T) {
		// Saturday and Sunday 10:00-12:00 New York time.
		windows := []promotion.TimeWindow{{
			Days:        []time.Weekday{time.Saturday, time.Sunday},
			StartMinute: 10 * 60,
			EndMinute:   12 * 60,
		}}
		schedule, err := promotion.NewSchedule(scheduleStart, scheduleEnd, "America/New_York", windows, nil)
		require.NoError(t, err)

		cases := []struct {
			name string
			now  time.Time
			open bool
		}{
			// 2024-11-23 is a Saturday; New York is UTC-5 in November.
			{"saturday inside window", time.Date(2024, 11, 23, 15, 30, 0, 0, time.UTC), true},
			{"saturday before window", time.Date(2024, 11, 23, 14, 59, 0, 0, time.UTC), false},
			{"end minute is exclusive", time.Date(2024, 11, 23, 17, 0, 0, 0, time.UTC), false},
			{"wednesday outside window days", time.Date(2024, 11, 20, 15, 30, 0, 0, time.UTC), false},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				assert.Equal(t, c.open, schedule.IsOpenAt(c.now))
			})
		}
	})

	t.Run("window with no days applies every day", func(t *testing.T) {
		windows := []promotion.TimeWindow{{StartMinute: 0, EndMinute: 6 * 60}}
		schedule, err := promotion.NewSchedule(scheduleStart, scheduleEnd, "UTC", windows, nil)
		require.NoError(t, err)

		assert.True(t, schedule.IsOpenAt(time.Date(2024, 11, 25, 3, 0, 0, 0, time.UTC)))
		assert.False(t, schedule.IsOpenAt(time.Date(2024, 11, 25, 9, 0, 0, 0, time.UTC)))
	})

	t.Run("exclusion dates close the whole local day", func(t *testing.T) {
		schedule, err := promotion.NewSchedule(scheduleStart, scheduleEnd, "Asia/Tokyo", nil, []string{"2024-11-25"})
		require.NoError(t, err)

		// 16:00 UTC on the 24th is already 01:00 on the 25th in Tokyo.
		assert.False(t, schedule.IsOpenAt(time.Date(2024, 11, 24, 16, 0, 0, 0, time.UTC)))
		// 16:00 UTC on the 25th is the 26th in Tokyo, so the exclusion no longer applies.
		assert.True(t, schedule.IsOpenAt(time.Date(2024, 11, 25, 16, 0, 0, 0, time.UTC)))
	})
}

func TestScheduleLifecycle(t *testing.T) {
	schedule, err := promotion.NewSchedule(scheduleStart, scheduleEnd, "UTC", nil, nil)
	require.NoError(t, err)

	assert.True(t, schedule.NotYetStartedAt(time.Date(2024, 11, 19, 0, 0, 0, 0, time.UTC)))
	assert.False(t, schedule.NotYetStartedAt(scheduleStart))

	assert.False(t, schedule.ExpiredAt(scheduleEnd))
	assert.True(t, schedule.ExpiredAt(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)))
}
