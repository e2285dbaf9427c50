package promotion

import (
	"errors"
	"time"
)

var (
	ErrMalformedSchedule  = errors.New("schedule end precedes start")
	ErrUnknownTimezone    = errors.New("unknown schedule timezone")
	ErrMalformedWindow    = errors.New("time window minutes out of range")
	ErrMalformedExclusion = errors.New("exclusion date must be YYYY-MM-DD")
)

const dateLayout = "2006-01-02"

// TimeWindow is a recurring day-of-week/time-of-day opening. Minutes are
// measured from midnight in the schedule's timezone; EndMinute is exclusive.
type TimeWindow struct {
	Days        []time.Weekday
	StartMinute int
	EndMinute   int
}

func (w TimeWindow) contains(day time.Weekday, minute int) bool {
	matched := len(w.Days) == 0
	for _, d := range w.Days {
		if d == day {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	return minute >= w.StartMinute && minute < w.EndMinute
}

// Schedule is a promotion's validity window: an absolute [start, end] range,
// optional recurring windows inside it, and individual excluded dates.
// Window and exclusion matching happen in the schedule's own timezone.
type Schedule struct {
	startAt      time.Time
	endAt        time.Time
	location     *time.Location
	windows      []TimeWindow
	excludeDates map[string]struct{}
}

func NewSchedule(startAt, endAt time.Time, timezone string, windows []TimeWindow, excludeDates []string) (Schedule, error) {
	if endAt.Before(startAt) {
		return Schedule{}, ErrMalformedSchedule
	}

	if timezone == "" {
		timezone = "UTC"
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return Schedule{}, ErrUnknownTimezone
	}

	for _, w := range windows {
		if w.StartMinute < 0 || w.EndMinute > 24*60 || w.StartMinute >= w.EndMinute {
			return Schedule{}, ErrMalformedWindow
		}
	}

	excluded := make(map[string]struct{}, len(excludeDates))
	for _, d := range excludeDates {
		if _, err := time.ParseInLocation(dateLayout, d, location); err != nil {
			return Schedule{}, ErrMalformedExclusion
		}
		excluded[d] = struct{}{}
	}

	return Schedule{
		startAt:      startAt,
		endAt:        endAt,
		location:     location,
		windows:      windows,
		excludeDates: excluded,
	}, nil
}

func (s Schedule) StartAt() time.Time { return s.startAt }
func (s Schedule) EndAt() time.Time   { return s.endAt }

// IsOpenAt reports whether the schedule admits the given instant. Pure.
func (s Schedule) IsOpenAt(now time.Time) bool {
	if now.Before(s.startAt) || now.After(s.endAt) {
		return false
	}

	local := now.In(s.location)
	if _, excluded := s.excludeDates[local.Format(dateLayout)]; excluded {
		return false
	}

	if len(s.windows) == 0 {
		return true
	}
	minute := local.Hour()*60 + local.Minute()
	for _, w := range s.windows {
		if w.contains(local.Weekday(), minute) {
			return true
		}
	}
	return false
}

// ExpiredAt reports whether the absolute window has passed, regardless of
// recurring windows or exclusions.
func (s Schedule) ExpiredAt(now time.Time) bool {
	return now.After(s.endAt)
}

// NotYetStartedAt is the forward-looking counterpart of ExpiredAt.
func (s Schedule) NotYetStartedAt(now time.Time) bool {
	return now.Before(s.startAt)
}
