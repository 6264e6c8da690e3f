package dateutil

import "time"

// DayFormat is the calendar-day key stored on users to track daily quota
// rollover.
const DayFormat = "2006-01-02"

func Day(t time.Time) string {
	return t.Format(DayFormat)
}

func Today() string {
	return Day(time.Now())
}

// NextMidnight returns the first instant of the day after t in t's location.
func NextMidnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}
