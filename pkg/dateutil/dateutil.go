package dateutil

import "time"

// DayLayout is the calendar-day key used by check-in and quiz records. All
// per-day uniqueness constraints are expressed over this value.
const DayLayout = "2006-01-02"

func Day(t time.Time) string {
	return t.Format(DayLayout)
}

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func NextDay(t time.Time) time.Time {
	return BeginningOfDay(t).AddDate(0, 0, 1)
}

// BeginningOfWeek returns Monday 00:00 of the week containing t. Settlement
// weeks run Monday to Sunday.
func BeginningOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	return BeginningOfDay(t).AddDate(0, 0, 1-weekday)
}

// NextWeek returns Monday 00:00 of the week after the one containing t.
func NextWeek(t time.Time) time.Time {
	return BeginningOfWeek(t).AddDate(0, 0, 7)
}

// LastWeek returns Monday 00:00 of the week before the one containing t.
func LastWeek(t time.Time) time.Time {
	return BeginningOfWeek(t).AddDate(0, 0, -7)
}
