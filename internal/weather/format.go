package weather

import "time"

const (
	clockLayout     = "3:04 PM"
	shortDateLayout = "Mon, 2 Jan"
	weekdayLayout   = "Mon"
	dateKeyLayout   = "2006-01-02"
)

// FormatClockLabel renders epoch seconds in the location's own local time,
// given its offset from UTC, e.g. "6:42 AM".
func FormatClockLabel(epoch, tzOffset int64) string {
	return time.Unix(epoch+tzOffset, 0).UTC().Format(clockLayout)
}

// FormatShortDate renders e.g. "Wed, 4 Jun" in the display zone loc.
//
// Unlike FormatClockLabel this uses the server's display zone rather than
// the location's offset, so a date near midnight can differ from the
// location's own calendar day.
func FormatShortDate(epoch int64, loc *time.Location) string {
	return inZone(epoch, loc).Format(shortDateLayout)
}

// FormatWeekday renders the abbreviated weekday, e.g. "Wed".
func FormatWeekday(epoch int64, loc *time.Location) string {
	return inZone(epoch, loc).Format(weekdayLayout)
}

// FormatHourLabel renders e.g. "3:00 PM" in the display zone loc.
func FormatHourLabel(epoch int64, loc *time.Location) string {
	return inZone(epoch, loc).Format(clockLayout)
}

func inZone(epoch int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(epoch, 0).In(loc)
}
