package weather

import (
	"math"
	"time"
)

const (
	maxForecastDays = 5
	noonWindowStart = 11
	noonWindowEnd   = 13
)

// AggregateDaily collapses 3-hour samples into one entry per calendar day
// (in loc). The first sample seen for a day is kept unless a later sample
// for that day falls in the 11:00-13:59 window, in which case the last such
// sample wins. At most five days are returned, in first-seen order.
func AggregateDaily(samples []ForecastSample, loc *time.Location) []DailyForecastEntry {
	picked := make(map[string]ForecastSample)
	var order []string

	for _, s := range samples {
		t := inZone(s.Time, loc)
		key := t.Format(dateKeyLayout)

		if _, seen := picked[key]; !seen {
			picked[key] = s
			order = append(order, key)
			continue
		}
		if h := t.Hour(); h >= noonWindowStart && h <= noonWindowEnd {
			picked[key] = s
		}
	}

	if len(order) > maxForecastDays {
		order = order[:maxForecastDays]
	}

	days := make([]DailyForecastEntry, 0, len(order))
	for _, key := range order {
		s := picked[key]
		days = append(days, DailyForecastEntry{
			Date:          FormatShortDate(s.Time, loc),
			Day:           FormatWeekday(s.Time, loc),
			Temp:          s.Temp,
			TempMin:       s.TempMin,
			TempMax:       s.TempMax,
			Condition:     s.Condition,
			Icon:          s.Icon,
			Precipitation: precipPercent(s.PrecipProbability),
			Humidity:      s.Humidity,
			Wind:          s.WindSpeed,
		})
	}
	return days
}

// precipPercent scales an upstream 0-1 probability to a 0-100 percentage.
func precipPercent(p float64) int {
	v := int(math.Round(p * 100))
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
