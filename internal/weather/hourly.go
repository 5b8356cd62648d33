package weather

import "time"

const hourlySamples = 8

// SelectHourly maps the leading eight samples 1:1 into hourly entries,
// preserving upstream order.
func SelectHourly(samples []ForecastSample, loc *time.Location) []HourlyForecastEntry {
	n := min(len(samples), hourlySamples)

	hours := make([]HourlyForecastEntry, 0, n)
	for _, s := range samples[:n] {
		hours = append(hours, HourlyForecastEntry{
			Time:          FormatHourLabel(s.Time, loc),
			Temp:          s.Temp,
			Condition:     s.Condition,
			Icon:          s.Icon,
			Precipitation: precipPercent(s.PrecipProbability),
		})
	}
	return hours
}
