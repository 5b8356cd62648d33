package weather

import "math"

// ComputeStats derives aggregates over the current sample plus one value
// per daily entry. Highest/lowest come from the same temperature set as the
// average. With no daily entries the current conditions are copied as-is.
func ComputeStats(current CurrentConditions, daily []DailyForecastEntry) Stats {
	if len(daily) == 0 {
		return Stats{
			AverageTemp:      current.Temp,
			HighestTemp:      current.TempMax,
			LowestTemp:       current.TempMin,
			AverageHumidity:  current.Humidity,
			AverageWindSpeed: current.WindSpeed,
		}
	}

	temps := []float64{current.Temp}
	humidity := []float64{current.Humidity}
	wind := []float64{current.WindSpeed}
	for _, d := range daily {
		temps = append(temps, d.Temp)
		humidity = append(humidity, d.Humidity)
		wind = append(wind, d.Wind)
	}

	highest, lowest := temps[0], temps[0]
	for _, t := range temps[1:] {
		highest = math.Max(highest, t)
		lowest = math.Min(lowest, t)
	}

	return Stats{
		AverageTemp:      roundTo(mean(temps), 1),
		HighestTemp:      highest,
		LowestTemp:       lowest,
		AverageHumidity:  math.Round(mean(humidity)),
		AverageWindSpeed: roundTo(mean(wind), 1),
	}
}

func mean(vs []float64) float64 {
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
