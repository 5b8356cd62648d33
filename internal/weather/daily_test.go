package weather

import (
	"testing"
	"time"
)

func sampleAt(day, hour int, temp float64) ForecastSample {
	return ForecastSample{
		Time:      time.Date(2024, 6, day, hour, 0, 0, 0, time.UTC).Unix(),
		Temp:      temp,
		TempMin:   temp - 1,
		TempMax:   temp + 1,
		Condition: "Clouds",
		Icon:      "04d",
		Humidity:  60,
		WindSpeed: 3,
	}
}

func TestAggregateDailyEmpty(t *testing.T) {
	days := AggregateDaily(nil, time.UTC)
	if days == nil || len(days) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", days)
	}
}

func TestAggregateDailyPrefersNoonWindow(t *testing.T) {
	samples := []ForecastSample{
		sampleAt(4, 6, 10),
		sampleAt(4, 9, 11),
		sampleAt(4, 12, 20),
		sampleAt(4, 15, 12),
		sampleAt(4, 21, 9),
	}

	days := AggregateDaily(samples, time.UTC)
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	if days[0].Temp != 20 {
		t.Fatalf("expected the 12:00 sample, got temp %v", days[0].Temp)
	}
	if days[0].Date != "Tue, 4 Jun" || days[0].Day != "Tue" {
		t.Fatalf("unexpected labels %q %q", days[0].Date, days[0].Day)
	}
}

func TestAggregateDailyWindowSampleChosenRegardlessOfPosition(t *testing.T) {
	orders := [][]ForecastSample{
		{sampleAt(4, 12, 20), sampleAt(4, 15, 12), sampleAt(4, 18, 9)},
		{sampleAt(4, 3, 8), sampleAt(4, 12, 20), sampleAt(4, 18, 9)},
		{sampleAt(4, 3, 8), sampleAt(4, 6, 9), sampleAt(4, 12, 20)},
	}
	for i, samples := range orders {
		days := AggregateDaily(samples, time.UTC)
		if len(days) != 1 || days[0].Temp != 20 {
			t.Errorf("order %d: expected the window sample, got %+v", i, days)
		}
	}
}

func TestAggregateDailyKeepsFirstWithoutWindowSample(t *testing.T) {
	samples := []ForecastSample{
		sampleAt(4, 0, 7),
		sampleAt(4, 3, 8),
		sampleAt(4, 18, 14),
	}

	days := AggregateDaily(samples, time.UTC)
	if len(days) != 1 || days[0].Temp != 7 {
		t.Fatalf("expected first sample of the day, got %+v", days)
	}
}

func TestAggregateDailyLastWindowSampleWins(t *testing.T) {
	samples := []ForecastSample{
		sampleAt(4, 9, 10),
		sampleAt(4, 11, 18),
		sampleAt(4, 13, 21),
	}

	days := AggregateDaily(samples, time.UTC)
	if len(days) != 1 || days[0].Temp != 21 {
		t.Fatalf("expected the last window sample, got %+v", days)
	}
}

func TestAggregateDailyCapsAtFiveUniqueDays(t *testing.T) {
	var samples []ForecastSample
	for day := 1; day <= 7; day++ {
		for hour := 0; hour < 24; hour += 3 {
			samples = append(samples, sampleAt(day, hour, float64(day)))
		}
	}

	days := AggregateDaily(samples, time.UTC)
	if len(days) != 5 {
		t.Fatalf("expected 5 days, got %d", len(days))
	}
	seen := map[string]bool{}
	for i, d := range days {
		if seen[d.Date] {
			t.Fatalf("duplicate date label %q", d.Date)
		}
		seen[d.Date] = true
		if d.Temp != float64(i+1) {
			t.Fatalf("expected days in first-seen order, got %+v", days)
		}
	}
}

func TestAggregateDailyGroupsByDisplayZone(t *testing.T) {
	// 22:00 UTC on the 4th is already the 5th in UTC+3.
	samples := []ForecastSample{
		sampleAt(4, 18, 10),
		sampleAt(4, 22, 11),
	}
	zone := time.FixedZone("UTC+3", 3*3600)

	days := AggregateDaily(samples, zone)
	if len(days) != 2 {
		t.Fatalf("expected 2 days in UTC+3, got %d", len(days))
	}
	if len(AggregateDaily(samples, time.UTC)) != 1 {
		t.Fatalf("expected 1 day in UTC")
	}
}

func TestPrecipitationScaledOnce(t *testing.T) {
	for _, p := range []float64{0, 0.004, 0.005, 0.2, 0.47, 0.999, 1} {
		s := sampleAt(4, 12, 10)
		s.PrecipProbability = p

		days := AggregateDaily([]ForecastSample{s}, time.UTC)
		hours := SelectHourly([]ForecastSample{s}, time.UTC)

		want := precipPercent(p)
		if want < 0 || want > 100 {
			t.Fatalf("p=%v: %d out of range", p, want)
		}
		if days[0].Precipitation != want || hours[0].Precipitation != want {
			t.Fatalf("p=%v: expected %d, got daily %d hourly %d", p, want, days[0].Precipitation, hours[0].Precipitation)
		}
	}

	s := sampleAt(4, 12, 10)
	s.PrecipProbability = 0.47
	if got := AggregateDaily([]ForecastSample{s}, time.UTC)[0].Precipitation; got != 47 {
		t.Fatalf("expected 47, got %d", got)
	}
}
