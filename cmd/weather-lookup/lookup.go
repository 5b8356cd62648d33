package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/i474232898/weather-lookup/internal/weather"
)

const lookupTimeout = 15 * time.Second

func getWeather(ctx context.Context, out io.Writer, city, output string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	doc, err := newWeatherService(cfg, log).ByCity(ctx, city)
	if err != nil {
		return err
	}

	if output == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	printDocument(out, doc)
	return nil
}

func suggestCities(ctx context.Context, out io.Writer, query string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	for _, name := range newWeatherService(cfg, log).SuggestCities(ctx, query) {
		fmt.Fprintln(out, name)
	}
	return nil
}

func printDocument(out io.Writer, doc *weather.Document) {
	fmt.Fprintf(out, "Weather in %s, %s (%s)\n", doc.City, doc.Country, doc.Date)
	fmt.Fprintln(out, strings.Repeat("=", 40))
	fmt.Fprintf(out, "Temperature: %.1f°C (min: %.1f°C, max: %.1f°C)\n", doc.Temp, doc.TempMin, doc.TempMax)
	fmt.Fprintf(out, "Feels like: %.1f°C\n", doc.FeelsLike)
	fmt.Fprintf(out, "Conditions: %s (%s)\n", doc.Condition, doc.Description)
	fmt.Fprintf(out, "Humidity: %.0f%%\n", doc.Humidity)
	fmt.Fprintf(out, "Pressure: %.0f hPa\n", doc.Pressure)
	fmt.Fprintf(out, "Wind: %.1f m/s\n", doc.Wind)
	fmt.Fprintf(out, "Sunrise: %s  Sunset: %s\n", doc.Sunrise, doc.Sunset)

	if len(doc.Forecast) == 0 {
		fmt.Fprintln(out, "\nForecast unavailable")
		return
	}
	fmt.Fprintln(out, "\nForecast:")
	for _, d := range doc.Forecast {
		fmt.Fprintf(out, "  %-12s %5.1f°C  %-10s rain %d%%\n", d.Date, d.Temp, d.Condition, d.Precipitation)
	}
}
