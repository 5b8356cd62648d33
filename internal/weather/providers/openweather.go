package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-lookup/internal/weather"
)

const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org"

var errNoAPIKey = errors.New("openweather api key is not configured")

// OpenWeatherProvider implements weather.Provider for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

var (
	_ weather.Provider          = (*OpenWeatherProvider)(nil)
	_ weather.AirQualityFetcher = (*OpenWeatherProvider)(nil)
)

func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		circuit: newCircuit(CircuitConfig{
			Name:        "openweather",
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     30 * time.Second,
		}),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type owCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type owCurrent struct {
	Name  string `json:"name"`
	Dt    int64  `json:"dt"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []owCondition `json:"weather"`
	Main    struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Visibility float64 `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Timezone int64 `json:"timezone"`
}

type owForecast struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			TempMin  float64 `json:"temp_min"`
			TempMax  float64 `json:"temp_max"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Weather []owCondition `json:"weather"`
		Wind    struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Pop float64 `json:"pop"`
	} `json:"list"`
}

type owGeoMatch struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	State   string `json:"state"`
}

type owAirPollution struct {
	List []struct {
		Main struct {
			AQI int `json:"aqi"`
		} `json:"main"`
	} `json:"list"`
}

func (p *OpenWeatherProvider) CurrentByCity(ctx context.Context, city string) (weather.CurrentConditions, error) {
	values := url.Values{}
	values.Set("q", city)
	values.Set("units", "metric")

	var payload owCurrent
	if err := p.getJSON(ctx, "/data/2.5/weather", values, &payload, weather.ErrCityNotFound); err != nil {
		return weather.CurrentConditions{}, err
	}
	return payload.toCurrent(), nil
}

func (p *OpenWeatherProvider) CurrentByCoordinates(ctx context.Context, lat, lon float64) (weather.CurrentConditions, error) {
	values := coordValues(lat, lon)
	values.Set("units", "metric")

	var payload owCurrent
	if err := p.getJSON(ctx, "/data/2.5/weather", values, &payload, nil); err != nil {
		return weather.CurrentConditions{}, err
	}
	return payload.toCurrent(), nil
}

func (p *OpenWeatherProvider) Forecast(ctx context.Context, lat, lon float64) ([]weather.ForecastSample, error) {
	values := coordValues(lat, lon)
	values.Set("units", "metric")

	var payload owForecast
	if err := p.getJSON(ctx, "/data/2.5/forecast", values, &payload, nil); err != nil {
		return nil, err
	}

	samples := make([]weather.ForecastSample, 0, len(payload.List))
	for _, item := range payload.List {
		cond := firstCondition(item.Weather)
		samples = append(samples, weather.ForecastSample{
			Time:              item.Dt,
			Temp:              item.Main.Temp,
			TempMin:           item.Main.TempMin,
			TempMax:           item.Main.TempMax,
			Condition:         cond.Main,
			Icon:              cond.Icon,
			PrecipProbability: item.Pop,
			Humidity:          item.Main.Humidity,
			WindSpeed:         item.Wind.Speed,
		})
	}
	return samples, nil
}

// SuggestCities queries the direct geocoding endpoint and formats matches as
// "Name, CC".
func (p *OpenWeatherProvider) SuggestCities(ctx context.Context, query string, limit int) ([]string, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", strconv.Itoa(limit))

	var matches []owGeoMatch
	if err := p.getJSON(ctx, "/geo/1.0/direct", values, &matches, nil); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.Name == "" {
			continue
		}
		if m.Country == "" {
			names = append(names, m.Name)
			continue
		}
		names = append(names, m.Name+", "+m.Country)
	}
	return names, nil
}

// AirQuality returns the current OpenWeather AQI (1 good .. 5 very poor).
func (p *OpenWeatherProvider) AirQuality(ctx context.Context, lat, lon float64) (int, error) {
	var payload owAirPollution
	if err := p.getJSON(ctx, "/data/2.5/air_pollution", coordValues(lat, lon), &payload, nil); err != nil {
		return 0, err
	}
	if len(payload.List) == 0 {
		return 0, fmt.Errorf("%w: empty air pollution list", weather.ErrUpstream)
	}
	aqi := payload.List[0].Main.AQI
	if aqi < 1 || aqi > 5 {
		return 0, fmt.Errorf("%w: air quality index %d out of range", weather.ErrUpstream, aqi)
	}
	return aqi, nil
}

// getJSON performs one GET and decodes a 200 response into out. A 404 maps to
// notFound when it is non-nil; every other failure wraps weather.ErrUpstream.
func (p *OpenWeatherProvider) getJSON(ctx context.Context, path string, values url.Values, out any, notFound error) error {
	if p.apiKey == "" {
		return fmt.Errorf("%w: %w", weather.ErrUpstream, errNoAPIKey)
	}
	values.Set("appid", p.apiKey)

	u := fmt.Sprintf("%s%s?%s", p.baseURL, path, values.Encode())
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = p.baseURL + path
		}
		return fmt.Errorf("%w: %w", weather.ErrUpstream, err)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, req)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusNotFound && notFound != nil {
		drain(resp)
		return notFound
	}
	if resp.StatusCode != http.StatusOK {
		return unexpectedStatus(resp)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", weather.ErrUpstream, path, err)
	}
	return nil
}

func (c owCurrent) toCurrent() weather.CurrentConditions {
	cond := firstCondition(c.Weather)
	return weather.CurrentConditions{
		City:           c.Name,
		Country:        c.Sys.Country,
		Coord:          weather.Coordinates{Lat: c.Coord.Lat, Lon: c.Coord.Lon},
		ConditionID:    cond.ID,
		Condition:      cond.Main,
		Description:    cond.Description,
		Icon:           cond.Icon,
		Temp:           c.Main.Temp,
		FeelsLike:      c.Main.FeelsLike,
		TempMin:        c.Main.TempMin,
		TempMax:        c.Main.TempMax,
		Humidity:       c.Main.Humidity,
		Pressure:       c.Main.Pressure,
		WindSpeed:      c.Wind.Speed,
		Visibility:     c.Visibility,
		Sunrise:        c.Sys.Sunrise,
		Sunset:         c.Sys.Sunset,
		ObservedAt:     c.Dt,
		TimezoneOffset: c.Timezone,
	}
}

func firstCondition(items []owCondition) owCondition {
	if len(items) == 0 {
		return owCondition{}
	}
	return items[0]
}

func coordValues(lat, lon float64) url.Values {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return values
}
