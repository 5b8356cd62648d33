package weather

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CurrentConditions is the upstream "weather now" payload, already decoded
// but not yet shaped for clients.
type CurrentConditions struct {
	City    string
	Country string
	Coord   Coordinates

	ConditionID int
	Condition   string
	Description string
	Icon        string

	Temp      float64
	FeelsLike float64
	TempMin   float64
	TempMax   float64
	Humidity  float64
	Pressure  float64
	WindSpeed float64

	// Visibility in meters.
	Visibility float64

	// Epoch seconds, UTC.
	Sunrise    int64
	Sunset     int64
	ObservedAt int64

	// TimezoneOffset is the location's shift from UTC in seconds.
	TimezoneOffset int64
}

// ForecastSample is one 3-hour upstream forecast point.
type ForecastSample struct {
	Time      int64 // epoch seconds
	Temp      float64
	TempMin   float64
	TempMax   float64
	Condition string
	Icon      string

	// PrecipProbability is the upstream 0-1 fraction.
	PrecipProbability float64
	Humidity          float64
	WindSpeed         float64
}

// DailyForecastEntry is one representative forecast record per calendar day.
type DailyForecastEntry struct {
	Date          string  `json:"date"`
	Day           string  `json:"day"`
	Temp          float64 `json:"temp"`
	TempMin       float64 `json:"tempMin"`
	TempMax       float64 `json:"tempMax"`
	Condition     string  `json:"condition"`
	Icon          string  `json:"icon"`
	Precipitation int     `json:"precipitation"` // 0-100
	Humidity      float64 `json:"humidity"`
	Wind          float64 `json:"wind"`
}

// HourlyForecastEntry is a raw forecast sample with a display time label.
type HourlyForecastEntry struct {
	Time          string  `json:"time"`
	Temp          float64 `json:"temp"`
	Condition     string  `json:"condition"`
	Icon          string  `json:"icon"`
	Precipitation int     `json:"precipitation"` // 0-100
}

// TemperatureHistoryEntry is one day of the trailing temperature chart.
type TemperatureHistoryEntry struct {
	Date        string  `json:"date"`
	Temperature float64 `json:"temperature"`
}

// Stats are aggregates over the current sample plus one sample per forecast day.
type Stats struct {
	AverageTemp      float64 `json:"averageTemp"`
	HighestTemp      float64 `json:"highestTemp"`
	LowestTemp       float64 `json:"lowestTemp"`
	AverageHumidity  float64 `json:"averageHumidity"`
	AverageWindSpeed float64 `json:"averageWindSpeed"`
}

// Document is the normalized weather response returned to clients.
type Document struct {
	City        string  `json:"city"`
	Country     string  `json:"country"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Temp        float64 `json:"temp"`
	FeelsLike   float64 `json:"feelsLike"`
	TempMin     float64 `json:"tempMin"`
	TempMax     float64 `json:"tempMax"`
	Humidity    float64 `json:"humidity"`
	Pressure    float64 `json:"pressure"`
	Wind        float64 `json:"wind"`
	Visibility  float64 `json:"visibility"`
	Sunrise     string  `json:"sunrise"`
	Sunset      string  `json:"sunset"`
	Date        string  `json:"date"`

	Forecast           []DailyForecastEntry      `json:"forecast"`
	HourlyForecast     []HourlyForecastEntry     `json:"hourlyForecast"`
	TemperatureHistory []TemperatureHistoryEntry `json:"temperatureHistory,omitempty"`
	Stats              *Stats                    `json:"stats,omitempty"`
	AirQuality         *int                      `json:"airQuality,omitempty"`
	UVIndex            *int                      `json:"uvIndex,omitempty"`
}
