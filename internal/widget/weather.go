// Package widget holds decorative collaborators that never touch habit data.
package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultWeatherURL is the Open-Meteo forecast endpoint.
const DefaultWeatherURL = "https://api.open-meteo.com/v1/forecast"

type Weather struct {
	TemperatureC float64
	Code         int
	Summary      string
	FetchedAt    time.Time
}

func (w Weather) String() string {
	return fmt.Sprintf("%s %.0f°C", w.Summary, w.TemperatureC)
}

// WeatherClient fetches current conditions for one location.
type WeatherClient struct {
	baseURL   string
	latitude  float64
	longitude float64
	http      *http.Client
}

func NewWeather(baseURL string, latitude, longitude float64, timeout time.Duration) *WeatherClient {
	if baseURL == "" {
		baseURL = DefaultWeatherURL
	}
	return &WeatherClient{
		baseURL:   baseURL,
		latitude:  latitude,
		longitude: longitude,
		http:      &http.Client{Timeout: timeout},
	}
}

type openMeteoResponse struct {
	CurrentWeather *struct {
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// Fetch returns the current weather. Callers treat any error as "no widget".
func (c *WeatherClient) Fetch(ctx context.Context) (Weather, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return Weather{}, fmt.Errorf("parse weather url: %w", err)
	}
	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(c.latitude, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(c.longitude, 'f', 4, 64))
	q.Set("current_weather", "true")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Weather{}, fmt.Errorf("build weather request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Weather{}, fmt.Errorf("fetch weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Weather{}, fmt.Errorf("fetch weather: unexpected status %d", resp.StatusCode)
	}

	var body openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Weather{}, fmt.Errorf("decode weather: %w", err)
	}
	if body.CurrentWeather == nil {
		return Weather{}, fmt.Errorf("decode weather: no current_weather in response")
	}
	return Weather{
		TemperatureC: body.CurrentWeather.Temperature,
		Code:         body.CurrentWeather.WeatherCode,
		Summary:      Describe(body.CurrentWeather.WeatherCode),
		FetchedAt:    time.Now(),
	}, nil
}

// Describe maps a WMO weather code to a short Indonesian label.
func Describe(code int) string {
	switch {
	case code == 0:
		return "Cerah"
	case code <= 3:
		return "Berawan"
	case code == 45 || code == 48:
		return "Berkabut"
	case code >= 51 && code <= 67:
		return "Hujan"
	case code >= 71 && code <= 77:
		return "Salju"
	case code >= 80 && code <= 82:
		return "Hujan Lebat"
	case code >= 95:
		return "Badai Petir"
	default:
		return "Tidak diketahui"
	}
}
