// Package openmeteo fetches current conditions from the Open-Meteo forecast
// API, the weather provider the platform polls per region.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/karangue/heatwave-alert-service/internal/domain"
)

// currentFields is the `current` field list requested from the provider.
const currentFields = "temperature_2m,relative_humidity_2m,weathercode,apparent_temperature,windspeed_10m,uv_index"

// Client implements pipeline.WeatherFetcher against the Open-Meteo API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo client. The timeout bounds every request;
// exceeding it is a per-region fetch failure, not a pipeline abort.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchCurrent requests current conditions for the region's coordinates and
// normalizes the response into a Reading (without region id or timestamp,
// which the caller owns).
func (c *Client) FetchCurrent(ctx context.Context, region domain.Region) (domain.Reading, error) {
	params := url.Values{
		"latitude":  {formatCoord(region.Latitude)},
		"longitude": {formatCoord(region.Longitude)},
		"current":   {currentFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.Reading{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Reading{}, fmt.Errorf("weather request for %s: %w", region.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.Reading{}, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Reading{}, fmt.Errorf("decode response: %w", err)
	}

	cur := payload.Current
	if cur.Temperature == nil {
		return domain.Reading{}, fmt.Errorf("malformed response: missing current temperature")
	}

	reading := domain.Reading{
		Temperature: *cur.Temperature,
		Humidity:    cur.Humidity,
		WeatherCode: cur.WeatherCode,
		FeelsLike:   cur.FeelsLike,
		WindSpeed:   cur.WindSpeed,
		UVIndex:     cur.UVIndex,
	}
	return reading, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// Open-Meteo API response types.

type response struct {
	Current current `json:"current"`
}

type current struct {
	Temperature *float64 `json:"temperature_2m"`
	Humidity    float64  `json:"relative_humidity_2m"`
	WeatherCode int      `json:"weathercode"`
	FeelsLike   *float64 `json:"apparent_temperature"`
	WindSpeed   *float64 `json:"windspeed_10m"`
	UVIndex     *float64 `json:"uv_index"`
}
