package openmeteo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karangue/heatwave-alert-service/internal/domain"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

var testRegion = domain.Region{ID: 1, Name: "Dakar", Latitude: 14.7167, Longitude: -17.4677}

func testClient(baseURL string, timeout time.Duration) *Client {
	return NewClient(baseURL, timeout, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_FetchCurrent_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "14.7167", r.URL.Query().Get("latitude"))
		assert.Equal(t, "-17.4677", r.URL.Query().Get("longitude"))
		assert.Contains(t, r.URL.Query().Get("current"), "temperature_2m")
		assert.Contains(t, r.URL.Query().Get("current"), "uv_index")

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{
            "current": {
                "temperature_2m": 38.4,
                "relative_humidity_2m": 62,
                "weathercode": 1,
                "apparent_temperature": 42.1,
                "windspeed_10m": 14.5,
                "uv_index": 8.3
            }
        }`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	reading, err := c.FetchCurrent(context.Background(), testRegion)
	require.NoError(t, err)

	want := domain.Reading{
		Temperature: 38.4,
		Humidity:    62,
		WeatherCode: 1,
		FeelsLike:   ptr(42.1),
		WindSpeed:   ptr(14.5),
		UVIndex:     ptr(8.3),
	}
	if diff := cmp.Diff(want, reading); diff != "" {
		t.Errorf("reading mismatch (-want +got):\n%s", diff)
	}
}

func ptr(v float64) *float64 { return &v }

func TestClient_FetchCurrent_OptionalFieldsAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"current": {"temperature_2m": 29.0, "relative_humidity_2m": 70, "weathercode": 2}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	reading, err := c.FetchCurrent(context.Background(), testRegion)
	require.NoError(t, err)

	assert.Equal(t, 29.0, reading.Temperature)
	assert.Nil(t, reading.FeelsLike)
	assert.Nil(t, reading.WindSpeed)
	assert.Nil(t, reading.UVIndex)
}

func TestClient_FetchCurrent_MissingTemperature(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"current": {}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	_, err := c.FetchCurrent(context.Background(), testRegion)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}

func TestClient_FetchCurrent_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream down`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	_, err := c.FetchCurrent(context.Background(), testRegion)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_FetchCurrent_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 50*time.Millisecond)
	_, err := c.FetchCurrent(context.Background(), testRegion)
	require.Error(t, err)
}

func TestClient_FetchCurrent_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	_, err := c.FetchCurrent(context.Background(), testRegion)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}
