package service

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/normalize"
)

const owmBody = `{"city":{"timezone":0},"list":[
	{"dt":1760860800,"main":{"temp":30.4,"humidity":62},"weather":[{"main":"Clear"}]},
	{"dt":1760871600,"main":{"temp":33.0,"humidity":50},"weather":[{"main":"Rain"}]},
	{"dt":1760947200,"main":{"temp":28.6,"humidity":71},"weather":[{"main":"Rain"}],"rain":{"3h":2.34}}
]}`

func TestWeatherLive(t *testing.T) {
	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/forecast", r.URL.Path)
		query = r.URL.Query()
		fmt.Fprint(w, owmBody)
	}))
	defer srv.Close()

	lat, lon := 19.07, 72.87
	days, live := NewWeatherService(testConfig(srv.URL), testUpstream()).Forecast(t.Context(), &lat, &lon)
	assert.True(t, live)
	require.Len(t, days, 2)
	assert.Equal(t, 30, days[0].Temp)
	assert.Equal(t, normalize.ConditionSunny, days[0].Condition)
	assert.Equal(t, normalize.ConditionRainy, days[1].Condition)
	assert.InDelta(t, 2.3, days[1].Rainfall, 1e-9)

	assert.Equal(t, []string{"19.07"}, query["lat"])
	assert.Equal(t, []string{"72.87"}, query["lon"])
	assert.Equal(t, []string{"metric"}, query["units"])
	assert.Equal(t, []string{"owm-key"}, query["appid"])
}

func TestWeatherDefaultsCoordinates(t *testing.T) {
	var lat string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lat = r.URL.Query().Get("lat")
		fmt.Fprint(w, owmBody)
	}))
	defer srv.Close()

	only := 10.0
	_, live := NewWeatherService(testConfig(srv.URL), testUpstream()).Forecast(t.Context(), &only, nil)
	assert.True(t, live)
	assert.Equal(t, "28.6139", lat)
}

func TestWeatherFallback(t *testing.T) {
	fail := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer fail.Close()
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"list":[]}`)
	}))
	defer empty.Close()
	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>`)
	}))
	defer garbage.Close()

	noKey := testConfig(fail.URL)
	noKey.Weather.APIKey = ""

	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	for name, svc := range map[string]*WeatherService{
		"status":  NewWeatherService(testConfig(fail.URL), testUpstream()),
		"empty":   NewWeatherService(testConfig(empty.URL), testUpstream()),
		"garbage": NewWeatherService(testConfig(garbage.URL), testUpstream()),
		"nokey":   NewWeatherService(noKey, testUpstream()),
		"down":    NewWeatherService(testConfig("http://127.0.0.1:1"), testUpstream()),
	} {
		svc.now = func() time.Time { return start }
		days, live := svc.Forecast(t.Context(), nil, nil)
		assert.False(t, live, name)
		require.Len(t, days, 7, name)
		assert.Equal(t, "19/10/2026", days[0].Date, name)
		for _, d := range days {
			assert.True(t, d.Temp >= 25 && d.Temp <= 37, name)
			assert.True(t, d.Humidity >= 55 && d.Humidity <= 85, name)
		}
	}
}

func TestNewsFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/everything", r.URL.Path)
		assert.Equal(t, "news-key", r.Header.Get("X-Api-Key"))
		assert.Contains(t, r.URL.Query().Get("q"), "pesticide")
		assert.Equal(t, "20", r.URL.Query().Get("pageSize"))
		fmt.Fprint(w, `{"status":"ok","articles":[
			{"title":"Locust swarm: pest alert","description":"Insects spotted","publishedAt":"2026-10-18T00:00:00Z"},
			{"title":"[Removed]"},
			{"title":"Wheat harvest begins"}
		]}`)
	}))
	defer srv.Close()

	got, err := NewNewsService(testConfig(srv.URL), testUpstream()).Fetch(t.Context())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, normalize.CategoryPest, got[0].Category)
	assert.Equal(t, normalize.CategoryCrops, got[1].Category)
}

func TestNewsErrors(t *testing.T) {
	c := testConfig("http://127.0.0.1:1")
	c.News.APIKey = ""
	_, err := NewNewsService(c, testUpstream()).Fetch(t.Context())
	assert.ErrorIs(t, err, ErrMissingKey)

	unauthorized := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":"error","code":"apiKeyInvalid"}`, http.StatusUnauthorized)
	}))
	defer unauthorized.Close()
	_, err = NewNewsService(testConfig(unauthorized.URL), testUpstream()).Fetch(t.Context())
	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusUnauthorized, ue.Status)
	assert.Equal(t, "news", ue.Source)

	inBody := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"error","code":"rateLimited","message":"slow down"}`)
	}))
	defer inBody.Close()
	_, err = NewNewsService(testConfig(inBody.URL), testUpstream()).Fetch(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slow down")
}

func TestMarketFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/resource/9ef84268-d588-465a-a308-a864a43d0070", r.URL.Path)
		assert.Equal(t, "gov-key", r.URL.Query().Get("api-key"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		fmt.Fprint(w, `{"records":[
			{"state":"Maharashtra","market":"Lasalgaon","commodity":"Onion","modal_price":"1400"},
			{"commodity":"Cotton","modal_price":"n/a"}
		]}`)
	}))
	defer srv.Close()

	svc := NewMarketService(testConfig(srv.URL), testUpstream())
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	rows, err := svc.Fetch(t.Context())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Onion", rows[0].CropName)
	assert.Equal(t, 1400.0, rows[0].PricePerQuintal)
	assert.Equal(t, "Unknown", rows[1].State)
	assert.Equal(t, 0.0, rows[1].PricePerQuintal)
	assert.Equal(t, "2026-10-19", rows[1].Date)
}

func TestMarketErrors(t *testing.T) {
	c := testConfig("http://127.0.0.1:1")
	c.Market.APIKey = ""
	_, err := NewMarketService(c, testUpstream()).Fetch(t.Context())
	assert.ErrorIs(t, err, ErrMissingKey)

	_, err = NewMarketService(testConfig("http://127.0.0.1:1"), testUpstream()).Fetch(t.Context())
	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, 0, ue.Status)
}
