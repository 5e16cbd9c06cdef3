package service

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/config"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/logger"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/model"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/normalize"
)

const sourceWeather = "weather"

type WeatherService struct {
	cfg *config.Config
	up  *Upstream
	now func() time.Time
}

func NewWeatherService(cfg *config.Config, up *Upstream) *WeatherService {
	return &WeatherService{cfg: cfg, up: up, now: time.Now}
}

// Forecast returns up to seven days for the coordinate, or for the configured
// default location when either is nil. It never fails: any problem with the
// upstream yields a synthetic forecast, and live reports which one was served.
func (s *WeatherService) Forecast(ctx context.Context, lat, lon *float64) (days []model.WeatherDay, live bool) {
	la, lo := s.cfg.Weather.Latitude, s.cfg.Weather.Longitude
	if lat != nil && lon != nil {
		la, lo = *lat, *lon
	}

	days, err := s.fetch(ctx, la, lo)
	if err == nil && len(days) > 0 {
		return days, true
	}
	if err == nil {
		err = errors.New("empty forecast")
	}
	logger.Warn("weather.fallback", "lat", la, "lon", lo, "err", err)
	return normalize.SyntheticForecast(s.now(), normalize.MaxForecastDays, nil), false
}

func (s *WeatherService) fetch(ctx context.Context, lat, lon float64) ([]model.WeatherDay, error) {
	key, err := s.cfg.Require(config.KeyWeatherAPI)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("units", "metric")
	q.Set("appid", key)

	var raw normalize.OWMForecast
	if err := s.up.getJSON(ctx, sourceWeather, s.cfg.Weather.BaseURL+"/data/2.5/forecast?"+q.Encode(), nil, &raw); err != nil {
		return nil, err
	}
	return normalize.Forecast(raw, normalize.MaxForecastDays), nil
}
