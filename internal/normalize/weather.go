// Package normalize maps upstream payloads onto the record shapes the
// frontend and the store expect. Everything here is pure.
package normalize

import (
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/model"
)

const MaxForecastDays = 7

const (
	ConditionSunny  = "sunny"
	ConditionCloudy = "cloudy"
	ConditionRainy  = "rainy"
)

var syntheticConditions = [...]string{ConditionSunny, ConditionCloudy, ConditionRainy}

// OWMForecast is the 5-day / 3-hour forecast payload of OpenWeather.
type OWMForecast struct {
	List []OWMSample `json:"list"`
	City struct {
		Name     string `json:"name"`
		Timezone int    `json:"timezone"` // seconds east of UTC
	} `json:"city"`
}

type OWMSample struct {
	Dt    int64  `json:"dt"`
	DtTxt string `json:"dt_txt"`
	Main  struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Rain *struct {
		ThreeHour float64 `json:"3h"`
	} `json:"rain,omitempty"`
}

func (s OWMSample) at(loc *time.Location) (time.Time, bool) {
	if s.Dt > 0 {
		return time.Unix(s.Dt, 0).In(loc), true
	}
	t, err := time.ParseInLocation("2006-01-02 15:04:05", s.DtTxt, loc)
	return t, err == nil
}

// Forecast keeps the first sample seen for each calendar date, in upstream
// order, up to maxDays entries.
func Forecast(f OWMForecast, maxDays int) []model.WeatherDay {
	if maxDays <= 0 || maxDays > MaxForecastDays {
		maxDays = MaxForecastDays
	}
	loc := time.FixedZone("forecast", f.City.Timezone)

	seen := make(map[string]bool, maxDays)
	days := make([]model.WeatherDay, 0, maxDays)
	for _, s := range f.List {
		t, ok := s.at(loc)
		if !ok {
			continue
		}
		key := t.Format("2006-01-02")
		if seen[key] {
			continue
		}
		seen[key] = true

		var main string
		if len(s.Weather) > 0 {
			main = s.Weather[0].Main
		}
		var rain float64
		if s.Rain != nil {
			rain = s.Rain.ThreeHour
		}
		days = append(days, model.WeatherDay{
			Day:       t.Weekday().String(),
			Date:      displayDate(t),
			Temp:      int(math.Round(s.Main.Temp)),
			Humidity:  s.Main.Humidity,
			Rainfall:  round1(rain),
			Condition: ConditionTag(main),
		})
		if len(days) == maxDays {
			break
		}
	}
	return days
}

// ConditionTag folds an OpenWeather condition group into the three tags the
// dashboard has icons for.
func ConditionTag(group string) string {
	switch strings.ToLower(group) {
	case "clear":
		return ConditionSunny
	case "rain", "drizzle", "thunderstorm", "snow":
		return ConditionRainy
	default:
		return ConditionCloudy
	}
}

// SyntheticForecast fabricates a displayable forecast starting at start.
// Temperature falls in [25,37], humidity in [55,85], rainfall in [0,25], and
// conditions cycle sunny, cloudy, rainy.
func SyntheticForecast(start time.Time, days int, rng *rand.Rand) []model.WeatherDay {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(start.UnixNano()), 0x9e3779b97f4a7c15))
	}
	out := make([]model.WeatherDay, days)
	for i := range out {
		d := start.AddDate(0, 0, i)
		out[i] = model.WeatherDay{
			Day:       d.Weekday().String(),
			Date:      displayDate(d),
			Temp:      25 + rng.IntN(13),
			Humidity:  55 + rng.IntN(31),
			Rainfall:  round1(rng.Float64() * 25),
			Condition: syntheticConditions[i%len(syntheticConditions)],
		}
	}
	return out
}

// displayDate renders d/m/yyyy, the en-IN short form the UI shows.
func displayDate(t time.Time) string {
	return t.Format("2/1/2006")
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
