package normalize

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t time.Time, temp float64, humidity int, group string, rain float64) OWMSample {
	var s OWMSample
	s.Dt = t.Unix()
	s.Main.Temp = temp
	s.Main.Humidity = humidity
	s.Weather = append(s.Weather, struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	}{Main: group})
	if rain > 0 {
		s.Rain = &struct {
			ThreeHour float64 `json:"3h"`
		}{ThreeHour: rain}
	}
	return s
}

func TestForecastFirstSamplePerDay(t *testing.T) {
	day1 := time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC)
	var f OWMForecast
	f.List = []OWMSample{
		sample(day1, 31.6, 60, "Clear", 0),
		sample(day1.Add(3*time.Hour), 35, 40, "Rain", 4),
		sample(day1.Add(24*time.Hour), 29.2, 70, "Drizzle", 1.26),
		sample(day1.Add(48*time.Hour), 27, 80, "Mist", 0),
	}

	days := Forecast(f, MaxForecastDays)
	require.Len(t, days, 3)

	assert.Equal(t, day1.Weekday().String(), days[0].Day)
	assert.Equal(t, "19/10/2026", days[0].Date)
	assert.Equal(t, 32, days[0].Temp)
	assert.Equal(t, 60, days[0].Humidity)
	assert.Equal(t, ConditionSunny, days[0].Condition)

	assert.Equal(t, "20/10/2026", days[1].Date)
	assert.Equal(t, ConditionRainy, days[1].Condition)
	assert.InDelta(t, 1.3, days[1].Rainfall, 1e-9)

	assert.Equal(t, ConditionCloudy, days[2].Condition)
}

func TestForecastUsesCityTimezone(t *testing.T) {
	// 20:00 UTC is already the next day in India.
	var f OWMForecast
	f.City.Timezone = 19800
	f.List = []OWMSample{sample(time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC), 25, 50, "Clouds", 0)}

	days := Forecast(f, 7)
	require.Len(t, days, 1)
	assert.Equal(t, "20/10/2026", days[0].Date)
}

func TestForecastCapsDays(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	var f OWMForecast
	for i := 0; i < 10; i++ {
		f.List = append(f.List, sample(start.AddDate(0, 0, i), 20, 50, "Clear", 0))
	}
	assert.Len(t, Forecast(f, 0), MaxForecastDays)
	assert.Len(t, Forecast(f, 3), 3)
}

func TestForecastFallsBackToDtTxt(t *testing.T) {
	var f OWMForecast
	f.List = []OWMSample{{DtTxt: "2026-03-05 09:00:00"}, {DtTxt: "garbage"}}
	days := Forecast(f, 7)
	require.Len(t, days, 1)
	assert.Equal(t, "5/3/2026", days[0].Date)
	assert.Equal(t, ConditionCloudy, days[0].Condition)
}

func TestConditionTag(t *testing.T) {
	cases := map[string]string{
		"Clear":        ConditionSunny,
		"Rain":         ConditionRainy,
		"thunderstorm": ConditionRainy,
		"Snow":         ConditionRainy,
		"Clouds":       ConditionCloudy,
		"Haze":         ConditionCloudy,
		"":             ConditionCloudy,
	}
	for in, want := range cases {
		assert.Equal(t, want, ConditionTag(in), in)
	}
}

func TestSyntheticForecastRanges(t *testing.T) {
	start := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	for seed := uint64(0); seed < 50; seed++ {
		days := SyntheticForecast(start, MaxForecastDays, rand.New(rand.NewPCG(seed, seed+1)))
		require.Len(t, days, 7)
		for i, d := range days {
			assert.GreaterOrEqual(t, d.Temp, 25)
			assert.LessOrEqual(t, d.Temp, 37)
			assert.GreaterOrEqual(t, d.Humidity, 55)
			assert.LessOrEqual(t, d.Humidity, 85)
			assert.GreaterOrEqual(t, d.Rainfall, 0.0)
			assert.LessOrEqual(t, d.Rainfall, 25.0)
			assert.InDelta(t, d.Rainfall, round1(d.Rainfall), 1e-9)
			assert.Equal(t, syntheticConditions[i%3], d.Condition)
		}
	}
}

func TestSyntheticForecastDates(t *testing.T) {
	start := time.Date(2026, 12, 30, 0, 0, 0, 0, time.UTC)
	days := SyntheticForecast(start, 3, nil)
	require.Len(t, days, 3)
	assert.Equal(t, "30/12/2026", days[0].Date)
	assert.Equal(t, "1/1/2027", days[2].Date)
	assert.Equal(t, []string{ConditionSunny, ConditionCloudy, ConditionRainy},
		[]string{days[0].Condition, days[1].Condition, days[2].Condition})
}
