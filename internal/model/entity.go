package model

// WeatherDay is one forecast day as the dashboard renders it.
type WeatherDay struct {
	Day       string  `json:"day"`
	Date      string  `json:"date"`
	Temp      int     `json:"temp"`
	Humidity  int     `json:"humidity"`
	Rainfall  float64 `json:"rainfall"`
	Condition string  `json:"condition"`
}

type ForecastRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type ForecastResponse struct {
	Forecast []WeatherDay `json:"forecast"`
}

// RefreshSummary is returned by the refresh endpoints instead of the records
// themselves; callers re-read storage to see them.
type RefreshSummary struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

type DetectRequest struct {
	ImageURL string `json:"imageUrl" binding:"required"`
}

type DiseaseResult struct {
	Disease         string `json:"disease"`
	Confidence      int    `json:"confidence"`
	Recommendations string `json:"recommendations"`
	Treatment       string `json:"treatment"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages []ChatMessage `json:"messages" binding:"required"`
}

type ChatResponse struct {
	Message string `json:"message"`
}

// PriceFilter narrows the market price listing. State, when set, sorts
// matching rows ahead of the rest.
type PriceFilter struct {
	Query string
	State string
}
