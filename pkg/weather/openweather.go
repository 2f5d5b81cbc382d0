package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"
	"unicode"
	"unicode/utf8"
)

const defaultOpenWeatherBaseURL = "https://api.openweathermap.org"

// OpenWeatherProvider reads current conditions from OpenWeatherMap. All
// failure paths, including a missing API key, yield a nil summary without
// an error so item creation is never blocked on weather.
type OpenWeatherProvider struct {
	apiKey     string
	baseURL    string
	units      string
	language   string
	httpClient *http.Client
}

func NewOpenWeatherProvider(apiKey, baseURL, units, language string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = defaultOpenWeatherBaseURL
	}
	if units == "" {
		units = "metric"
	}
	if language == "" {
		language = "en"
	}
	return &OpenWeatherProvider{
		apiKey:     apiKey,
		baseURL:    baseURL,
		units:      units,
		language:   language,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *OpenWeatherProvider) Current(ctx context.Context, lat, lng float64) (*Summary, error) {
	if p.apiKey == "" {
		return nil, nil
	}

	apiURL := fmt.Sprintf("%s/data/2.5/weather?lat=%f&lon=%f&appid=%s&units=%s&lang=%s",
		p.baseURL, lat, lng, p.apiKey, p.units, p.language)

	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, nil
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var owmResp struct {
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&owmResp); err != nil {
		return nil, nil
	}
	if len(owmResp.Weather) == 0 {
		return nil, nil
	}

	temp := int(math.Round(owmResp.Main.Temp))
	description := capitalize(owmResp.Weather[0].Description)
	return &Summary{
		Text: fmt.Sprintf("%d°C - %s", temp, description),
		Icon: owmResp.Weather[0].Icon,
	}, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
