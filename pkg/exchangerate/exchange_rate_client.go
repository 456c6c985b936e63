package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.frankfurter.app"

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: httpClient,
	}
}

// StatusError is returned for any non-200 response.
type StatusError struct {
	StatusCode int
	RetryAfter time.Duration
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("exchange rate api failed with status code %d: %s", e.StatusCode, e.Body)
}

type ratesResponse struct {
	Amount float64            `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}

// GetRates returns units of each quote currency per one unit of base on date.
// The api falls back to the closest prior publication day on holidays.
func (c *Client) GetRates(ctx context.Context, base string, quotes []string, date time.Time) (map[string]float64, error) {
	if len(quotes) == 0 {
		return map[string]float64{}, nil
	}

	params := url.Values{}
	params.Set("from", base)
	params.Set("to", strings.Join(quotes, ","))
	endpoint := fmt.Sprintf("%s/%s?%s", c.BaseURL, date.Format(time.DateOnly), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	response, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	responseBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("received status code %d and failed to read body: %w", response.StatusCode, err)
	}

	if response.StatusCode != http.StatusOK {
		return nil, &StatusError{
			StatusCode: response.StatusCode,
			RetryAfter: parseRetryAfter(response.Header.Get("Retry-After")),
			Body:       string(responseBytes),
		}
	}

	responseBody := ratesResponse{}
	if err := json.Unmarshal(responseBytes, &responseBody); err != nil {
		return nil, fmt.Errorf("failed to decode exchange rate response: %w", err)
	}

	return responseBody.Rates, nil
}

// Retry-After is either delay-seconds or an http date
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
