package interestrate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://www.ustreasuryyieldcurve.com"

const tradingDaysPerYear = 252

var yieldKeys = []string{
	"yield_1m",
	"yield_2m",
	"yield_3m",
	"yield_4m",
	"yield_6m",
	"yield_1y",
	"yield_2y",
	"yield_3y",
	"yield_5y",
	"yield_7y",
	"yield_10y",
	"yield_20y",
	"yield_30y",
}

func interestRateMonthsFromApi(in string) (int, error) {
	cleanedStr := strings.Replace(in, "yield_", "", 1)
	unit := string(cleanedStr[len(cleanedStr)-1])
	cleanedStr = cleanedStr[:len(cleanedStr)-1]
	months, err := strconv.Atoi(cleanedStr)
	if err != nil {
		return 0, err
	}

	if unit == "y" {
		months *= 12
	}

	return months, nil
}

// InterestRateMap holds annualized yields keyed by months to maturity.
type InterestRateMap struct {
	Rates map[int]float64
}

func (im InterestRateMap) GetRate(monthsOut int) (float64, error) {
	if len(im.Rates) == 0 {
		return 0, fmt.Errorf("yield curve is empty")
	}
	v, ok := im.Rates[monthsOut]
	if ok {
		return v, nil
	}

	keys := []int{}
	for k := range im.Rates {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	if monthsOut < keys[0] {
		return im.Rates[keys[0]], nil
	}
	if monthsOut > keys[len(keys)-1] {
		return im.Rates[keys[len(keys)-1]], nil
	}

	// linear interpolation between the surrounding maturities
	for i := 0; i < len(keys)-1; i++ {
		key1 := keys[i]
		key2 := keys[i+1]
		if monthsOut > key1 && monthsOut < key2 {
			frac := float64(monthsOut-key1) / float64(key2-key1)
			return im.Rates[key1] + frac*(im.Rates[key2]-im.Rates[key1]), nil
		}
	}
	return 0, fmt.Errorf("unable to compute rate for %d months", monthsOut)
}

// DailyRiskFreeRate de-annualizes the 3 month yield over trading days.
func (im InterestRateMap) DailyRiskFreeRate() (float64, error) {
	annual, err := im.GetRate(3)
	if err != nil {
		return 0, err
	}
	return annual / tradingDaysPerYear, nil
}

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

func (c *Client) GetYieldCurve(ctx context.Context, date time.Time) (*InterestRateMap, error) {
	url := fmt.Sprintf("%s/api/v1/yield_curve_snapshot?date=%s&offset=0", c.BaseURL, date.Format(time.DateOnly))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
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

	if response.StatusCode != 200 {
		return nil, fmt.Errorf("failed with status code %d: %s", response.StatusCode, string(responseBytes))
	}

	responseBody := []map[string]interface{}{}
	err = json.Unmarshal(responseBytes, &responseBody)
	if err != nil {
		return nil, err
	}

	out := map[int]float64{}
	for _, snapshot := range responseBody {
		for _, field := range yieldKeys {
			v, ok := snapshot[field].(float64)
			if !ok {
				continue
			}
			months, err := interestRateMonthsFromApi(field)
			if err != nil {
				return nil, err
			}
			out[months] = v / 100
		}
	}

	return &InterestRateMap{
		Rates: out,
	}, nil
}
