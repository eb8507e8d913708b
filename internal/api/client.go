// Package api is the Al Adhan reference backend. It fetches timings over
// HTTP, caches them through an optional Store and converts them to
// solar.Times.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smokyabdulrahman/miqat/internal/solar"
)

const defaultBaseURL = "https://api.aladhan.com/v1"

// Al Adhan method ids. Other has no remote equivalent and uses ISNA, whose
// angles it shares.
var methodIDs = map[solar.Method]int{
	solar.Karachi:           1,
	solar.NorthAmerica:      2,
	solar.MuslimWorldLeague: 3,
	solar.UmmAlQura:         4,
	solar.Egyptian:          5,
	solar.Kuwait:            9,
	solar.Qatar:             10,
	solar.Singapore:         11,
	solar.Dubai:             16,
	solar.Other:             2,
}

// MethodID returns the Al Adhan method id for m.
func MethodID(m solar.Method) int {
	if id, ok := methodIDs[m]; ok {
		return id
	}
	return methodIDs[solar.NorthAmerica]
}

// SchoolID returns the Al Adhan school parameter: 0 Shafi, 1 Hanafi.
func SchoolID(m solar.Madhhab) int {
	if m == solar.Hanafi {
		return 1
	}
	return 0
}

// Store caches raw responses. *cache.Cache implements it.
type Store interface {
	LoadTimings(date time.Time, lat, lon float64, method, school int) *Response
	SaveTimings(date time.Time, lat, lon float64, method, school int, resp *Response) error
}

// Client communicates with the Al Adhan prayer times API.
type Client struct {
	httpClient *http.Client
	store      Store
	// BaseURL is the API base URL. Defaults to the Al Adhan API.
	// Exported for testing with httptest.
	BaseURL string
}

// NewClient creates a new API client with sensible defaults.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		BaseURL: defaultBaseURL,
	}
}

// WithStore makes the client read and write responses through s.
func (c *Client) WithStore(s Store) *Client {
	c.store = s
	return c
}

// Name reports "aladhan".
func (c *Client) Name() string { return "aladhan" }

// Probe checks the API is reachable by listing its methods.
func (c *Client) Probe(ctx context.Context) error {
	var st status
	if err := c.get(ctx, c.BaseURL+"/methods", nil, &st); err != nil {
		return err
	}
	if st.Code != http.StatusOK {
		return fmt.Errorf("API error: code=%d status=%s", st.Code, st.Status)
	}
	return nil
}

// FetchByCoordinates fetches prayer times for the given date and coordinates.
// A negative method or school is left for the API to choose.
func (c *Client) FetchByCoordinates(ctx context.Context, date time.Time, lat, lon float64, method, school int) (*Response, error) {
	if c.store != nil {
		if resp := c.store.LoadTimings(date, lat, lon, method, school); resp != nil {
			return resp, nil
		}
	}

	endpoint := fmt.Sprintf("%s/timings/%s", c.BaseURL, date.Format("02-01-2006"))

	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", lat))
	params.Set("longitude", fmt.Sprintf("%f", lon))
	if method >= 0 {
		params.Set("method", fmt.Sprintf("%d", method))
	}
	if school >= 0 {
		params.Set("school", fmt.Sprintf("%d", school))
	}

	var apiResp Response
	if err := c.get(ctx, endpoint, params, &apiResp); err != nil {
		return nil, err
	}
	if apiResp.Code != http.StatusOK {
		return nil, fmt.Errorf("API error: code=%d status=%s", apiResp.Code, apiResp.Status)
	}

	if c.store != nil {
		// A failed cache write only costs a refetch.
		_ = c.store.SaveTimings(date, lat, lon, method, school, &apiResp)
	}
	return &apiResp, nil
}

// Compute fetches the day's timings and converts them to instants on the
// civil day of date. Times are returned in the API's reported timezone.
func (c *Client) Compute(ctx context.Context, date time.Time, coord solar.Coordinate, madhhab solar.Madhhab, method solar.Method) (solar.Times, error) {
	resp, err := c.FetchByCoordinates(ctx, date, coord.Latitude, coord.Longitude, MethodID(method), SchoolID(madhhab))
	if err != nil {
		return solar.Times{}, err
	}
	return resp.Data.Times(date)
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("building API request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode API response: %w", err)
	}
	return nil
}
