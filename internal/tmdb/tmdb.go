package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

var ErrNotFound = errors.New("movie not found in TMDb")

// Client is a thin TMDb v3 API client. Callers treat any transport or
// non-2xx failure other than 404 as a recoverable upstream outage.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetMovie fetches movie details with credits and videos appended, so a
// single round trip yields cast, crew and trailer information.
func (c *Client) GetMovie(ctx context.Context, id int64) (*Movie, error) {
	requestURL := fmt.Sprintf("%s/movie/%d?api_key=%s&append_to_response=credits,videos", c.baseURL, id, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tmdb: non-2xx status: %s - %s", resp.Status, string(body))
	}

	var movie Movie
	if err := json.NewDecoder(resp.Body).Decode(&movie); err != nil {
		return nil, err
	}
	return &movie, nil
}
