// Package itunes provides a minimal client for the iTunes Search API, used to
// look songs up in the Apple Music catalog.
//
// Example usage:
//
//	client := itunes.NewClient(itunes.Config{Country: "US"})
//	songs, err := client.SearchSongs(ctx, "Blank Space Taylor Swift", 10)
//
// The API needs no key. See
// https://performance-partners.apple.com/search-api
package itunes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultBaseURL is the default iTunes Search API endpoint.
	DefaultBaseURL = "https://itunes.apple.com"

	// MaxLimit is the largest result count the API accepts.
	MaxLimit = 200
)

// Config holds client configuration.
type Config struct {
	Country    string       // Optional: two-letter store country (defaults to "US")
	HTTPClient *http.Client // Optional: HTTP client (defaults to http.DefaultClient)
	BaseURL    string       // Optional: Base URL for API (used for testing)
}

// Client queries the iTunes Search API.
type Client struct {
	country    string
	httpClient *http.Client
	baseURL    string
}

// Song is a catalog song.
type Song struct {
	TrackID        int64  `json:"trackId"`
	TrackName      string `json:"trackName"`
	ArtistName     string `json:"artistName"`
	CollectionName string `json:"collectionName"`
	TrackViewURL   string `json:"trackViewUrl"`
	Kind           string `json:"kind"`
}

// MatchTitle returns the track name for matching.
func (s Song) MatchTitle() string { return s.TrackName }

// MatchArtist returns the artist name for matching.
func (s Song) MatchArtist() string { return s.ArtistName }

// ID returns the catalog identifier as a string.
func (s Song) ID() string { return strconv.FormatInt(s.TrackID, 10) }

type searchResponse struct {
	ResultCount int    `json:"resultCount"`
	Results     []Song `json:"results"`
}

// Error is a failed catalog request.
type Error struct {
	StatusCode int    // HTTP status, 0 when no response was received
	URL        string // Request URL
	Err        error  // Underlying cause
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("itunes: unexpected status code %d (%s)", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("itunes: request to %s failed: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewClient creates a new iTunes Search API client.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	country := strings.ToUpper(strings.TrimSpace(cfg.Country))
	if country == "" {
		country = "US"
	}

	return &Client{
		country:    country,
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// SearchSongs searches the catalog for songs matching term.
//
// Only results of kind "song" are returned, in the API's relevance order.
// One request is issued; failures are not retried.
func (c *Client) SearchSongs(ctx context.Context, term string, limit int) ([]Song, error) {
	if limit <= 0 || limit > MaxLimit {
		limit = 25
	}

	params := url.Values{}
	params.Set("term", term)
	params.Set("media", "music")
	params.Set("entity", "song")
	params.Set("country", c.country)
	params.Set("limit", strconv.Itoa(limit))
	endpoint := c.baseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{URL: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{URL: endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{StatusCode: resp.StatusCode, URL: endpoint}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: endpoint, Err: err}
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, &Error{URL: endpoint, Err: fmt.Errorf("failed to parse JSON response: %w", err)}
	}

	songs := make([]Song, 0, len(sr.Results))
	for _, s := range sr.Results {
		if s.Kind != "" && s.Kind != "song" {
			continue
		}
		songs = append(songs, s)
	}
	return songs, nil
}
