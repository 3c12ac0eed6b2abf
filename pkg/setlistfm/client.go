package setlistfm

import (
	"context"
	"net/http"
	"strings"
)

// Config holds client configuration.
type Config struct {
	APIKey     string       // Required: setlist.fm API key
	HTTPClient *http.Client // Optional: HTTP client (defaults to http.DefaultClient)
	BaseURL    string       // Optional: Base URL for API (defaults to setlist.fm, used for testing)
	UserAgent  string       // Optional: User-Agent header
	Language   string       // Optional: Accept-Language, e.g. "en", "de"
	Logger     Logger       // Optional: Logger interface for debug logging
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

// Client is the main entry point for setlist.fm API operations.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	userAgent  string
	language   string
	logger     Logger
}

const (
	// DefaultBaseURL is the default setlist.fm API endpoint.
	DefaultBaseURL = "https://api.setlist.fm/rest/1.0"

	// DefaultUserAgent identifies requests made by this package.
	DefaultUserAgent = "setlistify/1.0"
)

// NewClient creates a new setlist.fm API client.
//
// Returns ErrMissingAPIKey if no API key is configured, so a run without
// credentials fails before any request is made.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	language := cfg.Language
	if language == "" {
		language = "en"
	}

	return &Client{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: httpClient,
		baseURL:    baseURL,
		userAgent:  userAgent,
		language:   language,
		logger:     cfg.Logger,
	}, nil
}

// GetSetlist fetches the setlist with the given id.
//
// Exactly one request is issued. Failures are returned as *Error.
func (c *Client) GetSetlist(ctx context.Context, setlistID string) (*Setlist, error) {
	setlistID = strings.TrimSpace(setlistID)
	if setlistID == "" {
		return nil, &Error{Kind: KindInvalidInput, Message: "setlist id is empty"}
	}

	var sl Setlist
	if err := c.get(ctx, "/setlist/"+setlistID, &sl); err != nil {
		return nil, err
	}
	if sl.ID == "" && sl.Artist == nil && sl.Sets == nil {
		return nil, &Error{
			Kind:    KindMalformedResponse,
			Message: "response does not contain a setlist",
			URL:     c.baseURL + "/setlist/" + setlistID,
		}
	}
	return &sl, nil
}

// GetSetlistByURL extracts the setlist id from a setlist.fm page URL and
// fetches it.
func (c *Client) GetSetlistByURL(ctx context.Context, pageURL string) (*Setlist, error) {
	id, err := ExtractSetlistID(pageURL)
	if err != nil {
		return nil, err
	}
	return c.GetSetlist(ctx, id)
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
