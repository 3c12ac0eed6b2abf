package setlistfm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody caps how much of an error response is read for diagnostics.
const maxErrorBody = 4 << 10

// get issues a single GET against the API and decodes the JSON body into out.
//
// It handles:
// - Request construction with the x-api-key header
// - Status code classification into error Kinds
// - JSON decoding
//
// There is no retry loop: a failed request is reported as-is.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	endpoint := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &Error{Kind: KindInvalidInput, Message: "failed to create request", URL: endpoint, Err: err}
	}

	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", c.language)
	req.Header.Set("User-Agent", c.userAgent)

	c.logDebugf("setlistfm: GET %s", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "http request failed", URL: endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(resp.StatusCode, endpoint, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "failed to read response", URL: endpoint, Err: err}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: KindMalformedResponse, Message: "failed to parse JSON response", URL: endpoint, Err: err}
	}

	c.logDebugf("setlistfm: GET %s succeeded (%d bytes)", endpoint, len(body))
	return nil
}

// statusError maps a non-2xx response to an *Error.
func statusError(status int, endpoint string, body []byte) *Error {
	msg := http.StatusText(status)
	var apiErr apiErrorBody
	if len(body) > 0 && json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		msg = apiErr.Message
	}

	e := &Error{
		StatusCode: status,
		URL:        endpoint,
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Kind = KindAuth
		e.Message = fmt.Sprintf("API key rejected (%d %s); get a key at https://www.setlist.fm/settings/api", status, msg)
	case http.StatusNotFound:
		e.Kind = KindNotFound
		e.Message = fmt.Sprintf("setlist not found (%d %s)", status, msg)
	default:
		e.Kind = KindNetwork
		e.Message = fmt.Sprintf("unexpected status code %d: %s", status, msg)
	}
	return e
}
