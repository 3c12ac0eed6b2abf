package setlistfm

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// setlistPathPattern matches /setlist/<artist>/<year>/<slug>.html and captures
// the final slug. setlist.fm ends every slug with "-<id>".
var setlistPathPattern = regexp.MustCompile(`^/setlist/[^/]+/\d{4}/([^/]+)\.html$`)

// setlistIDPattern is the shape of a setlist id: 7-8 hex characters.
var setlistIDPattern = regexp.MustCompile(`^[0-9a-f]{6,10}$`)

// ExtractSetlistID returns the setlist id embedded in a setlist.fm page URL.
//
// Accepted form (any setlist.fm host, with or without scheme, query or fragment):
//
//	https://www.setlist.fm/setlist/artist-name/2023/venue-city-63de4613.html
//
// The id is the last hyphen-separated token of the page name.
func ExtractSetlistID(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", &Error{Kind: KindInvalidInput, Message: "setlist URL is empty"}
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", &Error{Kind: KindInvalidInput, Message: "could not parse setlist URL", URL: rawURL, Err: err}
	}

	host := strings.ToLower(u.Hostname())
	if host != "setlist.fm" && !strings.HasSuffix(host, ".setlist.fm") {
		return "", &Error{
			Kind:    KindInvalidInput,
			Message: fmt.Sprintf("not a setlist.fm URL (host %q)", u.Hostname()),
			URL:     rawURL,
		}
	}

	m := setlistPathPattern.FindStringSubmatch(u.Path)
	if m == nil {
		return "", &Error{
			Kind:    KindInvalidInput,
			Message: "could not extract setlist id; expected https://www.setlist.fm/setlist/<artist>/<year>/<venue>-<id>.html",
			URL:     rawURL,
		}
	}

	slug := m[1]
	id := slug
	if i := strings.LastIndex(slug, "-"); i >= 0 {
		id = slug[i+1:]
	}
	id = strings.ToLower(id)
	if !setlistIDPattern.MatchString(id) {
		return "", &Error{
			Kind:    KindInvalidInput,
			Message: fmt.Sprintf("page name %q does not end in a setlist id", slug),
			URL:     rawURL,
		}
	}

	return id, nil
}
