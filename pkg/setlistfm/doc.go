// Package setlistfm provides a client for the setlist.fm REST API 1.0.
//
// The client is intentionally small: it resolves a setlist.fm web URL to a
// setlist id and fetches that setlist with a single request. It is designed
// to be used as a standalone SDK.
//
// # Getting Started
//
//	client, err := setlistfm.NewClient(setlistfm.Config{
//	    APIKey: os.Getenv("SETLISTFM_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sl, err := client.GetSetlistByURL(ctx,
//	    "https://www.setlist.fm/setlist/taylor-swift/2023/state-farm-stadium-glendale-az-63a3d6cb.html")
//
// # Error Handling
//
// Every failure is reported as an *Error carrying a Kind, so callers can
// branch on the category without inspecting status codes:
//
//	sl, err := client.GetSetlist(ctx, id)
//	if errors.Is(err, setlistfm.ErrAuth) {
//	    fmt.Println("check your API key at https://www.setlist.fm/settings/api")
//	}
//
// Requests are never retried. Re-running is left to the caller.
//
// # setlist.fm API Documentation
//
// https://api.setlist.fm/docs/1.0/index.html
package setlistfm
