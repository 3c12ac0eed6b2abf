package setlistfm

// Setlist is the setlist.fm representation of a single concert.
//
// Field names follow the JSON returned by GET /1.0/setlist/{setlistId}.
type Setlist struct {
	ID          string  `json:"id"`
	VersionID   string  `json:"versionId"`
	EventDate   string  `json:"eventDate"` // dd-MM-yyyy
	LastUpdated string  `json:"lastUpdated"`
	Artist      *Artist `json:"artist"`
	Venue       *Venue  `json:"venue"`
	Tour        *Tour   `json:"tour,omitempty"`
	Sets        *Sets   `json:"sets"`
	Info        string  `json:"info,omitempty"`
	URL         string  `json:"url"`
}

// Artist is a performing artist.
type Artist struct {
	MBID           string `json:"mbid"`
	Name           string `json:"name"`
	SortName       string `json:"sortName,omitempty"`
	Disambiguation string `json:"disambiguation,omitempty"`
	URL            string `json:"url,omitempty"`
}

// Venue is where the concert took place.
type Venue struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City *City  `json:"city,omitempty"`
	URL  string `json:"url,omitempty"`
}

// City is the venue's city.
type City struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	State     string   `json:"state,omitempty"`
	StateCode string   `json:"stateCode,omitempty"`
	Country   *Country `json:"country,omitempty"`
}

// Country is the venue's country.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Tour is the tour a concert belongs to.
type Tour struct {
	Name string `json:"name"`
}

// Sets wraps the ordered list of sets. The API nests it one level deep.
type Sets struct {
	Set []Set `json:"set"`
}

// Set is one block of a concert, e.g. the main set or an encore.
type Set struct {
	Name   string `json:"name,omitempty"`
	Encore int    `json:"encore,omitempty"`
	Song   []Song `json:"song"`
}

// Song is one setlist entry.
type Song struct {
	Name  string  `json:"name"`
	With  *Artist `json:"with,omitempty"`  // Guest artist
	Cover *Artist `json:"cover,omitempty"` // Original artist when the song is a cover
	Info  string  `json:"info,omitempty"`
	Tape  bool    `json:"tape,omitempty"` // Played from tape rather than live
}

// apiErrorBody is the JSON body setlist.fm returns alongside error statuses.
type apiErrorBody struct {
	Code      int    `json:"code"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
