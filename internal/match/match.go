// Package match decides whether a library or catalog track is the song a
// setlist names.
//
// Catalog data rarely agrees with setlist.fm byte for byte ("Don't Stop Me
// Now" vs "Don’t Stop Me Now - Remastered 2011"), so both sides are
// normalized before comparison:
//
//   - diacritics are folded (é -> e) and text is lowercased
//   - "&" becomes "and"; apostrophes are dropped; other punctuation becomes a space
//   - runs of whitespace collapse to one space
//   - optionally, trailing qualifiers are stripped: "(Live)", "[Remastered]",
//     " - 2011 Remaster", "feat. ..."
//
// A candidate is accepted when its normalized title contains the wanted title
// or vice versa, and the same holds for the artist.
package match

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Policy is the tunable matching rule.
type Policy struct {
	// StripQualifiers removes bracketed and dash-separated suffixes before
	// comparing titles.
	StripQualifiers bool

	// IgnoreArtist accepts a title match regardless of artist.
	IgnoreArtist bool
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{StripQualifiers: true}
}

// Quality ranks how well a candidate matched.
type Quality int

const (
	NoMatch   Quality = iota // Rejected
	Partial                  // Substring match on title or artist
	Exact                    // Normalized title and artist are equal
)

// String returns a human-readable representation of the Quality
func (q Quality) String() string {
	switch q {
	case NoMatch:
		return "none"
	case Partial:
		return "partial"
	case Exact:
		return "exact"
	default:
		return "unknown"
	}
}

var (
	bracketPattern   = regexp.MustCompile(`\s*[\(\[][^\)\]]*[\)\]]`)
	dashSuffix       = regexp.MustCompile(`\s+[-–—]\s+.*$`)
	featuringPattern = regexp.MustCompile(`(?i)\s+(feat\.?|ft\.?|featuring)\s+.*$`)
	apostrophes      = strings.NewReplacer("'", "", "’", "", "‘", "", "`", "")
)

// Normalize folds s into its comparison form.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	folded = strings.ToLower(folded)
	folded = strings.ReplaceAll(folded, "&", " and ")
	folded = apostrophes.Replace(folded)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// StripQualifiers removes version qualifiers from a title. Titles that would
// become empty are returned unchanged.
func StripQualifiers(title string) string {
	stripped := bracketPattern.ReplaceAllString(title, "")
	stripped = dashSuffix.ReplaceAllString(stripped, "")
	stripped = featuringPattern.ReplaceAllString(stripped, "")
	if strings.TrimSpace(stripped) == "" {
		return title
	}
	return strings.TrimSpace(stripped)
}

// Compare rates a candidate (title, artist) against the wanted pair.
func (p Policy) Compare(wantTitle, wantArtist, candTitle, candArtist string) Quality {
	wt, ct := p.title(wantTitle), p.title(candTitle)
	if wt == "" || ct == "" {
		return NoMatch
	}

	titleExact := wt == ct
	if !titleExact && !containsEither(wt, ct) {
		return NoMatch
	}

	if p.IgnoreArtist {
		if titleExact {
			return Exact
		}
		return Partial
	}

	wa, ca := Normalize(wantArtist), Normalize(candArtist)
	if wa == "" || ca == "" {
		return NoMatch
	}
	artistExact := wa == ca
	if !artistExact && !containsEither(wa, ca) {
		return NoMatch
	}

	if titleExact && artistExact {
		return Exact
	}
	return Partial
}

// Accepts reports whether the candidate matches at all.
func (p Policy) Accepts(wantTitle, wantArtist, candTitle, candArtist string) bool {
	return p.Compare(wantTitle, wantArtist, candTitle, candArtist) > NoMatch
}

// Candidate is anything with a title and an artist.
type Candidate interface {
	MatchTitle() string
	MatchArtist() string
}

// Best returns the index of the best accepted candidate, or -1. Ties go to
// the earlier candidate, preserving the search backend's own ranking.
func Best[C Candidate](p Policy, wantTitle, wantArtist string, candidates []C) int {
	best, bestQ := -1, NoMatch
	for i, c := range candidates {
		q := p.Compare(wantTitle, wantArtist, c.MatchTitle(), c.MatchArtist())
		if q > bestQ {
			best, bestQ = i, q
			if q == Exact {
				break
			}
		}
	}
	return best
}

func (p Policy) title(s string) string {
	if p.StripQualifiers {
		s = StripQualifiers(s)
	}
	return Normalize(s)
}

// containsEither reports whether a contains b or b contains a, on word
// boundaries so that "22" does not match "2002".
func containsEither(a, b string) bool {
	return containsWords(a, b) || containsWords(b, a)
}

func containsWords(haystack, needle string) bool {
	return strings.Contains(" "+haystack+" ", " "+needle+" ")
}
