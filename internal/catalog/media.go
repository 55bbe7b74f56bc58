package catalog

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// MediaKind distinguishes movies from TV shows.
type MediaKind string

const (
	KindMovie MediaKind = "movie"
	KindTV    MediaKind = "tv"
)

// Poster sizes used by the views.
const (
	PosterSizeCard   = "w300"
	PosterSizeDetail = "w500"
)

// UnknownTitle is shown when an upstream record carries neither title nor name.
const UnknownTitle = "Unknown Title"

// ExternalIDs holds third-party identifiers for a title. Empty means absent.
type ExternalIDs struct {
	IMDbID      string `json:"imdb_id,omitempty"`
	WikidataID  string `json:"wikidata_id,omitempty"`
	FacebookID  string `json:"facebook_id,omitempty"`
	InstagramID string `json:"instagram_id,omitempty"`
	TwitterID   string `json:"twitter_id,omitempty"`
}

// MediaRecord is a normalized movie or TV show from the catalog.
type MediaRecord struct {
	ID               int64       `json:"id" validate:"gt=0"`
	Title            string      `json:"title" validate:"required"`
	PosterPath       *string     `json:"poster_path"`
	Overview         string      `json:"overview"`
	ReleaseDate      string      `json:"release_date,omitempty"`
	VoteAverage      float64     `json:"vote_average" validate:"gte=0,lte=10"`
	VoteCount        int64       `json:"vote_count" validate:"gte=0"`
	OriginalLanguage string      `json:"original_language,omitempty"`
	Kind             MediaKind   `json:"media_type" validate:"mediakind"`
	Tagline          string      `json:"tagline,omitempty"`
	ExternalIDs      ExternalIDs `json:"external_ids"`
}

// Year returns the four-digit release year, if the release date carries one.
func (m MediaRecord) Year() (int, bool) {
	date := strings.TrimSpace(m.ReleaseDate)
	if len(date) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year <= 0 {
		return 0, false
	}
	return year, true
}

// YearLabel renders Year for display, "N/A" when unknown.
func (m MediaRecord) YearLabel() string {
	if year, ok := m.Year(); ok {
		return strconv.Itoa(year)
	}
	return "N/A"
}

// RatingLabel renders the catalog rating with one decimal. A zero average is
// treated as unrated.
func (m MediaRecord) RatingLabel() string {
	return FormatRating(m.VoteAverage)
}

// FormatRating renders a 0-10 catalog rating with one decimal, "N/A" for zero.
func FormatRating(value float64) string {
	if value == 0 {
		return "N/A"
	}
	return strconv.FormatFloat(value, 'f', 1, 64)
}

// LanguageCode returns the original language code in upper case.
func (m MediaRecord) LanguageCode() string {
	return strings.ToUpper(strings.TrimSpace(m.OriginalLanguage))
}

// LanguageName returns the English display name of the original language,
// falling back to the upper-cased code when the tag is unknown.
func (m MediaRecord) LanguageName() string {
	code := strings.TrimSpace(m.OriginalLanguage)
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return m.LanguageCode()
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return m.LanguageCode()
}

// IMDbURL links to the title on IMDb when an IMDb id is known.
func (m MediaRecord) IMDbURL() string {
	id := strings.TrimSpace(m.ExternalIDs.IMDbID)
	if id == "" {
		return ""
	}
	return "https://www.imdb.com/title/" + id + "/"
}

// PosterURL joins the image base URL, a size segment, and the poster path.
// It returns "" when the record has no poster.
func (m MediaRecord) PosterURL(base, size string) string {
	return BuildPosterURL(base, size, m.PosterPath)
}

// BuildPosterURL is PosterURL for callers holding only a poster path.
func BuildPosterURL(base, size string, posterPath *string) string {
	if posterPath == nil || strings.TrimSpace(*posterPath) == "" {
		return ""
	}
	path := *posterPath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(base, "/") + "/" + size + path
}
