package api

// MediaItem describes a catalog title in a transport-friendly format.
type MediaItem struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	MediaType    string  `json:"mediaType"`
	Overview     string  `json:"overview"`
	PosterURL    string  `json:"posterUrl,omitempty"`
	ReleaseDate  string  `json:"releaseDate,omitempty"`
	Year         string  `json:"year"`
	VoteAverage  float64 `json:"voteAverage"`
	VoteCount    int64   `json:"voteCount"`
	RatingLabel  string  `json:"ratingLabel"`
	Language     string  `json:"language,omitempty"`
	LanguageName string  `json:"languageName,omitempty"`
	Tagline      string  `json:"tagline,omitempty"`
	IMDbID       string  `json:"imdbId,omitempty"`
	IMDbURL      string  `json:"imdbUrl,omitempty"`
}

// MediaListResponse wraps search and popular results.
type MediaListResponse struct {
	Query   string      `json:"query,omitempty"`
	Heading string      `json:"heading"`
	Items   []MediaItem `json:"items"`
}

// Rating is a saved personal rating.
type Rating struct {
	MediaID        int64   `json:"mediaId"`
	Title          string  `json:"title"`
	MediaType      string  `json:"mediaType,omitempty"`
	PosterURL      string  `json:"posterUrl,omitempty"`
	CatalogRating  float64 `json:"catalogRating"`
	PersonalRating int     `json:"personalRating"`
	Overview       string  `json:"overview,omitempty"`
}

// RatingListResponse wraps the saved ratings. Warning is set when the
// stored collection could not be read and an empty list is shown instead.
type RatingListResponse struct {
	Items   []Rating `json:"items"`
	Warning string   `json:"warning,omitempty"`
}

// MediaDetailResponse carries a title and the user's rating for it.
type MediaDetailResponse struct {
	Media   MediaItem `json:"media"`
	Rating  *Rating   `json:"rating,omitempty"`
	Warning string    `json:"warning,omitempty"`
}

// RatingRequest is the body of PUT /api/ratings/{id}. Rating stays a raw
// JSON value so "7", 7 and 7.5 are all validated by the same parser.
type RatingRequest struct {
	Rating any `json:"rating"`
}

// DeleteResponse reports whether a rating was removed.
type DeleteResponse struct {
	MediaID int64 `json:"mediaId"`
	Deleted bool  `json:"deleted"`
}

// ImportResponse summarizes a rating import.
type ImportResponse struct {
	Added    int  `json:"added"`
	Updated  int  `json:"updated"`
	Replaced bool `json:"replaced"`
	Total    int  `json:"total"`
}

// ErrorResponse is returned for every failed API request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}
