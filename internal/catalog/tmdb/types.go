package tmdb

// ExternalIDs lists third-party identifiers appended to detail responses.
type ExternalIDs struct {
	IMDbID      *string `json:"imdb_id"`
	WikidataID  *string `json:"wikidata_id"`
	FacebookID  *string `json:"facebook_id"`
	InstagramID *string `json:"instagram_id"`
	TwitterID   *string `json:"twitter_id"`
}

// Result represents one TMDB movie, TV show, or person entry.
type Result struct {
	ID               int64        `json:"id"`
	Title            string       `json:"title"`
	Name             string       `json:"name"`
	OriginalTitle    string       `json:"original_title"`
	OriginalName     string       `json:"original_name"`
	PosterPath       *string      `json:"poster_path"`
	BackdropPath     *string      `json:"backdrop_path"`
	Overview         string       `json:"overview"`
	ReleaseDate      string       `json:"release_date"`
	FirstAirDate     string       `json:"first_air_date"`
	MediaType        string       `json:"media_type"`
	Popularity       float64      `json:"popularity"`
	VoteAverage      float64      `json:"vote_average"`
	VoteCount        int64        `json:"vote_count"`
	OriginalLanguage string       `json:"original_language"`
	Tagline          string       `json:"tagline"`
	ExternalIDs      *ExternalIDs `json:"external_ids"`
}

// Response models the TMDB paginated list response.
type Response struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// errorBody is the payload TMDB returns alongside non-2xx statuses.
type errorBody struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       *bool  `json:"success"`
}
