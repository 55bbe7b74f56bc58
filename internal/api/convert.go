package api

import (
	"fmt"
	"strconv"
	"strings"

	"marquee/internal/catalog"
	"marquee/internal/detail"
	"marquee/internal/ratings"
)

// FromMedia converts a catalog record to its API representation. Poster
// URLs use the card size; callers needing the detail size override it.
func FromMedia(rec catalog.MediaRecord, imageBaseURL string) MediaItem {
	return MediaItem{
		ID:           rec.ID,
		Title:        rec.Title,
		MediaType:    string(rec.Kind),
		Overview:     rec.Overview,
		PosterURL:    rec.PosterURL(imageBaseURL, catalog.PosterSizeCard),
		ReleaseDate:  rec.ReleaseDate,
		Year:         rec.YearLabel(),
		VoteAverage:  rec.VoteAverage,
		VoteCount:    rec.VoteCount,
		RatingLabel:  rec.RatingLabel(),
		Language:     rec.LanguageCode(),
		LanguageName: rec.LanguageName(),
		Tagline:      rec.Tagline,
		IMDbID:       strings.TrimSpace(rec.ExternalIDs.IMDbID),
		IMDbURL:      rec.IMDbURL(),
	}
}

// FromMediaList converts a result list, never returning nil.
func FromMediaList(records []catalog.MediaRecord, imageBaseURL string) []MediaItem {
	out := make([]MediaItem, 0, len(records))
	for _, rec := range records {
		out = append(out, FromMedia(rec, imageBaseURL))
	}
	return out
}

// FromRating converts a stored rating to its API representation.
func FromRating(rec ratings.Record, imageBaseURL string) Rating {
	return Rating{
		MediaID:        rec.MediaID,
		Title:          rec.Title,
		MediaType:      string(rec.MediaKind),
		PosterURL:      catalog.BuildPosterURL(imageBaseURL, catalog.PosterSizeCard, rec.PosterPath),
		CatalogRating:  rec.CatalogRating,
		PersonalRating: rec.PersonalRating,
		Overview:       rec.Overview,
	}
}

// FromRatingList converts the stored collection, never returning nil.
func FromRatingList(records []ratings.Record, imageBaseURL string) []Rating {
	out := make([]Rating, 0, len(records))
	for _, rec := range records {
		out = append(out, FromRating(rec, imageBaseURL))
	}
	return out
}

// FromDetail converts a loaded detail view. The poster uses the detail size.
func FromDetail(st detail.State, imageBaseURL string) MediaDetailResponse {
	resp := MediaDetailResponse{Media: FromMedia(st.Media, imageBaseURL)}
	resp.Media.PosterURL = st.Media.PosterURL(imageBaseURL, catalog.PosterSizeDetail)
	if st.Rating != nil {
		rating := FromRating(*st.Rating, imageBaseURL)
		resp.Rating = &rating
	}
	if st.StoreDiag != nil {
		resp.Warning = st.StoreDiag.Message()
	}
	return resp
}

// FromImportResult converts an import summary.
func FromImportResult(res ratings.ImportResult) ImportResponse {
	return ImportResponse{Added: res.Added, Updated: res.Updated, Replaced: res.Replaced, Total: res.Total}
}

// RatingInput renders the raw rating value from a request body as the text a
// user would have typed, for ratings.ParsePersonalRating.
func (r RatingRequest) RatingInput() string {
	switch v := r.Rating.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
