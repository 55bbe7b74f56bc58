package catalog

import (
	"strings"

	"marquee/internal/catalog/tmdb"
)

func normalizeResult(r tmdb.Result, fallbackKind MediaKind) (MediaRecord, bool) {
	kind := MediaKind(strings.ToLower(strings.TrimSpace(r.MediaType)))
	if kind == "" {
		kind = fallbackKind
	}
	if kind != KindMovie && kind != KindTV {
		return MediaRecord{}, false
	}

	rec := MediaRecord{
		ID:               r.ID,
		Title:            firstNonEmpty(r.Title, r.Name, UnknownTitle),
		PosterPath:       cleanOptional(r.PosterPath),
		Overview:         strings.TrimSpace(r.Overview),
		ReleaseDate:      firstNonEmpty(r.ReleaseDate, r.FirstAirDate),
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
		OriginalLanguage: strings.TrimSpace(r.OriginalLanguage),
		Kind:             kind,
		Tagline:          strings.TrimSpace(r.Tagline),
	}
	if ids := r.ExternalIDs; ids != nil {
		rec.ExternalIDs = ExternalIDs{
			IMDbID:      deref(ids.IMDbID),
			WikidataID:  deref(ids.WikidataID),
			FacebookID:  deref(ids.FacebookID),
			InstagramID: deref(ids.InstagramID),
			TwitterID:   deref(ids.TwitterID),
		}
	}
	return rec, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func cleanOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
