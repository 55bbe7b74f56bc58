package api

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"marquee/internal/catalog"
	"marquee/internal/detail"
	"marquee/internal/ratings"
)

func TestFromMediaResolvesLabels(t *testing.T) {
	poster := "/fc.jpg"
	rec := catalog.MediaRecord{
		ID:               550,
		Title:            "Fight Club",
		PosterPath:       &poster,
		Overview:         "An insomniac office worker...",
		ReleaseDate:      "1999-10-15",
		VoteAverage:      8.438,
		VoteCount:        30000,
		OriginalLanguage: "en",
		Kind:             catalog.KindMovie,
		ExternalIDs:      catalog.ExternalIDs{IMDbID: "tt0137523"},
	}

	got := FromMedia(rec, "https://image.tmdb.org/t/p")
	want := MediaItem{
		ID:           550,
		Title:        "Fight Club",
		MediaType:    "movie",
		Overview:     "An insomniac office worker...",
		PosterURL:    "https://image.tmdb.org/t/p/w300/fc.jpg",
		ReleaseDate:  "1999-10-15",
		Year:         "1999",
		VoteAverage:  8.438,
		VoteCount:    30000,
		RatingLabel:  "8.4",
		Language:     "EN",
		LanguageName: "English",
		IMDbID:       "tt0137523",
		IMDbURL:      "https://www.imdb.com/title/tt0137523/",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("FromMedia mismatch (-want +got):\n%s", diff)
	}
}

func TestFromMediaWithoutOptionalFields(t *testing.T) {
	got := FromMedia(catalog.MediaRecord{ID: 1, Title: "Bare", Kind: catalog.KindTV}, "https://img")
	if got.PosterURL != "" || got.Year != "N/A" || got.RatingLabel != "N/A" || got.IMDbURL != "" {
		t.Fatalf("unexpected labels: %+v", got)
	}
}

func TestFromListsNeverNil(t *testing.T) {
	if got := FromMediaList(nil, ""); got == nil || len(got) != 0 {
		t.Fatalf("FromMediaList(nil) = %#v", got)
	}
	if got := FromRatingList(nil, ""); got == nil || len(got) != 0 {
		t.Fatalf("FromRatingList(nil) = %#v", got)
	}
}

func TestFromRating(t *testing.T) {
	poster := "/p.jpg"
	got := FromRating(ratings.Record{
		MediaID:        7,
		Title:          "Seven",
		PosterPath:     &poster,
		CatalogRating:  8.3,
		PersonalRating: 10,
		MediaKind:      catalog.KindMovie,
	}, "https://img")
	if got.PosterURL != "https://img/w300/p.jpg" || got.PersonalRating != 10 || got.MediaType != "movie" {
		t.Fatalf("unexpected rating DTO: %+v", got)
	}
}

func TestRatingInput(t *testing.T) {
	tests := []struct {
		raw  any
		want string
	}{
		{nil, ""},
		{"8", "8"},
		{float64(7), "7"},
		{7.5, "7.5"},
		{true, "true"},
	}
	for _, tt := range tests {
		if got := (RatingRequest{Rating: tt.raw}).RatingInput(); got != tt.want {
			t.Errorf("RatingInput(%v) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestFromDetailUsesDetailPoster(t *testing.T) {
	poster := "/x.jpg"
	st := detail.State{
		Media:  catalog.MediaRecord{ID: 3, Title: "X", PosterPath: &poster, Kind: catalog.KindMovie},
		Rating: &ratings.Record{MediaID: 3, Title: "X", PersonalRating: 6},
	}
	got := FromDetail(st, "https://img")
	if got.Media.PosterURL != "https://img/w500/x.jpg" {
		t.Fatalf("poster = %q", got.Media.PosterURL)
	}
	if got.Rating == nil || got.Rating.PersonalRating != 6 || got.Warning != "" {
		t.Fatalf("unexpected response %+v", got)
	}
}
