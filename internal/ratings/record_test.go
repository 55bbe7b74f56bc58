package ratings_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"marquee/internal/catalog"
	"marquee/internal/ratings"
	"marquee/internal/services"
)

func TestParsePersonalRating(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"1", 1, true},
		{" 10 ", 10, true},
		{"7", 7, true},
		{"+7", 7, true},
		{"-3", 0, false},
		{"0", 0, false},
		{"11", 0, false},
		{"7.5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"8/10", 0, false},
	}
	for _, tc := range tests {
		got, err := ratings.ParsePersonalRating(tc.input)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("ParsePersonalRating(%q) = %d, %v; want %d", tc.input, got, err, tc.want)
			}
			continue
		}
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("ParsePersonalRating(%q): expected validation error, got %d, %v", tc.input, got, err)
		}
	}
}

func TestSnapshotFromMediaCopiesFields(t *testing.T) {
	poster := "/m.jpg"
	media := catalog.MediaRecord{
		ID: 603, Title: "The Matrix", PosterPath: &poster, Overview: "Neo.",
		VoteAverage: 8.2, VoteCount: 25000, Kind: catalog.KindMovie,
	}
	got := ratings.SnapshotFromMedia(media, 10)
	want := ratings.Record{
		MediaID: 603, Title: "The Matrix", PosterPath: &poster, CatalogRating: 8.2,
		PersonalRating: 10, Overview: "Neo.", MediaKind: catalog.KindMovie,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
	poster = "/changed.jpg"
	if *got.PosterPath != "/m.jpg" {
		t.Fatal("snapshot must not alias the media poster path")
	}
}

func TestSnapshotFallsBackToUnknownTitle(t *testing.T) {
	got := ratings.SnapshotFromMedia(catalog.MediaRecord{ID: 1, Kind: catalog.KindTV}, 5)
	if got.Title != catalog.UnknownTitle {
		t.Fatalf("title = %q", got.Title)
	}
}
