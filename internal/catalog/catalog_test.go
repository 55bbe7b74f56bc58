package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"marquee/internal/catalog"
	"marquee/internal/catalog/tmdb"
	"marquee/internal/services"
)

type fakeAPI struct {
	mu          sync.Mutex
	calls       []string
	search      *tmdb.Response
	pages       map[int]*tmdb.Response
	movie       *tmdb.Result
	movieErr    error
	tv          *tmdb.Result
	tvErr       error
	popularErr  error
	searchCalls int
	minVotes    int
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) SearchMulti(_ context.Context, query string) (*tmdb.Response, error) {
	f.record("search:" + query)
	f.searchCalls++
	return f.search, nil
}

func (f *fakeAPI) Popular(_ context.Context, page, minVotes int) (*tmdb.Response, error) {
	f.record("popular")
	f.mu.Lock()
	f.minVotes = minVotes
	f.mu.Unlock()
	if f.popularErr != nil {
		return nil, f.popularErr
	}
	if resp, ok := f.pages[page]; ok {
		return resp, nil
	}
	return &tmdb.Response{Page: page}, nil
}

func (f *fakeAPI) MovieDetails(context.Context, int64) (*tmdb.Result, error) {
	f.record("movie")
	if f.movieErr != nil {
		return nil, f.movieErr
	}
	out := *f.movie
	out.MediaType = "movie"
	return &out, nil
}

func (f *fakeAPI) TVDetails(context.Context, int64) (*tmdb.Result, error) {
	f.record("tv")
	if f.tvErr != nil {
		return nil, f.tvErr
	}
	out := *f.tv
	out.MediaType = "tv"
	return &out, nil
}

func strPtr(s string) *string { return &s }

func TestSearchMultiBlankQueryMakesNoCall(t *testing.T) {
	api := &fakeAPI{}
	client := catalog.NewWithAPI(api, nil)

	got, err := client.SearchMulti(context.Background(), "   ")
	if err != nil {
		t.Fatalf("SearchMulti: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	if api.searchCalls != 0 {
		t.Fatalf("expected no network call, got %d", api.searchCalls)
	}
}

func TestSearchMultiFiltersPeopleAndNormalizes(t *testing.T) {
	api := &fakeAPI{search: &tmdb.Response{Results: []tmdb.Result{
		{ID: 1, Title: "Alien", MediaType: "movie", ReleaseDate: "1979-05-25", VoteAverage: 8.1, VoteCount: 1200, OriginalLanguage: "en"},
		{ID: 2, Name: "Ridley Scott", MediaType: "person"},
		{ID: 3, Name: "Severance", MediaType: "tv", FirstAirDate: "2022-02-18", PosterPath: strPtr("/s.jpg")},
		{ID: 4, MediaType: "movie"},
		{ID: 5, Title: "Broken", MediaType: "movie", VoteAverage: 12},
	}}}
	client := catalog.NewWithAPI(api, nil)

	got, err := client.SearchMulti(context.Background(), "ali")
	if err != nil {
		t.Fatalf("SearchMulti: %v", err)
	}
	want := []catalog.MediaRecord{
		{ID: 1, Title: "Alien", Kind: catalog.KindMovie, ReleaseDate: "1979-05-25", VoteAverage: 8.1, VoteCount: 1200, OriginalLanguage: "en"},
		{ID: 3, Title: "Severance", Kind: catalog.KindTV, ReleaseDate: "2022-02-18", PosterPath: strPtr("/s.jpg")},
		{ID: 4, Title: catalog.UnknownTitle, Kind: catalog.KindMovie},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("search results mismatch (-want +got):\n%s", diff)
	}
}

func TestGetPopularFiltersPosterAndVotesInPageOrder(t *testing.T) {
	api := &fakeAPI{pages: map[int]*tmdb.Response{
		1: {Results: []tmdb.Result{
			{ID: 10, Title: "A", PosterPath: strPtr("/a.jpg"), VoteCount: 900},
			{ID: 11, Title: "B", PosterPath: nil, VoteCount: 5000},
			{ID: 12, Title: "C", PosterPath: strPtr("/c.jpg"), VoteCount: 700},
			{ID: 13, Title: "F", PosterPath: strPtr("/f.jpg"), VoteCount: 701},
		}},
		2: {Results: []tmdb.Result{
			{ID: 20, Title: "D", PosterPath: strPtr("/d.jpg"), VoteCount: 699},
			{ID: 21, Title: "E", PosterPath: strPtr("/e.jpg"), VoteCount: 701},
		}},
	}}
	client := catalog.NewWithAPI(api, nil)

	got, err := client.GetPopular(context.Background(), 3, 700)
	if err != nil {
		t.Fatalf("GetPopular: %v", err)
	}
	var ids []int64
	for _, rec := range got {
		ids = append(ids, rec.ID)
		if rec.Kind != catalog.KindMovie {
			t.Fatalf("popular records should default to movie kind, got %q", rec.Kind)
		}
	}
	if diff := cmp.Diff([]int64{10, 13, 21}, ids); diff != "" {
		t.Fatalf("popular ids mismatch (-want +got):\n%s", diff)
	}
	if api.minVotes != 701 {
		t.Fatalf("server-side filter should be threshold+1, got %d", api.minVotes)
	}
	if len(api.calls) != 3 {
		t.Fatalf("expected 3 page requests, got %v", api.calls)
	}
}

func TestGetPopularStopsOnFirstFailure(t *testing.T) {
	api := &fakeAPI{popularErr: &tmdb.StatusError{StatusCode: 503, StatusMessage: "busy"}}
	client := catalog.NewWithAPI(api, nil)

	_, err := client.GetPopular(context.Background(), 16, 700)
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if len(api.calls) != 1 {
		t.Fatalf("expected a single request before failing, got %d", len(api.calls))
	}
	if services.UserMessage(err) != "busy" {
		t.Fatalf("expected upstream message, got %q", services.UserMessage(err))
	}
}

func TestMissingKeyReturnsConfigurationError(t *testing.T) {
	client, err := catalog.New(catalog.Options{}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if client.Configured() {
		t.Fatal("expected unconfigured client")
	}
	if _, err := client.GetPopular(context.Background(), 1, 0); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("popular: expected configuration error, got %v", err)
	}
	if _, err := client.GetDetail(context.Background(), 1); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("detail: expected configuration error, got %v", err)
	}
	if _, err := client.SearchMulti(context.Background(), "x"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("search: expected configuration error, got %v", err)
	}
}

func TestGetDetailMovieHit(t *testing.T) {
	api := &fakeAPI{movie: &tmdb.Result{ID: 603, Title: "The Matrix", VoteAverage: 8.2, VoteCount: 25000,
		ExternalIDs: &tmdb.ExternalIDs{IMDbID: strPtr("tt0133093")}}}
	client := catalog.NewWithAPI(api, nil)

	got, err := client.GetDetail(context.Background(), 603)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if got.Kind != catalog.KindMovie || got.IMDbURL() != "https://www.imdb.com/title/tt0133093/" {
		t.Fatalf("unexpected record: %#v", got)
	}
	if diff := cmp.Diff([]string{"movie"}, api.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestGetDetailFallsBackToTV(t *testing.T) {
	api := &fakeAPI{
		movieErr: &tmdb.StatusError{StatusCode: http.StatusNotFound},
		tv:       &tmdb.Result{ID: 1396, Name: "Breaking Bad", FirstAirDate: "2008-01-20"},
	}
	client := catalog.NewWithAPI(api, nil)

	got, err := client.GetDetail(context.Background(), 1396)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if got.Title != "Breaking Bad" || got.Kind != catalog.KindTV || got.YearLabel() != "2008" {
		t.Fatalf("unexpected record: %#v", got)
	}
	if diff := cmp.Diff([]string{"movie", "tv"}, api.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestGetDetailBothMissingIsNotFound(t *testing.T) {
	api := &fakeAPI{
		movieErr: &tmdb.StatusError{StatusCode: http.StatusNotFound},
		tvErr:    &tmdb.StatusError{StatusCode: http.StatusNotFound, StatusMessage: "The resource you requested could not be found."},
	}
	client := catalog.NewWithAPI(api, nil)

	_, err := client.GetDetail(context.Background(), 999999999)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if got := services.UserMessage(err); got != "The resource you requested could not be found." {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestGetDetailMovieServerErrorSkipsTV(t *testing.T) {
	api := &fakeAPI{movieErr: &tmdb.StatusError{StatusCode: http.StatusInternalServerError}}
	client := catalog.NewWithAPI(api, nil)

	_, err := client.GetDetail(context.Background(), 5)
	if !errors.Is(err, services.ErrUpstream) || errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if diff := cmp.Diff([]string{"movie"}, api.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestGetDetailInvalidRecordIsUpstreamError(t *testing.T) {
	api := &fakeAPI{movie: &tmdb.Result{ID: 7, Title: "Bad", VoteAverage: 42}}
	client := catalog.NewWithAPI(api, nil)

	if _, err := client.GetDetail(context.Background(), 7); !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected upstream error for invalid record, got %v", err)
	}
}

func TestGetDetailRejectsNonPositiveID(t *testing.T) {
	api := &fakeAPI{}
	client := catalog.NewWithAPI(api, nil)
	if _, err := client.GetDetail(context.Background(), 0); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(api.calls) != 0 {
		t.Fatalf("expected no calls, got %v", api.calls)
	}
}

func TestNewWiresHTTPClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "k" {
			t.Errorf("missing api key: %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"results":[{"id":1,"title":"Solaris","media_type":"movie"}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := catalog.New(catalog.Options{APIKey: "k", BaseURL: server.URL, Language: "en-US"}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := client.SearchMulti(context.Background(), "solaris")
	if err != nil {
		t.Fatalf("SearchMulti: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Solaris" {
		t.Fatalf("unexpected results %#v", got)
	}
}
