package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"marquee/internal/api"
	"marquee/internal/catalog"
	"marquee/internal/ratings"
	"marquee/internal/testsupport"
)

type fixture struct {
	srv     *Server
	catalog *testsupport.FakeCatalog
	store   *ratings.Store
	logs    *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cat := testsupport.NewFakeCatalog()
	cat.Details[550] = testsupport.Media(550, "Fight Club")
	store, _ := testsupport.NewMemoryStore(t)
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	srv, err := New(testsupport.NewConfig(t), cat, store, logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &fixture{srv: srv, catalog: cat, store: store, logs: logs}
}

func (f *fixture) do(t *testing.T, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func (f *fixture) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	return f.do(t, http.MethodGet, target, nil, "")
}

func (f *fixture) postForm(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	return f.do(t, http.MethodPost, target, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

func assertContains(t *testing.T, body string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected %q in body:\n%s", fragment, body)
		}
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return out
}

func TestHomeShowsCachedPopular(t *testing.T) {
	f := newFixture(t)
	f.catalog.Popular = []catalog.MediaRecord{testsupport.Media(1, "Alpha")}

	for range 2 {
		rec := f.get(t, "/")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		assertContains(t, rec.Body.String(),
			"Find, Rate, Repeat",
			"All under a minute",
			"<h2>Popular</h2>",
			`href="/media/1"`,
			"https://image.tmdb.org/t/p/w300/Alpha.jpg",
			"7.5",
			"EN",
			"1999",
		)
	}
	if diff := cmp.Diff([]string{"popular"}, f.catalog.Calls()); diff != "" {
		t.Fatalf("popular should be fetched once (-want +got):\n%s", diff)
	}
}

func TestHomeEmptyMessages(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/")
	assertContains(t, rec.Body.String(), "Start by searching for a movie or TV show, or check out what&#39;s popular!")

	rec = f.get(t, "/?q=zzz")
	assertContains(t, rec.Body.String(), "Search Results", "No results found for &#34;zzz&#34;.")
}

func TestHomeSearchResults(t *testing.T) {
	f := newFixture(t)
	f.catalog.Search["dune"] = []catalog.MediaRecord{testsupport.Media(438631, "Dune")}

	rec := f.get(t, "/?q=+dune+")
	assertContains(t, rec.Body.String(), "Search Results", `href="/media/438631"`, `value="dune"`)
}

func TestHomeWithoutAPIKeyShowsBanner(t *testing.T) {
	store, _ := testsupport.NewMemoryStore(t)
	srv, err := New(testsupport.NewConfig(t), catalog.NewWithAPI(nil, nil), store, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	assertContains(t, body, catalog.MissingKeyMessage)
	if strings.Count(body, catalog.MissingKeyMessage) != 1 {
		t.Fatalf("expected the key message once:\n%s", body)
	}
}

func TestDetailRatingFlow(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/media/550")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	assertContains(t, rec.Body.String(), "Fight Club", "/w500/", "Save Rating", "Your rating: N/A", "Rating: 7.5/10 (1000 votes)", "Back to Home")

	rec = f.postForm(t, "/media/550/rating", url.Values{"rating": {"9"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/media/550?notice=saved" {
		t.Fatalf("save response = %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = f.get(t, "/media/550?notice=saved")
	assertContains(t, rec.Body.String(), "Rating saved successfully!", "Update Rating", "Your rating: 9/10", `value="9"`, "Delete Rating")

	got, ok, _ := f.store.FindByMediaID(context.Background(), 550)
	if !ok || got.PersonalRating != 9 {
		t.Fatalf("stored = %+v, %v", got, ok)
	}
}

func TestDetailRejectsInvalidRating(t *testing.T) {
	f := newFixture(t)

	rec := f.postForm(t, "/media/550/rating", url.Values{"rating": {"11"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	assertContains(t, rec.Body.String(), ratings.InvalidRatingMessage, `value="11"`)
	if records, _ := f.store.GetAll(context.Background()); len(records) != 0 {
		t.Fatalf("invalid rating was stored: %+v", records)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	testsupport.MustUpsert(t, f.store, ratings.SnapshotFromMedia(testsupport.Media(550, "Fight Club"), 9))

	rec := f.postForm(t, "/media/550/rating/delete", url.Values{})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	assertContains(t, rec.Body.String(), "Are you sure you want to delete your rating for &#34;Fight Club&#34;?", `name="confirm" value="yes"`)
	if _, ok, _ := f.store.FindByMediaID(context.Background(), 550); !ok {
		t.Fatal("rating removed without confirmation")
	}

	rec = f.postForm(t, "/media/550/rating/delete", url.Values{"confirm": {"yes"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/media/550?notice=deleted" {
		t.Fatalf("delete response = %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if _, ok, _ := f.store.FindByMediaID(context.Background(), 550); ok {
		t.Fatal("rating still stored")
	}
	assertContains(t, f.get(t, "/media/550?notice=deleted").Body.String(), "Rating deleted successfully!", "Save Rating")
}

func TestDetailNotFoundAndInvalidID(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/media/42")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	assertContains(t, rec.Body.String(), "Movie or TV show not found.", "Go Back Home")

	rec = f.get(t, "/media/abc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	assertContains(t, rec.Body.String(), "Invalid movie ID.")
	if calls := f.catalog.Calls(); len(calls) != 1 {
		t.Fatalf("invalid id reached the catalog: %v", calls)
	}
}

func TestAPIRatingsLifecycle(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPut, "/api/ratings/550", strings.NewReader(`{"rating":8}`), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d: %s", rec.Code, rec.Body.String())
	}
	saved := decode[api.Rating](t, rec)
	if saved.MediaID != 550 || saved.PersonalRating != 8 || saved.Title != "Fight Club" {
		t.Fatalf("saved = %+v", saved)
	}

	rec = f.do(t, http.MethodPut, "/api/ratings/550", strings.NewReader(`{"rating":7.5}`), "application/json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("fractional rating status = %d", rec.Code)
	}
	if got := decode[api.ErrorResponse](t, rec); got.Kind != "validation" || got.Error != ratings.InvalidRatingMessage {
		t.Fatalf("error = %+v", got)
	}

	list := decode[api.RatingListResponse](t, f.get(t, "/api/ratings"))
	if len(list.Items) != 1 || list.Items[0].PersonalRating != 8 || list.Warning != "" {
		t.Fatalf("list = %+v", list)
	}

	media := decode[api.MediaDetailResponse](t, f.get(t, "/api/media/550"))
	if media.Rating == nil || media.Rating.PersonalRating != 8 || !strings.Contains(media.Media.PosterURL, "/w500/") {
		t.Fatalf("media = %+v", media)
	}

	del := decode[api.DeleteResponse](t, f.do(t, http.MethodDelete, "/api/ratings/550", nil, ""))
	if !del.Deleted {
		t.Fatalf("expected deletion, got %+v", del)
	}
	del = decode[api.DeleteResponse](t, f.do(t, http.MethodDelete, "/api/ratings/550", nil, ""))
	if del.Deleted {
		t.Fatal("second delete should report nothing removed")
	}
}

func TestAPIErrors(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/api/media/42")
	if rec.Code != http.StatusNotFound || decode[api.ErrorResponse](t, rec).Kind != "not_found" {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodPut, "/api/ratings/550", strings.NewReader(`not json`), "application/json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = f.do(t, http.MethodPut, "/api/ratings/42", strings.NewReader(`{"rating":5}`), "application/json")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("rating unknown title status = %d", rec.Code)
	}
}

func TestAPISearchAndPopular(t *testing.T) {
	f := newFixture(t)
	f.catalog.Search["dune"] = []catalog.MediaRecord{testsupport.Media(1, "Dune")}
	f.catalog.Popular = []catalog.MediaRecord{testsupport.Media(2, "Two"), testsupport.Media(3, "Three")}

	search := decode[api.MediaListResponse](t, f.get(t, "/api/search?q=dune"))
	if search.Heading != "Search Results" || len(search.Items) != 1 || search.Items[0].ID != 1 {
		t.Fatalf("search = %+v", search)
	}
	popular := decode[api.MediaListResponse](t, f.get(t, "/api/popular"))
	if popular.Heading != "Popular" || len(popular.Items) != 2 {
		t.Fatalf("popular = %+v", popular)
	}
	empty := decode[api.MediaListResponse](t, f.get(t, "/api/search?q="))
	if empty.Items == nil || len(empty.Items) != 0 {
		t.Fatalf("blank search = %+v", empty)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/healthz")
	generated := rec.Header().Get(requestIDHeader)
	if _, err := uuid.Parse(generated); err != nil {
		t.Fatalf("expected generated uuid, got %q", generated)
	}

	inbound := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, inbound)
	rec = httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != inbound {
		t.Fatalf("request id = %q, want %q", got, inbound)
	}

	logs := f.logs.String()
	assertContains(t, logs, `"msg":"http request"`, `"request_id":"`+inbound+`"`, `"status":204`, `"path":"/healthz"`)
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := New(nil, nil, nil, nil); err == nil {
		t.Fatal("expected error")
	}
}
