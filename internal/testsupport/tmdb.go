package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"marquee/internal/catalog/tmdb"
)

// TMDBServer is an httptest server speaking the subset of the TMDB v3 API
// the catalog uses. Popular results are served on page 1 only.
type TMDBServer struct {
	*httptest.Server

	mu       sync.Mutex
	Search   map[string][]tmdb.Result
	Popular  []tmdb.Result
	Movies   map[int64]tmdb.Result
	Shows    map[int64]tmdb.Result
	requests []string
}

// NewTMDBServer starts a fake TMDB and closes it when the test ends.
func NewTMDBServer(t testing.TB) *TMDBServer {
	t.Helper()
	s := &TMDBServer{
		Search: map[string][]tmdb.Result{},
		Movies: map[int64]tmdb.Result{},
		Shows:  map[int64]tmdb.Result{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Requests lists request paths in arrival order.
func (s *TMDBServer) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *TMDBServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r.URL.Path)

	if r.URL.Query().Get("api_key") == "" {
		writeTMDBError(w, http.StatusUnauthorized, "Invalid API key: You must be granted a valid key.")
		return
	}

	switch {
	case r.URL.Path == "/search/multi":
		writeTMDBJSON(w, tmdb.Response{Page: 1, Results: s.Search[r.URL.Query().Get("query")], TotalPages: 1})
	case r.URL.Path == "/movie/popular":
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		resp := tmdb.Response{Page: page, TotalPages: 1}
		if page <= 1 {
			resp.Results = s.Popular
		}
		writeTMDBJSON(w, resp)
	case strings.HasPrefix(r.URL.Path, "/movie/"):
		s.serveDetail(w, strings.TrimPrefix(r.URL.Path, "/movie/"), s.Movies)
	case strings.HasPrefix(r.URL.Path, "/tv/"):
		s.serveDetail(w, strings.TrimPrefix(r.URL.Path, "/tv/"), s.Shows)
	default:
		writeTMDBError(w, http.StatusNotFound, "The resource you requested could not be found.")
	}
}

func (s *TMDBServer) serveDetail(w http.ResponseWriter, rawID string, set map[int64]tmdb.Result) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		writeTMDBError(w, http.StatusNotFound, "The resource you requested could not be found.")
		return
	}
	rec, ok := set[id]
	if !ok {
		writeTMDBError(w, http.StatusNotFound, "The resource you requested could not be found.")
		return
	}
	writeTMDBJSON(w, rec)
}

func writeTMDBJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeTMDBError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status_code":    34,
		"status_message": message,
		"success":        false,
	})
}

// TMDBMovie builds a movie result as TMDB would return it.
func TMDBMovie(id int64, title string, votes int64) tmdb.Result {
	poster := "/" + strings.ToLower(strings.ReplaceAll(title, " ", "-")) + ".jpg"
	return tmdb.Result{
		ID:               id,
		Title:            title,
		PosterPath:       &poster,
		Overview:         title + " overview",
		ReleaseDate:      "1999-10-15",
		MediaType:        "movie",
		VoteAverage:      8.4,
		VoteCount:        votes,
		OriginalLanguage: "en",
	}
}
