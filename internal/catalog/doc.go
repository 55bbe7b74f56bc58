// Package catalog turns TMDB responses into validated MediaRecord values.
//
// It applies the presentation rules shared by every view: title and release
// date fallbacks, the movie/TV kind filter, the popular listing's poster and
// vote-count filter, and the movie-then-TV detail lookup. Failures are
// classified with the markers in package services so callers can render
// configuration, not-found, and upstream problems differently.
package catalog
