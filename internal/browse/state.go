package browse

import (
	"marquee/internal/catalog"
	"marquee/internal/services"
)

// Mode selects which listing the view shows.
type Mode string

const (
	ModePopular Mode = "popular"
	ModeSearch  Mode = "search"
)

// Display strings.
const (
	HeadingSearch  = "Search Results"
	HeadingPopular = "Popular"
	LoadingMessage = "Loading content..."
	StartHint      = "Start by searching for a movie or TV show, or check out what's popular!"
	Placeholder    = "find and rate you desired movie/tv show"
)

// State is an immutable snapshot of the view. Results is never shared with
// the model; callers may keep it.
type State struct {
	Query   string
	Mode    Mode
	Results []catalog.MediaRecord
	Loading bool
	Err     error
	// Seq is the sequence number of the response currently applied.
	Seq uint64
}

// Heading is the section title above the results.
func (s State) Heading() string {
	if s.Mode == ModeSearch {
		return HeadingSearch
	}
	return HeadingPopular
}

// EmptyMessage is shown when there is nothing to list.
func (s State) EmptyMessage() string {
	if s.Mode == ModeSearch {
		return `No results found for "` + s.Query + `".`
	}
	return StartHint
}

// ErrorMessage renders Err for display, "" when there is none.
func (s State) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return "Error: " + services.UserMessage(s.Err)
}

// ShowResults reports whether the result grid or empty message should render.
func (s State) ShowResults() bool {
	return !s.Loading && s.Err == nil
}

func (s State) clone() State {
	out := s
	if s.Results != nil {
		out.Results = append([]catalog.MediaRecord(nil), s.Results...)
	}
	return out
}
