package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"marquee/internal/browse"
	"marquee/internal/detail"
)

const browseHelp = `Type to search; results update as you type and Enter searches immediately.
  :open <id>        show a title and your rating
  :rate <id> <n>    save a rating from 1 to 10
  :unrate <id>      delete your rating
  :popular          return to popular titles
  :help             show this help
  :q                quit`

// browseSession drives the browse model from line-editor input and prints
// every settled state. Keystrokes and entered lines may arrive on different
// goroutines.
type browseSession struct {
	ctx          context.Context
	model        *browse.Model
	detail       *detail.Model
	imageBaseURL string
	out          io.Writer
	confirm      func(question string) bool

	outMu     sync.Mutex
	queryMu   sync.Mutex
	lastQuery string
	prompting atomic.Bool
}

func newBrowseSession(ctx context.Context, model *browse.Model, detailModel *detail.Model, imageBaseURL string, out io.Writer) *browseSession {
	s := &browseSession{
		ctx:          ctx,
		model:        model,
		detail:       detailModel,
		imageBaseURL: imageBaseURL,
		out:          out,
		confirm:      func(string) bool { return false },
	}
	return s
}

// attach subscribes to model changes and returns the unsubscribe function.
func (s *browseSession) attach() func() {
	return s.model.OnChange(s.render)
}

func (s *browseSession) render(st browse.State) {
	if st.Loading {
		return
	}
	s.outMu.Lock()
	defer s.outMu.Unlock()
	if msg := st.ErrorMessage(); msg != "" {
		fmt.Fprintln(s.out, msg)
		return
	}
	printListing(s.out, st.Heading(), st.EmptyMessage(), st.Results)
}

func (s *browseSession) printf(format string, args ...any) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

// onKeystroke receives the edit buffer after every key press.
func (s *browseSession) onKeystroke(line string) {
	if s.prompting.Load() {
		return
	}
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, ":") {
		return
	}
	s.setQuery(trimmed)
}

func (s *browseSession) setQuery(query string) {
	s.queryMu.Lock()
	if query == s.lastQuery {
		s.queryMu.Unlock()
		return
	}
	s.lastQuery = query
	s.queryMu.Unlock()
	s.model.SetQuery(query)
}

// handleLine processes an entered line and reports whether to quit.
func (s *browseSession) handleLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ":") {
		s.setQuery(trimmed)
		s.model.Flush()
		return false
	}

	fields := strings.Fields(trimmed)
	switch fields[0] {
	case ":q", ":quit", ":exit":
		return true
	case ":help", ":h":
		s.printf("%s\n", browseHelp)
	case ":popular":
		s.setQuery("")
	case ":open":
		if len(fields) != 2 {
			s.printf("Usage: :open <id>\n")
			return false
		}
		s.open(fields[1])
	case ":rate":
		if len(fields) != 3 {
			s.printf("Usage: :rate <id> <1-10>\n")
			return false
		}
		s.rate(fields[1], fields[2])
	case ":unrate":
		if len(fields) != 2 {
			s.printf("Usage: :unrate <id>\n")
			return false
		}
		s.unrate(fields[1])
	default:
		s.printf("Unknown command %s. Type :help for commands.\n", fields[0])
	}
	return false
}

func (s *browseSession) load(rawID string) (detail.State, bool) {
	id, err := detail.ParseID(rawID)
	if err != nil {
		s.printf("Error: %s\n", userMessage(err))
		return detail.State{}, false
	}
	st := s.detail.Load(s.ctx, id)
	if st.Err != nil {
		s.printf("Error: %s\n", st.ErrorMessage())
		return st, false
	}
	return st, true
}

func (s *browseSession) open(rawID string) {
	st, ok := s.load(rawID)
	if !ok {
		return
	}
	s.outMu.Lock()
	defer s.outMu.Unlock()
	printDiagnostic(s.out, st.StoreDiag)
	printDetail(s.out, st, s.imageBaseURL)
}

func (s *browseSession) rate(rawID, input string) {
	st, ok := s.load(rawID)
	if !ok {
		return
	}
	next, err := s.detail.Save(s.ctx, st, input)
	if err != nil {
		s.printf("Error: %s\n", userMessage(err))
		return
	}
	s.printf("%s\n%s: %s\n", next.Notice, next.Rating.Title, next.PersonalRatingLabel())
}

func (s *browseSession) unrate(rawID string) {
	st, ok := s.load(rawID)
	if !ok {
		return
	}
	if st.Rating == nil {
		s.printf("No rating saved for %s.\n", st.Media.Title)
		return
	}
	next, err := s.detail.Delete(s.ctx, st, func(title string) bool {
		return s.confirm(detail.ConfirmDeletePrompt(title))
	})
	if err != nil {
		s.printf("Error: %s\n", userMessage(err))
		return
	}
	if next.Rating != nil {
		s.printf("Rating kept.\n")
		return
	}
	s.printf("%s\n", next.Notice)
}
