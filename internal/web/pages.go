package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"marquee/internal/api"
	"marquee/internal/browse"
	"marquee/internal/catalog"
	"marquee/internal/detail"
	"marquee/internal/logging"
	"marquee/internal/services"
)

// chrome is the data every page's layout reads.
type chrome struct {
	PageTitle   string
	ConfigError string
}

type homePage struct {
	chrome
	Query       string
	Placeholder string
	Heading     string
	Empty       string
	Error       string
	Items       []api.MediaItem
}

type detailPage struct {
	chrome
	Media          api.MediaItem
	CatalogRating  string
	PersonalRating string
	RatingValue    string
	SaveLabel      string
	HasRating      bool
	Overview       string
	Notice         string
	Warning        string
	Error          string
}

type confirmPage struct {
	chrome
	ID     int64
	Prompt string
}

type messagePage struct {
	chrome
	Message string
}

type configuredCatalog interface {
	Configured() bool
}

func (s *Server) chrome(title string) chrome {
	c := chrome{PageTitle: title}
	if cc, ok := s.catalog.(configuredCatalog); ok && !cc.Configured() {
		c.ConfigError = catalog.MissingKeyMessage
	}
	return c
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := services.WithView(r.Context(), "browse")
	st := browse.State{Query: strings.TrimSpace(r.URL.Query().Get("q")), Mode: browse.ModePopular}
	if st.Query == "" {
		st.Results, st.Err = s.popularRecords(ctx)
	} else {
		st.Mode = browse.ModeSearch
		st.Results, st.Err = s.catalog.SearchMulti(ctx, st.Query)
	}

	page := homePage{
		chrome:      s.chrome("Home"),
		Query:       st.Query,
		Placeholder: browse.Placeholder,
		Heading:     st.Heading(),
		Empty:       st.EmptyMessage(),
		Items:       api.FromMediaList(st.Results, s.imageBaseURL),
	}
	status := http.StatusOK
	if st.Err != nil {
		status = statusFor(st.Err)
		// The layout banner already explains a missing key.
		if page.ConfigError == "" || !errors.Is(st.Err, services.ErrConfiguration) {
			page.Error = st.ErrorMessage()
		}
		s.logFailure(r, "home view failed", st.Err)
	}
	s.renderPage(w, r, status, "home", page)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	st, ok := s.loadDetail(w, r)
	if !ok {
		return
	}
	switch r.URL.Query().Get("notice") {
	case "saved":
		st.Notice = detail.SavedNotice
	case "deleted":
		st.Notice = detail.DeletedNotice
	}
	s.renderDetail(w, r, http.StatusOK, st, "", nil)
}

func (s *Server) handleSaveRating(w http.ResponseWriter, r *http.Request) {
	st, ok := s.loadDetail(w, r)
	if !ok {
		return
	}
	input := r.PostFormValue("rating")
	if _, err := s.detail.Save(r.Context(), st, input); err != nil {
		if errors.Is(err, services.ErrValidation) {
			s.renderDetail(w, r, http.StatusBadRequest, st, input, err)
			return
		}
		s.renderFailure(w, r, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/media/%d?notice=saved", st.ID), http.StatusSeeOther)
}

func (s *Server) handleDeleteRating(w http.ResponseWriter, r *http.Request) {
	st, ok := s.loadDetail(w, r)
	if !ok {
		return
	}
	if st.Rating == nil {
		http.Redirect(w, r, fmt.Sprintf("/media/%d", st.ID), http.StatusSeeOther)
		return
	}
	confirmed := r.PostFormValue("confirm") == "yes"
	if !confirmed {
		s.renderPage(w, r, http.StatusOK, "confirm", confirmPage{
			chrome: s.chrome("Delete Rating"),
			ID:     st.ID,
			Prompt: detail.ConfirmDeletePrompt(st.Media.Title),
		})
		return
	}
	if _, err := s.detail.Delete(r.Context(), st, func(string) bool { return confirmed }); err != nil {
		s.renderFailure(w, r, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/media/%d?notice=deleted", st.ID), http.StatusSeeOther)
}

// loadDetail resolves the {id} path value and loads the view, rendering the
// failure page itself when that is not possible.
func (s *Server) loadDetail(w http.ResponseWriter, r *http.Request) (detail.State, bool) {
	id, err := detail.ParseID(r.PathValue("id"))
	if err != nil {
		s.renderFailure(w, r, err)
		return detail.State{}, false
	}
	st := s.detail.Load(r.Context(), id)
	if st.Err != nil {
		s.renderFailure(w, r, st.Err)
		return st, false
	}
	return st, true
}

func (s *Server) renderDetail(w http.ResponseWriter, r *http.Request, status int, st detail.State, input string, formErr error) {
	media := api.FromMedia(st.Media, s.imageBaseURL)
	media.PosterURL = st.Media.PosterURL(s.imageBaseURL, catalog.PosterSizeDetail)

	catalogRating := st.Media.RatingLabel()
	if catalogRating != "N/A" {
		catalogRating += "/10"
	}
	page := detailPage{
		chrome:         s.chrome(st.Media.Title),
		Media:          media,
		CatalogRating:  catalogRating,
		PersonalRating: st.PersonalRatingLabel(),
		RatingValue:    input,
		SaveLabel:      st.SaveLabel(),
		HasRating:      st.Rating != nil,
		Overview:       st.Overview(),
		Notice:         st.Notice,
	}
	if page.RatingValue == "" && st.Rating != nil {
		page.RatingValue = strconv.Itoa(st.Rating.PersonalRating)
	}
	if st.StoreDiag != nil {
		page.Warning = st.StoreDiag.Message()
	}
	if formErr != nil {
		page.Error = services.UserMessage(formErr)
	}
	s.renderPage(w, r, status, "detail", page)
}

func (s *Server) renderFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if errors.Is(err, services.ErrNotFound) {
		s.renderPage(w, r, status, "notfound", messagePage{
			chrome:  s.chrome("Not Found"),
			Message: detail.NotFoundMessage,
		})
		return
	}
	s.logFailure(r, "page request failed", err)
	s.renderPage(w, r, status, "error", messagePage{
		chrome:  s.chrome("Error"),
		Message: services.UserMessage(err),
	})
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	if err := s.pages.render(w, status, page, data); err != nil {
		logging.ErrorWithContext(logging.WithContext(r.Context(), s.logger), "page render failed", "web_render_failed",
			logging.String("page", page),
			logging.Error(err),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) logFailure(r *http.Request, msg string, err error) {
	logger := logging.WithContext(r.Context(), s.logger)
	if statusFor(err) < http.StatusInternalServerError {
		logger.Debug(msg, logging.Error(err))
		return
	}
	logging.WarnWithContext(logger, msg, "web_request_failed",
		logging.Error(err),
		logging.String(logging.FieldImpact, "user sees an error page"),
	)
}

func statusFor(err error) int {
	switch services.Kind(err) {
	case services.ErrValidation:
		return http.StatusBadRequest
	case services.ErrNotFound:
		return http.StatusNotFound
	case services.ErrConfiguration:
		return http.StatusServiceUnavailable
	case services.ErrUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
