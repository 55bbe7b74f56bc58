package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"marquee/internal/api"
	"marquee/internal/browse"
	"marquee/internal/detail"
	"marquee/internal/logging"
	"marquee/internal/services"
)

const maxRequestBody = 64 << 10

func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	records, err := s.catalog.SearchMulti(services.WithView(r.Context(), "browse"), query)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.MediaListResponse{
		Query:   query,
		Heading: browse.HeadingSearch,
		Items:   api.FromMediaList(records, s.imageBaseURL),
	})
}

func (s *Server) handleAPIPopular(w http.ResponseWriter, r *http.Request) {
	records, err := s.popularRecords(services.WithView(r.Context(), "browse"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.MediaListResponse{
		Heading: browse.HeadingPopular,
		Items:   api.FromMediaList(records, s.imageBaseURL),
	})
}

func (s *Server) handleAPIMedia(w http.ResponseWriter, r *http.Request) {
	st, ok := s.loadDetailJSON(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromDetail(st, s.imageBaseURL))
}

func (s *Server) handleAPIRatings(w http.ResponseWriter, r *http.Request) {
	records, diag := s.store.GetAll(r.Context())
	resp := api.RatingListResponse{Items: api.FromRatingList(records, s.imageBaseURL)}
	if diag != nil {
		resp.Warning = diag.Message()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPIPutRating(w http.ResponseWriter, r *http.Request) {
	var req api.RatingRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "validation", "Request body must be a JSON object with a rating field.")
		return
	}
	st, ok := s.loadDetailJSON(w, r)
	if !ok {
		return
	}
	next, err := s.detail.Save(r.Context(), st, req.RatingInput())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromRating(*next.Rating, s.imageBaseURL))
}

func (s *Server) handleAPIDeleteRating(w http.ResponseWriter, r *http.Request) {
	id, err := detail.ParseID(r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	deleted, err := s.store.Delete(services.WithMediaID(r.Context(), id), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.DeleteResponse{MediaID: id, Deleted: deleted})
}

func (s *Server) loadDetailJSON(w http.ResponseWriter, r *http.Request) (detail.State, bool) {
	id, err := detail.ParseID(r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return detail.State{}, false
	}
	st := s.detail.Load(r.Context(), id)
	if st.Err != nil {
		s.writeServiceError(w, r, st.Err)
		return st, false
	}
	return st, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, kind, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message, Kind: kind})
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if !errors.Is(err, services.ErrNotFound) {
		s.logFailure(r, "api request failed", err)
	}
	s.writeError(w, statusFor(err), services.KindName(err), services.UserMessage(err))
}
