// Package detail loads a single title together with the user's rating for it
// and applies rating changes.
//
// Models are stateless: each operation takes the State it applies to and
// returns the next one, so one Model can serve concurrent web requests and
// the interactive browser alike.
package detail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"marquee/internal/catalog"
	"marquee/internal/logging"
	"marquee/internal/ratings"
	"marquee/internal/services"
)

// Display strings.
const (
	LoadingMessage   = "Loading details..."
	NoOverview       = "No overview available."
	NotFoundMessage  = "Movie or TV show not found."
	InvalidIDMessage = "Invalid movie ID."
	SavedNotice      = "Rating saved successfully!"
	DeletedNotice    = "Rating deleted successfully!"
	BackLabel        = "Back to Home"
	GoHomeLabel      = "Go Back Home"
)

// State is the detail view for one title.
type State struct {
	ID        int64
	Media     catalog.MediaRecord
	Loaded    bool
	Rating    *ratings.Record
	Err       error
	StoreDiag *ratings.Diagnostic
	Notice    string
}

// NotFound reports whether the title does not exist.
func (s State) NotFound() bool { return errors.Is(s.Err, services.ErrNotFound) }

// SaveLabel names the rating form's submit action.
func (s State) SaveLabel() string {
	if s.Rating != nil {
		return "Update Rating"
	}
	return "Save Rating"
}

// Overview returns the synopsis or a placeholder.
func (s State) Overview() string {
	if strings.TrimSpace(s.Media.Overview) == "" {
		return NoOverview
	}
	return s.Media.Overview
}

// PersonalRatingLabel renders the saved rating as "N/10", or "N/A".
func (s State) PersonalRatingLabel() string {
	if s.Rating == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d/10", s.Rating.PersonalRating)
}

// ErrorMessage is the user-facing text for Err.
func (s State) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return services.UserMessage(s.Err)
}

// ConfirmDeletePrompt is the question asked before removing a rating.
func ConfirmDeletePrompt(title string) string {
	return `Are you sure you want to delete your rating for "` + title + `"?`
}

// ParseID converts a path or argument segment into a media id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, services.Wrap(services.ErrValidation, "parse id", InvalidIDMessage, err)
	}
	return id, nil
}

// Model combines the catalog and the rating store.
type Model struct {
	catalog catalog.Catalog
	store   *ratings.Store
	logger  *slog.Logger
}

// New constructs a Model.
func New(cat catalog.Catalog, store *ratings.Store, logger *slog.Logger) *Model {
	return &Model{
		catalog: cat,
		store:   store,
		logger:  logging.NewComponentLogger(logger, "detail"),
	}
}

// Load fetches the title and looks up its rating concurrently. A failed
// catalog fetch is reported in Err; a degraded store read only in StoreDiag.
func (m *Model) Load(ctx context.Context, id int64) State {
	st := State{ID: id}
	if id <= 0 {
		st.Err = services.Wrap(services.ErrValidation, "load detail", InvalidIDMessage, nil)
		return st
	}
	ctx = services.WithMediaID(services.WithView(ctx, "detail"), id)

	var (
		media  catalog.MediaRecord
		rating *ratings.Record
		diag   *ratings.Diagnostic
	)
	var g errgroup.Group
	g.Go(func() error {
		rec, err := m.catalog.GetDetail(ctx, id)
		if err != nil {
			return err
		}
		media = rec
		return nil
	})
	g.Go(func() error {
		rec, ok, d := m.store.FindByMediaID(ctx, id)
		diag = d
		if ok {
			rating = &rec
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		st.Err = err
		st.StoreDiag = diag
		logger := logging.WithContext(ctx, m.logger)
		if errors.Is(err, services.ErrNotFound) {
			logger.Debug("title not found")
		} else {
			logging.WarnWithContext(logger, "detail load failed", "detail_load_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "detail view shows an error"),
			)
		}
		return st
	}
	st.Media = media
	st.Loaded = true
	st.Rating = rating
	st.StoreDiag = diag
	return st
}

// Save parses input and stores the rating against a snapshot of the loaded
// title. On error the returned state equals st.
func (m *Model) Save(ctx context.Context, st State, input string) (State, error) {
	if !st.Loaded {
		return st, services.Wrap(services.ErrValidation, "save rating", NotFoundMessage, nil)
	}
	personal, err := ratings.ParsePersonalRating(input)
	if err != nil {
		return st, err
	}
	ctx = services.WithMediaID(services.WithView(ctx, "detail"), st.Media.ID)
	saved, err := m.store.Upsert(ctx, ratings.SnapshotFromMedia(st.Media, personal))
	if err != nil {
		return st, err
	}
	next := st
	next.Rating = &saved
	next.Notice = SavedNotice
	next.StoreDiag = nil
	return next, nil
}

// Delete removes the rating after confirm approves. A declined prompt, or a
// title without rating, returns st unchanged.
func (m *Model) Delete(ctx context.Context, st State, confirm func(title string) bool) (State, error) {
	if st.Rating == nil {
		return st, nil
	}
	if confirm != nil && !confirm(st.Rating.Title) {
		return st, nil
	}
	ctx = services.WithMediaID(services.WithView(ctx, "detail"), st.Rating.MediaID)
	if _, err := m.store.Delete(ctx, st.Rating.MediaID); err != nil {
		return st, err
	}
	next := st
	next.Rating = nil
	next.Notice = DeletedNotice
	return next, nil
}
