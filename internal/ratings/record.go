package ratings

import (
	"strconv"
	"strings"

	"marquee/internal/catalog"
	"marquee/internal/services"
	"marquee/internal/validation"
)

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 10
)

// InvalidRatingMessage is shown when a personal rating fails validation.
const InvalidRatingMessage = "Please enter a valid rating between 1 and 10."

// Record is one saved rating plus the catalog snapshot taken when it was saved.
type Record struct {
	MediaID        int64             `json:"id" validate:"gt=0"`
	Title          string            `json:"title" validate:"required"`
	PosterPath     *string           `json:"poster_path"`
	CatalogRating  float64           `json:"imdb_rating" validate:"gte=0,lte=10"`
	PersonalRating int               `json:"my_rating" validate:"min=1,max=10"`
	Overview       string            `json:"overview,omitempty"`
	MediaKind      catalog.MediaKind `json:"media_type,omitempty" validate:"omitempty,mediakind"`
}

// SnapshotFromMedia builds the record saved for media at the given rating.
func SnapshotFromMedia(media catalog.MediaRecord, personal int) Record {
	title := strings.TrimSpace(media.Title)
	if title == "" {
		title = catalog.UnknownTitle
	}
	var poster *string
	if media.PosterPath != nil {
		p := *media.PosterPath
		poster = &p
	}
	return Record{
		MediaID:        media.ID,
		Title:          title,
		PosterPath:     poster,
		CatalogRating:  media.VoteAverage,
		PersonalRating: personal,
		Overview:       media.Overview,
		MediaKind:      media.Kind,
	}
}

// ParsePersonalRating parses user input as a signed decimal integer in
// [1, 10] after trimming surrounding whitespace, so "+7" is accepted.
// Fractions and any other text are rejected.
func ParsePersonalRating(input string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || value < MinRating || value > MaxRating {
		return 0, services.Wrap(services.ErrValidation, "parse rating", InvalidRatingMessage, err)
	}
	return value, nil
}

// Validate checks a record before it is written.
func (r Record) Validate() error {
	errs := validation.Struct(r)
	if errs == nil {
		return nil
	}
	message := validation.Summary(errs)
	for _, fe := range errs {
		if fe.Field == "my_rating" {
			message = InvalidRatingMessage
			break
		}
	}
	return services.Wrap(services.ErrValidation, "validate rating", message, nil)
}

func (r Record) clone() Record {
	out := r
	if r.PosterPath != nil {
		p := *r.PosterPath
		out.PosterPath = &p
	}
	return out
}
