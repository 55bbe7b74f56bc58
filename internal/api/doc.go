// Package api defines wire-format types and converters for the JSON API and
// the CLI's --json output. It translates catalog and rating models into
// transport-friendly DTOs so consumers never couple to internal types.
//
// # Key Types
//
// MediaItem: a catalog title with its poster URL and display labels resolved.
//
// Rating: a saved personal rating with its catalog snapshot.
//
// MediaDetailResponse: a title plus the user's rating, when one exists.
//
// # Converters
//
// FromMedia, FromMediaList: catalog.MediaRecord -> MediaItem.
//
// FromRating, FromRatingList: ratings.Record -> Rating.
//
// # Openers
//
// NewCatalog and OpenRatingStore build the shared dependencies from
// configuration so the CLI and the web server resolve them identically.
//
// # Design Notes
//
// DTOs use camelCase JSON tags. The on-disk rating format keeps its own
// snake_case keys and is never exposed here directly.
package api
