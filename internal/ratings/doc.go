// Package ratings persists personal 1-10 ratings in a single durable slot.
//
// The whole collection lives in one slot as a JSON array using the field
// names of the original browser storage (id, title, poster_path, imdb_rating,
// my_rating, overview, media_type), so exported data round-trips between the
// two. Reads are fail-soft: an unreadable or corrupt slot yields an empty
// collection plus a Diagnostic instead of an error. Writes validate first,
// refuse to replace a corrupt slot, and rewrite the collection atomically so
// a failed write leaves the previous durable state in place.
//
// Three slot backends exist: a JSON file guarded by a gofrs/flock lock file,
// a modernc.org/sqlite table, and an in-memory slot for tests.
package ratings
