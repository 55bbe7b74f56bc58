// Command marquee searches the TMDB catalog and keeps personal 1-10 ratings
// for movies and TV shows.
//
// One-shot commands (search, popular, show, rate, unrate, ratings) print a
// table or, with --json, the same DTOs the HTTP API serves. browse is an
// interactive prompt that searches as you type, and serve hosts the web UI.
package main
