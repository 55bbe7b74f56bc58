package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"marquee/internal/catalog"
	"marquee/internal/detail"
	"marquee/internal/ratings"
)

const titleWidth = 48

var mediaColumns = []column{
	{header: "ID", right: true},
	{header: "Title", maxWidth: titleWidth},
	{header: "Type"},
	{header: "Year"},
	{header: "Rating", right: true},
	{header: "Lang"},
}

var ratingColumns = []column{
	{header: "ID", right: true},
	{header: "Title", maxWidth: titleWidth},
	{header: "Type"},
	{header: "Catalog", right: true},
	{header: "Mine", right: true},
}

func mediaRows(records []catalog.MediaRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			strconv.FormatInt(rec.ID, 10),
			rec.Title,
			string(rec.Kind),
			rec.YearLabel(),
			rec.RatingLabel(),
			rec.LanguageCode(),
		})
	}
	return rows
}

func renderMediaTable(records []catalog.MediaRecord) string {
	return renderTable(mediaColumns, mediaRows(records))
}

// printListing writes a heading, then the table or the empty message.
func printListing(out io.Writer, heading, empty string, records []catalog.MediaRecord) {
	fmt.Fprintln(out, heading)
	if len(records) == 0 {
		fmt.Fprintln(out, empty)
		return
	}
	fmt.Fprintln(out, renderMediaTable(records))
}

func renderRatingsTable(records []ratings.Record) string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			strconv.FormatInt(rec.MediaID, 10),
			rec.Title,
			string(rec.MediaKind),
			catalog.FormatRating(rec.CatalogRating),
			fmt.Sprintf("%d/10", rec.PersonalRating),
		})
	}
	return renderTable(ratingColumns, rows)
}

func printDetail(out io.Writer, st detail.State, imageBaseURL string) {
	media := st.Media
	fmt.Fprintf(out, "%s (%s)\n", media.Title, media.YearLabel())
	if media.Tagline != "" {
		fmt.Fprintf(out, "%s\n", media.Tagline)
	}

	var facts []string
	if media.Kind != "" {
		facts = append(facts, "Type: "+string(media.Kind))
	}
	if name := media.LanguageName(); name != "" {
		facts = append(facts, fmt.Sprintf("Language: %s (%s)", name, media.LanguageCode()))
	}
	if len(facts) > 0 {
		fmt.Fprintln(out, strings.Join(facts, " | "))
	}

	rating := media.RatingLabel()
	if rating != "N/A" {
		rating += "/10"
	}
	fmt.Fprintf(out, "Rating: %s (%d votes)\n", rating, media.VoteCount)
	fmt.Fprintf(out, "Your rating: %s\n", st.PersonalRatingLabel())
	if poster := media.PosterURL(imageBaseURL, catalog.PosterSizeDetail); poster != "" {
		fmt.Fprintf(out, "Poster: %s\n", poster)
	}
	if link := media.IMDbURL(); link != "" {
		fmt.Fprintf(out, "View on IMDb: %s\n", link)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, st.Overview())
}

func printDiagnostic(out io.Writer, diag *ratings.Diagnostic) {
	if diag == nil {
		return
	}
	fmt.Fprintln(out, "Warning:", diag.Message())
}
