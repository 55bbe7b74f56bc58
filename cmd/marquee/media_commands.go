package main

import (
	"strings"

	"github.com/spf13/cobra"

	"marquee/internal/api"
	"marquee/internal/browse"
	"marquee/internal/detail"
	"marquee/internal/ratings"
	"marquee/internal/services"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search movies and TV shows",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return services.Wrap(services.ErrValidation, "search", "Search query must not be blank.", nil)
			}
			client, err := ctx.newCatalog()
			if err != nil {
				return err
			}
			records, err := client.SearchMulti(services.WithView(cmd.Context(), "cli"), query)
			if err != nil {
				return err
			}
			if ctx.jsonMode() {
				return writeJSON(cmd, api.MediaListResponse{
					Query:   query,
					Heading: browse.HeadingSearch,
					Items:   api.FromMediaList(records, ctx.imageBaseURL()),
				})
			}
			st := browse.State{Query: query, Mode: browse.ModeSearch}
			printListing(cmd.OutOrStdout(), st.Heading(), st.EmptyMessage(), records)
			return nil
		},
	}
}

func newPopularCommand(ctx *commandContext) *cobra.Command {
	var pages int
	var minVotes int

	cmd := &cobra.Command{
		Use:   "popular",
		Short: "List popular movies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("pages") {
				pages = cfg.Browse.PopularPages
			}
			if !cmd.Flags().Changed("min-votes") {
				minVotes = cfg.Browse.MinVoteCount
			}
			if pages <= 0 || minVotes < 0 {
				return services.Wrap(services.ErrValidation, "popular", "--pages must be positive and --min-votes must not be negative.", nil)
			}
			client, err := ctx.newCatalog()
			if err != nil {
				return err
			}
			records, err := client.GetPopular(services.WithView(cmd.Context(), "cli"), pages, minVotes)
			if err != nil {
				return err
			}
			if ctx.jsonMode() {
				return writeJSON(cmd, api.MediaListResponse{
					Heading: browse.HeadingPopular,
					Items:   api.FromMediaList(records, ctx.imageBaseURL()),
				})
			}
			st := browse.State{Mode: browse.ModePopular}
			printListing(cmd.OutOrStdout(), st.Heading(), st.EmptyMessage(), records)
			return nil
		},
	}

	cmd.Flags().IntVar(&pages, "pages", browse.DefaultPopularPages, "Number of popular pages to fetch")
	cmd.Flags().IntVar(&minVotes, "min-votes", browse.DefaultMinVoteCount, "Only list titles with more votes than this")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a title with your rating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadDetail(cmd, ctx, args[0])
			if err != nil {
				return err
			}
			if ctx.jsonMode() {
				return writeJSON(cmd, api.FromDetail(st, ctx.imageBaseURL()))
			}
			printDiagnostic(cmd.ErrOrStderr(), st.StoreDiag)
			printDetail(cmd.OutOrStdout(), st, ctx.imageBaseURL())
			return nil
		},
	}
}

// loadDetail parses rawID and loads the title and its rating.
func loadDetail(cmd *cobra.Command, ctx *commandContext, rawID string) (detail.State, error) {
	id, err := detail.ParseID(rawID)
	if err != nil {
		return detail.State{}, err
	}
	client, err := ctx.newCatalog()
	if err != nil {
		return detail.State{}, err
	}
	var st detail.State
	err = ctx.withStore(func(store *ratings.Store) error {
		st = detail.New(client, store, ctx.log()).Load(services.WithView(cmd.Context(), "cli"), id)
		return st.Err
	})
	return st, err
}
