package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"marquee/internal/api"
	"marquee/internal/catalog"
	"marquee/internal/config"
	"marquee/internal/detail"
	"marquee/internal/fileutil"
	"marquee/internal/ratings"
	"marquee/internal/services"
)

func newRateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rate <id> <1-10>",
		Short: "Save or update your rating for a title",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := detail.ParseID(args[0])
			if err != nil {
				return err
			}
			// Reject bad input before any network call.
			if _, err := ratings.ParsePersonalRating(args[1]); err != nil {
				return err
			}
			client, err := ctx.newCatalog()
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *ratings.Store) error {
				model := detail.New(client, store, ctx.log())
				st := model.Load(services.WithView(cmd.Context(), "cli"), id)
				if st.Err != nil {
					return st.Err
				}
				next, err := model.Save(cmd.Context(), st, args[1])
				if err != nil {
					return err
				}
				if ctx.jsonMode() {
					return writeJSON(cmd, api.FromRating(*next.Rating, ctx.imageBaseURL()))
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, next.Notice)
				fmt.Fprintf(out, "%s: %s\n", next.Rating.Title, next.PersonalRatingLabel())
				return nil
			})
		},
	}
}

func newUnrateCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "unrate <id>",
		Short: "Delete your rating for a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := detail.ParseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *ratings.Store) error {
				rec, ok, diag := store.FindByMediaID(cmd.Context(), id)
				if diag != nil {
					return services.Wrap(services.ErrStorage, "unrate", diag.Message(), nil)
				}
				if !ok {
					if ctx.jsonMode() {
						return writeJSON(cmd, api.DeleteResponse{MediaID: id, Deleted: false})
					}
					fmt.Fprintf(cmd.OutOrStdout(), "No rating saved for %d.\n", id)
					return nil
				}

				// Deleting needs only the saved snapshot, not the catalog.
				st := detail.State{
					ID:     id,
					Media:  catalog.MediaRecord{ID: id, Title: rec.Title},
					Loaded: true,
					Rating: &rec,
				}
				var promptErr error
				approve := func(title string) bool {
					if yes {
						return true
					}
					ok, err := confirm(cmd, detail.ConfirmDeletePrompt(title))
					promptErr = err
					return ok
				}
				next, err := detail.New(nil, store, ctx.log()).Delete(cmd.Context(), st, approve)
				if err != nil {
					return err
				}
				if promptErr != nil {
					return promptErr
				}
				deleted := next.Rating == nil
				if ctx.jsonMode() {
					return writeJSON(cmd, api.DeleteResponse{MediaID: id, Deleted: deleted})
				}
				if deleted {
					fmt.Fprintln(cmd.OutOrStdout(), next.Notice)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Rating kept.")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")
	return cmd
}

func newRatingsCommand(ctx *commandContext) *cobra.Command {
	ratingsCmd := &cobra.Command{
		Use:   "ratings",
		Short: "Manage saved ratings",
	}

	ratingsCmd.AddCommand(newRatingsListCommand(ctx))
	ratingsCmd.AddCommand(newRatingsExportCommand(ctx))
	ratingsCmd.AddCommand(newRatingsImportCommand(ctx))
	ratingsCmd.AddCommand(newRatingsResetCommand(ctx))

	return ratingsCmd
}

func newRatingsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved ratings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *ratings.Store) error {
				records, diag := store.GetAll(cmd.Context())
				if ctx.jsonMode() {
					resp := api.RatingListResponse{Items: api.FromRatingList(records, ctx.imageBaseURL())}
					if diag != nil {
						resp.Warning = diag.Message()
					}
					return writeJSON(cmd, resp)
				}
				printDiagnostic(cmd.ErrOrStderr(), diag)
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "No saved ratings.")
					return nil
				}
				fmt.Fprintln(out, renderRatingsTable(records))
				return nil
			})
		},
	}
}

func newRatingsExportCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write saved ratings as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *ratings.Store) error {
				target := strings.TrimSpace(output)
				if target == "" || target == "-" {
					_, err := store.Export(cmd.Context(), cmd.OutOrStdout())
					return err
				}
				path, err := config.ExpandPath(target)
				if err != nil {
					return err
				}
				var buf bytes.Buffer
				count, err := store.Export(cmd.Context(), &buf)
				if err != nil {
					return err
				}
				if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d ratings to %s\n", count, path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (default stdout)")
	return cmd
}

func newRatingsImportCommand(ctx *commandContext) *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Merge ratings from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if src := strings.TrimSpace(args[0]); src != "-" {
				path, err := config.ExpandPath(src)
				if err != nil {
					return err
				}
				file, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("open import file: %w", err)
				}
				defer file.Close()
				in = file
			}
			return ctx.withStore(func(store *ratings.Store) error {
				res, err := store.Import(cmd.Context(), in, replace)
				if err != nil {
					return err
				}
				if ctx.jsonMode() {
					return writeJSON(cmd, api.FromImportResult(res))
				}
				verb := "Merged"
				if res.Replaced {
					verb = "Replaced with"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d added, %d updated (%d ratings saved)\n", verb, res.Added, res.Updated, res.Total)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Replace all saved ratings instead of merging")
	return cmd
}

func newRatingsResetCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all saved ratings, including an unreadable collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := confirm(cmd, "Delete all saved ratings?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Ratings kept.")
					return nil
				}
			}
			return ctx.withStore(func(store *ratings.Store) error {
				out := cmd.OutOrStdout()
				if fileSlot, ok := store.Slot().(*ratings.FileSlot); ok {
					backup := fileSlot.Path() + ".bak"
					copied, err := fileSlot.Backup(backup)
					if err != nil {
						return services.Wrap(services.ErrStorage, "reset ratings", "Could not back up saved ratings; nothing was deleted.", err)
					}
					if copied {
						fmt.Fprintf(out, "Previous ratings copied to %s\n", backup)
					}
				}
				if err := store.Reset(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(out, "All ratings deleted.")
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Reset without asking for confirmation")
	return cmd
}
