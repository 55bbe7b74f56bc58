package main

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"marquee/internal/browse"
	"marquee/internal/detail"
	"marquee/internal/logging"
	"marquee/internal/ratings"
	"marquee/internal/services"
)

const browsePrompt = "marquee> "

func newBrowseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Search interactively as you type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.newCatalog()
			if err != nil {
				return err
			}
			// Terminal log lines would tear through the prompt.
			logger := logging.WithLevelOverride(ctx.log(), slog.LevelError)

			var active atomic.Pointer[browseSession]
			rl, err := readline.NewEx(&readline.Config{
				Prompt:          browsePrompt,
				HistoryFile:     filepath.Join(cfg.Paths.LogDir, "browse_history"),
				InterruptPrompt: "^C",
				EOFPrompt:       ":q",
				Listener: readline.FuncListener(func(line []rune, pos int, key rune) ([]rune, int, bool) {
					if session := active.Load(); session != nil {
						session.onKeystroke(string(line))
					}
					return nil, 0, false
				}),
			})
			if err != nil {
				return err
			}
			defer rl.Close()

			return ctx.withStore(func(store *ratings.Store) error {
				runCtx := services.WithView(cmd.Context(), "browse")
				model := browse.New(runCtx, client, browse.Options{
					PopularPages: cfg.Browse.PopularPages,
					MinVoteCount: cfg.Browse.MinVoteCount,
					Debounce:     cfg.DebounceWindow(),
					Logger:       logger,
				})
				defer model.Close()

				session := newBrowseSession(runCtx, model, detail.New(client, store, logger), cfg.TMDB.ImageBaseURL, rl.Stdout())
				session.confirm = func(question string) bool {
					session.prompting.Store(true)
					defer session.prompting.Store(false)
					rl.SetPrompt(question + " [y/N] ")
					defer rl.SetPrompt(browsePrompt)
					answer, err := rl.Readline()
					return err == nil && isYes(answer)
				}
				defer session.attach()()
				active.Store(session)

				session.printf("%s\n\n", browseHelp)
				go func() { _ = model.LoadPopular(runCtx) }()
				go func() {
					<-runCtx.Done()
					_ = rl.Close()
				}()

				for {
					line, err := rl.Readline()
					if errors.Is(err, readline.ErrInterrupt) {
						if line == "" {
							return nil
						}
						continue
					}
					if errors.Is(err, io.EOF) {
						return nil
					}
					if err != nil {
						return err
					}
					if session.handleLine(line) {
						return nil
					}
				}
			})
		},
	}
}
