package main

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"marquee/internal/ratings"
	"marquee/internal/web"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web interface and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("bind") {
				cfg.Server.Bind = bind
			}
			client, err := ctx.newCatalog()
			if err != nil {
				return err
			}
			if !client.Configured() {
				fmt.Fprintln(cmd.ErrOrStderr(), "Warning: TMDB API key is not configured; pages will show a configuration error.")
			}
			return ctx.withStore(func(store *ratings.Store) error {
				srv, err := web.New(cfg, client, store, ctx.log())
				if err != nil {
					return err
				}
				listener, err := net.Listen("tcp", srv.Addr())
				if err != nil {
					return fmt.Errorf("listen on %s: %w", srv.Addr(), err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Marquee is serving http://%s (ratings: %s)\n", listener.Addr(), store.Describe())
				return srv.Serve(cmd.Context(), listener)
			})
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Override server.bind (host:port)")
	return cmd
}
