package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/atlas/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the graph over HTTP",
		Long: `Start an HTTP server exposing the interactive visualization at /
and a JSON API under /api. With autosave enabled (the default) every
mutation is persisted to the configured store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			st, err := c.newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			g, err := c.loadGraph(ctx, st)
			if err != nil {
				return err
			}

			printInfo("Serving %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
			printDetail("http://%s", cfg.Server.Addr)

			srv := server.New(g, st, cfg.Server, c.Logger)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides config)")

	return cmd
}
