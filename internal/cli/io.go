package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/atlas/pkg/graphio"
	"github.com/matzehuels/atlas/pkg/kgraph"
)

func (c *CLI) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export the graph as JSON",
		Long:  "Export the graph in the JSON interchange format. Without a file argument, JSON is written to stdout.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withGraph(cmd.Context(), func(g *kgraph.Graph) (bool, error) {
				if len(args) == 0 {
					return false, graphio.Write(g, os.Stdout)
				}
				if err := graphio.ExportFile(g, args[0]); err != nil {
					return false, err
				}
				printSuccess("Exported %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
				printFile(args[0])
				return false, nil
			})
		},
	}
}

func (c *CLI) importCommand() *cobra.Command {
	var noBackup bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the graph from a JSON file",
		Long:  "Replace the graph with the contents of a JSON interchange file. The current snapshot is backed up first unless --no-backup is given. A file that fails validation leaves the graph untouched.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// Parse and validate before touching the store.
			imported, err := graphio.ImportFile(args[0])
			if err != nil {
				return err
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			st, err := c.newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			if !noBackup {
				if err := st.Backup(ctx, ""); err == nil {
					printInfo("Backed up current snapshot")
				} else {
					c.Logger.Debug("pre-import backup skipped", "err", err)
				}
			}

			if err := st.Save(ctx, imported); err != nil {
				return err
			}
			printSuccess("Imported %d nodes, %d edges", imported.NodeCount(), imported.EdgeCount())
			return nil
		},
	}

	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "skip the pre-import backup")

	return cmd
}
