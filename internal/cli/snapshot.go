package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/atlas/pkg/kgraph"
	"github.com/matzehuels/atlas/pkg/store"
)

func (c *CLI) saveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Persist the graph to the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withGraph(cmd.Context(), func(g *kgraph.Graph) (bool, error) {
				printSuccess("Saved %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
				return true, nil
			})
		},
	}
}

func (c *CLI) backupCommand() *cobra.Command {
	var timestamped bool

	cmd := &cobra.Command{
		Use:   "backup [name]",
		Short: "Back up the current snapshot",
		Long:  `Copy the current snapshot to a named backup. Without a name the backup is called "latest"; with --timestamped the current time is used.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			st, err := c.newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			name := ""
			switch {
			case len(args) == 1:
				name = args[0]
			case timestamped:
				name = store.TimestampName()
			}

			if err := st.Backup(ctx, name); err != nil {
				return err
			}
			if name == "" {
				name = store.DefaultBackupName
			}
			printSuccess("Backed up snapshot as %q", name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&timestamped, "timestamped", false, "name the backup after the current time")

	return cmd
}

func (c *CLI) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show graph statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withGraph(cmd.Context(), func(g *kgraph.Graph) (bool, error) {
				printKeyValue("Nodes", fmt.Sprintf("%d", g.NodeCount()))
				printKeyValue("Edges", fmt.Sprintf("%d", g.EdgeCount()))

				for _, kind := range kgraph.Kinds() {
					if n := len(g.NodesByKind(kind)); n > 0 {
						printDetail("%-10s %d", kind, n)
					}
				}

				if rels := g.Relationships(); len(rels) > 0 {
					printKeyValue("Relations", fmt.Sprintf("%d", len(rels)))
					for _, rel := range rels {
						count := 0
						for _, e := range g.Edges() {
							if e.Relationship == rel {
								count++
							}
						}
						printDetail("%-15s %d", rel, count)
					}
				}

				levels := []int{}
				for _, n := range g.Nodes() {
					if !slices.Contains(levels, n.Level) {
						levels = append(levels, n.Level)
					}
				}
				slices.Sort(levels)
				if len(levels) > 0 {
					printKeyValue("Levels", fmt.Sprintf("%v", levels))
				}
				return false, nil
			})
		},
	}
}
