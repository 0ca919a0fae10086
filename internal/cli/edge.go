package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/atlas/pkg/kgraph"
)

// edgeCommand groups edge management subcommands.
func (c *CLI) edgeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edge",
		Short: "Manage graph edges",
	}

	cmd.AddCommand(c.edgeAddCommand())
	cmd.AddCommand(c.edgeRemoveCommand())
	cmd.AddCommand(c.edgeListCommand())

	return cmd
}

func (c *CLI) edgeAddCommand() *cobra.Command {
	var relationship string

	cmd := &cobra.Command{
		Use:   "add [source] [target]",
		Short: "Add an edge between two nodes",
		Long:  "Add a directed edge. Both endpoints must exist. Without arguments, interactive pickers are shown. Parallel edges with different relationships are allowed.",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withGraph(cmd.Context(), func(g *kgraph.Graph) (bool, error) {
				var source, target string
				switch len(args) {
				case 2:
					source, target = args[0], args[1]
				case 0:
					var err error
					if source, err = pickNode("Select Source", g); err != nil || source == "" {
						return false, err
					}
					if target, err = pickNode("Select Target", g); err != nil || target == "" {
						return false, err
					}
				default:
					return false, fmt.Errorf("provide both source and target, or neither")
				}

				e, err := g.AddEdge(source, target, relationship)
				if err != nil {
					return false, err
				}
				printSuccess("%s %s[%s]%s %s", e.Source, iconArrow, e.Relationship, iconArrow, e.Target)
				if e.Key > 0 {
					printDetail("parallel edge #%d between this pair", e.Key+1)
				}
				return true, nil
			})
		},
	}

	cmd.Flags().StringVarP(&relationship, "relationship", "r", "", "relationship label (default "+kgraph.DefaultRelationship+")")

	return cmd
}

func (c *CLI) edgeRemoveCommand() *cobra.Command {
	var key int

	cmd := &cobra.Command{
		Use:   "rm <source> <target>",
		Short: "Remove an edge",
		Long:  "Remove the most recently added edge between source and target, or a specific parallel edge with --key.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withGraph(cmd.Context(), func(g *kgraph.Graph) (bool, error) {
				var err error
				if cmd.Flags().Changed("key") {
					err = g.RemoveEdgeKey(args[0], args[1], key)
				} else {
					err = g.RemoveEdge(args[0], args[1])
				}
				if err != nil {
					return false, err
				}
				printSuccess("Removed %s %s %s", args[0], iconArrow, args[1])
				return true, nil
			})
		},
	}

	cmd.Flags().IntVarP(&key, "key", "k", 0, "parallel edge key to remove")

	return cmd
}

func (c *CLI) edgeListCommand() *cobra.Command {
	var relationship string

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List edges",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withGraph(cmd.Context(), func(g *kgraph.Graph) (bool, error) {
				count := 0
				for _, e := range g.Edges() {
					if relationship != "" && e.Relationship != relationship {
						continue
					}
					fmt.Printf("%-30s %s[%s]%s %s\n", e.Source, iconArrow, e.Relationship, iconArrow, e.Target)
					count++
				}
				printDetail("%d edges", count)
				return false, nil
			})
		},
	}

	cmd.Flags().StringVarP(&relationship, "relationship", "r", "", "filter by relationship label")

	return cmd
}
