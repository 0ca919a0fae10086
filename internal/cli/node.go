package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/atlas/pkg/kgraph"
)

// nodeCommand groups node management subcommands.
func (c *CLI) nodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage graph nodes",
	}

	cmd.AddCommand(c.nodeAddCommand())
	cmd.AddCommand(c.nodeRemoveCommand())
	cmd.AddCommand(c.nodeShowCommand())
	cmd.AddCommand(c.nodeListCommand())
	cmd.AddCommand(c.nodeRenameCommand())
	cmd.AddCommand(c.nodeSetCommand())

	return cmd
}

func (c *CLI) nodeAddCommand() *cobra.Command {
	var (
		kindStr     string
		level       int
		url         string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Add a node to the graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kgraph.ParseKind(kindStr)
			if err != nil {
				return fmt.Errorf("%w (valid: %s)", err, strings.Join(kindNames(), ", "))
			}
			n := kgraph.Node{
				ID:    args[0],
				Kind:  kind,
				Level: level,
				Meta:  kgraph.Meta{URL: url, Description: description},
			}
			return c.withGraph(cmd.Context(), func(g *kgraph.Graph) (bool, error) {
				if err := g.AddNode(n); err != nil {
					return false, err
				}
				printSuccess("Added %s (%s, level %d)", n.ID, n.Kind, n.Level)
				return true, nil
			})
		},
	}

	cmd.Flags().StringVarP(&kindStr, "type", "t", string(kgraph.KindTopic), "node type: "+strings.Join(kindNames(), ", "))
	cmd.Flags().IntVarP(&level, "level", "l", 0, "hierarchy level (0 = root)")
	cmd.Flags().StringVarP(&url, "url", "u", "", "reference URL")
	cmd.Flags().StringVarP(&description, "description", "d", "", "short description")

	return cmd
}

func (c *CLI) nodeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [id]",
		Short: "Remove a node and all its edges",
		Long:  "Remove a node and its incident edges. Without an ID, an interactive picker is shown.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withGraph(cmd.Context(), func(g *kgraph.Graph) (bool, error) {
				id := ""
				if len(args) == 1 {
					id = args[0]
				} else {
					var err error
					if id, err = pickNode("Remove Node", g); err != nil {
						return false, err
					}
					if id == "" {
						return false, nil
					}
				}

				before := g.EdgeCount()
				if err := g.RemoveNode(id); err != nil {
					return false, err
				}
				printSuccess("Removed %s", id)
				if dropped := before - g.EdgeCount(); dropped > 0 {
					printDetail("%d incident edges dropped", dropped)
				}
				return true, nil
			})
		},
	}
}

func (c *CLI) nodeShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a node and its connections",
		Long:  "Show a node's attributes and connections. Without an ID, an interactive picker is shown.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withGraph(cmd.Context(), func(g *kgraph.Graph) (bool, error) {
				id := ""
				if len(args) == 1 {
					id = args[0]
				} else {
					var err error
					if id, err = pickNode("Select Node", g); err != nil {
						return false, err
					}
					if id == "" {
						return false, nil
					}
				}

				n, ok := g.Node(id)
				if !ok {
					return false, fmt.Errorf("node %s: %w", id, kgraph.ErrUnknownNode)
				}

				fmt.Println(StyleTitle.Render(n.ID))
				printKeyValue("Type", string(n.Kind))
				printKeyValue("Level", fmt.Sprintf("%d", n.Level))
				if n.Meta.URL != "" {
					printKeyValue("URL", StyleLink.Render(n.Meta.URL))
				}
				if n.Meta.Description != "" {
					printKeyValue("Description", n.Meta.Description)
				}
				printKeyValue("Created", n.Meta.CreatedAt.Format("2006-01-02 15:04"))

				for _, e := range g.Edges() {
					if e.Source == id {
						printDetail("%s %s %s", e.Relationship, iconArrow, e.Target)
					} else if e.Target == id {
						printDetail("%s %s %s", e.Source, iconArrow, e.Relationship)
					}
				}
				return false, nil
			})
		},
	}
}

func (c *CLI) nodeListCommand() *cobra.Command {
	var kindStr string
	var level int

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List nodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withGraph(cmd.Context(), func(g *kgraph.Graph) (bool, error) {
				var kind kgraph.Kind
				if kindStr != "" {
					var err error
					if kind, err = kgraph.ParseKind(kindStr); err != nil {
						return false, err
					}
				}
				for _, n := range g.Nodes() {
					if kindStr != "" && n.Kind != kind {
						continue
					}
					if cmd.Flags().Changed("level") && n.Level != level {
						continue
					}
					fmt.Printf("%-30s  %-8s  L%d\n", n.ID, n.Kind, n.Level)
				}
				printDetail("%d nodes, %d edges", g.NodeCount(), g.EdgeCount())
				return false, nil
			})
		},
	}

	cmd.Flags().StringVarP(&kindStr, "type", "t", "", "filter by node type")
	cmd.Flags().IntVarP(&level, "level", "l", 0, "filter by level")

	return cmd
}

func (c *CLI) nodeRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a node, rewiring its edges",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withGraph(cmd.Context(), func(g *kgraph.Graph) (bool, error) {
				if err := g.RenameNode(args[0], args[1]); err != nil {
					return false, err
				}
				printSuccess("Renamed %s %s %s", args[0], iconArrow, args[1])
				return true, nil
			})
		},
	}
}

func (c *CLI) nodeSetCommand() *cobra.Command {
	var (
		kindStr     string
		level       int
		url         string
		description string
	)

	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Update a node's attributes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return c.withGraph(cmd.Context(), func(g *kgraph.Graph) (bool, error) {
				mutated := false
				if cmd.Flags().Changed("type") {
					kind, err := kgraph.ParseKind(kindStr)
					if err != nil {
						return false, err
					}
					if err := g.SetKind(id, kind); err != nil {
						return false, err
					}
					mutated = true
				}
				if cmd.Flags().Changed("level") {
					if err := g.SetLevel(id, level); err != nil {
						return false, err
					}
					mutated = true
				}
				if cmd.Flags().Changed("url") || cmd.Flags().Changed("description") {
					n, ok := g.Node(id)
					if !ok {
						return false, fmt.Errorf("node %s: %w", id, kgraph.ErrUnknownNode)
					}
					meta := n.Meta
					if cmd.Flags().Changed("url") {
						meta.URL = url
					}
					if cmd.Flags().Changed("description") {
						meta.Description = description
					}
					if err := g.SetMeta(id, meta); err != nil {
						return false, err
					}
					mutated = true
				}
				if !mutated {
					printInfo("Nothing to update")
					return false, nil
				}
				printSuccess("Updated %s", id)
				return true, nil
			})
		},
	}

	cmd.Flags().StringVarP(&kindStr, "type", "t", "", "new node type")
	cmd.Flags().IntVarP(&level, "level", "l", 0, "new hierarchy level")
	cmd.Flags().StringVarP(&url, "url", "u", "", "new reference URL")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")

	return cmd
}

// kindNames lists the valid node types for help text.
func kindNames() []string {
	kinds := kgraph.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}
