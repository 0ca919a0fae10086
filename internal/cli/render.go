package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/atlas/pkg/cache"
	"github.com/matzehuels/atlas/pkg/config"
	"github.com/matzehuels/atlas/pkg/graphio"
	"github.com/matzehuels/atlas/pkg/kgraph"
	"github.com/matzehuels/atlas/pkg/render"
)

const (
	formatHTML = "html"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPDF  = "pdf"
	formatPNG  = "png"

	// artifactTTL bounds how long cached renders are kept.
	artifactTTL = 30 * 24 * time.Hour
)

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{
	formatHTML: true, formatDOT: true, formatSVG: true, formatPDF: true, formatPNG: true,
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output         string   // output file path
	format         string   // output format: html, dot, svg, pdf, png
	levels         []int    // restrict view to these levels
	relationships  []string // restrict edges to these labels
	highlightNodes []string // node IDs drawn highlighted
	noCache        bool     // bypass the artifact cache
}

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatHTML}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the graph to an interactive page or image",
		Long: `Render the knowledge graph. The default html format produces a
self-contained interactive page; dot, svg, pdf, and png produce static
output via Graphviz. Level and relationship filters restrict the view,
and highlighted nodes stay visible regardless of level filters.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validFormats[opts.format] {
				return fmt.Errorf("invalid format: %s (must be 'html', 'dot', 'svg', 'pdf', or 'png')", opts.format)
			}
			return c.runRender(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default knowledge_graph.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: html (default), dot, svg, pdf, png")
	cmd.Flags().IntSliceVarP(&opts.levels, "level", "l", nil, "show only these levels (repeatable)")
	cmd.Flags().StringSliceVarP(&opts.relationships, "relationship", "r", nil, "show only these relationship labels (repeatable)")
	cmd.Flags().StringSliceVar(&opts.highlightNodes, "highlight", nil, "highlight these nodes (repeatable)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the render cache")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts *renderOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
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
	c.Logger.Infof("Loaded graph: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())

	ropts := render.Options{
		ShowLevels:        opts.levels,
		ShowRelationships: opts.relationships,
		HighlightNodes:    opts.highlightNodes,
	}

	prog := newProgress(c.Logger)
	var spin *Spinner
	if opts.format != formatHTML && opts.format != formatDOT {
		spin = newSpinnerWithContext(ctx, "Rendering "+opts.format+"...")
		spin.Start()
	}
	data, cached, err := c.renderGraph(ctx, g, ropts, opts, cfg)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	path := opts.output
	if path == "" {
		path = "knowledge_graph." + opts.format
	}
	if filepath.Ext(path) == "" {
		path += "." + opts.format
	}

	if err := writeFile(path, data); err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Rendered %s", opts.format))
	printSuccess("Generated %s", path)
	if cached {
		printDetail("served from cache")
	}
	return nil
}

// renderGraph produces the output bytes for the requested format,
// consulting the artifact cache for the Graphviz-backed formats.
// HTML and DOT are cheap to produce and are never cached.
func (c *CLI) renderGraph(ctx context.Context, g *kgraph.Graph, ropts render.Options, opts *renderOpts, cfg config.Config) ([]byte, bool, error) {
	switch opts.format {
	case formatHTML:
		data, err := render.HTML(g, ropts)
		return data, false, err
	case formatDOT:
		return []byte(render.ToDOT(g, ropts)), false, nil
	}

	artifacts, err := newCache(cfg.Cache)
	if err != nil {
		return nil, false, err
	}
	defer artifacts.Close()

	key, err := artifactKey(g, opts, cfg.Backend)
	if err != nil {
		return nil, false, err
	}

	if !opts.noCache {
		if data, hit, err := artifacts.Get(ctx, key); err == nil && hit {
			c.Logger.Debug("render cache hit", "key", key)
			return data, true, nil
		}
	}

	dot := render.ToDOT(g, ropts)
	var data []byte
	switch opts.format {
	case formatSVG:
		data, err = render.RenderSVG(ctx, dot)
	case formatPDF:
		data, err = render.RenderPDF(ctx, dot)
	case formatPNG:
		data, err = render.RenderPNG(ctx, dot, 2.0)
	default:
		return nil, false, fmt.Errorf("unknown format: %s", opts.format)
	}
	if err != nil {
		return nil, false, err
	}

	if !opts.noCache {
		if err := artifacts.Set(ctx, key, data, artifactTTL); err != nil {
			c.Logger.Debug("render cache write failed", "err", err)
		}
	}
	return data, false, nil
}

// artifactKey derives the cache key from the graph content and the
// render parameters, scoped by store backend so graphs from different
// backends sharing one cache directory keep separate entries.
func artifactKey(g *kgraph.Graph, opts *renderOpts, backend string) (string, error) {
	data, err := graphio.Export(g)
	if err != nil {
		return "", err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), backend+":")
	return keyer.ArtifactKey(cache.Hash(data), cache.ArtifactKeyOpts{
		Format:         opts.format,
		Levels:         opts.levels,
		Relationships:  opts.relationships,
		HighlightNodes: opts.highlightNodes,
	}), nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
