package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	topoerrors "github.com/matzehuels/topo/pkg/errors"
	topoio "github.com/matzehuels/topo/pkg/io"
	"github.com/matzehuels/topo/pkg/observability"
	"github.com/matzehuels/topo/pkg/render/nodelink"
	"github.com/matzehuels/topo/pkg/scene"
	"github.com/matzehuels/topo/pkg/topo"
)

// Output formats of the layout command.
const (
	formatJSON = "json"
	formatSVG  = "svg"
	formatDOT  = "dot"
	formatPNG  = "png"
)

var layoutFormats = []string{formatJSON, formatSVG, formatDOT, formatPNG}

// layoutOpts holds the command-line flags for the layout command.
type layoutOpts struct {
	output   string   // output file, base path for several formats, or "-" for stdout
	formats  []string // requested output formats
	maxTicks int      // tick budget before giving up on idle
	labels   bool     // node ids in DOT/PNG output
	width    float64  // canvas override
	height   float64  // canvas override
}

// layoutCommand creates the layout command for headless force layout.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		opts    layoutOpts
		formats string
	)

	cmd := &cobra.Command{
		Use:   "layout [seed]",
		Short: "Run the force layout headlessly and write the result",
		Long: `Run the force layout headlessly and write the result.

The seed file (JSON, YAML or TOML) is loaded into an engine, the simulation
runs until it goes idle, and the settled scene is written in each requested
format:

  json  seed format with settled positions (re-importable)
  svg   the live scene as an SVG document
  dot   Graphviz DOT with pinned positions
  png   Graphviz rendering of the DOT output

Without a seed the built-in demo graph is used.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeSeed,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formats)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runLayout(cmd.Context(), input, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or base path (default: <seed>.<format>)")
	cmd.Flags().StringVarP(&formats, "format", "f", formatSVG, "output formats, comma separated: json, svg, dot, png")
	cmd.Flags().IntVar(&opts.maxTicks, "ticks", defaultMaxTicks, "maximum ticks to run (0 for no limit)")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "label nodes in dot and png output")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "canvas width (default from config)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "canvas height (default from config)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeLayoutFormats)

	return cmd
}

// parseFormats splits the --format flag. Empty selects svg.
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return parts
}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if err := topoerrors.ValidateFormat(f, layoutFormats...); err != nil {
			return err
		}
	}
	return nil
}

// basePath derives the output path without extension.
func basePath(output, input string) string {
	if output == "" {
		if input == "" {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if slices.Contains(layoutFormats, ext) {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

func (c *CLI) runLayout(ctx context.Context, input string, opts layoutOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.width > 0 {
		cfg.Canvas.Width = opts.width
	}
	if opts.height > 0 {
		cfg.Canvas.Height = opts.height
	}

	data, err := loadSeed(input)
	if err != nil {
		return err
	}
	t, rejected, err := buildEngine(engineConfig(cfg, c.Logger), data)
	if err != nil {
		return err
	}
	defer t.Destroy()
	for _, e := range rejected {
		c.Logger.Warn("record skipped", "code", topoerrors.GetCode(e), "err", e)
	}

	prog := newProgress(c.Logger)
	ticks, err := t.Settle(ctx, opts.maxTicks)
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	prog.done(fmt.Sprintf("Settled after %d ticks", ticks))
	if t.Simulation().Active() {
		printWarning("simulation still active after %d ticks", ticks)
	}

	if opts.output == "-" {
		if len(opts.formats) != 1 {
			return topoerrors.New(topoerrors.ErrCodeInvalidInput, "stdout output needs exactly one format")
		}
		b, err := renderFormat(ctx, t, opts.formats[0], cfg.Canvas.Background, opts.labels)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(b)
		return err
	}

	base := basePath(opts.output, input)
	var written []string
	for _, format := range opts.formats {
		b, err := renderFormat(ctx, t, format, cfg.Canvas.Background, opts.labels)
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		path := base + "." + format
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	snap := t.Snapshot()
	printSuccess("Layout complete")
	for _, p := range written {
		printFile(p)
	}
	printStats(len(snap.Nodes), len(snap.Links), ticks)
	if len(rejected) > 0 {
		printWarning("%d record(s) skipped, run 'topo check' for details", len(rejected))
	}
	if slices.Contains(opts.formats, formatJSON) {
		printNewline()
		printNextStep("Edit interactively", "topo demo "+base+"."+formatJSON)
	}
	return nil
}

// renderFormat renders the settled engine state in one format.
func renderFormat(ctx context.Context, t *topo.Topo, format, background string, labels bool) ([]byte, error) {
	start := time.Now()
	b, err := render(ctx, t, format, background, labels)
	observability.Export().OnRenderComplete(ctx, format, len(b), time.Since(start), err)
	return b, err
}

func render(ctx context.Context, t *topo.Topo, format, background string, labels bool) ([]byte, error) {
	switch format {
	case formatJSON:
		var buf bytes.Buffer
		if err := topoio.WriteJSON(t.Snapshot(), &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case formatSVG:
		opts := []scene.SVGOption{scene.WithViewBox()}
		if background != "" {
			opts = append(opts, scene.WithBackground(background))
		}
		return scene.RenderSVG(t.Surface(), opts...), nil
	case formatDOT:
		return []byte(nodelink.ToDOT(t.Snapshot(), nodelink.Options{Labels: labels, Background: background})), nil
	case formatPNG:
		dot := nodelink.ToDOT(t.Snapshot(), nodelink.Options{Labels: labels, Background: background})
		return nodelink.RenderPNG(ctx, dot)
	default:
		return nil, topoerrors.New(topoerrors.ErrCodeUnsupported, "unsupported format %q", format)
	}
}
