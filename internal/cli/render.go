package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/classdiagram/pkg/pipeline"
)

// renderFlags holds render options that do not map onto pipeline.Options.
type renderFlags struct {
	only       string // comma-separated type names
	noCache    bool
	pick       bool
	previewOut string
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render <manifest|dir>",
		Short: "Encode a class diagram as PlantUML",
		Long: `Encode a class diagram as a PlantUML description.

The input is a manifest (.toml or .json) or a source directory. Directories are
scanned for classes in the language given by --lang.

Without --output the description is printed to stdout. With --output it is
written to <output>.puml and, with --export, handed to PlantUML.

Examples:
  classdiagram render zoo.toml
  classdiagram render zoo.toml -o zoo --export --format svg
  classdiagram render ./src --lang typescript --only app.Service,app.Repo
  classdiagram render zoo.toml --pick --preview svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setInput(&opts, args[0]); err != nil {
				return err
			}
			opts.Only = splitList(flags.only)
			return c.runRender(cmd.Context(), opts, flags)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "description file name (stdout if empty)")
	cmd.Flags().StringVar(&opts.Language, "lang", "", "source language for directories: python (default), typescript, tsx")
	cmd.Flags().StringVar(&opts.Title, "title", "", "diagram title (overrides the manifest)")
	cmd.Flags().StringVar(&opts.Layout, "layout", "", "PlantUML layout pragma (default smetana)")
	cmd.Flags().BoolVar(&opts.Qualified, "qualified", false, "draw fully qualified type names")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "reject unknown relationship kinds")
	cmd.Flags().StringVar(&flags.only, "only", "", "draw only these types (comma-separated)")
	cmd.Flags().BoolVar(&flags.pick, "pick", false, "choose the types to draw interactively")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached descriptions")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Export, "export", false, "run PlantUML on the written description")
	cmd.Flags().StringVarP(&opts.ExportFormat, "format", "f", "", "PlantUML output format (default png)")
	cmd.Flags().BoolVar(&opts.StrictExport, "strict-export", false, "fail when PlantUML fails")
	cmd.Flags().StringVar(&opts.Preview, "preview", "", "also draw a Graphviz preview: svg, png, pdf or dot")
	cmd.Flags().StringVar(&flags.previewOut, "preview-out", "", "preview file (default <output>.<format>)")
	cmd.Flags().BoolVar(&opts.PreviewDetailed, "detailed", false, "show members in the preview")

	return cmd
}

// setInput points opts at a manifest file or a source directory.
func setInput(opts *pipeline.Options, arg string) error {
	info, err := os.Stat(arg)
	if err != nil {
		return fmt.Errorf("input %s: %w", arg, err)
	}
	if info.IsDir() {
		opts.SourceDir = arg
	} else {
		opts.ManifestPath = arg
	}
	return nil
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, flags renderFlags) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	if flags.pick {
		m, err := runner.Load(ctx, opts)
		if err != nil {
			return err
		}
		selected, err := pickTypes(m)
		if err != nil {
			return err
		}
		if selected == nil {
			printInfo("Cancelled")
			return nil
		}
		opts.Manifest, opts.ManifestPath, opts.SourceDir = m, "", ""
		opts.Only = selected
	}

	spinner := newSpinnerWithContext(ctx, "Encoding...")
	spinner.Start()
	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Encoding failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Encoded %d types", result.Stats.TypeCount))

	if result.DescriptionPath == "" {
		fmt.Print(result.Description)
	} else {
		printSuccess("Wrote description")
		printFile(result.DescriptionPath)
		printStats(result.Stats.TypeCount, len(result.Manifest.Relationships), result.CacheInfo.EncodeHit)
	}

	switch {
	case result.ExportErr != nil:
		printWarning("PlantUML export failed: %v", result.ExportErr)
		printNextStep("Check the renderer", "classdiagram export "+result.DescriptionPath)
	case result.ExportPath != "":
		printSuccess("Exported with PlantUML")
		printFile(result.ExportPath)
	}

	if len(result.Preview) > 0 {
		path := previewPath(flags.previewOut, opts)
		if err := os.WriteFile(path, result.Preview, 0o644); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}
		printSuccess("Wrote preview")
		printFile(path)
	}
	return nil
}

func previewPath(explicit string, opts pipeline.Options) string {
	if explicit != "" {
		return explicit
	}
	base := strings.TrimSuffix(opts.Output, ".puml")
	if base == "" {
		base = "diagram"
	}
	return base + "." + opts.Preview
}

// splitList splits a comma-separated flag, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
