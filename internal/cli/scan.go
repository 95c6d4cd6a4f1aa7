package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	cdio "github.com/matzehuels/classdiagram/pkg/io"
	"github.com/matzehuels/classdiagram/pkg/meta/source"
	"github.com/matzehuels/classdiagram/pkg/pipeline"
)

// scanCommand creates the scan command, which lists the classes found in a
// source tree and optionally saves them as a manifest for hand editing.
func (c *CLI) scanCommand() *cobra.Command {
	var (
		lang string
		save string
	)

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "List the classes in a source tree",
		Long: fmt.Sprintf(`List the classes declared in a source tree.

With --save-manifest the classes are written as a manifest (.toml or .json by
extension) that can be edited and passed to 'render'.

Languages: %s`, strings.Join(source.Languages(), ", ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScan(cmd.Context(), args[0], lang, save)
		},
	}

	cmd.Flags().StringVar(&lang, "lang", pipeline.DefaultLanguage, "source language")
	cmd.Flags().StringVar(&save, "save-manifest", "", "write the classes to this manifest file")

	return cmd
}

func (c *CLI) runScan(ctx context.Context, dir, lang, save string) error {
	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Scanning "+dir+"...")
	spinner.Start()
	m, err := runner.Load(ctx, pipeline.Options{SourceDir: dir, Language: lang, Logger: c.Logger})
	if err != nil {
		spinner.StopWithError("Scan failed")
		return err
	}
	spinner.Stop()

	printSuccess("Found %s classes in %s", StyleNumber.Render(fmt.Sprint(len(m.Types))), dir)
	for _, t := range m.Types {
		line := StyleValue.Render(t.Name)
		if t.Extends != "" {
			line += StyleDim.Render(" extends ") + StyleHighlight.Render(t.Extends)
		}
		fmt.Println("  " + line + StyleDim.Render(fmt.Sprintf("  (%d attrs, %d methods)", len(t.Attributes), len(t.Behaviors))))
	}

	if save == "" {
		printNextStep("Encode it", "classdiagram render "+dir)
		return nil
	}
	if err := saveManifest(m, save); err != nil {
		return err
	}
	printSuccess("Saved manifest")
	printFile(save)
	printNextStep("Edit it, then encode", "classdiagram render "+save)
	return nil
}

func saveManifest(m *cdio.Manifest, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := cdio.WriteManifest(m, f, cdio.DetectFormat(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
