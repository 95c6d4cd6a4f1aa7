package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/classdiagram/pkg/render/plantuml"
)

// exportCommand runs PlantUML on descriptions written earlier.
func (c *CLI) exportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <file.puml>...",
		Short: "Render descriptions with PlantUML",
		Long: `Render existing PlantUML descriptions to images with java -jar plantuml.jar.

The renderer is configured in the [plantuml] section of the config file or with
CLASSDIAGRAM_JAVA and CLASSDIAGRAM_PLANTUML_JAR.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := plantuml.ValidateFormat(format); err != nil {
				return err
			}
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			failed := 0
			for _, path := range args {
				spinner := newSpinnerWithContext(ctx, "Exporting "+path+"...")
				spinner.Start()
				out, err := runner.Export(ctx, path, format)
				if err != nil {
					spinner.StopWithError(err.Error())
					failed++
					continue
				}
				spinner.StopWithSuccess("Exported " + path)
				printFile(out)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d exports failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: "+fmt.Sprint(plantuml.Formats))

	return cmd
}
