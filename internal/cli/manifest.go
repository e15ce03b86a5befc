package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"huskers-schedule/internal/pipeline"
	"huskers-schedule/internal/stadium"
	"huskers-schedule/internal/store"
	"huskers-schedule/internal/ui"
)

// NewManifestCmd creates the command that builds the stadium image manifest.
func NewManifestCmd() *cobra.Command {
	var common commonFlags

	cmd := &cobra.Command{
		Use:   "stadium-manifest",
		Short: "Report which stadium images exist for the scraped schedule",
		Long: `Read the scraped schedule, derive one slug per venue and look for
<stadium-dir>/<slug>.jpg, .png or .webp. Writes data/stadium_manifest.json and
STADIUMS.md.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := common.setup(cmd)
			if err != nil {
				return err
			}

			stringFlag(cmd, "input", &cfg.Manifest.Input)
			stringFlag(cmd, "stadium-dir", &cfg.Manifest.StadiumDir)
			stringFlag(cmd, "out", &cfg.Manifest.Output)
			stringFlag(cmd, "markdown", &cfg.Manifest.Markdown)
			stringFlag(cmd, "bucket", &cfg.Manifest.Bucket)

			var images stadium.ImageLookup
			if cfg.Manifest.Bucket != "" {
				gcs, err := store.NewGCS(cmd.Context(), cfg.Manifest.Bucket, cfg.Manifest.StadiumDir)
				if err != nil {
					return fmt.Errorf("initializing GCS store: %w", err)
				}
				defer gcs.Close()
				images = gcs
			}

			m, err := pipeline.BuildManifest(pipeline.ManifestOptions{
				Input:      cfg.Manifest.Input,
				StadiumDir: cfg.Manifest.StadiumDir,
				Output:     cfg.Manifest.Output,
				Markdown:   cfg.Manifest.Markdown,
			}, images)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderManifestSummary(m))
			return nil
		},
	}

	common.register(cmd)
	cmd.Flags().String("input", "data/huskers_schedule.json", "scraped schedule JSON")
	cmd.Flags().String("stadium-dir", "stadiums", "directory (or bucket prefix) holding stadium images")
	cmd.Flags().String("out", "data/stadium_manifest.json", "manifest JSON path")
	cmd.Flags().String("markdown", "STADIUMS.md", "markdown status table path")
	cmd.Flags().String("bucket", "", "check this Cloud Storage bucket instead of the local directory")

	return cmd
}

func renderManifestSummary(m *stadium.Manifest) string {
	rows := make([][]string, 0, len(m.Missing)+len(m.Found))
	for _, v := range m.Missing {
		rows = append(rows, []string{v.Slug, "missing", "0"})
	}
	for _, v := range m.Found {
		rows = append(rows, []string{v.Slug, "found", strconv.Itoa(len(v.FilesPresent))})
	}
	return ui.RenderTable([]string{"Slug", "Status", "Files"}, rows, []ui.Alignment{ui.AlignLeft, ui.AlignLeft, ui.AlignRight})
}
