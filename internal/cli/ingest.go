package cli

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"huskers-schedule/internal/firestore"
	"huskers-schedule/internal/pipeline"
	"huskers-schedule/internal/stadium"
	"huskers-schedule/internal/store"
	"huskers-schedule/internal/ui"
)

// NewIngestCmd creates the command that publishes a scraped schedule to
// Firestore and mirrors stadium images to Cloud Storage.
func NewIngestCmd() *cobra.Command {
	var common commonFlags

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Publish the scraped schedule to Firestore",
		Long: `Replace the stored games of the configured source with the scraped
schedule. When a bucket is configured, stadium images found locally are
uploaded to it as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := common.setup(cmd)
			if err != nil {
				return err
			}

			input := cfg.Manifest.Input
			stringFlag(cmd, "input", &input)
			stringFlag(cmd, "stadium-dir", &cfg.Manifest.StadiumDir)
			stringFlag(cmd, "project", &cfg.Publish.ProjectID)
			stringFlag(cmd, "collection", &cfg.Publish.Collection)
			stringFlag(cmd, "source", &cfg.Publish.Source)
			stringFlag(cmd, "bucket", &cfg.Publish.Bucket)

			if cfg.Publish.ProjectID == "" {
				return fmt.Errorf("GCP project is required (--project or GCP_PROJECT_ID)")
			}

			schedule, err := pipeline.LoadSchedule(input)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.PublishTimeout())
			defer cancel()

			fsClient, err := firestore.New(ctx, cfg.Publish.ProjectID, cfg.Publish.Collection)
			if err != nil {
				return err
			}
			defer fsClient.Close()
			slog.Info("firestore ready", "project", cfg.Publish.ProjectID, "collection", cfg.Publish.Collection)

			batchID := uuid.NewString()
			if err := pipeline.PublishGames(ctx, fsClient, cfg.Publish.Source, schedule, batchID); err != nil {
				return err
			}

			if cfg.Publish.Bucket != "" {
				gcs, err := store.NewGCS(ctx, cfg.Publish.Bucket, cfg.Publish.Prefix)
				if err != nil {
					return fmt.Errorf("initializing GCS store: %w", err)
				}
				defer gcs.Close()

				local := store.NewLocal(cfg.Manifest.StadiumDir)
				m := stadium.Build(input, cfg.Manifest.StadiumDir, schedule.Games, local)
				n, err := pipeline.PublishImages(ctx, m, local, gcs)
				if err != nil {
					return err
				}
				slog.Info("uploaded stadium images", "bucket", cfg.Publish.Bucket, "count", n)
			}

			counts, err := fsClient.CountBySource(ctx)
			if err != nil {
				return fmt.Errorf("counting stored games: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderCounts(counts))
			return nil
		},
	}

	common.register(cmd)
	cmd.Flags().String("input", "data/huskers_schedule.json", "scraped schedule JSON")
	cmd.Flags().String("stadium-dir", "stadiums", "local stadium image directory")
	cmd.Flags().String("project", "", "GCP project ID")
	cmd.Flags().String("collection", "games", "Firestore collection")
	cmd.Flags().String("source", "huskers-football", "source name the games are stored under")
	cmd.Flags().String("bucket", "", "Cloud Storage bucket for stadium images")

	return cmd
}

func renderCounts(counts map[string]int) string {
	sources := make([]string, 0, len(counts))
	for s := range counts {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	total := 0
	rows := make([][]string, 0, len(sources)+1)
	for _, s := range sources {
		rows = append(rows, []string{s, strconv.Itoa(counts[s])})
		total += counts[s]
	}
	rows = append(rows, []string{"TOTAL", strconv.Itoa(total)})

	return ui.RenderTable([]string{"Source", "Games"}, rows, []ui.Alignment{ui.AlignLeft, ui.AlignRight})
}
