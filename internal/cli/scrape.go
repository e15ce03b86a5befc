package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"huskers-schedule/internal/cache"
	"huskers-schedule/internal/model"
	"huskers-schedule/internal/pipeline"
	"huskers-schedule/internal/scraper"
	"huskers-schedule/internal/ui"
)

// NewScrapeCmd creates the command that scrapes the schedule page.
func NewScrapeCmd() *cobra.Command {
	var common commonFlags

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape the Huskers football schedule into JSON",
		Long: `Fetch the Nebraska football schedule page and write every listed game
to data/huskers_schedule.json. The static strategy parses the served HTML;
the browser strategy renders the page in headless Chrome first so lazy-loaded
logos resolve.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := common.setup(cmd)
			if err != nil {
				return err
			}

			stringFlag(cmd, "strategy", &cfg.Scrape.Strategy)
			stringFlag(cmd, "url", &cfg.Scrape.SourceURL)
			stringFlag(cmd, "out", &cfg.Scrape.Output)
			stringFlag(cmd, "cache-ttl", &cfg.Scrape.CacheTTL)
			stringFlag(cmd, "chrome-path", &cfg.Scrape.ChromePath)
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.ScrapeTimeout())
			defer cancel()

			registry := scraper.NewRegistry()
			registry.Register(scraper.NewStaticScraper(cfg.Scrape.SourceURL))
			browser := scraper.NewBrowserScraper(cfg.Scrape.SourceURL, cfg.Scrape.ChromePath)
			if cfg.Scrape.Strategy == browser.Name() && ui.IsTerminal(os.Stderr) {
				browser.SetProgress(ui.NewScrollProgress(os.Stderr, "scroll"))
			}
			registry.Register(browser)

			s, ok := registry.Get(cfg.Scrape.Strategy)
			if !ok {
				return fmt.Errorf("unknown strategy %q (have %v)", cfg.Scrape.Strategy, registry.Names())
			}

			if ttl := cfg.CacheTTL(); ttl > 0 {
				c := cache.New(cfg.Scrape.CacheDir, ttl)
				if refresh, _ := cmd.Flags().GetBool("refresh"); refresh {
					if err := c.Invalidate(scraper.CacheKey(s)); err != nil {
						return err
					}
				}
				s = scraper.WithCache(s, c)
			}

			schedule, err := pipeline.Scrape(ctx, s, cfg.Scrape.Output, time.Now())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderGames(schedule.Games))
			return nil
		},
	}

	common.register(cmd)
	cmd.Flags().String("strategy", "static", "scrape strategy: static or browser")
	cmd.Flags().String("url", scraper.SourceURL, "schedule page URL")
	cmd.Flags().String("out", "data/huskers_schedule.json", "output JSON path")
	cmd.Flags().String("cache-ttl", "0s", "reuse a cached scrape younger than this (0 disables)")
	cmd.Flags().String("chrome-path", "", "Chrome executable for the browser strategy")
	cmd.Flags().Bool("refresh", false, "drop the cached scrape for this strategy and URL before fetching")

	return cmd
}

func renderGames(games []model.Game) string {
	rows := make([][]string, 0, len(games))
	for _, g := range games {
		result := ""
		if g.Result != nil {
			result = g.Result.Outcome
			if g.Result.Score != nil {
				result += " " + *g.Result.Score
			}
		} else if g.Kickoff != nil {
			result = *g.Kickoff
		}
		rows = append(rows, []string{
			value(g.DateText),
			value(g.DividerText),
			value(g.OpponentName),
			string(g.Status),
			result,
		})
	}
	return ui.RenderTable([]string{"Date", "", "Opponent", "Status", "Result"}, rows, nil)
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
