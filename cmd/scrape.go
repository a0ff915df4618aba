package main

import (
	"os"

	"archive-scraper/internal/browser"
	"archive-scraper/internal/prompt"
	"archive-scraper/internal/scraper"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	scrapeYear     string
	scrapeMonth    string
	scrapeHeadless bool
	scrapeDryRun   bool
	scrapeWait     bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--year YYYY --month MM]",
	Short: "Saves every title/link pair of one month archive.",
	Long: `Opens the month archive, reads the page count from the pagination and saves
every listing entry whose link is not stored yet. Year and month are asked for
interactively when the matching flag is not given.`,
	Example: `  archive-scraper scrape
  archive-scraper scrape --year 2026 --month 1
  archive-scraper scrape --year 2026 --month 01 --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if scrapeDryRun {
			cfg.Store.Driver = "memory"
		}
		if err := applyBrowserFlags(cmd, scrapeHeadless); err != nil {
			return err
		}
		ctx := cmd.Context()

		execPath, err := browserPath()
		if err != nil {
			return err
		}

		// Input is read before the browser starts.
		ask := prompt.New(os.Stdin, os.Stdout)
		period, err := ask.Period(scrapeYear, scrapeMonth)
		if err != nil {
			return err
		}

		movies, err := openStore(ctx, cfg.Store, log)
		if err != nil {
			return err
		}
		defer closeStore(movies)

		session, err := browser.NewSession(cfg.Browser, execPath, log)
		if err != nil {
			return err
		}
		defer func() {
			log.Info().Msg("closing browser")
			session.Close()
		}()

		summary, runErr := scraper.New(session, movies, cfg.Site.BaseURL, log).Run(ctx, period)
		printSummary(summary)

		if scrapeWait {
			ask.WaitForEnter("The browser will remain open. Press Enter in this terminal to close it.")
		}
		return runErr
	},
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeYear, "year", "", "archive year, 4 digits")
	scrapeCmd.Flags().StringVar(&scrapeMonth, "month", "", "archive month, 1-12")
	scrapeCmd.Flags().BoolVar(&scrapeHeadless, "headless", true, "run the browser without a window")
	scrapeCmd.Flags().BoolVar(&scrapeDryRun, "dry-run", false, "keep results in memory instead of the configured store")
	scrapeCmd.Flags().BoolVar(&scrapeWait, "wait", false, "keep the browser open until Enter is pressed")
	rootCmd.AddCommand(scrapeCmd)
}

func printSummary(s *scraper.Summary) {
	if s == nil {
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Archive " + s.Period.String())
	t.AppendHeader(table.Row{"Pages", "Found", "New", "Existing", "Failed", "Total in database"})
	t.AppendRow(table.Row{s.Scraped, s.Found, s.Inserted, s.Existing, s.Failed, s.Total})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
