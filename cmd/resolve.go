package main

import (
	"errors"
	"os"

	"archive-scraper/internal/browser"
	"archive-scraper/internal/prompt"
	"archive-scraper/internal/resolver"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	resolveFromStore bool
	resolveLimit     int
	resolveOpenFinal bool
	resolveHeadless  bool
	resolveWait      bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [post-url...]",
	Short: "Follows archive posts through their redirect pages to the final download link.",
	Example: `  archive-scraper resolve https://links.modpro.blog/archives/147034
  archive-scraper resolve --from-store --limit 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !resolveFromStore {
			return errors.New("give at least one post url or --from-store")
		}
		if cmd.Flags().Changed("open-final") {
			cfg.Resolver.OpenFinal = resolveOpenFinal
		}
		if err := applyBrowserFlags(cmd, resolveHeadless); err != nil {
			return err
		}
		ctx := cmd.Context()

		execPath, err := browserPath()
		if err != nil {
			return err
		}

		posts := args
		if resolveFromStore {
			movies, err := openStore(ctx, cfg.Store, log)
			if err != nil {
				return err
			}
			stored, err := movies.List(ctx, resolveLimit)
			closeStore(movies)
			if err != nil {
				return err
			}
			for _, m := range stored {
				posts = append(posts, m.Link)
			}
		}

		session, err := browser.NewSession(cfg.Browser, execPath, log)
		if err != nil {
			return err
		}
		defer func() {
			log.Info().Msg("closing browser")
			session.Close()
		}()

		r := resolver.New(session, resolver.Options{
			StepDelay: cfg.Resolver.StepDelay,
			OpenFinal: cfg.Resolver.OpenFinal,
		}, log)
		resolved := r.ResolveAll(ctx, posts)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Post", "Final download link"})
		for _, res := range resolved {
			t.AppendRow(table.Row{res.PostURL, res.FinalURL})
		}
		t.AppendFooter(table.Row{"Resolved", len(resolved)})
		t.SetStyle(table.StyleRounded)
		t.Render()

		if resolveWait {
			prompt.New(os.Stdin, os.Stdout).WaitForEnter("The browser will remain open. Press Enter to close it.")
		}
		if len(resolved) < len(posts) {
			return errors.New("some posts could not be resolved")
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveFromStore, "from-store", false, "resolve links saved in the store")
	resolveCmd.Flags().IntVar(&resolveLimit, "limit", 0, "maximum number of stored links to resolve (0 = all)")
	resolveCmd.Flags().BoolVar(&resolveOpenFinal, "open-final", true, "navigate to the final link once found")
	resolveCmd.Flags().BoolVar(&resolveHeadless, "headless", true, "run the browser without a window")
	resolveCmd.Flags().BoolVar(&resolveWait, "wait", false, "keep the browser open until Enter is pressed")
	rootCmd.AddCommand(resolveCmd)
}
