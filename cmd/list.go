package main

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Prints the stored movie records.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		ctx := cmd.Context()

		movies, err := openStore(ctx, cfg.Store, log)
		if err != nil {
			return err
		}
		defer closeStore(movies)

		all, err := movies.List(ctx, listLimit)
		if err != nil {
			return err
		}
		total, err := movies.Count(ctx)
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Title", "Link"})
		for _, m := range all {
			t.AppendRow(table.Row{m.ID, m.Title, m.Link})
		}
		t.AppendFooter(table.Row{"", "Total movies in database", total})
		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of records to print (0 = all)")
	rootCmd.AddCommand(listCmd)
}
