package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/framemill/framemill/internal/config"
	"github.com/framemill/framemill/internal/history"
)

func newRunsCommand(configPath *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded processing runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			store, err := history.Open(cfg.StateDir)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}

			t := table.NewWriter()
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Started", "Source", "State", "Frames", "Mean FPS"})
			for _, r := range runs {
				t.AppendRow(table.Row{
					r.StartedAt.Local().Format(time.DateTime),
					r.Source,
					r.State,
					fmt.Sprintf("%d/%d", r.FramesProcessed, r.TotalFrames),
					fmt.Sprintf("%.2f", r.MeanFPS),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")
	return cmd
}
