package main

import "github.com/spf13/cobra"

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "framemill",
		Short:         "Apply a fixed battery of image transforms to a video file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")

	root.AddCommand(newProcessCommand(&configPath))
	root.AddCommand(newRunsCommand(&configPath))
	return root
}
