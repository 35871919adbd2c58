package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"taskdesk/internal/api"
	"taskdesk/internal/config"
	"taskdesk/internal/format"
)

func newTasksCmd(cfg *config.Config) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks from a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			client := api.NewClient(cfg.APIURL)
			resp, err := client.ListTasks(ctx)
			if err != nil {
				return err
			}

			var formatter format.Formatter = format.TaskTableFormatter{}
			if jsonOutput {
				formatter = format.JSONFormatter{}
			}
			return formatter.Write(cmd.OutOrStdout(), resp.Tasks)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output JSON")
	return cmd
}
