package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taskdesk/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "taskdesk",
		Short: "Taskdesk is a demo task-management API with file attachments and auth",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSrvCmd(cfg),
		newSeedCmd(cfg),
		newTasksCmd(cfg),
		newConfigCmd(cfg),
	)

	return cmd
}
