package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"taskdesk/internal/api"
	"taskdesk/internal/config"
)

type seedFile struct {
	Tasks []seedTask `yaml:"tasks"`
}

type seedTask struct {
	Title       string           `yaml:"title"`
	Description string           `yaml:"description"`
	Status      string           `yaml:"status"`
	Files       []seedAttachment `yaml:"files"`
}

type seedAttachment struct {
	Name        string `yaml:"name"`
	Content     string `yaml:"content"`
	Description string `yaml:"description"`
}

// newSeedCmd loads demo tasks and attachments from a YAML file into a
// running server via the HTTP API.
func newSeedCmd(cfg *config.Config) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "seed <file>",
		Short: "Load demo tasks from a YAML file into a running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var seed seedFile
			if err := yaml.Unmarshal(raw, &seed); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			if len(seed.Tasks) == 0 {
				return fmt.Errorf("%s contains no tasks", args[0])
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			client := api.NewClient(cfg.APIURL)
			if err := client.Ping(ctx); err != nil {
				return fmt.Errorf("server not reachable at %s: %w", cfg.APIURL, err)
			}

			for _, task := range seed.Tasks {
				req := api.TaskCreateRequest{}
				if task.Title != "" {
					req.Title = &task.Title
				}
				if task.Description != "" {
					req.Description = &task.Description
				}
				if task.Status != "" {
					req.Status = &task.Status
				}

				resp, err := client.CreateTask(ctx, req)
				if err != nil {
					return fmt.Errorf("create task %q: %w", task.Title, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created task %s (%s)\n", resp.Task.TaskID, resp.Task.Title)

				for _, att := range task.Files {
					upload := api.FileUploadRequest{
						FileName:    att.Name,
						FileContent: base64.StdEncoding.EncodeToString([]byte(att.Content)),
						Description: att.Description,
					}
					fileResp, err := client.UploadFile(ctx, resp.Task.TaskID, upload)
					if err != nil {
						return fmt.Errorf("upload %q to task %s: %w", att.Name, resp.Task.TaskID, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "  uploaded %s (%s)\n", fileResp.File.FileName, fileResp.File.FileID)
				}
			}

			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall seed timeout")
	return cmd
}
