package format

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"taskdesk/internal/models"
)

// Formatter abstracts output formatting.
type Formatter interface {
	Write(w io.Writer, payload any) error
}

// JSONFormatter writes JSON output.
type JSONFormatter struct{}

// Write writes JSON payload to a writer.
func (f JSONFormatter) Write(w io.Writer, payload any) error {
	enc := json.NewEncoder(w)
	return enc.Encode(payload)
}

// TaskTableFormatter writes task lists as a plain text table. Payloads
// that are not task slices fall back to JSON.
type TaskTableFormatter struct{}

func (f TaskTableFormatter) Write(w io.Writer, payload any) error {
	tasks, ok := payload.([]models.Task)
	if !ok {
		return JSONFormatter{}.Write(w, payload)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tCREATED\tTITLE")
	for _, task := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			task.TaskID, task.Status, task.CreatedAt.Format("2006-01-02 15:04"), task.Title)
	}
	return tw.Flush()
}
