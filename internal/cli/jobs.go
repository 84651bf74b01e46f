package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewJobsCmd создаёт команду просмотра расписания компаний.
func NewJobsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "Show company schedule (next runs and due state)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			resp, err := client.ListJobs()
			if err != nil {
				return err
			}

			headers := []string{"COMPANY", "CLIENT", "INTERVAL_MIN", "TIMEZONE", "LAST_RUN", "NEXT_RUN", "DUE"}
			rows := make([][]string, len(resp.Jobs))
			for i, j := range resp.Jobs {
				rows[i] = []string{
					j.CompanyID,
					j.Client,
					strconv.FormatFloat(j.IntervalMinutes, 'f', -1, 64),
					j.Timezone,
					j.LastRun,
					j.NextRun,
					strconv.FormatBool(j.Due),
				}
			}

			out.Print(headers, rows, resp)

			for _, msg := range resp.Errors {
				out.Errorf("row error: %s", msg)
			}
			return nil
		},
	}
}
