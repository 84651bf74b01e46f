package cli

import (
	"github.com/spf13/cobra"
)

// NewStatusCmd создаёт команду проверки доступности API.
func NewStatusCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check API availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.Ping(); err != nil {
				return err
			}

			out.Success("API is up")
			if out.jsonMode {
				out.JSON(map[string]string{"status": "ok"})
			}
			return nil
		},
	}
}
