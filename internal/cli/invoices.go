package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

// NewInvoicesCmd создаёт команду выгрузки счетов (без записи).
func NewInvoicesCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var company string

	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "Fetch invoice counts from Bind ERP",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			results, err := client.FetchInvoices(company)
			if err != nil {
				return err
			}

			ids := make([]string, 0, len(results))
			for id := range results {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			headers := []string{"COMPANY", "CLIENT", "INVOICES", "ERROR"}
			rows := make([][]string, len(ids))
			for i, id := range ids {
				res := results[id]
				rows[i] = []string{id, res.Client, strconv.Itoa(res.Count), res.Error}
			}

			out.Print(headers, rows, results)
			return nil
		},
	}

	cmd.Flags().StringVar(&company, "company", "", "Limit to one company ID")

	return cmd
}

// NewPushCmd создаёт команду фоновой выгрузки с записью в целевые таблицы.
func NewPushCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var company string

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Start a background fetch-and-push sync",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			resp, err := client.Push(company)
			if err != nil {
				return err
			}

			if resp.Company != "" {
				out.Success(fmt.Sprintf("Push accepted for company %s", resp.Company))
			} else {
				out.Success("Push accepted for all companies")
			}

			if out.jsonMode {
				out.JSON(resp)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&company, "company", "", "Limit to one company ID")

	return cmd
}
