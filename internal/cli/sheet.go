package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSheetCmd создаёт группу команд для просмотра таблиц Smartsheet.
func NewSheetCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Inspect Smartsheet sheets",
	}

	cmd.AddCommand(
		newSheetGetCmd(clientFn, outputFn),
	)

	return cmd
}

func newSheetGetCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "get SHEET_ID",
		Short: "Show a sheet as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			table, err := client.GetSheet(args[0])
			if err != nil {
				return err
			}

			out.Print(table.Header, tableRows(table), table)
			return nil
		},
	}
}

// NewConfigCmd создаёт команду просмотра контрольной таблицы.
func NewConfigCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the control sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			table, err := client.GetConfig()
			if err != nil {
				return err
			}

			out.Print(table.Header, tableRows(table), table)
			return nil
		},
	}
}

// tableRows переводит данные таблицы в строки для tabwriter,
// сохраняя порядок колонок из header.
func tableRows(table *TableResponse) [][]string {
	rows := make([][]string, len(table.Data))
	for i, rec := range table.Data {
		cells := make([]string, len(table.Header))
		for j, col := range table.Header {
			if v := rec[col]; v != nil {
				cells[j] = fmt.Sprintf("%v", v)
			}
		}
		rows[i] = cells
	}
	return rows
}
