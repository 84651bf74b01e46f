// Bindsheet CLI — инструмент командной строки для работы
// с таблицами Smartsheet и выгрузкой счетов через HTTP API.
//
// Использование:
//
//	bindsheet [--api-url URL] [--json] <command> [flags]
//
// Команды:
//
//	status    Проверка доступности API
//	sheet     Просмотр таблиц Smartsheet
//	config    Просмотр контрольной таблицы
//	jobs      Расписание компаний
//	invoices  Выгрузка счетов (без записи)
//	push      Фоновая выгрузка с записью в целевые таблицы
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Bindsheet/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "bindsheet",
		Short:         "Bindsheet CLI — Smartsheet to Bind ERP bridge tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewStatusCmd(clientFn, outputFn),
		cli.NewSheetCmd(clientFn, outputFn),
		cli.NewConfigCmd(clientFn, outputFn),
		cli.NewJobsCmd(clientFn, outputFn),
		cli.NewInvoicesCmd(clientFn, outputFn),
		cli.NewPushCmd(clientFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
