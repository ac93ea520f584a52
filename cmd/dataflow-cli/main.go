// Dataflow CLI — инструмент командной строки для проверки определений задач
// и управления регистрациями приложений через HTTP API.
//
// Использование:
//
//	dataflow [--api-url URL] [--json] <command> [subcommand] [flags]
//
// Команды:
//
//	validate    Проверить приложения определения задачи
//	definition  Управление определениями задач
//	app         Управление регистрациями приложений
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Dataflow/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "dataflow",
		Short:         "Dataflow CLI — task definition validation tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultURL := "http://localhost:8080"
	if v := os.Getenv("DATAFLOW_API_URL"); v != "" {
		defaultURL = v
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", defaultURL, "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewValidateCmd(clientFn, outputFn),
		cli.NewDefinitionCmd(clientFn, outputFn),
		cli.NewAppCmd(clientFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
