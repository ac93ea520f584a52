package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewAppCmd создаёт группу команд для управления регистрациями приложений.
func NewAppCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "app",
		Short: "Manage app registrations",
	}

	cmd.AddCommand(
		newAppListCmd(clientFn, outputFn),
		newAppRegisterCmd(clientFn, outputFn),
	)

	return cmd
}

var appHeaders = []string{"NAME", "TYPE", "VERSION", "DEFAULT", "URI"}

func appRow(a AppResponse) []string {
	return []string{a.Name, a.Type, a.Version, strconv.FormatBool(a.IsDefault), a.URI}
}

func newAppListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var appType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List app registrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			apps, err := client.ListApps(appType)
			if err != nil {
				return err
			}

			rows := make([][]string, len(apps))
			for i, a := range apps {
				rows[i] = appRow(a)
			}

			out.Print(appHeaders, rows, apps)
			return nil
		},
	}

	cmd.Flags().StringVar(&appType, "type", "", "Filter by type (app or task)")

	return cmd
}

func newAppRegisterCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var req RegisterAppRequest

	cmd := &cobra.Command{
		Use:   "register NAME",
		Short: "Register an app version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req.Name = args[0]
			app, err := client.RegisterApp(req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("App registered: %s:%s@%s", app.Type, app.Name, app.Version))
			out.Print(appHeaders, [][]string{appRow(*app)}, app)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Type, "type", "task", "App type (app or task)")
	cmd.Flags().StringVar(&req.Version, "version", "", "Version (required)")
	cmd.Flags().StringVar(&req.URI, "uri", "", "Artifact URI (required)")
	cmd.Flags().BoolVar(&req.IsDefault, "default", false, "Make this version the default")
	cmd.MarkFlagRequired("version")
	cmd.MarkFlagRequired("uri")

	return cmd
}
