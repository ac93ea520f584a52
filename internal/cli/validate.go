package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrInvalidApps возвращается validate --strict, если есть невалидные приложения.
var ErrInvalidApps = errors.New("task definition references invalid apps")

// NewValidateCmd создаёт команду проверки определения задачи.
func NewValidateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate NAME",
		Short: "Validate apps referenced by a task definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			status, err := client.ValidateTask(args[0])
			if err != nil {
				var apiErr *APIError
				if errors.As(err, &apiErr) && apiErr.Retryable {
					out.Error("validation timed out, retry later")
				}
				return err
			}

			out.Success(fmt.Sprintf("Task %s: %s", status.DefinitionName, status.DefinitionDSL))

			headers := []string{"ROLE", "APP", "TYPE", "VERSION", "STATUS", "STATE"}
			rows := make([][]string, len(status.AppDetails))
			for i, d := range status.AppDetails {
				rows[i] = []string{d.Role, d.App, d.Type, d.Qualifier, d.Status, d.State}
			}
			out.Print(headers, rows, status)

			if strict && !status.IsValid() {
				return ErrInvalidApps
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with error if any app is invalid")

	return cmd
}
