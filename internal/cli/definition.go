package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// NewDefinitionCmd создаёт группу команд для управления определениями задач.
func NewDefinitionCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "definition",
		Aliases: []string{"def"},
		Short:   "Manage task definitions",
	}

	cmd.AddCommand(
		newDefinitionListCmd(clientFn, outputFn),
		newDefinitionCreateCmd(clientFn, outputFn),
		newDefinitionShowCmd(clientFn, outputFn),
	)

	return cmd
}

func definitionRow(d DefinitionResponse) []string {
	return []string{d.Name, d.DSL, d.Description, d.CreatedAt}
}

var definitionHeaders = []string{"NAME", "DSL", "DESCRIPTION", "CREATED"}

func newDefinitionListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List task definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			defs, err := client.ListDefinitions()
			if err != nil {
				return err
			}

			rows := make([][]string, len(defs))
			for i, d := range defs {
				rows[i] = definitionRow(d)
			}

			out.Print(definitionHeaders, rows, defs)
			return nil
		},
	}
}

func newDefinitionCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var (
		dsl         string
		dslFile     string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a task definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if dslFile != "" {
				data, err := os.ReadFile(dslFile)
				if err != nil {
					return fmt.Errorf("failed to read dsl file: %w", err)
				}
				dsl = string(data)
			}
			if strings.TrimSpace(dsl) == "" {
				return fmt.Errorf("either --dsl or --dsl-file is required")
			}

			def, err := client.CreateDefinition(CreateDefinitionRequest{
				Name:        args[0],
				DSL:         dsl,
				Description: description,
			})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Task definition created: %s", def.Name))
			out.Print(definitionHeaders, [][]string{definitionRow(*def)}, def)
			return nil
		},
	}

	cmd.Flags().StringVar(&dsl, "dsl", "", "Task definition DSL")
	cmd.Flags().StringVar(&dslFile, "dsl-file", "", "Path to file with task definition DSL")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.MarkFlagsMutuallyExclusive("dsl", "dsl-file")

	return cmd
}

func newDefinitionShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show task definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			def, err := client.GetDefinition(args[0])
			if err != nil {
				return err
			}

			out.Details([][2]string{
				{"Name", def.Name},
				{"DSL", def.DSL},
				{"Description", def.Description},
				{"Created", def.CreatedAt},
			}, def)
			return nil
		},
	}
}
