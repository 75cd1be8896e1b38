package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/webgov/harvester/internal/schema"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Prints the dataset schemas as JSON",

		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := json.MarshalIndent(schema.All(), "", "  ")
			if err != nil {
				return fmt.Errorf("marshal schemas: %w", err)
			}
			cmd.Println(string(out))
			return nil
		},
	}
}
