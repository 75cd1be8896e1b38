package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/webgov/harvester/internal/export"
)

func newExportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Exports the harvest dataset as an Excel workbook",

		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			csvPath := appInstance.Config.Output.DatasetPath
			if outPath == "" {
				outPath = strings.TrimSuffix(csvPath, ".csv") + ".xlsx"
			}
			return export.XLSX(csvPath, outPath, appInstance.Logger)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "workbook path (default: dataset path with .xlsx)")
	return cmd
}
