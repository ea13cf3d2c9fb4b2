package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/insights-cli/internal/export"
)

var (
	exportUser string
	exportOut  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a user's unified metrics to an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		unified, err := env.Registry.FetchUnified(ctx, exportUser)
		if err != nil {
			return eris.Wrap(err, "unified fetch")
		}

		if err := export.WriteUnified(exportOut, unified); err != nil {
			return err
		}

		zap.L().Info("exported unified metrics",
			zap.String("user", exportUser),
			zap.String("path", exportOut),
			zap.Int("platforms", len(unified.Platforms)),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportUser, "user", "", "user id (required)")
	exportCmd.Flags().StringVar(&exportOut, "out", "insights.xlsx", "output file path")
	_ = exportCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(exportCmd)
}
