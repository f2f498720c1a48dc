package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/abhisek/ptenav/internal/store"
	"github.com/abhisek/ptenav/internal/workbook"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a full backup as JSON, optionally also as an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, _ := cmd.Flags().GetString("out")
		xlsxPath, _ := cmd.Flags().GetString("xlsx")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		backup := e.ws.Export()
		data, err := json.MarshalIndent(backup, "", "  ")
		if err != nil {
			return fmt.Errorf("encode backup: %w", err)
		}
		data = append(data, '\n')

		switch {
		case outPath != "":
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", outPath)
		case xlsxPath == "":
			if _, err := cmd.OutOrStdout().Write(data); err != nil {
				return fmt.Errorf("write backup: %w", err)
			}
		}

		if xlsxPath == "" {
			return nil
		}
		attempts, err := e.ws.Events().QueryAttempts(ctxOf(cmd), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}
		f, err := os.Create(xlsxPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", xlsxPath, err)
		}
		if err := workbook.Write(f, backup, attempts); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", xlsxPath, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Workbook written to %s\n", xlsxPath)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Write the JSON backup to this file instead of stdout")
	exportCmd.Flags().String("xlsx", "", "Also write an Excel workbook to this file")
}
