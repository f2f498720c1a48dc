package cmd

import (
	"fmt"
	"os"

	"github.com/abhisek/ptenav/internal/workspace"
	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore <backup.json>",
	Short: "Restore exercises, stats and settings from a backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		backup, err := workspace.ParseBackup(data)
		if err != nil {
			return err
		}

		if !yes && !confirm(cmd, fmt.Sprintf("Replace all current data with the backup from %s?",
			backup.Timestamp.Local().Format("2006-01-02 15:04"))) {
			fmt.Fprintln(cmd.OutOrStdout(), "Restore cancelled.")
			return nil
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.ws.Restore(ctxOf(cmd), backup); err != nil {
			return fmt.Errorf("restore: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored %d exercises (backup format %s).\n", len(backup.Exercises), backup.Version)
		return nil
	},
}

func init() {
	restoreCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
