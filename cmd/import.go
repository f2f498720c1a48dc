package cmd

import (
	"fmt"
	"os"

	"github.com/abhisek/ptenav/internal/exercise"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the exercise set with a JSON or YAML bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		f := exercise.FormatFromPath(args[0])
		switch format {
		case "":
		case string(exercise.FormatJSON), string(exercise.FormatYAML):
			f = exercise.Format(format)
		default:
			return fmt.Errorf("unknown format %q (want json or yaml)", format)
		}

		res, err := exercise.ParseImport(data, f)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		for _, w := range res.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
		}
		if err := e.ws.Import(ctxOf(cmd), res); err != nil {
			return fmt.Errorf("save exercises: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Imported %d exercises", len(res.Exercises))
		if r := res.Resources; r != nil {
			fmt.Fprintf(out, " with %d key terms and %d error patterns", len(r.KeyTerms), len(r.ErrorPatterns))
		}
		fmt.Fprintln(out, ".")
		return nil
	},
}

func init() {
	importCmd.Flags().String("format", "", "Input format: json or yaml (default: from the file extension)")
}
