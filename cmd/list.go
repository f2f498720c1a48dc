package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/ptenav/internal/navigation"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the imported exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		typeFlag, _ := cmd.Flags().GetString("type")
		search, _ := cmd.Flags().GetString("search")

		exType, err := navigation.ParseType(typeFlag)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		list := navigation.Apply(e.ws.Exercises(), navigation.Filter{Type: exType, Search: search})
		if len(list) == 0 {
			if len(e.ws.Exercises()) == 0 {
				fmt.Fprintln(out, "No exercises loaded. Use 'ptenav import <file>' to add some.")
			} else {
				fmt.Fprintln(out, "No exercises match the filter.")
			}
			return nil
		}

		st := e.ws.Stats()
		fmt.Fprintf(out, "%-16s  %-14s  %-10s  %6s  %4s  %s\n",
			"ID", "Type", "Difficulty", "Blanks", "Done", "Title")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for _, ex := range list {
			done := ""
			if st.IsCompleted(ex.ID) {
				done = "✓"
			}
			fmt.Fprintf(out, "%-16s  %-14s  %-10s  %6d  %4s  %s\n",
				truncate(ex.ID, 16), ex.Type.Label(), ex.DifficultyLabel(), len(ex.Blanks), done, ex.Title)
		}
		fmt.Fprintf(out, "\n%d of %d exercises\n", len(list), len(e.ws.Exercises()))
		return nil
	},
}

func init() {
	listCmd.Flags().StringP("type", "t", "", "Only list one exercise type (fib, dnd or all)")
	listCmd.Flags().StringP("search", "s", "", "Case-insensitive match on title or id")
}
