package cmd

import (
	"fmt"

	"github.com/abhisek/ptenav/internal/stats"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		st := e.ws.Stats()
		out := cmd.OutOrStdout()

		completed := 0
		for _, ex := range e.ws.Exercises() {
			if st.IsCompleted(ex.ID) {
				completed++
			}
		}
		avg := "–"
		if st.TotalAttempts > 0 {
			avg = fmt.Sprintf("%d%%", st.AverageScore())
		}
		lastVisit := st.LastLoginDate
		if lastVisit == "" {
			lastVisit = "never"
		}

		fmt.Fprintf(out, "Completed:       %d/%d\n", completed, len(e.ws.Exercises()))
		fmt.Fprintf(out, "Average score:   %s\n", avg)
		fmt.Fprintf(out, "Scored attempts: %d\n", st.TotalAttempts)
		fmt.Fprintf(out, "Daily streak:    %d\n", st.DailyStreak)
		fmt.Fprintf(out, "Study time:      %s\n", stats.FormatStudyTime(e.ws.Clock().Total))
		fmt.Fprintf(out, "Last visit:      %s\n", lastVisit)
		return nil
	},
}
