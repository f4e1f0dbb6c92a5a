package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/leetreview/internal/api"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show review statistics and weak tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeStore, err := openTracker()
		if err != nil {
			return err
		}
		defer closeStore()

		st, err := svc.Stats(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, api.NewStatsResponse(st))
		}

		w := cmd.OutOrStdout()
		row := func(label string, v int) {
			fmt.Fprintf(w, "%-22s %d\n", label, v)
		}
		row("Problems", st.TotalProblems)
		row("Due today", st.DueToday)
		row("Overdue", st.Overdue)
		row("Attempts (7 days)", st.AttemptsLast7Days)
		row("Attempts (30 days)", st.AttemptsLast30Days)

		if len(st.WeakTags) == 0 {
			return nil
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-20s  %-8s  %s", "Weak tag", "Attempts", "Fail rate")))
		printRule(w)
		for _, t := range st.WeakTags {
			fmt.Fprintf(w, "%-20s  %-8d  %.0f%%\n", t.Tag, t.TotalAttempts, t.FailRate*100)
		}
		return nil
	},
}
