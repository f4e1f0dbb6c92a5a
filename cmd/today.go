package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/leetreview/internal/api"
	"github.com/abhisek/leetreview/internal/app"
	"github.com/abhisek/leetreview/internal/spacedrep"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's review queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeStore, err := openTracker()
		if err != nil {
			return err
		}
		defer closeStore()

		q, err := svc.Today(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, api.NewTodayResponse(q))
		}

		w := cmd.OutOrStdout()
		now := svc.Now().In(svc.Location())
		if q.Len() == 0 {
			fmt.Fprintln(w, "Nothing to review today.")
			return nil
		}
		if len(q.Due) > 0 {
			fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Due (%d)", len(q.Due))))
			printProblems(w, q.Due, now)
		}
		if len(q.New) > 0 {
			if len(q.Due) > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("New (%d)", len(q.New))))
			printProblems(w, q.New, now)
		}
		return nil
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Work through today's queue interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeStore, err := openTracker()
		if err != nil {
			return err
		}
		defer closeStore()

		m, err := app.Run(cmd.Context(), svc)
		if err != nil {
			return err
		}

		counts := m.Counts()
		fmt.Fprintf(cmd.OutOrStdout(), "Reviewed %d problems:", m.Reviewed())
		for _, o := range spacedrep.Outcomes {
			if counts[o] > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), " %s %d", o, counts[o])
			}
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}
