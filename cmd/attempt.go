package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/leetreview/internal/api"
	"github.com/abhisek/leetreview/internal/spacedrep"
	"github.com/abhisek/leetreview/internal/tracker"
)

var attemptCmd = &cobra.Command{
	Use:   "attempt <id> <outcome>",
	Short: "Record an attempt: PASS, SHAKY, FAIL, SKIP or POSTPONE",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		outcome, err := spacedrep.ParseOutcome(args[1])
		if err != nil {
			return err
		}

		if outcome == spacedrep.Postpone && (cmd.Flags().Changed("minutes") || cmd.Flags().Changed("notes")) {
			return errors.New("--minutes and --notes are not recorded for POSTPONE")
		}

		in := tracker.AttemptInput{Outcome: outcome}
		in.Notes, _ = cmd.Flags().GetString("notes")
		if cmd.Flags().Changed("minutes") {
			m, _ := cmd.Flags().GetInt("minutes")
			in.TimeSpentMinutes = &m
		}

		svc, closeStore, err := openTracker()
		if err != nil {
			return err
		}
		defer closeStore()

		if outcome == spacedrep.Postpone {
			return postpone(cmd, svc, id)
		}

		a, err := svc.LogAttempt(cmd.Context(), id, in)
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, api.NewAttemptResponse(a))
		}
		d, err := svc.GetProblem(cmd.Context(), id)
		if err != nil {
			return err
		}
		printAttempt(cmd.OutOrStdout(), d.Title, a, svc.Now().In(svc.Location()))
		return nil
	},
}

var postponeCmd = &cobra.Command{
	Use:   "postpone <id>",
	Short: "Push a problem's due date back by one day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		svc, closeStore, err := openTracker()
		if err != nil {
			return err
		}
		defer closeStore()

		return postpone(cmd, svc, id)
	},
}

func postpone(cmd *cobra.Command, svc *tracker.Service, id int) error {
	p, err := svc.Postpone(cmd.Context(), id)
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return printJSON(cmd, api.NewProblemResponse(p))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Postponed #%d %s, now due %s\n",
		p.ID, p.Title, spacedrep.RelativeDue(p.Schedule.NextDueDate, svc.Now().In(svc.Location())))
	return nil
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the attempt log, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := tracker.HistoryOptions{}
		opts.Limit, _ = cmd.Flags().GetInt("limit")
		opts.Offset, _ = cmd.Flags().GetInt("offset")
		opts.Outcome, _ = cmd.Flags().GetString("outcome")

		svc, closeStore, err := openTracker()
		if err != nil {
			return err
		}
		defer closeStore()

		page, err := svc.History(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, api.NewHistoryResponse(page))
		}

		w := cmd.OutOrStdout()
		if len(page.Attempts) == 0 {
			fmt.Fprintln(w, "No attempts recorded.")
			return nil
		}
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-16s  %-5s  %-36s  %-8s  %-7s  %s",
			"When", "ID", "Problem", "Outcome", "Stage", "Time")))
		printRule(w)
		for _, e := range page.Attempts {
			fmt.Fprintf(w, "%-16s  %-5d  %-36s  %s  %-7s  %s\n",
				e.AttemptedAt.In(svc.Location()).Format("2006-01-02 15:04"),
				e.ProblemID,
				truncate(e.ProblemTitle, 36),
				fmt.Sprintf("%-8s", e.Outcome),
				fmt.Sprintf("%d → %d", e.StageBefore, e.StageAfter),
				formatMinutes(e.TimeSpentMinutes),
			)
		}
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d-%d of %d", opts.Offset+1, opts.Offset+len(page.Attempts), page.Total)))
		return nil
	},
}

func init() {
	attemptCmd.Flags().Int("minutes", 0, "Time spent in minutes")
	attemptCmd.Flags().String("notes", "", "Notes on this attempt")

	historyCmd.Flags().Int("limit", tracker.DefaultHistoryLimit, "Maximum attempts to show")
	historyCmd.Flags().Int("offset", 0, "Attempts to skip")
	historyCmd.Flags().String("outcome", "", "Only this outcome")
}
