package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/abhisek/leetreview/internal/api"
	"github.com/abhisek/leetreview/internal/spacedrep"
	"github.com/abhisek/leetreview/internal/store"
	"github.com/abhisek/leetreview/internal/tracker"
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a problem to the library",
	Long:  "Add a problem. Without a title an interactive form is shown.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		in := tracker.ProblemInput{}
		in.Platform, _ = f.GetString("platform")
		in.URL, _ = f.GetString("url")
		in.Difficulty, _ = f.GetString("difficulty")
		in.Tags, _ = f.GetStringSlice("tags")
		in.NotesTrick, _ = f.GetString("trick")
		in.NotesMistakes, _ = f.GetString("mistakes")
		in.NotesEdgeCases, _ = f.GetString("edge-cases")

		in.Title, _ = f.GetString("title")
		if len(args) == 1 {
			in.Title = args[0]
		}
		if in.Title == "" {
			if !isatty.IsTerminal(os.Stdin.Fd()) {
				return errors.New("title is required")
			}
			if err := runAddForm(&in); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					return nil
				}
				return fmt.Errorf("form: %w", err)
			}
		}

		svc, closeStore, err := openTracker()
		if err != nil {
			return err
		}
		defer closeStore()

		p, err := svc.CreateProblem(cmd.Context(), in)
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, api.NewProblemResponse(p))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Added #%d %s, first review %s\n",
			okStyle.Render("✓"), p.ID, p.Title, spacedrep.RelativeDue(p.Schedule.NextDueDate, svc.Now().In(svc.Location())))
		return nil
	},
}

func runAddForm(in *tracker.ProblemInput) error {
	if in.Difficulty == "" {
		in.Difficulty = string(store.Medium)
	}
	tags := strings.Join(in.Tags, ",")

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title is required")
					}
					return nil
				}).
				Value(&in.Title),
			huh.NewInput().
				Title("URL").
				Placeholder("https://leetcode.com/problems/...").
				Value(&in.URL),
			huh.NewSelect[string]().
				Title("Difficulty").
				Options(huh.NewOptions(string(store.Easy), string(store.Medium), string(store.Hard))...).
				Value(&in.Difficulty),
			huh.NewInput().
				Title("Tags").
				Description("Comma separated").
				Value(&tags),
		),
		huh.NewGroup(
			huh.NewText().Title("Trick").Value(&in.NotesTrick),
			huh.NewText().Title("Mistakes").Value(&in.NotesMistakes),
			huh.NewText().Title("Edge cases").Value(&in.NotesEdgeCases),
		),
	).Run()
	if err != nil {
		return err
	}
	in.Tags = splitTags(tags)
	return nil
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		opts := tracker.ListOptions{}
		opts.Search, _ = f.GetString("search")
		opts.Difficulty, _ = f.GetString("difficulty")
		opts.Tag, _ = f.GetString("tag")
		opts.Status, _ = f.GetString("status")
		opts.Sort, _ = f.GetString("sort")

		svc, closeStore, err := openTracker()
		if err != nil {
			return err
		}
		defer closeStore()

		problems, err := svc.ListProblems(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, api.NewProblemResponses(problems))
		}
		if len(problems) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No problems found.")
			return nil
		}
		printProblems(cmd.OutOrStdout(), problems, svc.Now().In(svc.Location()))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a problem, its notes and attempts",
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

		d, err := svc.GetProblem(cmd.Context(), id)
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, api.NewProblemDetailResponse(d))
		}

		w := cmd.OutOrStdout()
		now := svc.Now().In(svc.Location())
		p, s := d.Problem, d.Problem.Schedule

		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("#%d %s", p.ID, p.Title)))
		fmt.Fprintf(w, "%s · %s", p.Difficulty, p.Platform)
		if p.URL != "" {
			fmt.Fprintf(w, " · %s", p.URL)
		}
		fmt.Fprintln(w)
		if len(p.Tags) > 0 {
			fmt.Fprintln(w, dimStyle.Render("tags: "+strings.Join(p.Tags, ", ")))
		}
		fmt.Fprintf(w, "Stage %d %s, interval %dd, %d in a row, due %s\n",
			s.MasteryStage, s.Label(), s.IntervalDays, s.ConsecutiveSuccesses,
			spacedrep.RelativeDue(s.NextDueDate, now))

		if notes := notesMarkdown(p); notes != "" {
			out, err := glamour.Render(notes, "dark")
			if err != nil {
				out = notes
			}
			fmt.Fprint(w, out)
		}

		if len(d.Attempts) == 0 {
			fmt.Fprintln(w, dimStyle.Render("No attempts yet."))
			return nil
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-16s  %-8s  %-7s  %-6s  %s", "When", "Outcome", "Stage", "Time", "Notes")))
		printRule(w)
		for _, a := range d.Attempts {
			fmt.Fprintf(w, "%-16s  %s  %-7s  %-6s  %s\n",
				a.AttemptedAt.In(svc.Location()).Format("2006-01-02 15:04"),
				fmt.Sprintf("%-8s", a.Outcome),
				fmt.Sprintf("%d → %d", a.StageBefore, a.StageAfter),
				formatMinutes(a.TimeSpentMinutes),
				a.Notes,
			)
		}
		return nil
	},
}

// notesMarkdown renders the problem notes as a markdown document.
func notesMarkdown(p *store.Problem) string {
	var b strings.Builder
	for _, n := range []struct{ heading, text string }{
		{"Trick", p.NotesTrick},
		{"Mistakes", p.NotesMistakes},
		{"Edge cases", p.NotesEdgeCases},
	} {
		if n.text == "" {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", n.heading, n.text)
	}
	return b.String()
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit problem metadata and notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		f := cmd.Flags()
		var patch tracker.ProblemPatch
		str := func(name string) *string {
			if !f.Changed(name) {
				return nil
			}
			v, _ := f.GetString(name)
			return &v
		}
		patch.Title = str("title")
		patch.Platform = str("platform")
		patch.URL = str("url")
		patch.Difficulty = str("difficulty")
		patch.NotesTrick = str("trick")
		patch.NotesMistakes = str("mistakes")
		patch.NotesEdgeCases = str("edge-cases")
		if f.Changed("tags") {
			tags, _ := f.GetStringSlice("tags")
			patch.Tags = &tags
		}

		svc, closeStore, err := openTracker()
		if err != nil {
			return err
		}
		defer closeStore()

		p, err := svc.UpdateProblem(cmd.Context(), id, patch)
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, api.NewProblemResponse(p))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Updated #%d %s\n", okStyle.Render("✓"), p.ID, p.Title)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a problem and its attempt history",
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

		if err := svc.DeleteProblem(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted #%d\n", okStyle.Render("✓"), id)
		return nil
	},
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid problem id %q", s)
	}
	return id, nil
}

func addProblemFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("title", "", "Problem title")
	f.String("platform", "", "Platform (default LeetCode)")
	f.String("url", "", "Problem URL")
	f.StringP("difficulty", "d", "", "EASY, MEDIUM or HARD")
	f.StringSlice("tags", nil, "Comma-separated tags")
	f.String("trick", "", "Key insight")
	f.String("mistakes", "", "Mistakes made")
	f.String("edge-cases", "", "Edge cases to remember")
}

func init() {
	addProblemFlags(addCmd)
	_ = addCmd.Flags().MarkHidden("title")
	addProblemFlags(editCmd)

	lf := listCmd.Flags()
	lf.String("search", "", "Case-insensitive title search")
	lf.StringP("difficulty", "d", "", "EASY, MEDIUM or HARD")
	lf.String("tag", "", "Only problems with this tag")
	lf.String("status", "", "overdue, due_soon or mastered")
	lf.String("sort", "", "next_due_date, last_attempted, difficulty or created_at")
}
