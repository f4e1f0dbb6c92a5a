package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/leetreview/internal/spacedrep"
	"github.com/abhisek/leetreview/internal/tracker"
)

const day = 24 * time.Hour

var seedCmd = &cobra.Command{
	Use:    "seed",
	Short:  "Replace all data with sample problems (development)",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := confirmWipe(cmd, "Replace all data with sample problems?", "Seed")
		if err != nil || !ok {
			return err
		}

		svc, closeStore, err := openTracker()
		if err != nil {
			return err
		}
		defer closeStore()

		n, err := svc.Seed(cmd.Context(), sampleProblems)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Seeded %d problems\n", okStyle.Render("✓"), n)
		return nil
	},
}

func init() {
	seedCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
}

func lc(slug string) string {
	return "https://leetcode.com/problems/" + slug + "/"
}

var sampleProblems = []tracker.SeedProblem{
	{
		ProblemInput: tracker.ProblemInput{
			Title: "Two Sum", URL: lc("two-sum"), Difficulty: "EASY",
			Tags:       []string{"array", "hash-map"},
			NotesTrick: "Use a hash map of complements for a single O(n) pass.",
		},
		Added: 40 * day,
		Reviews: []tracker.SeedReview{
			{Ago: 40 * day, Outcome: spacedrep.Pass, Minutes: 12},
			{Ago: 39 * day, Outcome: spacedrep.Pass, Minutes: 6},
			{Ago: 36 * day, Outcome: spacedrep.Pass, Minutes: 4},
			{Ago: 29 * day, Outcome: spacedrep.Pass, Minutes: 3},
			{Ago: 15 * day, Outcome: spacedrep.Pass, Minutes: 3},
		},
	},
	{
		ProblemInput: tracker.ProblemInput{
			Title: "Valid Parentheses", URL: lc("valid-parentheses"), Difficulty: "EASY",
			Tags:       []string{"string", "stack"},
			NotesTrick: "Push opening brackets, pop and match on closing ones.",
		},
		Added:   16 * time.Hour,
		Reviews: []tracker.SeedReview{{Ago: 16 * time.Hour, Outcome: spacedrep.Pass, Minutes: 10}},
	},
	{
		ProblemInput: tracker.ProblemInput{
			Title: "Largest Triangle Area", URL: lc("largest-triangle-area"), Difficulty: "EASY",
			Tags:          []string{"array", "math", "geometry"},
			NotesMistakes: "Wrong answer: review the shoelace formula.",
		},
		Added:   17 * time.Hour,
		Reviews: []tracker.SeedReview{{Ago: 17 * time.Hour, Outcome: spacedrep.Fail, Minutes: 25, Notes: "forgot the abs()"}},
	},
	{
		ProblemInput: tracker.ProblemInput{
			Title: "Valid Palindrome", URL: lc("valid-palindrome"), Difficulty: "EASY",
			Tags:       []string{"string", "two-pointers"},
			NotesTrick: "Two pointers from both ends, skipping non-alphanumerics.",
		},
		Added:   10 * day,
		Reviews: []tracker.SeedReview{{Ago: 10 * day, Outcome: spacedrep.Pass, Minutes: 8}},
	},
	{
		ProblemInput: tracker.ProblemInput{
			Title: "Sort Characters By Frequency", URL: lc("sort-characters-by-frequency"), Difficulty: "MEDIUM",
			Tags: []string{"hash-map", "string", "sorting", "heap"},
		},
		Added: 6 * day,
		Reviews: []tracker.SeedReview{
			{Ago: 6 * day, Outcome: spacedrep.Pass, Minutes: 18},
			{Ago: 3 * day, Outcome: spacedrep.Shaky, Minutes: 15, Notes: "needed a hint for bucket sort"},
		},
	},
	{
		ProblemInput: tracker.ProblemInput{
			Title: "Relative Ranks", URL: lc("relative-ranks"), Difficulty: "EASY",
			Tags: []string{"array", "sorting", "heap"},
		},
		Added: 4 * day,
		Reviews: []tracker.SeedReview{
			{Ago: 4 * day, Outcome: spacedrep.Pass, Minutes: 9},
			{Ago: 2 * day, Outcome: spacedrep.Postpone},
		},
	},
	{
		ProblemInput: tracker.ProblemInput{
			Title: "Perfect Number", URL: lc("perfect-number"), Difficulty: "EASY",
			Tags:           []string{"math"},
			NotesEdgeCases: "1 is not perfect; only iterate up to sqrt(n).",
		},
		Added:   4 * day,
		Reviews: []tracker.SeedReview{{Ago: 4 * day, Outcome: spacedrep.Pass, Minutes: 7}},
	},
	{
		ProblemInput: tracker.ProblemInput{
			Title: "Count Pairs Of Similar Strings", URL: lc("count-pairs-of-similar-strings"), Difficulty: "EASY",
			Tags: []string{"array", "hash-map", "string"},
		},
		Added:   time.Hour,
		Reviews: []tracker.SeedReview{{Ago: time.Hour, Outcome: spacedrep.Pass, Minutes: 6}},
	},
	{
		ProblemInput: tracker.ProblemInput{
			Title: "Minimum Number of Pushes to Type Word I", URL: lc("minimum-number-of-pushes-to-type-word-i"), Difficulty: "EASY",
			Tags: []string{"string", "greedy"},
		},
		Added: 2 * day,
		Reviews: []tracker.SeedReview{
			{Ago: 2 * day, Outcome: spacedrep.Fail, Minutes: 20},
			{Ago: day, Outcome: spacedrep.Skip},
		},
	},
	{
		ProblemInput: tracker.ProblemInput{
			Title: "Self Dividing Numbers", URL: lc("self-dividing-numbers"), Difficulty: "EASY",
			Tags: []string{"math"},
		},
		Added:   3 * day,
		Reviews: []tracker.SeedReview{{Ago: 3 * day, Outcome: spacedrep.Pass, Minutes: 5}},
	},
	{
		ProblemInput: tracker.ProblemInput{
			Title: "Base 7", URL: lc("base-7"), Difficulty: "EASY",
			Tags:           []string{"math"},
			NotesEdgeCases: "Handle zero and negative input.",
		},
		Added: 2 * day,
	},
	{
		ProblemInput: tracker.ProblemInput{
			Title: "Delete Greatest Value in Each Row", URL: lc("delete-greatest-value-in-each-row"), Difficulty: "EASY",
			Tags: []string{"array", "sorting", "matrix"},
		},
		Added: time.Hour,
	},
}
