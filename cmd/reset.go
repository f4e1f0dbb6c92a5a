package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every problem and attempt",
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := confirmWipe(cmd, "Delete all problems and attempts?", "Delete")
		if err != nil || !ok {
			return err
		}

		svc, closeStore, err := openTracker()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := svc.Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("✓")+" All data deleted.")
		return nil
	},
}

// confirmWipe asks before a command deletes all data. --yes skips the
// prompt; without a terminal the command is refused.
func confirmWipe(cmd *cobra.Command, title, affirmative string) (bool, error) {
	yes, _ := cmd.Flags().GetBool("yes")
	if yes {
		return true, nil
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return false, fmt.Errorf("refusing to %s without --yes", cmd.Name())
	}
	err := huh.NewConfirm().
		Title(title).
		Description("This cannot be undone.").
		Affirmative(affirmative).
		Negative("Cancel").
		Value(&yes).
		Run()
	if err != nil && !errors.Is(err, huh.ErrUserAborted) {
		return false, err
	}
	if !yes {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
	}
	return yes, nil
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
}
