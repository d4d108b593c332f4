package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexiz/internal/report"
)

var progressCmd = &cobra.Command{
	Use:   "progress <user>",
	Short: "Show review progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, nil)
		if err != nil {
			return err
		}
		defer rt.Close()

		sum, err := rt.engine.GetProgressSummary(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("progress: %w", err)
		}
		if err := report.Progress(cmd.OutOrStdout(), sum); err != nil {
			return err
		}

		sessions, err := rt.engine.RecentSessions(cmd.Context(), args[0], 5)
		if err != nil || len(sessions) == 0 {
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Recent sessions:")
		for _, s := range sessions {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s  %3.0f min  %d reviews, %d exercises, %d dialogues\n",
				s.CompletedAt.Format("2006-01-02"), s.Duration().Minutes(),
				s.ReviewsDone, s.ExercisesDone, s.DialoguesDone)
		}
		return nil
	},
}

var weaknessCmd = &cobra.Command{
	Use:   "weakness <user>",
	Short: "Show weak and strong skills with recommendations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, nil)
		if err != nil {
			return err
		}
		defer rt.Close()

		r, err := rt.engine.GetWeaknessReport(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("weakness report: %w", err)
		}
		return report.Weakness(cmd.OutOrStdout(), r)
	},
}
