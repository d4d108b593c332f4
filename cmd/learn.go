package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexiz/internal/cefr"
	"github.com/abhisek/lexiz/internal/content"
	"github.com/abhisek/lexiz/internal/engine"
	"github.com/abhisek/lexiz/internal/report"
	"github.com/abhisek/lexiz/internal/srs"
)

var initCmd = &cobra.Command{
	Use:   "init <user>",
	Short: "Create review items for a learner at a starting level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lvl, _ := cmd.Flags().GetString("level")
		start, err := cefr.ParseLevel(lvl)
		if err != nil {
			return err
		}

		rt, err := openRuntime(cmd, nil)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.engine.InitializeUser(cmd.Context(), args[0], start); err != nil {
			return fmt.Errorf("initialize %s: %w", args[0], err)
		}
		n, err := rt.engine.DueCount(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s at %s: %d words due.\n", args[0], start, n)
		return nil
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session <user>",
	Short: "Compose a study session within a time budget",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		minutes, _ := cmd.Flags().GetInt("minutes")

		rt, err := openRuntime(cmd, nil)
		if err != nil {
			return err
		}
		defer rt.Close()

		plan, err := rt.engine.GenerateSession(cmd.Context(), args[0], minutes)
		if err != nil {
			return fmt.Errorf("generate session: %w", err)
		}
		return report.Plan(cmd.OutOrStdout(), plan)
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review <user> <item>",
	Short: "Record a review of one vocabulary item",
	Long: `Record a self-graded review. Quality runs from 0 (blackout) to 5
(perfect recall); 3 and above count as correct.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, _ := cmd.Flags().GetInt("quality")
		ms, _ := cmd.Flags().GetInt("ms")

		rt, err := openRuntime(cmd, nil)
		if err != nil {
			return err
		}
		defer rt.Close()

		item, err := rt.engine.RecordReview(cmd.Context(), args[0], args[1], srs.Quality(q), ms)
		if err != nil {
			return fmt.Errorf("record review: %w", err)
		}
		return report.Review(cmd.OutOrStdout(), item)
	},
}

var exerciseCmd = &cobra.Command{
	Use:   "exercise <user> <exercise-id>",
	Short: "Record the outcome of an exercise",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		correct, _ := cmd.Flags().GetBool("correct")

		rt, err := openRuntime(cmd, nil)
		if err != nil {
			return err
		}
		defer rt.Close()

		ex, ok := findExercise(rt.catalog, args[1])
		if !ok {
			return fmt.Errorf("unknown exercise %q", args[1])
		}
		err = rt.engine.RecordExerciseResult(cmd.Context(), args[0], engine.ExerciseResult{
			ExerciseID: ex.ID,
			Skill:      ex.Skill,
			Correct:    correct,
			Difficulty: ex.Difficulty,
		})
		if err != nil {
			return fmt.Errorf("record exercise: %w", err)
		}
		outcome := "incorrect"
		if correct {
			outcome = "correct"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s (%s) as %s.\n", ex.ID, ex.Skill.DisplayName(), outcome)
		return nil
	},
}

// findExercise looks an exercise up by ID across all levels.
func findExercise(c content.Store, id string) (content.Exercise, bool) {
	for _, l := range cefr.AllLevels() {
		for _, ex := range c.Exercises(l) {
			if ex.ID == id {
				return ex, true
			}
		}
	}
	return content.Exercise{}, false
}

func init() {
	initCmd.Flags().String("level", "A1", "Starting CEFR level (A1-C2)")
	sessionCmd.Flags().Int("minutes", 15, "Session length in minutes")
	reviewCmd.Flags().IntP("quality", "q", 4, "Recall quality 0-5")
	reviewCmd.Flags().Int("ms", 0, "Response time in milliseconds")
	exerciseCmd.Flags().Bool("correct", false, "The answer was correct")
}
