package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexiz/internal/level"
	"github.com/abhisek/lexiz/internal/report"
)

var levelTestCmd = &cobra.Command{
	Use:   "level-test <user>",
	Short: "Score a placement test and update the learner's level",
	Long: `Score a placement test from a JSON array of answers, e.g.

  [{"level": "B1", "skill": "grammar", "correct": true}, ...]

Use "-" as the answers file to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("answers")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		history, _ := cmd.Flags().GetBool("history")

		rt, err := openRuntime(cmd, nil)
		if err != nil {
			return err
		}
		defer rt.Close()
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if history {
			results, err := rt.engine.LevelHistory(ctx, args[0], 10)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(out, "No level tests found.")
				return nil
			}
			for _, r := range results {
				fmt.Fprintf(out, "%s  %-2s  score %5.1f  confidence %3.0f%%\n",
					r.TakenAt.Format("2006-01-02"), r.EstimatedLevel, r.OverallScore, r.Confidence*100)
			}
			due, err := rt.engine.NeedsLevelTest(ctx, args[0])
			if err == nil && due {
				fmt.Fprintln(out, "A new level test is due.")
			}
			return nil
		}

		if path == "" {
			return fmt.Errorf("--answers is required")
		}
		answers, err := readAnswers(cmd.InOrStdin(), path)
		if err != nil {
			return err
		}

		var res *level.Result
		if dryRun {
			res, err = rt.engine.CalculateLevel(answers)
		} else {
			res, err = rt.engine.SubmitLevelTest(ctx, args[0], answers)
		}
		if err != nil {
			return fmt.Errorf("level test: %w", err)
		}
		return report.LevelResult(out, res)
	},
}

// readAnswers decodes a JSON answer list from path, or from stdin for "-".
func readAnswers(stdin io.Reader, path string) ([]level.Answer, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open answers: %w", err)
		}
		defer f.Close()
		r = f
	}
	var answers []level.Answer
	if err := json.NewDecoder(r).Decode(&answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return answers, nil
}

func init() {
	levelTestCmd.Flags().String("answers", "", `JSON answers file ("-" for stdin)`)
	levelTestCmd.Flags().Bool("dry-run", false, "Score without saving")
	levelTestCmd.Flags().Bool("history", false, "List previous results instead of scoring")
}
