// Package report renders engine results for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexiz/internal/difficulty"
	"github.com/abhisek/lexiz/internal/engine"
	"github.com/abhisek/lexiz/internal/level"
	"github.com/abhisek/lexiz/internal/profile"
	"github.com/abhisek/lexiz/internal/session"
	"github.com/abhisek/lexiz/internal/srs"
)

// BarWidth is the width of rendered progress bars.
const BarWidth = 24

// Bar renders a horizontal bar filled to fraction (0-1).
func Bar(fraction float64, width int) string {
	if width < 4 {
		width = 4
	}
	filled := int(float64(width) * fraction)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return barFilled.Render(strings.Repeat("█", filled)) +
		barEmpty.Render(strings.Repeat("░", width-filled))
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

// Progress writes a progress summary.
func Progress(w io.Writer, s *engine.ProgressSummary) error {
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Progress for %s (%s)", s.UserID, s.Level)),
		"",
		row("Words", fmt.Sprint(s.Total)),
		row("Due now", fmt.Sprint(s.Due)),
		row("Overdue", fmt.Sprint(s.Overdue)),
		row("Mastered", fmt.Sprint(s.Mastered)),
		row("Streak", fmt.Sprintf("%d %s", s.StreakDays, plural(s.StreakDays, "day", "days"))),
		row("Accuracy", fmt.Sprintf("%.0f%%", s.Accuracy*100)),
		"",
		titleStyle.Render("By phase"),
	}
	for _, ph := range srs.AllPhases() {
		lines = append(lines, row(string(ph), fmt.Sprintf("%s %d", Bar(ratio(s.ByPhase[ph], s.Total), BarWidth), s.ByPhase[ph])))
	}
	lines = append(lines, "", titleStyle.Render("By difficulty"))
	for _, t := range difficulty.AllTiers() {
		lines = append(lines, row(t.DisplayName(), fmt.Sprintf("%s %d", Bar(ratio(s.ByTier[t], s.Total), BarWidth), s.ByTier[t])))
	}
	if s.Degraded {
		lines = append(lines, "", warnStyle.Render("Showing cached data: storage is unavailable."))
	}
	return render(w, lines)
}

// Weakness writes a weakness report.
func Weakness(w io.Writer, r *profile.WeaknessReport) error {
	lines := []string{titleStyle.Render(fmt.Sprintf("Skills for %s (%s)", r.UserID, r.Level)), ""}
	if len(r.Weak) > 0 {
		lines = append(lines, badStyle.Render("Needs work"))
		for _, a := range r.Weak {
			lines = append(lines, row(a.Skill.DisplayName(),
				fmt.Sprintf("%s %3.0f  %s, confidence %.0f%%", Bar(a.Score/100, BarWidth), a.Score, a.Severity, a.Confidence*100)))
		}
		lines = append(lines, "")
	}
	if len(r.Strong) > 0 {
		lines = append(lines, goodStyle.Render("Strong"))
		for _, a := range r.Strong {
			lines = append(lines, row(a.Skill.DisplayName(), fmt.Sprintf("%s %3.0f", Bar(a.Score/100, BarWidth), a.Score)))
		}
		lines = append(lines, "")
	}
	for _, rec := range r.Recommendations {
		lines = append(lines, hintStyle.Render("• "+rec))
	}
	return render(w, lines)
}

// Plan writes a session plan.
func Plan(w io.Writer, p *session.Plan) error {
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Session %s", p.ID)),
		hintStyle.Render(fmt.Sprintf("about %d min of %d min, level %s", (p.EstimatedSeconds+59)/60, p.BudgetSeconds/60, p.Level)),
		"",
	}
	for _, g := range p.Goals {
		lines = append(lines, goodStyle.Render("✓ ")+g)
	}
	lines = append(lines, "")
	for i, b := range p.Blocks {
		var desc string
		switch b.Kind {
		case session.BlockReview:
			desc = fmt.Sprintf("%s → %s", b.Review.Source, b.Review.Translation)
		case session.BlockExercise:
			desc = fmt.Sprintf("%s %s (difficulty %.1f)", b.Exercise.Exercise.Skill.DisplayName(), b.Exercise.Exercise.Type, b.Exercise.Difficulty)
		case session.BlockDialogue:
			desc = b.Dialogue.Title
		}
		lines = append(lines, fmt.Sprintf("%3d. %s %s %s",
			i+1, labelStyle.Width(9).Render(string(b.Kind)), desc, hintStyle.Render(fmt.Sprintf("[%s, %ds]", b.ID(), b.Seconds))))
	}
	if p.Degraded {
		lines = append(lines, "", warnStyle.Render("Built from cached data: storage is unavailable."))
	}
	return render(w, lines)
}

// LevelResult writes a level test result.
func LevelResult(w io.Writer, r *level.Result) error {
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Estimated level: %s (%s)", r.EstimatedLevel, r.EstimatedLevel.DisplayName())),
		"",
		row("Score", fmt.Sprintf("%.1f", r.OverallScore)),
		row("Confidence", fmt.Sprintf("%.0f%%", r.Confidence*100)),
		row("Start at", r.RecommendedStart.String()),
		row("Answered", fmt.Sprint(r.Answered)),
		"",
	}
	for _, s := range r.FocusAreas {
		lines = append(lines, row(s.DisplayName(), fmt.Sprintf("%s %3.0f%%", Bar(r.SkillScores[s]/100, BarWidth), r.SkillScores[s])))
	}
	if len(r.FocusAreas) > 0 {
		lines = append(lines, hintStyle.Render("Focus on the skills above."))
	}
	return render(w, lines)
}

// Review writes the state of an item after a review.
func Review(w io.Writer, it *srs.ReviewItem) error {
	lines := []string{
		titleStyle.Render(fmt.Sprintf("%s → %s", it.Source, it.Translation)),
		row("Next review", it.NextReviewAt.Format("2006-01-02 15:04")),
		row("Interval", fmt.Sprintf("%d %s", it.IntervalDays, plural(it.IntervalDays, "day", "days"))),
		row("Ease", fmt.Sprintf("%.2f", it.EaseFactor)),
		row("Difficulty", it.Tier.DisplayName()),
	}
	return render(w, lines)
}

func render(w io.Writer, lines []string) error {
	_, err := lipgloss.Fprintln(w, cardStyle.Render(strings.Join(lines, "\n")))
	return err
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
