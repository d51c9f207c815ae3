package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/hormetric/internal/contract"
	"github.com/huangsam/hormetric/schema"
)

// PrintStreak outputs the testing streak.
func PrintStreak(result schema.StreakResult, cfg *contract.Config) error {
	lastTest := ""
	if result.LastTest != nil {
		lastTest = result.LastTest.Format(contract.DateTimeFormat)
	}
	return dispatch(cfg, renderer{
		name:      "streak",
		json:      result,
		csvHeader: []string{"days", "test_days", "last_test", "message"},
		csvRows: func(w *csv.Writer) error {
			return w.Write([]string{strconv.Itoa(result.Days), strconv.Itoa(result.TestDays), lastTest, result.Message})
		},
		text: func(w io.Writer) error {
			if err := fprintf(w, "%s\n", result.Message); err != nil {
				return err
			}
			if lastTest == "" {
				return nil
			}
			return fprintf(w, "Tested on %d distinct days. Last test: %s\n", result.TestDays, lastTest)
		},
	})
}

// PrintHeroInsight outputs the hero card.
func PrintHeroInsight(result schema.HeroInsight, cfg *contract.Config) error {
	return dispatch(cfg, renderer{
		name:      "hero insight",
		json:      result,
		csvHeader: []string{"rule", "headline", "actions", "cta_label", "cta_target"},
		csvRows: func(w *csv.Writer) error {
			return w.Write([]string{result.Rule, result.Headline, strings.Join(result.Actions, "|"), result.CTA.Label, result.CTA.Target})
		},
		text: func(w io.Writer) error {
			if err := fprintf(w, "✨ %s\n", result.Headline); err != nil {
				return err
			}
			for _, action := range result.Actions {
				if err := fprintf(w, "  • %s\n", contract.TruncateText(action, GetMaxTableTextWidth(cfg))); err != nil {
					return err
				}
			}
			return fprintf(w, "👉 %s\n", result.CTA.Label)
		},
	})
}

// PrintFeatureProgress outputs the unlock overview.
func PrintFeatureProgress(rows []schema.FeatureProgress, cfg *contract.Config) error {
	return dispatch(cfg, renderer{
		name:      "feature progress",
		json:      rows,
		csvHeader: []string{"feature", "title", "percent", "unlocked", "message"},
		csvRows: func(w *csv.Writer) error {
			for _, r := range rows {
				rec := []string{string(r.Feature), r.Title, strconv.Itoa(r.Percent), strconv.FormatBool(r.Unlocked), r.Message}
				if err := w.Write(rec); err != nil {
					return err
				}
			}
			return nil
		},
		text: func(w io.Writer) error {
			table := newTable(w, "Feature", "Progress", "Status", "Message")
			var data [][]string
			for _, r := range rows {
				status := contract.RecoverColor.Sprint("locked")
				if r.Unlocked {
					status = contract.PeakColor.Sprint("unlocked")
				}
				data = append(data, []string{
					r.Title,
					progressBar(r.Percent),
					status,
					contract.TruncateText(r.Message, GetMaxTableTextWidth(cfg)),
				})
			}
			return renderTable(table, data)
		},
	})
}

// progressBar renders a ten-cell bar followed by the percentage.
func progressBar(percent int) string {
	filled := max(min(percent/10, 10), 0)
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled) + fmt.Sprintf(" %3d%%", percent)
}

// PrintLogResult outputs the feedback for a newly logged test.
func PrintLogResult(result schema.LogResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	insight := result.Insight
	deviation := ""
	if insight.DeviationPercent != nil {
		deviation = fmtFloat(*insight.DeviationPercent)
	}
	proactive := ""
	if result.Proactive != nil {
		proactive = result.Proactive.Message
	}
	return dispatch(cfg, renderer{
		name: "test insight",
		json: result,
		csvHeader: []string{
			"test_id", "hormone", "value", "status", "deviation_percent", "anomaly",
			"test_count", "personal_record", "record_type", "proactive",
		},
		csvRows: func(w *csv.Writer) error {
			return w.Write([]string{
				result.Test.ID,
				string(insight.HormoneType),
				fmtFloat(insight.Value),
				string(insight.Status),
				deviation,
				strconv.FormatBool(insight.AnomalyDetected),
				strconv.Itoa(insight.TestCount),
				strconv.FormatBool(result.Record.IsRecord),
				string(result.Record.Type),
				proactive,
			})
		},
		text: func(w io.Writer) error {
			if err := fprintf(w, "✅ Logged %s %s (%s)\n", insight.HormoneType, fmtFloat(insight.Value), contract.GetStatusColorLabel(insight.Status)); err != nil {
				return err
			}
			lines := []string{insight.StatusMessage, insight.ComparisonToAverage, insight.AnomalyMessage, insight.TestCountMessage}
			for _, line := range lines {
				if line == "" {
					continue
				}
				if err := fprintf(w, "  %s\n", line); err != nil {
					return err
				}
			}
			if result.Record.IsRecord {
				if err := fprintf(w, "🏅 New personal record: %s %s\n", result.Record.Type, insight.HormoneType); err != nil {
					return err
				}
			}
			if result.Proactive != nil {
				return fprintf(w, "💡 %s: %s\n", result.Proactive.Title, result.Proactive.Message)
			}
			return nil
		},
	})
}

// PrintCoachContext outputs the chat coach context.
func PrintCoachContext(result schema.CoachContext, cfg *contract.Config) error {
	return dispatch(cfg, renderer{
		name:      "coach context",
		json:      result,
		csvHeader: []string{"user_id", "context"},
		csvRows: func(w *csv.Writer) error {
			return w.Write([]string{result.UserID, result.Context})
		},
		text: func(w io.Writer) error {
			return fprintf(w, "%s\n", result.Context)
		},
	})
}
