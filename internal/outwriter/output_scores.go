package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/huangsam/hormetric/internal/contract"
	"github.com/huangsam/hormetric/schema"
)

// breakdownOrder is the display order of ReadyScore factors.
var breakdownOrder = []schema.BreakdownKey{
	schema.BreakdownCortisol,
	schema.BreakdownTestosterone,
	schema.BreakdownDHEA,
	schema.BreakdownSleep,
	schema.BreakdownExercise,
	schema.BreakdownStress,
	schema.BreakdownTrend,
}

// readyScoreOutput is the JSON shape of the ready command.
type readyScoreOutput struct {
	Gate   schema.ReadyScoreGate    `json:"gate"`
	Result *schema.ReadyScoreResult `json:"result,omitempty"`
}

// PrintReadyScore outputs the ReadyScore, dispatching based on the output format configured.
// A nil result means the gate is closed.
func PrintReadyScore(result *schema.ReadyScoreResult, gate schema.ReadyScoreGate, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	return dispatch(cfg, renderer{
		name:      "ReadyScore",
		json:      readyScoreOutput{Gate: gate, Result: result},
		csvHeader: []string{"score", "band", "confidence", "trend", "factor", "contribution"},
		csvRows: func(w *csv.Writer) error {
			if result == nil {
				return nil
			}
			for _, key := range breakdownOrder {
				rec := []string{
					fmt.Sprintf(intFmt, result.Score),
					result.Band,
					string(result.Confidence),
					string(result.Trend),
					string(key),
					fmtFloat(result.Breakdown[key]),
				}
				if err := w.Write(rec); err != nil {
					return err
				}
			}
			return nil
		},
		text: func(w io.Writer) error {
			return writeReadyScoreText(w, result, gate, cfg, fmtFloat)
		},
	})
}

func writeReadyScoreText(w io.Writer, result *schema.ReadyScoreResult, gate schema.ReadyScoreGate, cfg *contract.Config, fmtFloat func(float64) string) error {
	if result == nil {
		return fprintf(w, "🔒 ReadyScore locked: %s\n", gate.Message)
	}
	score := float64(result.Score)
	if err := fprintf(w, "⚡ ReadyScore: %d %s (%s confidence, trend %s)\n",
		result.Score, contract.GetColorLabel(score), result.Confidence, contract.GetTrendColorLabel(result.Trend)); err != nil {
		return err
	}

	table := newTable(w, "Factor", "Contribution")
	var data [][]string
	for _, key := range breakdownOrder {
		data = append(data, []string{string(key), signed(fmtFloat, result.Breakdown[key])})
	}
	if err := renderTable(table, data); err != nil {
		return err
	}

	if len(result.Protocols) > 0 {
		if err := fprintf(w, "Protocols:\n"); err != nil {
			return err
		}
		for _, p := range result.Protocols {
			if err := fprintf(w, "  • %s\n", contract.TruncateText(p, GetMaxTableTextWidth(cfg))); err != nil {
				return err
			}
		}
	}
	if !gate.IsOptimal && gate.Message != "" {
		if err := fprintf(w, "ℹ️  %s\n", gate.Message); err != nil {
			return err
		}
	}
	if result.LatestTest != nil {
		return fprintf(w, "Latest test: %s\n", result.LatestTest.Format(contract.DateTimeFormat))
	}
	return nil
}

// PrintBioAge outputs the BioAge estimate, dispatching based on the output format configured.
func PrintBioAge(result schema.BioAgeResult, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	hormones := sortedHormones(result.Contributions)
	return dispatch(cfg, renderer{
		name: "BioAge",
		json: result,
		csvHeader: []string{
			"can_calculate", "chronological_age", "biological_age", "delta", "confidence",
			"percentile", "ratio_adjustment", "behavior_bonus", "hormone", "contribution",
		},
		csvRows: func(w *csv.Writer) error {
			if !result.CanCalculate {
				return w.Write([]string{"false", "", "", "", "", "", "", "", "", ""})
			}
			for _, h := range hormones {
				rec := []string{
					"true",
					fmt.Sprintf(intFmt, result.ChronologicalAge),
					fmtFloat(result.BiologicalAge),
					fmtFloat(result.Delta),
					string(result.Confidence),
					result.Percentile,
					fmtFloat(result.RatioAdjustment),
					fmtFloat(result.BehaviorBonus),
					string(h),
					fmtFloat(result.Contributions[h]),
				}
				if err := w.Write(rec); err != nil {
					return err
				}
			}
			return nil
		},
		text: func(w io.Writer) error {
			if !result.CanCalculate {
				return fprintf(w, "🔒 BioAge locked: %s\n", result.Message)
			}
			direction := "younger"
			if result.Delta < 0 {
				direction = "older"
			}
			if err := fprintf(w, "🧬 Biological age: %s (chronological %d)\n", fmtFloat(result.BiologicalAge), result.ChronologicalAge); err != nil {
				return err
			}
			if err := fprintf(w, "%s years %s %s %s (%s confidence)\n",
				fmtFloat(math.Abs(result.Delta)), direction, result.PercentileEmoji, result.Percentile, result.Confidence); err != nil {
				return err
			}
			table := newTable(w, "Factor", "Years")
			var data [][]string
			for _, h := range hormones {
				data = append(data, []string{string(h), signed(fmtFloat, result.Contributions[h])})
			}
			data = append(data,
				[]string{"ratio", signed(fmtFloat, result.RatioAdjustment)},
				[]string{"behavior", signed(fmtFloat, result.BehaviorBonus)},
			)
			return renderTable(table, data)
		},
	})
}

// PrintImpact outputs the Impact analysis, dispatching based on the output format configured.
func PrintImpact(result schema.ImpactResult, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	return dispatch(cfg, renderer{
		name:      "Impact",
		json:      result,
		csvHeader: []string{"hormone", "trend", "percent_change", "improvement", "early_average", "recent_average", "samples"},
		csvRows: func(w *csv.Writer) error {
			for _, t := range result.Trends {
				rec := []string{
					string(t.HormoneType),
					string(t.Trend),
					fmtFloat(t.PercentChange),
					fmtFloat(t.Improvement),
					fmtFloat(t.EarlyAverage),
					fmtFloat(t.RecentAverage),
					fmt.Sprintf(intFmt, t.Samples),
				}
				if err := w.Write(rec); err != nil {
					return err
				}
			}
			return nil
		},
		text: func(w io.Writer) error {
			if !result.CanCalculate {
				return fprintf(w, "🔒 Impact locked: %s\n", result.Message)
			}
			if err := fprintf(w, "📈 Overall trend: %s (score %s, %s confidence)\n",
				contract.GetTrendColorLabel(result.OverallTrend), signed(fmtFloat, result.TrendScore), result.Confidence); err != nil {
				return err
			}
			table := newTable(w, "Hormone", "Trend", "Change %", "Early", "Recent", "Samples")
			var data [][]string
			for _, t := range result.Trends {
				data = append(data, []string{
					string(t.HormoneType),
					contract.GetTrendColorLabel(t.Trend),
					signed(fmtFloat, t.PercentChange),
					fmtFloat(t.EarlyAverage),
					fmtFloat(t.RecentAverage),
					strconv.Itoa(t.Samples),
				})
			}
			if err := renderTable(table, data); err != nil {
				return err
			}
			if result.MostImprovedHormone != "" {
				if err := fprintf(w, "Most improved: %s\n", result.MostImprovedHormone); err != nil {
					return err
				}
			}
			if err := fprintf(w, "Interventions tracked: %d\n", result.InterventionsTracked); err != nil {
				return err
			}
			for _, insight := range result.Insights {
				if err := fprintf(w, "  • %s\n", insight); err != nil {
					return err
				}
			}
			return nil
		},
	})
}

// signed formats a value with an explicit plus sign for positive numbers.
func signed(fmtFloat func(float64) string, v float64) string {
	s := fmtFloat(v)
	if v > 0 && !strings.HasPrefix(s, "+") {
		return "+" + s
	}
	return s
}

// sortedHormones returns the map keys in a stable order.
func sortedHormones(m map[schema.HormoneType]float64) []schema.HormoneType {
	keys := make([]schema.HormoneType, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
