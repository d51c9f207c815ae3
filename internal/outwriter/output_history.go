package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/hormetric/internal/contract"
	"github.com/huangsam/hormetric/internal/parquet"
	"github.com/huangsam/hormetric/schema"
)

// historyCSVHeader is shared by CSV output and round-trips through history import.
var historyCSVHeader = []string{
	"id", "hormone_type", "value", "unit", "status", "timestamp",
	"sleep_quality", "exercised", "stress_level", "supplements",
}

// PrintHistory outputs the stored tests, dispatching based on the output format configured.
func PrintHistory(tests []schema.EnrichedTest, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	if cfg.Output == schema.ParquetOut {
		if cfg.OutputFile == "" {
			return errors.New("--output-file is required for parquet output")
		}
		plain := make([]schema.HormoneTest, len(tests))
		for i, t := range tests {
			plain[i] = t.HormoneTest
		}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteTests(w, parquet.ConvertTests(plain))
		}, "Wrote Parquet history")
	}

	return dispatch(cfg, renderer{
		name:      "history",
		json:      tests,
		csvHeader: historyCSVHeader,
		csvRows: func(w *csv.Writer) error {
			for _, t := range tests {
				rec := []string{
					t.ID,
					string(t.HormoneType),
					strconv.FormatFloat(t.Value, 'f', -1, 64),
					t.Unit,
					string(t.Status),
					t.EffectiveTime().Format(contract.DateTimeFormat),
					optionalInt(intFmt, t.SleepQuality),
					optionalBool(t.Exercised),
					optionalInt(intFmt, t.StressLevel),
					t.Supplements,
				}
				if err := w.Write(rec); err != nil {
					return err
				}
			}
			return nil
		},
		text: func(w io.Writer) error {
			table := newTable(w, "#", "Hormone", "Value", "Status", "Taken", "Sleep", "Exercise", "Stress")
			var data [][]string
			for _, t := range tests {
				data = append(data, []string{
					strconv.Itoa(t.Index),
					string(t.HormoneType),
					fmt.Sprintf("%s %s", fmtFloat(t.Value), t.Unit),
					contract.GetStatusColorLabel(t.Status),
					t.EffectiveTime().Format("2006-01-02 15:04"),
					optionalInt(intFmt, t.SleepQuality),
					optionalBool(t.Exercised),
					optionalInt(intFmt, t.StressLevel),
				})
			}
			if err := renderTable(table, data); err != nil {
				return err
			}
			return fprintf(w, "Showing %d tests. Store backend: %s\n", len(tests), cfg.StoreBackend)
		},
	})
}

// PrintProfile outputs a user profile.
func PrintProfile(profile schema.Profile, cfg *contract.Config) error {
	sex := string(profile.BiologicalSex)
	if sex == "" {
		sex = "unspecified"
	}
	return dispatch(cfg, renderer{
		name:      "profile",
		json:      profile,
		csvHeader: []string{"user_id", "chronological_age", "biological_sex", "onboarded", "is_admin"},
		csvRows: func(w *csv.Writer) error {
			return w.Write([]string{
				profile.UserID,
				strconv.Itoa(profile.ChronologicalAge),
				string(profile.BiologicalSex),
				strconv.FormatBool(profile.Onboarded),
				strconv.FormatBool(profile.IsAdmin),
			})
		},
		text: func(w io.Writer) error {
			table := newTable(w, "Field", "Value")
			return renderTable(table, [][]string{
				{"User", profile.UserID},
				{"Age", strconv.Itoa(profile.ChronologicalAge)},
				{"Sex", sex},
				{"Onboarded", strconv.FormatBool(profile.Onboarded)},
			})
		},
	})
}

func optionalInt(intFmt string, p *int) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf(intFmt, *p)
}

func optionalBool(p *bool) string {
	if p == nil {
		return ""
	}
	return strconv.FormatBool(*p)
}
