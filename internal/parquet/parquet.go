// Package parquet exports hormetric history and snapshots to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/hormetric/schema"
	"github.com/parquet-go/parquet-go"
)

// TestRow is one hormone test. It maps to the hormone_tests table.
type TestRow struct {
	TestID      string    `parquet:"test_id,snappy"`
	UserID      string    `parquet:"user_id,snappy,dict"`
	HormoneType string    `parquet:"hormone_type,snappy,dict"`
	Value       float64   `parquet:"value,snappy"`
	Timestamp   time.Time `parquet:"timestamp,snappy"`
	CreatedAt   time.Time `parquet:"created_at,snappy"`

	// Lifestyle context is optional on every test
	SleepQuality *int32  `parquet:"sleep_quality,optional,snappy"`
	Exercised    *bool   `parquet:"exercised,optional,snappy"`
	StressLevel  *int32  `parquet:"stress_level,optional,snappy"`
	Supplements  *string `parquet:"supplements,optional,snappy"`
}

// SnapshotRow is one computed score. It maps to the score_snapshots table.
type SnapshotRow struct {
	SnapshotID int64     `parquet:"snapshot_id,snappy"`
	UserID     string    `parquet:"user_id,snappy,dict"`
	Kind       string    `parquet:"kind,snappy,dict"`
	ComputedAt time.Time `parquet:"computed_at,snappy"`
	Score      float64   `parquet:"score,snappy"`
	Delta      *float64  `parquet:"delta,optional,snappy"`
	Confidence string    `parquet:"confidence,snappy,dict"`
	TestCount  int32     `parquet:"test_count,snappy"`
	Payload    string    `parquet:"payload,snappy"`
}

// ConvertTests converts schema.HormoneTest to TestRow for Parquet export.
func ConvertTests(tests []schema.HormoneTest) []TestRow {
	result := make([]TestRow, len(tests))
	for i, t := range tests {
		result[i] = TestRow{
			TestID:       t.ID,
			UserID:       t.UserID,
			HormoneType:  string(t.HormoneType),
			Value:        t.Value,
			Timestamp:    t.EffectiveTime(),
			CreatedAt:    t.CreatedAt,
			SleepQuality: toInt32(t.SleepQuality),
			Exercised:    t.Exercised,
			StressLevel:  toInt32(t.StressLevel),
		}
		if t.Supplements != "" {
			supplements := t.Supplements
			result[i].Supplements = &supplements
		}
	}
	return result
}

// ConvertSnapshots converts schema.ScoreSnapshot to SnapshotRow for Parquet export.
func ConvertSnapshots(snapshots []schema.ScoreSnapshot) []SnapshotRow {
	result := make([]SnapshotRow, len(snapshots))
	for i, s := range snapshots {
		result[i] = SnapshotRow{
			SnapshotID: s.SnapshotID,
			UserID:     s.UserID,
			Kind:       string(s.Kind),
			ComputedAt: s.ComputedAt,
			Score:      s.Score,
			Delta:      s.Delta,
			Confidence: string(s.Confidence),
			TestCount:  int32(s.TestCount),
			Payload:    s.Payload,
		}
	}
	return result
}

// WriteTests writes test rows to w.
func WriteTests(w io.Writer, rows []TestRow) error {
	return write(w, rows)
}

// WriteSnapshots writes snapshot rows to w.
func WriteSnapshots(w io.Writer, rows []SnapshotRow) error {
	return write(w, rows)
}

// WriteTestsFile writes test rows to a new file at outputPath.
func WriteTestsFile(rows []TestRow, outputPath string) error {
	return writeFile(outputPath, rows)
}

// WriteSnapshotsFile writes snapshot rows to a new file at outputPath.
func WriteSnapshotsFile(rows []SnapshotRow, outputPath string) error {
	return writeFile(outputPath, rows)
}

// write infers the schema from the row struct tags.
func write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

func writeFile[T any](outputPath string, rows []T) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func toInt32(p *int) *int32 {
	if p == nil {
		return nil
	}
	v := int32(*p)
	return &v
}
