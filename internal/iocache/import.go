package iocache

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/hormetric/internal/contract"
	"github.com/huangsam/hormetric/schema"
)

// ImportFormat selects how an import file is decoded.
type ImportFormat string

// Supported import formats.
const (
	ImportJSON ImportFormat = "json"
	ImportCSV  ImportFormat = "csv"
)

// requiredCSVColumns must appear in the CSV header.
var requiredCSVColumns = []string{"hormone_type", "value", "timestamp"}

// DetectImportFormat picks the format from a file extension.
func DetectImportFormat(path string) (ImportFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ImportJSON, nil
	case ".csv":
		return ImportCSV, nil
	default:
		return "", fmt.Errorf("unsupported import file %q. must end in .json or .csv", path)
	}
}

// ImportTests decodes tests, assigns them to userID and stores them in one batch.
// A bad file or a failed insert stores nothing.
func ImportTests(store contract.HistoryStore, r io.Reader, format ImportFormat, userID string, now time.Time) (int, error) {
	var tests []schema.HormoneTest
	var err error
	switch format {
	case ImportJSON:
		tests, err = decodeJSONTests(r)
	case ImportCSV:
		tests, err = decodeCSVTests(r)
	default:
		return 0, fmt.Errorf("unsupported import format: %s", format)
	}
	if err != nil {
		return 0, err
	}
	if len(tests) == 0 {
		return 0, errors.New("no tests found to import")
	}

	for i := range tests {
		tests[i].UserID = userID
		if tests[i].ID == "" {
			tests[i].ID = uuid.NewString()
		}
		if tests[i].CreatedAt.IsZero() {
			tests[i].CreatedAt = now
		}
		if h, err := schema.ParseHormoneType(string(tests[i].HormoneType)); err == nil {
			tests[i].HormoneType = h
		}
	}
	if err := schema.ValidateTests(tests); err != nil {
		return 0, fmt.Errorf("import rejected: %w", err)
	}

	if err := store.AddTests(tests); err != nil {
		return 0, fmt.Errorf("failed to store imported tests: %w", err)
	}
	return len(tests), nil
}

func decodeJSONTests(r io.Reader) ([]schema.HormoneTest, error) {
	var tests []schema.HormoneTest
	if err := json.NewDecoder(r).Decode(&tests); err != nil {
		return nil, fmt.Errorf("failed to decode JSON tests: %w", err)
	}
	return tests, nil
}

func decodeCSVTests(r io.Reader) ([]schema.HormoneTest, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV tests: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredCSVColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("CSV header is missing column %q", name)
		}
	}

	tests := make([]schema.HormoneTest, 0, len(records)-1)
	for line, record := range records[1:] {
		test, err := parseCSVTest(columns, record)
		if err != nil {
			return nil, fmt.Errorf("CSV line %d: %w", line+2, err)
		}
		tests = append(tests, test)
	}
	return tests, nil
}

func parseCSVTest(columns map[string]int, record []string) (schema.HormoneTest, error) {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var test schema.HormoneTest
	test.ID = field("id")
	test.HormoneType = schema.HormoneType(field("hormone_type"))
	value, err := strconv.ParseFloat(field("value"), 64)
	if err != nil {
		return test, fmt.Errorf("invalid value %q", field("value"))
	}
	test.Value = value
	if test.Timestamp, err = time.Parse(time.RFC3339, field("timestamp")); err != nil {
		return test, fmt.Errorf("invalid timestamp %q", field("timestamp"))
	}
	if test.SleepQuality, err = optionalInt(field("sleep_quality")); err != nil {
		return test, fmt.Errorf("invalid sleep_quality: %w", err)
	}
	if test.StressLevel, err = optionalInt(field("stress_level")); err != nil {
		return test, fmt.Errorf("invalid stress_level: %w", err)
	}
	if s := field("exercised"); s != "" {
		exercised, err := contract.ParseBoolString(s)
		if err != nil {
			return test, fmt.Errorf("invalid exercised: %w", err)
		}
		test.Exercised = schema.Bool(exercised)
	}
	test.Supplements = field("supplements")
	return test, nil
}

func optionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
