package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/hormetric/schema"
)

// Color variables for console output.
var (
	PeakColor     = color.New(color.FgGreen, color.Bold) // primed to perform
	ReadyColor    = color.New(color.FgCyan)              // good to go
	ModerateColor = color.New(color.FgYellow)            // take it easy
	RecoverColor  = color.New(color.FgRed, color.Bold)   // recovery day
)

// GetColorLabel returns a colored band label for console output (table).
// It uses schema.GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(score float64) string {
	text := schema.GetPlainLabel(score)

	switch text {
	case schema.PeakBand:
		return PeakColor.Sprint(text)
	case schema.ReadyBand:
		return ReadyColor.Sprint(text)
	case schema.ModerateBand:
		return ModerateColor.Sprint(text)
	default:
		return RecoverColor.Sprint(text)
	}
}

// GetStatusColorLabel colors a test status the way score bands are colored.
func GetStatusColorLabel(status schema.TestStatus) string {
	switch status {
	case schema.OptimalStatus:
		return PeakColor.Sprint(string(status))
	case schema.BorderlineStatus:
		return ModerateColor.Sprint(string(status))
	default:
		return RecoverColor.Sprint(string(status))
	}
}

// GetTrendColorLabel colors a trend direction.
func GetTrendColorLabel(trend schema.Trend) string {
	switch trend {
	case schema.Improving:
		return PeakColor.Sprint(string(trend))
	case schema.Declining:
		return RecoverColor.Sprint(string(trend))
	default:
		return ReadyColor.Sprint(string(trend))
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for test history.
func GetHistoryDBFilePath() string {
	return homeFile(".hormetric_history.db")
}

// GetSnapshotDBFilePath returns the path to the SQLite DB file for score snapshots.
func GetSnapshotDBFilePath() string {
	return homeFile(".hormetric_snapshots.db")
}

func homeFile(name string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(homeDir, name)
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave room for the ellipsis and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
