// Package main benchmarks the hormetric CLI against generated histories of
// increasing size. Every command runs several times with snapshot tracking
// off and on; the first tracked run is reported as cold and the rest are
// averaged as warm. Results are written as CSV for documentation.
//
// Prerequisites:
// - hormetric binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Scratch directory used as HOME for the generated databases
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (untracked average, cold run and average of warm runs).
type BenchmarkResult struct {
	HistorySize   int
	Command       string
	UntrackedTime string
	ColdTime      string
	WarmTime      string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir       string
	Timeout       time.Duration
	UntrackedRuns int
	TrackedRuns   int
	HistorySizes  []int
	Commands      [][]string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:       os.Args[1],
		Timeout:       2 * time.Minute,
		UntrackedRuns: 3,
		TrackedRuns:   4,
		HistorySizes:  []int{30, 365, 3650},
		Commands: [][]string{
			{"ready"},
			{"bioage", "--age", "40"},
			{"impact"},
			{"hero"},
			{"coach-context", "--age", "40"},
			{"history", "list", "--limit", "1000"},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the hormetric binary and the work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("hormetric"); err != nil {
		return fmt.Errorf("hormetric binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// runBenchmarks seeds one history per size and times every command against it
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d history sizes, %v timeout, untracked: %d runs, tracked: %d runs\n",
		len(config.HistorySizes), config.Timeout, config.UntrackedRuns, config.TrackedRuns)

	for _, size := range config.HistorySizes {
		home := filepath.Join(config.WorkDir, fmt.Sprintf("history-%d", size))
		if err := seedHistory(home, size); err != nil {
			fmt.Printf("Warning: failed to seed %d tests: %v\n", size, err)
			continue
		}
		fmt.Printf("Benchmarking %d days of tests\n", size)

		for _, args := range config.Commands {
			results = append(results, runBenchmarkSuite(config, home, size, args))
		}
	}
	return results
}

// seedHistory writes size days of morning cortisol tests and imports them into a fresh SQLite store
func seedHistory(home string, size int) error {
	if err := os.RemoveAll(home); err != nil {
		return err
	}
	if err := os.MkdirAll(home, 0o755); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("hormone_type,value,timestamp,sleep_quality,stress_level\n")
	start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -size)
	for i := range size {
		ts := start.AddDate(0, 0, i).Add(7 * time.Hour).Format(time.RFC3339)
		fmt.Fprintf(&b, "cortisol,%.1f,%s,%d,%d\n", 8+rand.Float64()*12, ts, 1+rand.IntN(5), 1+rand.IntN(5))
	}
	fixture := filepath.Join(home, "fixture.csv")
	if err := os.WriteFile(fixture, []byte(b.String()), 0o600); err != nil {
		return err
	}

	cmd := exec.Command("hormetric", "history", "import", fixture)
	cmd.Env = append(os.Environ(), "HOME="+home)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// runBenchmarkSuite runs both untracked and tracked benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, home string, size int, args []string) BenchmarkResult {
	command := strings.Join(args, " ")
	fmt.Printf("Running %s\n", command)

	runPhase := func(snapshotBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, home, args, snapshotBackend, numRuns)
		if len(times) == 0 {
			return cold, "TIMEOUT"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	// Phase 1: No snapshot tracking
	_, untrackedAvg := runPhase("none", config.UntrackedRuns, "Untracked")

	// Phase 2: SQLite snapshot tracking
	coldTime, warmAvg := runPhase("sqlite", config.TrackedRuns, "Tracked")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  Untracked average: %s, Cold time: %s, Warm average: %s\n", untrackedAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		HistorySize:   size,
		Command:       command,
		UntrackedTime: untrackedAvg,
		ColdTime:      coldTimeStr,
		WarmTime:      warmAvg,
	}
}

// runBenchmark executes a hormetric command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, home string, args []string, snapshotBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	fullArgs := append([]string{}, args...)
	fullArgs = append(fullArgs, "--snapshot-backend", snapshotBackend, "--output", "json", "--output-file", os.DevNull)

	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("hormetric", fullArgs...)
		cmd.Env = append(os.Environ(), "HOME="+home)

		done := make(chan error, 1)
		go func() {
			_, err := cmd.CombinedOutput()
			done <- err
		}()

		select {
		case err := <-done:
			if err == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("hormetric_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"history_size", "cmd", "untracked_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		record := []string{fmt.Sprint(result.HistorySize), result.Command, result.UntrackedTime, result.ColdTime, result.WarmTime}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results grouped by history size
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, size := range config.HistorySizes {
		fmt.Printf("%d tests:\n", size)
		for _, result := range results {
			if result.HistorySize == size {
				fmt.Printf("  %-28s: Untracked: %s, Cold: %s, Warm: %s\n", result.Command, result.UntrackedTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
