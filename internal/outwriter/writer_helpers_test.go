package outwriter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/hormetric/internal/contract"
	"github.com/huangsam/hormetric/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{name: "precision 2", precision: 2, value: 3.14159, expected: "3.14"},
		{name: "precision 0", precision: 0, value: 3.14159, expected: "3"},
		{name: "negative value", precision: 1, value: -42.567, expected: "-42.6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, intFmt := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			assert.Equal(t, "%d", intFmt)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"score": 72}))
	assert.Equal(t, "{\n  \"score\": 72\n}\n", buf.String())

	err := writeJSON(&buf, make(chan int))
	assert.Error(t, err)
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"a", "b"}, func(w *csv.Writer) error {
		return w.Write([]string{"1", "x,y"})
	})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,\"x,y\"\n", buf.String())

	buf.Reset()
	err = writeCSVWithHeader(&buf, []string{"a"}, func(*csv.Writer) error { return errors.New("boom") })
	assert.EqualError(t, err, "boom")
}

func TestWriteWithFile(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "out.txt")
	err := writeWithFile(outputPath, func(w io.Writer) error {
		_, err := w.Write([]byte("hello"))
		return err
	}, "Wrote test")
	require.NoError(t, err)

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	err = writeWithFile("/nonexistent/dir/out.txt", func(io.Writer) error { return nil }, "Wrote test")
	assert.Error(t, err)
}

func TestDispatchParquetUnsupported(t *testing.T) {
	cfg := &contract.Config{Output: schema.ParquetOut}
	err := dispatch(cfg, renderer{name: "streak"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "streak")
}

func TestSigned(t *testing.T) {
	fmtFloat, _ := createFormatters(1)
	assert.Equal(t, "+2.5", signed(fmtFloat, 2.5))
	assert.Equal(t, "-2.5", signed(fmtFloat, -2.5))
	assert.Equal(t, "0.0", signed(fmtFloat, 0))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░░░░░░░   0%", progressBar(0))
	assert.Equal(t, "█████░░░░░  50%", progressBar(50))
	assert.Equal(t, "██████████ 100%", progressBar(100))
}

func TestGetMaxTableTextWidth(t *testing.T) {
	assert.Equal(t, 20, GetMaxTableTextWidth(&contract.Config{Width: 40}))
	assert.Equal(t, 70, GetMaxTableTextWidth(&contract.Config{Width: 100}))
	assert.Equal(t, 100, GetMaxTableTextWidth(&contract.Config{Width: 400}))
}
