//go:build !integration

package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/guttosm/stock-service/config"
	"github.com/guttosm/stock-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureCSV = "code,name,quantity,price,discount\n" +
	"1,Lamp,10,20,50\n" +
	"2,Chair,4,80,0\n"

func testConfig(csvPath string) config.Config {
	return config.Config{
		Log:       config.LogConfig{Level: "error"},
		Store:     config.StoreConfig{Backend: "csv", CSVPath: csvPath},
		Generator: config.GeneratorConfig{Records: 5, Seed: 99},
	}
}

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixtureCSV), 0o600))
	return path
}

func runCLI(t *testing.T, cfg config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cli := NewCLI(cfg)
	cli.Writer = &out
	cli.ErrWriter = &out
	err := cli.Run(append([]string{"stock-service"}, args...))
	return out.String(), err
}

func TestCLI_Demo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.csv")

	tests := []struct {
		name    string
		args    []string
		records int
	}{
		{name: "default action", args: nil, records: 5},
		{name: "demo command", args: []string{"demo"}, records: 5},
		{name: "records flag", args: []string{"demo", "--records", "12"}, records: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, testConfig(path), tt.args...)

			require.NoError(t, err)
			assert.Contains(t, out, "Current Stock Value: ")
			assert.Contains(t, out, "Generated "+strconv.Itoa(tt.records)+" random items")
			assert.FileExists(t, path)
		})
	}
}

func TestCLI_GenerateThenValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.csv")

	out, err := runCLI(t, testConfig(path), "--seed", "7", "generate", "--records", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 8 items to the csv store.")

	out, err = runCLI(t, testConfig(path), "value")
	require.NoError(t, err)
	assert.Contains(t, out, "Items: 8")
}

func TestCLI_Value(t *testing.T) {
	out, err := runCLI(t, testConfig(writeFixture(t)), "value")

	require.NoError(t, err)
	assert.Contains(t, out, "Items: 2")
	assert.Contains(t, out, "Current Stock Value: 520.00")
}

func TestCLI_FileFlagOverridesConfig(t *testing.T) {
	path := writeFixture(t)

	out, err := runCLI(t, testConfig(filepath.Join(t.TempDir(), "missing.csv")), "--file", path, "value")

	require.NoError(t, err)
	assert.Contains(t, out, "Items: 2")
}

func TestCLI_Checkout(t *testing.T) {
	path := writeFixture(t)

	out, err := runCLI(t, testConfig(path), "checkout", "--line", "1=4", "--line", "2=1")
	require.NoError(t, err)
	assert.Contains(t, out, "Receipt ")
	assert.Contains(t, out, "Total: 120.00")

	out, err = runCLI(t, testConfig(path), "value")
	require.NoError(t, err)
	assert.Contains(t, out, "Current Stock Value: 360.00", "checkout must be saved")
}

func TestCLI_CheckoutErrors(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		wantErr error
	}{
		{name: "unknown code", lines: []string{"1=1", "99=1"}, wantErr: model.ErrNotFound},
		{name: "insufficient stock", lines: []string{"2=5"}, wantErr: model.ErrInsufficientStock},
		{name: "malformed line", lines: []string{"1:2"}, wantErr: model.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFixture(t)
			args := []string{"checkout"}
			for _, l := range tt.lines {
				args = append(args, "--line", l)
			}

			_, err := runCLI(t, testConfig(path), args...)

			assert.ErrorIs(t, err, tt.wantErr)
			content, readErr := os.ReadFile(path)
			require.NoError(t, readErr)
			assert.Equal(t, fixtureCSV, string(content), "store must be untouched")
		})
	}
}

func TestCLI_Restock(t *testing.T) {
	path := writeFixture(t)

	out, err := runCLI(t, testConfig(path), "restock", "--code", "2", "--count", "6")
	require.NoError(t, err)
	assert.Contains(t, out, "Item 2 (Chair) now has 10 units.")

	_, err = runCLI(t, testConfig(path), "restock", "--code", "2", "--count", "-1")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = runCLI(t, testConfig(path), "restock", "--code", "3", "--count", "1")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCLI_UnknownBackend(t *testing.T) {
	_, err := runCLI(t, testConfig(writeFixture(t)), "--backend", "postgres", "value")

	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestCLI_WritesMetricsTextfile(t *testing.T) {
	metricsPath := filepath.Join(t.TempDir(), "stock.prom")

	_, err := runCLI(t, testConfig(writeFixture(t)), "--metrics-file", metricsPath, "checkout", "--line", "1=1")
	require.NoError(t, err)

	content, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(content), "stock_checkouts_total"), string(content))
}

func TestParseCartLine(t *testing.T) {
	tests := []struct {
		input    string
		expected CartLine
		wantErr  bool
	}{
		{input: "1=2", expected: CartLine{Code: 1, Count: 2}},
		{input: " 1234567 = 10 ", expected: CartLine{Code: 1234567, Count: 10}},
		{input: "5=0", expected: CartLine{Code: 5, Count: 0}},
		{input: "5", wantErr: true},
		{input: "x=1", wantErr: true},
		{input: "1=x", wantErr: true},
		{input: "1=-2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			line, err := ParseCartLine(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, line)
		})
	}
}
