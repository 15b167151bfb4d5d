package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "salescli/internal/errors"
)

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(t *testing.T)
		setupFile   func(t *testing.T) string // returns temp file path
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "default configuration with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultInputFile, cfg.Input.File)
				assert.Equal(t, ",", cfg.Input.Delimiter)
				assert.Equal(t, DefaultDateLayouts, cfg.Input.DateLayouts)
				assert.Equal(t, DefaultOutputDir, cfg.Output.Dir)
				assert.True(t, cfg.Output.Workbook)
				assert.True(t, cfg.Output.PDF)
				assert.Equal(t, "$", cfg.Report.CurrencySymbol)
				assert.Equal(t, 10, cfg.Report.TopN)
				assert.False(t, cfg.Report.LegacyHourFromDate)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
			},
		},
		{
			name: "environment variables override defaults",
			setupEnv: func(t *testing.T) {
				t.Setenv("SALES_INPUT_FILE", "in/sales.csv")
				t.Setenv("SALES_INPUT_DELIMITER", ";")
				t.Setenv("SALES_OUTPUT_DIR", "out")
				t.Setenv("SALES_OUTPUT_PDF", "false")
				t.Setenv("SALES_REPORT_TOP_N", "5")
				t.Setenv("SALES_REPORT_LEGACY_HOUR_FROM_DATE", "true")
				t.Setenv("SALES_LOGGING_LEVEL", "DEBUG")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "in/sales.csv", cfg.Input.File)
				assert.Equal(t, ";", cfg.Input.Delimiter)
				assert.Equal(t, "out", cfg.Output.Dir)
				assert.False(t, cfg.Output.PDF)
				assert.True(t, cfg.Output.Workbook)
				assert.Equal(t, 5, cfg.Report.TopN)
				assert.True(t, cfg.Report.LegacyHourFromDate)
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name: "date layouts from comma separated env",
			setupEnv: func(t *testing.T) {
				t.Setenv("SALES_INPUT_DATE_LAYOUTS", "02.01.2006,2006-01-02")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"02.01.2006", "2006-01-02"}, cfg.Input.DateLayouts)
			},
		},
		{
			name: "yaml file overlays defaults",
			setupFile: func(t *testing.T) string {
				return writeConfigFile(t, `
input:
  file: data/2023.xlsx
  sheet: Transactions
report:
  currency_symbol: "€"
  top_n: 3
telemetry:
  trace_exporter: stdout
  metrics_file: reports/run.prom
`)
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "data/2023.xlsx", cfg.Input.File)
				assert.Equal(t, "Transactions", cfg.Input.Sheet)
				assert.Equal(t, ",", cfg.Input.Delimiter, "unset yaml keys keep defaults")
				assert.Equal(t, "€", cfg.Report.CurrencySymbol)
				assert.Equal(t, 3, cfg.Report.TopN)
				assert.Equal(t, "stdout", cfg.Telemetry.TraceExporter)
				assert.Equal(t, "reports/run.prom", cfg.Telemetry.MetricsFile)
			},
		},
		{
			name: "env beats yaml",
			setupEnv: func(t *testing.T) {
				t.Setenv("SALES_REPORT_TOP_N", "7")
			},
			setupFile: func(t *testing.T) string {
				return writeConfigFile(t, "report:\n  top_n: 3\n")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7, cfg.Report.TopN)
			},
		},
		{
			name: "invalid env value",
			setupEnv: func(t *testing.T) {
				t.Setenv("SALES_REPORT_TOP_N", "many")
			},
			wantErr: true,
		},
		{
			name: "invalid log level fails validation",
			setupEnv: func(t *testing.T) {
				t.Setenv("SALES_LOGGING_LEVEL", "verbose")
			},
			wantErr: true,
		},
		{
			name: "malformed yaml",
			setupFile: func(t *testing.T) string {
				return writeConfigFile(t, "input: [unterminated\n")
			},
			wantErr: true,
		},
		{
			name: "missing explicit config file",
			setupFile: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent.yaml")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setupEnv != nil {
				tt.setupEnv(t)
			}
			configFile := ""
			if tt.setupFile != nil {
				configFile = tt.setupFile(t)
			}

			cfg, err := Load(configFile)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoad_ConfigFromEnvPath(t *testing.T) {
	path := writeConfigFile(t, "output:\n  dir: elsewhere\n")
	t.Setenv("SALES_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "elsewhere", cfg.Output.Dir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:    "empty input file",
			mutate:  func(c *Config) { c.Input.File = "" },
			wantErr: "Config.Input.File",
		},
		{
			name:    "multi character delimiter",
			mutate:  func(c *Config) { c.Input.Delimiter = ";;" },
			wantErr: "Config.Input.Delimiter",
		},
		{
			name:    "no date layouts",
			mutate:  func(c *Config) { c.Input.DateLayouts = nil },
			wantErr: "Config.Input.DateLayouts",
		},
		{
			name:    "top n out of range",
			mutate:  func(c *Config) { c.Report.TopN = 0 },
			wantErr: "Config.Report.TopN",
		},
		{
			name:    "unknown trace exporter",
			mutate:  func(c *Config) { c.Telemetry.TraceExporter = "jaeger" },
			wantErr: "Config.Telemetry.TraceExporter",
		},
		{
			name: "file logging without path",
			mutate: func(c *Config) {
				c.Logging.Output = "file"
				c.Logging.FilePath = ""
			},
			wantErr: "file_path",
		},
		{
			name:   "level is lowercased",
			mutate: func(c *Config) { c.Logging.Level = "WARN" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDefault_IndependentLayouts(t *testing.T) {
	a := Default()
	a.Input.DateLayouts[0] = "changed"

	assert.Equal(t, "2006-01-02", Default().Input.DateLayouts[0])
	assert.Equal(t, "2006-01-02", DefaultDateLayouts[0])
}

func TestNewPaths(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	p := NewPaths(dir)

	assert.Equal(t, filepath.Join(dir, WorkbookFileName), p.WorkbookFile)
	assert.Equal(t, filepath.Join(dir, PDFFileName), p.PDFFile)
	assert.Equal(t, filepath.Join(dir, SummaryFileName), p.SummaryFile)
	assert.Equal(t, filepath.Join(dir, AggregatesFileName), p.AggregatesFile)
	assert.NoDirExists(t, dir)

	assert.Equal(t, DefaultOutputDir, NewPaths("").OutputDir)
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
