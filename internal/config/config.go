package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "salescli/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// InputConfig describes the transaction file to analyse
type InputConfig struct {
	File        string   `yaml:"file" envconfig:"FILE" validate:"required"`
	Sheet       string   `yaml:"sheet" envconfig:"SHEET"` // xlsx only; first sheet when empty
	Delimiter   string   `yaml:"delimiter" envconfig:"DELIMITER" validate:"len=1"`
	DateLayouts []string `yaml:"date_layouts" envconfig:"DATE_LAYOUTS" validate:"min=1,dive,required"`
}

// OutputConfig selects the report artefacts
type OutputConfig struct {
	Dir         string `yaml:"dir" envconfig:"DIR" validate:"required"`
	Workbook    bool   `yaml:"workbook" envconfig:"WORKBOOK"`
	PDF         bool   `yaml:"pdf" envconfig:"PDF"`
	SummaryText bool   `yaml:"summary_text" envconfig:"SUMMARY_TEXT"`
	CSV         bool   `yaml:"csv" envconfig:"CSV"` // long-format aggregates export
}

// ReportConfig contains presentation and derivation options
type ReportConfig struct {
	CurrencySymbol string `yaml:"currency_symbol" envconfig:"CURRENCY_SYMBOL" validate:"required"`
	TopN           int    `yaml:"top_n" envconfig:"TOP_N" validate:"min=1,max=100"`
	// LegacyHourFromDate derives Hour from transaction_date instead of
	// transaction_time. The date carries no time of day, so every hour is 0.
	LegacyHourFromDate bool `yaml:"legacy_hour_from_date" envconfig:"LEGACY_HOUR_FROM_DATE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	Environment   string `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	TraceFile     string `yaml:"trace_file" envconfig:"TRACE_FILE"`     // stdout exporter target; stderr when empty
	MetricsFile   string `yaml:"metrics_file" envconfig:"METRICS_FILE"` // Prometheus textfile; skipped when empty
}

// Load builds the configuration from defaults, an optional YAML file, an
// optional .env file and SALES_* environment variables, in that order of
// increasing precedence. configFile may be empty.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.NewConfigError("failed to load .env", err)
	}

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to load config from %s", configFile), err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and normalises logging settings
func (c *Config) Validate() error {
	// Always JSON logs
	c.Logging.Format = "json"
	c.Logging.Level = strings.ToLower(c.Logging.Level)

	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return apperrors.NewConfigError("config validation failed: "+strings.Join(msgs, "; "), err)
		}
		return apperrors.NewConfigError("config validation failed", err)
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return apperrors.NewConfigError("logging.file_path is required for file output", nil)
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" {
		return path
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			File:        DefaultInputFile,
			Delimiter:   ",",
			DateLayouts: append([]string(nil), DefaultDateLayouts...),
		},
		Output: OutputConfig{
			Dir:         DefaultOutputDir,
			Workbook:    true,
			PDF:         true,
			SummaryText: true,
		},
		Report: ReportConfig{
			CurrencySymbol: "$",
			TopN:           10,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/salesreport.log",
		},
		Telemetry: TelemetryConfig{
			ServiceName:   AppName,
			Environment:   "development",
			TraceExporter: "none",
		},
	}
}
