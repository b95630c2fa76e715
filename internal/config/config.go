package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	ReportsDir    string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// PipelineConfig contains the data-pipeline tunables. The zero value is not
// usable; Load and Default fill every field.
type PipelineConfig struct {
	// SurveyFields is the set of survey columns carried into the combined
	// table. Empty means the canonical list from DefaultSurveyFields.
	SurveyFields []string `yaml:"survey_fields" envconfig:"SURVEY_FIELDS"`

	// Row filters applied before condensation.
	ClassSizeGrade        string `yaml:"class_size_grade" envconfig:"CLASS_SIZE_GRADE" validate:"required"`
	ClassSizeProgram      string `yaml:"class_size_program" envconfig:"CLASS_SIZE_PROGRAM" validate:"required"`
	DemographicsYear      string `yaml:"demographics_year" envconfig:"DEMOGRAPHICS_YEAR" validate:"required"`
	GraduationCohort      string `yaml:"graduation_cohort" envconfig:"GRADUATION_COHORT" validate:"required"`
	GraduationDemographic string `yaml:"graduation_demographic" envconfig:"GRADUATION_DEMOGRAPHIC" validate:"required"`

	// ImputeMissing fills missing numeric cells of the combined table with
	// the column mean (zero when a column is entirely missing) before the
	// correlation pass.
	ImputeMissing bool `yaml:"impute_missing" envconfig:"IMPUTE_MISSING"`

	// CorrelationTarget is the column every numeric column is correlated
	// against.
	CorrelationTarget string `yaml:"correlation_target" envconfig:"CORRELATION_TARGET" validate:"required"`
}

// Load loads configuration from defaults, an optional YAML file, and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	cfg := Default()

	// Overlay the config file if one exists
	configFile := getConfigFilePath()
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Environment variables win over both defaults and file values
	if err := envconfig.Process("NYCSAT", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if len(cfg.Pipeline.SurveyFields) == 0 {
		cfg.Pipeline.SurveyFields = DefaultSurveyFields()
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration against its struct tags plus the
// cross-field rules the tags cannot express.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging output %q requires a file path", c.Logging.Output)
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
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
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			DataDir:    DefaultDataDir,
			ReportsDir: DefaultReportsDir,
			LogsDir:    DefaultLogsDir,
		},
		Pipeline: PipelineConfig{
			SurveyFields:          DefaultSurveyFields(),
			ClassSizeGrade:        "09-12",
			ClassSizeProgram:      "GEN ED",
			DemographicsYear:      "20112012",
			GraduationCohort:      "2006",
			GraduationDemographic: "Total Cohort",
			ImputeMissing:         true,
			CorrelationTarget:     SATScoreColumn,
		},
	}
}
