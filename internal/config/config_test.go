package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves the test into dir so Load cannot pick up a stray
// config.yaml from the repository.
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)

	assert.Equal(t, DefaultDataDir, cfg.Paths.DataDir)
	assert.Equal(t, DefaultReportsDir, cfg.Paths.ReportsDir)
	assert.Equal(t, DefaultLogsDir, cfg.Paths.LogsDir)

	assert.Equal(t, "09-12", cfg.Pipeline.ClassSizeGrade)
	assert.Equal(t, "GEN ED", cfg.Pipeline.ClassSizeProgram)
	assert.Equal(t, "20112012", cfg.Pipeline.DemographicsYear)
	assert.Equal(t, "2006", cfg.Pipeline.GraduationCohort)
	assert.Equal(t, "Total Cohort", cfg.Pipeline.GraduationDemographic)
	assert.True(t, cfg.Pipeline.ImputeMissing)
	assert.Equal(t, SATScoreColumn, cfg.Pipeline.CorrelationTarget)

	assert.Equal(t, DefaultSurveyFields(), cfg.Pipeline.SurveyFields)
	assert.Contains(t, cfg.Pipeline.SurveyFields, "dbn")

	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(t *testing.T)
		configYAML  string
		wantErr     string
		validateCfg func(t *testing.T, cfg *Config)
	}{
		{
			name: "defaults when nothing is set",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "sat_score", cfg.Pipeline.CorrelationTarget)
				assert.Len(t, cfg.Pipeline.SurveyFields, 23)
			},
		},
		{
			name: "yaml file overlays defaults",
			configYAML: `logging:
  level: warn
pipeline:
  graduation_cohort: "2006 Aug"
  impute_missing: false
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "warn", cfg.Logging.Level)
				assert.Equal(t, "2006 Aug", cfg.Pipeline.GraduationCohort)
				assert.False(t, cfg.Pipeline.ImputeMissing)
				// untouched fields keep their defaults
				assert.Equal(t, "GEN ED", cfg.Pipeline.ClassSizeProgram)
			},
		},
		{
			name: "environment wins over the file",
			configYAML: `logging:
  level: warn
`,
			setupEnv: func(t *testing.T) {
				t.Setenv("NYCSAT_LOGGING_LEVEL", "error")
				t.Setenv("NYCSAT_PIPELINE_CORRELATION_TARGET", "ap_per")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "error", cfg.Logging.Level)
				assert.Equal(t, "ap_per", cfg.Pipeline.CorrelationTarget)
			},
		},
		{
			name: "survey fields from the environment",
			setupEnv: func(t *testing.T) {
				t.Setenv("NYCSAT_PIPELINE_SURVEY_FIELDS", "dbn,rr_s,saf_s_11")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"dbn", "rr_s", "saf_s_11"}, cfg.Pipeline.SurveyFields)
			},
		},
		{
			name: "empty survey fields fall back to the canonical list",
			configYAML: `pipeline:
  survey_fields: []
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultSurveyFields(), cfg.Pipeline.SurveyFields)
			},
		},
		{
			name:       "malformed yaml fails",
			configYAML: "logging: [not a mapping",
			wantErr:    "failed to parse config file",
		},
		{
			name: "invalid level fails validation",
			setupEnv: func(t *testing.T) {
				t.Setenv("NYCSAT_LOGGING_LEVEL", "verbose")
			},
			wantErr: "config validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			if tt.configYAML != "" {
				require.NoError(t, os.WriteFile("config.yaml", []byte(tt.configYAML), 0644))
			}
			if tt.setupEnv != nil {
				tt.setupEnv(t)
			}

			cfg, err := Load()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_ConfigsDirectory(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0755))
	yaml := "logging:\n  level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{
			name:   "default is valid",
			mutate: func(cfg *Config) {},
		},
		{
			name: "console output needs no file path",
			mutate: func(cfg *Config) {
				cfg.Logging.Output = "console"
				cfg.Logging.FilePath = ""
			},
		},
		{
			name: "file output requires a file path",
			mutate: func(cfg *Config) {
				cfg.Logging.Output = "file"
				cfg.Logging.FilePath = ""
			},
			wantErr: true,
		},
		{
			name: "unknown log level",
			mutate: func(cfg *Config) {
				cfg.Logging.Level = "trace"
			},
			wantErr: true,
		},
		{
			name: "format must be json",
			mutate: func(cfg *Config) {
				cfg.Logging.Format = "text"
			},
			wantErr: true,
		},
		{
			name: "missing correlation target",
			mutate: func(cfg *Config) {
				cfg.Pipeline.CorrelationTarget = ""
			},
			wantErr: true,
		},
		{
			name: "missing data dir",
			mutate: func(cfg *Config) {
				cfg.Paths.DataDir = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
