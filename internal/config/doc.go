// Package config provides centralized configuration management for the
// school-data analysis pipeline. It handles loading configuration from
// multiple sources, validation, and provides a type-safe API for accessing
// configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern NYCSAT_* for namespacing:
//
//	NYCSAT_LOGGING_LEVEL=debug
//	NYCSAT_LOGGING_OUTPUT=console
//	NYCSAT_PATHS_DATA_DIR=/srv/nycsat/data
//	NYCSAT_PIPELINE_IMPUTE_MISSING=false
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which handles all file system paths relative to the executable location:
//
//	paths, err := config.GetPaths()
//	combined := paths.CombinedCSV()
//	report := paths.GetReportPath("districts.csv")
//
// # Validation
//
// All configuration is validated at load time with struct tags
// (go-playground/validator), so a bad log level or an impossible output
// mode fails the run before any data is read.
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
