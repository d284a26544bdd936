// Package config provides functionality for loading and accessing environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fjacquet/conciliation/internal/ingest"
	"fjacquet/conciliation/internal/matcher"
	"fjacquet/conciliation/internal/models"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	once sync.Once
	// Logger is the process logger used before the configuration is loaded.
	Logger = logrus.New()
)

// ConfigureLogging sets up logging based on environment variables and returns the configured logger
func ConfigureLogging() *logrus.Logger {
	logLevelStr := GetEnv("LOG_LEVEL", "info")

	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		Logger.Warnf("Invalid log level '%s', using 'info'", logLevelStr)
		logLevel = logrus.InfoLevel
	}
	Logger.SetLevel(logLevel)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		Logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return Logger
}

// LoadEnv loads environment variables from .env file if it exists
func LoadEnv() {
	once.Do(func() {
		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				Logger.Debug("No .env file found, using environment variables")
				return
			}
		}

		if err := godotenv.Load(envFile); err != nil {
			Logger.Warnf("Error loading .env file: %v", err)
			return
		}
		Logger.Debugf("Loaded environment variables from %s", envFile)

		ConfigureLogging()
	})
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}

// Schema returns the ledger layout. Sheet names follow the configured
// ledger file names without their extension.
func (c *Config) Schema() models.Schema {
	return models.DefaultSchema().WithSheets(
		stem(c.Workbook.BankFile),
		stem(c.Workbook.ExpensesFile),
		stem(c.Workbook.IncomeFile),
	)
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// IngestOptions returns the options of the statement readers.
func (c *Config) IngestOptions() ingest.Options {
	return ingest.Options{
		HeaderRows: append([]int(nil), c.Ingest.BankHeaderRows...),
		Charset:    c.Ingest.XLSCharset,
		Delimiter:  c.Delimiter(),
	}
}

// MatcherOptions returns the options of the auto-matcher.
func (c *Config) MatcherOptions() matcher.Options {
	return matcher.Options{ToleranceCents: c.Matching.ToleranceCents}
}
