// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the environment variables read by the configuration.
const EnvPrefix = "CONCILIATION"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Currency string `mapstructure:"currency" yaml:"currency"`

	Matching struct {
		ToleranceCents int64  `mapstructure:"tolerance_cents" yaml:"tolerance_cents"`
		ExactOrder     string `mapstructure:"exact_order" yaml:"exact_order"`
	} `mapstructure:"matching" yaml:"matching"`

	Workbook struct {
		BankFile         string `mapstructure:"bank_file" yaml:"bank_file"`
		ExpensesFile     string `mapstructure:"expenses_file" yaml:"expenses_file"`
		IncomeFile       string `mapstructure:"income_file" yaml:"income_file"`
		BankExpensesFile string `mapstructure:"bank_expenses_file" yaml:"bank_expenses_file"`
		BankIncomeFile   string `mapstructure:"bank_income_file" yaml:"bank_income_file"`
		ManifestFile     string `mapstructure:"manifest_file" yaml:"manifest_file"`
	} `mapstructure:"workbook" yaml:"workbook"`

	Ingest struct {
		BankHeaderRows []int  `mapstructure:"bank_header_rows" yaml:"bank_header_rows"`
		XLSCharset     string `mapstructure:"xls_charset" yaml:"xls_charset"`
	} `mapstructure:"ingest" yaml:"ingest"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return load("")
}

// InitializeConfigFromFile loads configuration from an explicit file,
// still applying defaults and environment overrides.
func InitializeConfigFromFile(path string) (*Config, error) {
	return load(path)
}

func load(file string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.conciliation")
		v.AddConfigPath(".conciliation")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless explicit)
	if err := v.ReadInConfig(); err != nil {
		if file != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("currency", "EUR")

	v.SetDefault("matching.tolerance_cents", 1)
	v.SetDefault("matching.exact_order", "expenses,income")

	v.SetDefault("workbook.bank_file", "banco.csv")
	v.SetDefault("workbook.expenses_file", "gastos.csv")
	v.SetDefault("workbook.income_file", "ingresos.csv")
	v.SetDefault("workbook.bank_expenses_file", "banco_gastos.csv")
	v.SetDefault("workbook.bank_income_file", "banco_ingresos.csv")
	v.SetDefault("workbook.manifest_file", "workbook.yaml")

	v.SetDefault("ingest.bank_header_rows", []int{0, 7})
	v.SetDefault("ingest.xls_charset", "utf-8")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if utf8.RuneCountInString(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if len(config.Currency) != 3 {
		return fmt.Errorf("currency must be an ISO 4217 code, got: %s", config.Currency)
	}

	if config.Matching.ToleranceCents < 0 {
		return fmt.Errorf("matching.tolerance_cents must not be negative, got: %d", config.Matching.ToleranceCents)
	}

	// The exact pass always runs expenses before income.
	if order := strings.ReplaceAll(strings.ToLower(config.Matching.ExactOrder), " ", ""); order != "expenses,income" {
		return fmt.Errorf("matching.exact_order must be 'expenses,income', got: %s", config.Matching.ExactOrder)
	}

	files := map[string]string{
		"workbook.bank_file":          config.Workbook.BankFile,
		"workbook.expenses_file":      config.Workbook.ExpensesFile,
		"workbook.income_file":        config.Workbook.IncomeFile,
		"workbook.bank_expenses_file": config.Workbook.BankExpensesFile,
		"workbook.bank_income_file":   config.Workbook.BankIncomeFile,
		"workbook.manifest_file":      config.Workbook.ManifestFile,
	}
	seen := make(map[string]string, len(files))
	for _, key := range []string{
		"workbook.bank_file", "workbook.expenses_file", "workbook.income_file",
		"workbook.bank_expenses_file", "workbook.bank_income_file", "workbook.manifest_file",
	} {
		name := files[key]
		if name == "" || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("%s must be a plain file name, got: %q", key, name)
		}
		if other, dup := seen[name]; dup {
			return fmt.Errorf("%s and %s both use %s", other, key, name)
		}
		seen[name] = key
	}

	for _, row := range config.Ingest.BankHeaderRows {
		if row < 0 {
			return fmt.Errorf("ingest.bank_header_rows must not be negative, got: %d", row)
		}
	}

	return nil
}

// Delimiter returns the configured CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.CSV.Delimiter)
	return r
}
