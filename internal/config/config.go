package config

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Logging LoggingConfig
	Session SessionConfig
	Report  ReportConfig
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// SessionConfig holds session persistence configuration
type SessionConfig struct {
	Path          string
	MaxRecords    int
	EncryptionKey string // hex-encoded 256-bit key, empty stores plain text
	AuditPath     string // empty disables the audit trail
}

// ReportConfig holds report generation configuration
type ReportConfig struct {
	OutputDir string
	PatientID string
}

// Load reads configuration from an optional config file and environment variables
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Read the config file when one is given
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Read from environment variables
	v.AutomaticEnv()

	// Bind specific environment variables
	bindEnvVars(v)

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Session defaults
	v.SetDefault("session.path", "stress_session.json")
	v.SetDefault("session.maxrecords", 100)
	v.SetDefault("session.auditpath", "stress_audit.jsonl")

	// Report defaults
	v.SetDefault("report.outputdir", "reports")
	v.SetDefault("report.patientid", "anonymous")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Logging
	v.BindEnv("logging.level", "STRESS_LOG_LEVEL", "LOG_LEVEL")
	v.BindEnv("logging.format", "STRESS_LOG_FORMAT", "LOG_FORMAT")

	// Session
	v.BindEnv("session.path", "STRESS_SESSION_PATH")
	v.BindEnv("session.maxrecords", "STRESS_SESSION_MAX_RECORDS")
	v.BindEnv("session.encryptionkey", "STRESS_SESSION_ENCRYPTION_KEY")
	v.BindEnv("session.auditpath", "STRESS_AUDIT_PATH")

	// Report
	v.BindEnv("report.outputdir", "STRESS_REPORT_OUTPUT_DIR")
	v.BindEnv("report.patientid", "STRESS_PATIENT_ID")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	if c.Session.Path == "" {
		return fmt.Errorf("session.path is required")
	}

	if c.Session.MaxRecords <= 0 {
		return fmt.Errorf("session.maxrecords must be positive")
	}

	if key := c.Session.EncryptionKey; key != "" {
		decoded, err := hex.DecodeString(key)
		if err != nil {
			return fmt.Errorf("session.encryptionkey must be hex encoded: %w", err)
		}
		if len(decoded) != 32 {
			return fmt.Errorf("session.encryptionkey must encode 32 bytes, got %d", len(decoded))
		}
	}

	if c.Report.OutputDir == "" {
		return fmt.Errorf("report.outputdir is required")
	}

	return nil
}
