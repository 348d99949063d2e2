/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package config loads and validates the server configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/wso2/pharma-ledger-api/internal/system/utils"
)

// Supported database types
const (
	DBTypeMySQL    = "mysql"
	DBTypePostgres = "postgres"
	DBTypeSQLite   = "sqlite"
)

// Batch visibility modes
const (
	VisibilityGlobal  = "global"
	VisibilityCustody = "custody"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabasesConfig    `mapstructure:"database"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Security     SecurityConfig     `mapstructure:"security"`
	CORS         CORSConfig         `mapstructure:"cors"`
	Ledger       LedgerConfig       `mapstructure:"ledger"`
	Identity     IdentityConfig     `mapstructure:"identity"`
	Notification NotificationConfig `mapstructure:"notification"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Hostname        string        `mapstructure:"hostname"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabasesConfig holds all database configurations
type DatabasesConfig struct {
	Ledger DatabaseConfig `mapstructure:"ledger"`
}

// DatabaseConfig holds individual database configuration
type DatabaseConfig struct {
	Type            string        `mapstructure:"type"`
	Hostname        string        `mapstructure:"hostname"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	BasicAuth BasicAuthConfig `mapstructure:"basic_auth"`
}

// BasicAuthConfig holds basic authentication configuration for the wallet gateway
type BasicAuthConfig struct {
	Enabled bool            `mapstructure:"enabled"`
	Users   []BasicAuthUser `mapstructure:"users"`
}

// BasicAuthUser represents a basic auth user
type BasicAuthUser struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// LedgerConfig holds batch ledger policy
type LedgerConfig struct {
	// AllowRecallAfterVerified adds the Verified -> Recalled edge.
	AllowRecallAfterVerified bool `mapstructure:"allow_recall_after_verified"`
	// Visibility is either "global" or "custody".
	Visibility string `mapstructure:"visibility"`
	// MaxDrugNameLength bounds the free-text drug name.
	MaxDrugNameLength int `mapstructure:"max_drug_name_length"`
}

// IdentityConfig holds role registry configuration
type IdentityConfig struct {
	// Regulators are seeded with the Regulator role at startup.
	Regulators []string `mapstructure:"regulators"`
}

// NotificationConfig holds recall webhook configuration
type NotificationConfig struct {
	Enabled       bool                  `mapstructure:"enabled"`
	BaseURL       string                `mapstructure:"base_url"`
	Timeout       time.Duration         `mapstructure:"timeout"`
	RetryAttempts int                   `mapstructure:"retry_attempts"`
	QueueSize     int                   `mapstructure:"queue_size"`
	Endpoints     NotificationEndpoints `mapstructure:"endpoints"`
}

// NotificationEndpoints holds the webhook endpoint paths
type NotificationEndpoints struct {
	BatchRecalled string `mapstructure:"batch_recalled"`
}

// MetricsConfig holds Prometheus configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

var globalConfig *Config

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default configuration lookup order:
		// 1. ./repository/conf/deployment.yaml (production - relative to binary)
		// 2. ./cmd/server/repository/conf/deployment.yaml (development)
		v.SetConfigName("deployment")
		v.SetConfigType("yaml")
		v.AddConfigPath("./repository/conf")
		v.AddConfigPath("./cmd/server/repository/conf")
		v.AddConfigPath("../repository/conf")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	// PHARMA_LEDGER_DATABASE_LEDGER_PASSWORD overrides database.ledger.password
	v.SetEnvPrefix("PHARMA_LEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	globalConfig = &config
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.hostname", "0.0.0.0")
	v.SetDefault("server.port", 9090)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("database.ledger.type", DBTypeMySQL)
	v.SetDefault("database.ledger.max_open_conns", 25)
	v.SetDefault("database.ledger.max_idle_conns", 5)
	v.SetDefault("database.ledger.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("ledger.visibility", VisibilityGlobal)
	v.SetDefault("ledger.max_drug_name_length", 255)
	v.SetDefault("notification.timeout", 10*time.Second)
	v.SetDefault("notification.retry_attempts", 3)
	v.SetDefault("notification.queue_size", 100)
	v.SetDefault("notification.endpoints.batch_recalled", "/batch-recalled")
	v.SetDefault("metrics.path", "/metrics")
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	db := config.Database.Ledger
	switch db.Type {
	case DBTypeMySQL, DBTypePostgres:
		if db.Hostname == "" {
			return fmt.Errorf("database hostname is required")
		}
		if db.Database == "" {
			return fmt.Errorf("database name is required")
		}
	case DBTypeSQLite:
		if db.Database == "" {
			return fmt.Errorf("database file is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", db.Type)
	}

	switch config.Ledger.Visibility {
	case VisibilityGlobal, VisibilityCustody:
	default:
		return fmt.Errorf("invalid ledger visibility: %s", config.Ledger.Visibility)
	}
	if config.Ledger.MaxDrugNameLength <= 0 {
		return fmt.Errorf("ledger max drug name length must be positive")
	}

	for _, regulator := range config.Identity.Regulators {
		if !utils.IsValidAddress(regulator) {
			return fmt.Errorf("invalid regulator address: %s", regulator)
		}
	}

	if config.Notification.Enabled && config.Notification.BaseURL == "" {
		return fmt.Errorf("notification base URL is required when notifications are enabled")
	}
	if config.Notification.RetryAttempts < 0 {
		return fmt.Errorf("notification retry attempts must be non-negative")
	}
	if config.Notification.QueueSize < 0 {
		return fmt.Errorf("notification queue size must be non-negative")
	}

	if config.Security.BasicAuth.Enabled && len(config.Security.BasicAuth.Users) == 0 {
		return fmt.Errorf("at least one basic auth user is required when basic auth is enabled")
	}

	return nil
}

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// SetGlobal sets the global configuration (for testing purposes)
func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

// GetDSN returns the database connection string for the configured type
func (d *DatabaseConfig) GetDSN() string {
	switch d.Type {
	case DBTypePostgres:
		sslMode := d.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			d.User, d.Password, d.Hostname, d.Port, d.Database, sslMode)
	case DBTypeSQLite:
		return d.Database
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&multiStatements=true",
			d.User,
			d.Password,
			d.Hostname,
			d.Port,
			d.Database,
		)
	}
}

// GetServerAddress returns the server address in host:port format
func (s *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", s.Hostname, s.Port)
}

// GetNotificationURL returns the full URL for a notification endpoint
func (n *NotificationConfig) GetNotificationURL(endpoint string) string {
	return strings.TrimRight(n.BaseURL, "/") + endpoint
}

// Accounts returns the basic auth users as a username to password map
func (b *BasicAuthConfig) Accounts() map[string]string {
	accounts := make(map[string]string, len(b.Users))
	for _, user := range b.Users {
		accounts[user.Username] = user.Password
	}
	return accounts
}

// IsCustodyVisibility reports whether batch listings are scoped to the caller
func (l *LedgerConfig) IsCustodyVisibility() bool {
	return l.Visibility == VisibilityCustody
}
