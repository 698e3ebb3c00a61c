package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
	Email     EmailConfig     `yaml:"email"`
	Billing   BillingConfig   `yaml:"billing"`
	School    SchoolConfig    `yaml:"school"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// AuthConfig contains JWT and operator-login settings. Identity management is
// a collaborator system; the fee backend only validates a single operator
// credential and bearer tokens.
type AuthConfig struct {
	JWTSecret          string `yaml:"jwt_secret"`
	AdminEmail         string `yaml:"admin_email"`
	AdminPasswordHash  string `yaml:"admin_password_hash"` // bcrypt
	AccessTokenMinutes int    `yaml:"access_token_expiry_minutes"`
}

// EmailConfig contains SendGrid settings for guardian notifications
type EmailConfig struct {
	Enabled   bool   `yaml:"enabled"`
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// BillingConfig contains demand-bill generation defaults
type BillingConfig struct {
	DueDayOfMonth       int  `yaml:"due_day_of_month"`      // due date falls on this day of the month after the bill month
	AutoCalculateLate   bool `yaml:"auto_calculate_late"`   // default for generation requests
	AutoGenerateMonthly bool `yaml:"auto_generate_monthly"` // enables the monthly cron generation
	ReminderGraceDays   int  `yaml:"reminder_grace_days"`   // days past due before a reminder email
}

// SchoolConfig holds the print-settings block rendered on receipts and bills
type SchoolConfig struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Phone   string `yaml:"phone"`
	Notes   string `yaml:"notes"`
}

// SchedulerConfig contains cron expressions (with seconds field)
type SchedulerConfig struct {
	MarkOverdueBills     string `yaml:"mark_overdue_bills"`
	SendFeeReminders     string `yaml:"send_fee_reminders"`
	GenerateMonthlyBills string `yaml:"generate_monthly_bills"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			c.Database.Port = p
		}
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			c.Server.Port = p
		}
	}
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.Auth.JWTSecret = val
	}
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.APIKey = val
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Auth.AccessTokenMinutes == 0 {
		c.Auth.AccessTokenMinutes = 60
	}
	if c.Billing.DueDayOfMonth == 0 {
		c.Billing.DueDayOfMonth = 10
	}
	if c.Billing.ReminderGraceDays == 0 {
		c.Billing.ReminderGraceDays = 3
	}
	// Scheduler defaults (cron with seconds, UTC)
	if c.Scheduler.MarkOverdueBills == "" {
		c.Scheduler.MarkOverdueBills = "0 0 2 * * *" // 2 AM daily
	}
	if c.Scheduler.SendFeeReminders == "" {
		c.Scheduler.SendFeeReminders = "0 0 4 * * *" // 4 AM daily
	}
	if c.Scheduler.GenerateMonthlyBills == "" {
		c.Scheduler.GenerateMonthlyBills = "0 0 1 1 * *" // 1 AM on the 1st of the month
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth jwt_secret is required")
	}
	if c.Email.Enabled && c.Email.APIKey == "" {
		return fmt.Errorf("email api_key is required when email is enabled")
	}
	if c.Billing.DueDayOfMonth < 1 || c.Billing.DueDayOfMonth > 28 {
		return fmt.Errorf("billing due_day_of_month must be between 1 and 28")
	}
	return nil
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetDatabaseConnectionString returns the PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User,
		c.Database.Password, c.Database.Database, c.Database.SSLMode)
}
