package config

import "fmt"

type Config struct {
	Workbook WorkbookConfig
	Rules    RulesConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Server   ServerConfig
	Report   ReportConfig
}

type WorkbookConfig struct {
	Path string `mapstructure:"path"`
}

type RulesConfig struct {
	// DocumentPath is where export-rules writes and where rule-source
	// selection looks when the authored table is empty.
	DocumentPath string `mapstructure:"document_path"`
}

type DatabaseConfig struct {
	Postgres       PostgresConfig
	RunMigrations  bool   `mapstructure:"run_migrations"`
	MigrationsPath string `mapstructure:"migrations_path"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN renders the lib/pq key-value connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL renders the postgres:// form the migration tooling expects.
func (c PostgresConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServerConfig struct {
	// MetricsPort exposes /metrics and /health while a run is in
	// progress; 0 disables the listener.
	MetricsPort int `mapstructure:"metrics_port"`
}

type ReportConfig struct {
	TopPrompts int `mapstructure:"top_prompts"`
}
