package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	var errs []error

	if err := validateWorkbook(cfg.Workbook); err != nil {
		errs = append(errs, err)
	}

	if err := validateServer(cfg.Server); err != nil {
		errs = append(errs, err)
	}

	if err := validateLogging(cfg.Logging); err != nil {
		errs = append(errs, err)
	}

	if err := validateReport(cfg.Report); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errs)
	}

	return nil
}

func validateWorkbook(cfg WorkbookConfig) error {
	if strings.TrimSpace(cfg.Path) == "" {
		return &ValidationError{
			Field:   "workbook.path",
			Message: "workbook path is required",
		}
	}

	if !strings.HasSuffix(cfg.Path, ".xlsx") && !strings.HasSuffix(cfg.Path, ".xlsm") {
		return &ValidationError{
			Field:   "workbook.path",
			Message: fmt.Sprintf("workbook must be .xlsx or .xlsm, got %s", cfg.Path),
		}
	}

	return nil
}

func validateServer(cfg ServerConfig) error {
	if cfg.MetricsPort < 0 || cfg.MetricsPort > 65535 {
		return &ValidationError{
			Field:   "server.metrics_port",
			Message: fmt.Sprintf("metrics port must be between 0 and 65535, got %d", cfg.MetricsPort),
		}
	}

	return nil
}

func validateLogging(cfg LoggingConfig) error {
	switch cfg.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return &ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("unknown log level %q", cfg.Level),
		}
	}

	return nil
}

func validateReport(cfg ReportConfig) error {
	if cfg.TopPrompts < 0 {
		return &ValidationError{
			Field:   "report.top_prompts",
			Message: "top prompts must not be negative",
		}
	}

	return nil
}
