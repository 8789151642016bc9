package config

import "frameworks/api_lookout/pkg/config"

// Config stores environment configuration for Lookout.
type Config struct {
	Port        string
	DatabaseURL string

	AnthropicAPIKey string
	AnthropicAPIURL string
	AnthropicModel  string

	CronSecret   string
	ScanSchedule string

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	AlertTo      string
}

// LoadConfig loads the Lookout configuration from environment variables.
func LoadConfig() Config {
	return Config{
		Port:        config.GetEnv("PORT", "18020"),
		DatabaseURL: config.RequireEnv("DATABASE_URL"),

		AnthropicAPIKey: config.RequireEnv("ANTHROPIC_API_KEY"),
		AnthropicAPIURL: config.GetEnv("ANTHROPIC_API_URL", ""),
		AnthropicModel:  config.GetEnv("ANTHROPIC_MODEL", ""),

		CronSecret:   config.GetEnv("CRON_SECRET", ""),
		ScanSchedule: config.GetEnv("SCAN_SCHEDULE", "0 7 * * *"),

		SMTPHost:     config.GetEnv("SMTP_HOST", ""),
		SMTPPort:     config.GetEnv("SMTP_PORT", "587"),
		SMTPUser:     config.GetEnv("SMTP_USER", ""),
		SMTPPassword: config.GetEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     config.GetEnv("SMTP_FROM", "alerts@lookout.local"),
		AlertTo:      config.GetEnv("ALERT_EMAIL", ""),
	}
}
