// Package config provides configuration utilities for the application.
package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/yuchialin/tripledger/internal/sheets"
)

// LoadSheetsConfig loads Google Sheets configuration with this precedence:
// 1. Viper configuration (from config file or TRIPLEDGER_ env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*)
// 3. Default values
func LoadSheetsConfig() (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()

	if v := viper.GetString("sheets.service_account_path"); v != "" {
		cfg.ServiceAccountPath = ExpandPath(v)
	}
	if v := viper.GetString("sheets.client_id"); v != "" {
		cfg.ClientID = v
	}
	if v := viper.GetString("sheets.client_secret"); v != "" {
		cfg.ClientSecret = v
	}
	if v := viper.GetString("sheets.refresh_token"); v != "" {
		cfg.RefreshToken = v
	}
	if v := viper.GetString("sheets.management_sheet_id"); v != "" {
		cfg.ManagementSheetID = v
	}
	if v := viper.GetInt("sheets.retry_attempts"); v > 0 {
		cfg.RetryAttempts = v
	}
	if v := viper.GetDuration("sheets.retry_delay"); v > 0 {
		cfg.RetryDelay = v
	}

	if cfg.ServiceAccountPath == "" {
		if v := os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"); v != "" {
			cfg.ServiceAccountPath = ExpandPath(v)
		}
	}
	if cfg.ClientID == "" {
		cfg.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if cfg.ClientSecret == "" {
		cfg.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if cfg.RefreshToken == "" {
		cfg.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")
	}
	if cfg.ManagementSheetID == "" {
		cfg.ManagementSheetID = os.Getenv("TRIPLEDGER_MANAGEMENT_SHEET_ID")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Tolerance returns the configured allocation balance tolerance, or the
// provided default when unset.
func Tolerance(defaultValue float64) float64 {
	if viper.IsSet("allocation.tolerance") {
		return viper.GetFloat64("allocation.tolerance")
	}
	return defaultValue
}
