package config

import (
	"github.com/caarlos0/env/v11"
)

type Config struct {
	TelegramToken string `env:"TELEGRAM_TOKEN" envDefault:""`
	// GeminiKey is an optional default credential for single-user setups;
	// users can always override it per session with /key.
	GeminiKey  string `env:"GEMINI_KEY" envDefault:""`
	LogLevel   string `env:"LOGGER_LEVEL" envDefault:"debug"`
	LedgerPath string `env:"LEDGER_PATH" envDefault:"match_history.csv"`

	SheetsCredentialsFile string `env:"SHEETS_CREDENTIALS_FILE" envDefault:""`
	SheetsSpreadsheetID   string `env:"SHEETS_SPREADSHEET_ID" envDefault:""`
}

func ReadEnvConfig(cfg *Config) error {
	return env.Parse(cfg)
}
