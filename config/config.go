package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment
// variables or a .env file.
//
// Example ENV:
//
//	SERVER_PORT=8080
//	QUOTES_SYMBOLS=USD-BRL,EUR-BRL,GBP-BRL,JPY-BRL
//	STORE_BACKEND=xlsx
//	STORE_PATH=currency_data.xlsx
//	STORE_MERGE=key
//	TREND_POLICY=band
//	TREND_THRESHOLD=0.05
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Quotes   QuotesConfig
	Store    StoreConfig
	Trend    TrendConfig
	Columns  ColumnsConfig
	Market   MarketConfig
	Postgres PostgresConfig
}

type ServerConfig struct {
	Port      string // TCP port for API mode, e.g. "8080"
	RateLimit int    // requests per minute per client IP; 0 disables
}

type LogConfig struct {
	Level  string
	Pretty bool
}

// QuotesConfig points at the AwesomeAPI-compatible quote endpoint.
type QuotesConfig struct {
	Endpoint string
	Symbols  []string
	Timeout  time.Duration
}

// StoreConfig selects where the quote table lives and how batches are merged.
//
// Fields:
//   - Backend: "xlsx" (default) or "postgres".
//   - Path: workbook path for the xlsx backend.
//   - Sheet: worksheet name.
//   - Merge: "key" (dedupe on capture instant + asset) or "window".
//   - Window: records retained by the window policy.
type StoreConfig struct {
	Backend string
	Path    string
	Sheet   string
	Merge   string
	Window  int
}

type TrendConfig struct {
	Policy    string // "band" or "sign"
	Threshold string // decimal text, only used by "band"
}

// ColumnsConfig names each column of the persisted table.
type ColumnsConfig struct {
	Timestamp string
	Date      string
	Asset     string
	Price     string
	Change    string
	Trend     string
	Icon      string
}

// MarketConfig holds the time zone used for capture stamps and the
// business-day calendar.
type MarketConfig struct {
	Timezone string
}

// PostgresConfig defines connection details for PostgreSQL. URL is the
// computed DSN used by database/sql.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// AppConfig is the globally accessible configuration instance, populated once
// via LoadConfig().
var AppConfig Config

// LoadConfig initializes the global AppConfig.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or invalid, validateConfig() terminates
//     the app with a descriptive log message.
func LoadConfig() {
	setDefaults()

	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = fromViper()
	validateConfig()
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_RATE_LIMIT", 60)

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", false)

	viper.SetDefault("QUOTES_ENDPOINT", "https://economia.awesomeapi.com.br")
	viper.SetDefault("QUOTES_SYMBOLS", "USD-BRL,EUR-BRL,GBP-BRL,JPY-BRL")
	viper.SetDefault("QUOTES_TIMEOUT", "10s")

	viper.SetDefault("STORE_BACKEND", "xlsx")
	viper.SetDefault("STORE_PATH", "currency_data.xlsx")
	viper.SetDefault("STORE_SHEET", "quotes")
	viper.SetDefault("STORE_MERGE", "key")
	viper.SetDefault("STORE_WINDOW", 100)

	viper.SetDefault("TREND_POLICY", "band")
	viper.SetDefault("TREND_THRESHOLD", "0.05")

	viper.SetDefault("COLUMN_TIMESTAMP", "Timestamp")
	viper.SetDefault("COLUMN_DATE", "Data")
	viper.SetDefault("COLUMN_ASSET", "Asset")
	viper.SetDefault("COLUMN_PRICE", "Price")
	viper.SetDefault("COLUMN_CHANGE", "Change_Pct")
	viper.SetDefault("COLUMN_TREND", "Sentiment")
	viper.SetDefault("COLUMN_ICON", "Icon")

	viper.SetDefault("MARKET_TIMEZONE", "America/Sao_Paulo")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "fxpulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
}

func fromViper() Config {
	cfg := Config{
		Server: ServerConfig{
			Port:      viper.GetString("SERVER_PORT"),
			RateLimit: viper.GetInt("SERVER_RATE_LIMIT"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Pretty: viper.GetBool("LOG_PRETTY"),
		},
		Quotes: QuotesConfig{
			Endpoint: viper.GetString("QUOTES_ENDPOINT"),
			Symbols:  splitList(viper.GetString("QUOTES_SYMBOLS")),
			Timeout:  viper.GetDuration("QUOTES_TIMEOUT"),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(viper.GetString("STORE_BACKEND")),
			Path:    viper.GetString("STORE_PATH"),
			Sheet:   viper.GetString("STORE_SHEET"),
			Merge:   strings.ToLower(viper.GetString("STORE_MERGE")),
			Window:  viper.GetInt("STORE_WINDOW"),
		},
		Trend: TrendConfig{
			Policy:    strings.ToLower(viper.GetString("TREND_POLICY")),
			Threshold: viper.GetString("TREND_THRESHOLD"),
		},
		Columns: ColumnsConfig{
			Timestamp: viper.GetString("COLUMN_TIMESTAMP"),
			Date:      viper.GetString("COLUMN_DATE"),
			Asset:     viper.GetString("COLUMN_ASSET"),
			Price:     viper.GetString("COLUMN_PRICE"),
			Change:    viper.GetString("COLUMN_CHANGE"),
			Trend:     viper.GetString("COLUMN_TREND"),
			Icon:      viper.GetString("COLUMN_ICON"),
		},
		Market: MarketConfig{
			Timezone: viper.GetString("MARKET_TIMEZONE"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
	}

	cfg.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)
	return cfg
}

// splitList turns "a, b,,c" into [a b c].
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validateConfig terminates the application when problems() reports anything.
func validateConfig() {
	if p := problems(AppConfig); len(p) > 0 {
		log.Fatalf("❌ Invalid configuration: %s\n", strings.Join(p, "; "))
	}
}

// problems lists missing or invalid settings. Postgres settings are only
// checked for the postgres backend.
func problems(cfg Config) []string {
	var missing, invalid []string

	if cfg.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if cfg.Quotes.Endpoint == "" {
		missing = append(missing, "QUOTES_ENDPOINT")
	}
	if len(cfg.Quotes.Symbols) == 0 {
		missing = append(missing, "QUOTES_SYMBOLS")
	}
	if cfg.Quotes.Timeout <= 0 {
		invalid = append(invalid, "QUOTES_TIMEOUT must be a positive duration")
	}

	switch cfg.Store.Backend {
	case "xlsx":
		if cfg.Store.Path == "" {
			missing = append(missing, "STORE_PATH")
		}
	case "postgres":
		if cfg.Postgres.Host == "" {
			missing = append(missing, "POSTGRES_HOST")
		}
		if cfg.Postgres.Port == 0 {
			missing = append(missing, "POSTGRES_PORT")
		}
		if cfg.Postgres.User == "" {
			missing = append(missing, "POSTGRES_USER")
		}
		if cfg.Postgres.Password == "" {
			missing = append(missing, "POSTGRES_PASSWORD")
		}
		if cfg.Postgres.DBName == "" {
			missing = append(missing, "POSTGRES_DB")
		}
	default:
		invalid = append(invalid, fmt.Sprintf("STORE_BACKEND %q (want xlsx or postgres)", cfg.Store.Backend))
	}

	switch cfg.Store.Merge {
	case "key":
	case "window":
		if cfg.Store.Window <= 0 {
			invalid = append(invalid, "STORE_WINDOW must be positive for the window merge")
		}
	default:
		invalid = append(invalid, fmt.Sprintf("STORE_MERGE %q (want key or window)", cfg.Store.Merge))
	}

	if cfg.Trend.Policy != "band" && cfg.Trend.Policy != "sign" {
		invalid = append(invalid, fmt.Sprintf("TREND_POLICY %q (want band or sign)", cfg.Trend.Policy))
	}
	if cfg.Market.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Market.Timezone); err != nil {
			invalid = append(invalid, fmt.Sprintf("MARKET_TIMEZONE %q: %v", cfg.Market.Timezone, err))
		}
	}

	var out []string
	if len(missing) > 0 {
		out = append(out, "missing "+strings.Join(missing, ", "))
	}
	return append(out, invalid...)
}
