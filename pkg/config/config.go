package config

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env       string
	Collector CollectorConfig
	Dashboard DashboardConfig
	Sheets    SheetsConfig
}

type CollectorConfig struct {
	ProductsFile  string
	DataDir       string
	HistoryDBPath string
	Engine        string // "chrome" or "static"
	Stealth       bool
	PageTimeout   time.Duration
}

type DashboardConfig struct {
	Port           string
	DataDir        string
	HistoryDBPath  string
	RefreshSeconds int
	AlertPercent   float64
	ChartDays      int
}

type SheetsConfig struct {
	Enabled         bool
	CredentialsFile string
	SpreadsheetID   string
	Worksheet       string
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("PRODUCTS_FILE", "./products.txt")
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("HISTORY_DB_PATH", "./history.db")
	viper.SetDefault("SCRAPER_ENGINE", "chrome")
	viper.SetDefault("SCRAPER_STEALTH", false)
	viper.SetDefault("SCRAPER_TIMEOUT_SECONDS", 45)
	viper.SetDefault("DASHBOARD_PORT", "8080")
	viper.SetDefault("REFRESH_SECONDS", 300)
	viper.SetDefault("ALERT_PERCENT", 8.0)
	viper.SetDefault("CHART_DAYS", 7)
	viper.SetDefault("SHEETS_ENABLED", false)
	viper.SetDefault("SHEETS_CREDENTIALS_FILE", "./credentials.json")
	viper.SetDefault("SHEETS_WORKSHEET", "Live Data")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Env: viper.GetString("SERVER_ENV"),
		Collector: CollectorConfig{
			ProductsFile:  viper.GetString("PRODUCTS_FILE"),
			DataDir:       viper.GetString("DATA_DIR"),
			HistoryDBPath: viper.GetString("HISTORY_DB_PATH"),
			Engine:        strings.ToLower(viper.GetString("SCRAPER_ENGINE")),
			Stealth:       viper.GetBool("SCRAPER_STEALTH"),
			PageTimeout:   time.Duration(viper.GetInt("SCRAPER_TIMEOUT_SECONDS")) * time.Second,
		},
		Dashboard: DashboardConfig{
			Port:           viper.GetString("DASHBOARD_PORT"),
			DataDir:        viper.GetString("DATA_DIR"),
			HistoryDBPath:  viper.GetString("HISTORY_DB_PATH"),
			RefreshSeconds: viper.GetInt("REFRESH_SECONDS"),
			AlertPercent:   viper.GetFloat64("ALERT_PERCENT"),
			ChartDays:      viper.GetInt("CHART_DAYS"),
		},
		Sheets: SheetsConfig{
			Enabled:         viper.GetBool("SHEETS_ENABLED"),
			CredentialsFile: viper.GetString("SHEETS_CREDENTIALS_FILE"),
			SpreadsheetID:   viper.GetString("SHEETS_SPREADSHEET_ID"),
			Worksheet:       viper.GetString("SHEETS_WORKSHEET"),
		},
	}
}

// ReadProductList loads the hand-edited list of product URLs, one per line.
// Blank lines and #-comments are skipped.
func ReadProductList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open product list: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read product list: %w", err)
	}
	return urls, nil
}
