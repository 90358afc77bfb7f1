// Collector scrapes every configured product page once, in sequence, and
// writes the run to a timestamped CSV snapshot. History and Google Sheets
// are best-effort side channels; the CSV is the artifact that matters.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"pricewatch/pkg/config"
	"pricewatch/pkg/history"
	"pricewatch/pkg/logger"
	"pricewatch/pkg/models"
	"pricewatch/pkg/scrapers/amazon"
	"pricewatch/pkg/scrapers/static"
	"pricewatch/pkg/sheets"
	"pricewatch/pkg/snapshot"
)

type scraper interface {
	Scrape(url string) models.ProductRecord
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()
	zap.ReplaceGlobals(zlog)
	sugar := zlog.Sugar()

	urls, err := config.ReadProductList(cfg.Collector.ProductsFile)
	if err != nil {
		sugar.Fatalf("Failed to read product list: %v", err)
	}
	if len(urls) == 0 {
		sugar.Fatalf("No product URLs configured in %s", cfg.Collector.ProductsFile)
	}

	var s scraper
	switch cfg.Collector.Engine {
	case "static":
		s = static.NewScraper()
	case "chrome", "":
		s = amazon.NewScraper(cfg.Collector.PageTimeout, cfg.Collector.Stealth)
	default:
		sugar.Fatalf("Unknown scraper engine %q. Available: chrome, static", cfg.Collector.Engine)
	}

	sugar.Infof("Starting run: %d products, engine=%s", len(urls), cfg.Collector.Engine)

	records := make([]models.ProductRecord, 0, len(urls))
	for i, url := range urls {
		record := s.Scrape(url)
		records = append(records, record)
		sugar.Infof("Scraped %s | price: %s", truncate(record.Title, 50), record.Price)

		if i < len(urls)-1 {
			amazon.Delay(5*time.Second, 10*time.Second)
		}
	}

	path, err := snapshot.Write(cfg.Collector.DataDir, records, time.Now())
	if err != nil {
		sugar.Fatalf("Failed to write snapshot: %v", err)
	}
	sugar.Infof("Snapshot saved to %s", path)

	appendHistory(sugar, cfg.Collector.HistoryDBPath, records)

	if cfg.Sheets.Enabled {
		exportSheets(sugar, cfg.Sheets, records)
	}

	sugar.Info("Run completed")
}

func appendHistory(sugar *zap.SugaredLogger, dbPath string, records []models.ProductRecord) {
	store, err := history.Open(dbPath)
	if err != nil {
		sugar.Warnf("History store unavailable, skipping: %v", err)
		return
	}
	defer store.Close()

	if err := store.Append(records); err != nil {
		sugar.Warnf("Failed to append history: %v", err)
		return
	}
	sugar.Infof("History updated at %s", dbPath)
}

func exportSheets(sugar *zap.SugaredLogger, cfg config.SheetsConfig, records []models.ProductRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sink, err := sheets.NewSink(ctx, cfg.CredentialsFile, cfg.SpreadsheetID, cfg.Worksheet)
	if err != nil {
		sugar.Warnf("Google Sheets unavailable, CSV remains the source of truth: %v", err)
		return
	}
	if err := sink.Replace(ctx, records); err != nil {
		sugar.Warnf("Google Sheets export failed, CSV remains the source of truth: %v", err)
		return
	}
	sugar.Info("Google Sheets updated")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
