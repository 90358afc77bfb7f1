// Package snapshot persists one write-once CSV per collection run and finds
// the newest one for the dashboard to display.
package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pricewatch/pkg/models"
)

const (
	filePrefix = "amazon_prices_"
	fileSuffix = ".csv"
	nameLayout = "20060102_1504"
)

// Header is the column order of every snapshot CSV.
var Header = []string{"URL", "Title", "Price", "MRP", "Discount", "Rating", "Reviews", "Availability", "Timestamp"}

// ErrNoData means no snapshot file exists yet. The dashboard turns this into
// a "run the collector first" page instead of failing.
var ErrNoData = errors.New("no snapshot data found")

// Filename returns the snapshot name for a run started at the given time,
// e.g. amazon_prices_20261114_0930.csv.
func Filename(at time.Time) string {
	return filePrefix + at.Format(nameLayout) + fileSuffix
}

// Write creates a new snapshot CSV in dir and returns its path. Snapshots
// are never modified after this returns.
func Write(dir string, records []models.ProductRecord, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}

	path := filepath.Join(dir, Filename(at))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return "", fmt.Errorf("write snapshot header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.URL,
			r.Title,
			r.Price,
			r.MRP,
			r.Discount,
			r.Rating,
			r.Reviews,
			r.Availability,
			r.ScrapedAt.Format(models.TimestampLayout),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write snapshot row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush snapshot: %w", err)
	}
	return path, nil
}

// Latest returns the path of the most recently created snapshot in dir.
// Snapshots are write-once, so modification time is creation time; filename
// order is deliberately not trusted. Returns ErrNoData when nothing matches.
func Latest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoData
	}
	if err != nil {
		return "", fmt.Errorf("read data dir: %w", err)
	}

	var (
		newest     string
		newestTime time.Time
	)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest = name
			newestTime = info.ModTime()
		}
	}

	if newest == "" {
		return "", ErrNoData
	}
	return filepath.Join(dir, newest), nil
}

// Load parses a snapshot CSV back into records.
func Load(path string) ([]models.ProductRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Header)

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", filepath.Base(path), err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	records := make([]models.ProductRecord, 0, len(rows)-1)
	for _, row := range rows[1:] { // skip header
		scrapedAt, err := time.ParseInLocation(models.TimestampLayout, row[8], time.Local)
		if err != nil {
			// A bad timestamp does not invalidate the row's prices.
			scrapedAt = time.Time{}
		}
		records = append(records, models.ProductRecord{
			URL:          row[0],
			Title:        row[1],
			Price:        row[2],
			MRP:          row[3],
			Discount:     row[4],
			Rating:       row[5],
			Reviews:      row[6],
			Availability: row[7],
			ScrapedAt:    scrapedAt,
		})
	}
	return records, nil
}

// LoadLatest loads the newest snapshot in dir, returning the records together
// with the filename they came from.
func LoadLatest(dir string) ([]models.ProductRecord, string, error) {
	path, err := Latest(dir)
	if err != nil {
		return nil, "", err
	}
	records, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return records, filepath.Base(path), nil
}
