package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pricewatch/pkg/models"
)

func sampleRecords(at time.Time) []models.ProductRecord {
	phone := models.NewRecord("https://www.amazon.in/dp/B0FCML66W9", at)
	phone.Title = "OnePlus 13R"
	phone.Price = "₹39,999"
	phone.MRP = "₹42,999.00"
	phone.Rating = "4.3 out of 5 stars"
	phone.Reviews = "1,204 ratings"
	phone.Availability = "In Stock"

	blocked := models.NewRecord("https://www.amazon.in/dp/B0DGJ6JS1D", at)
	blocked.Title = models.TitleBlocked

	return []models.ProductRecord{phone, blocked}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 8, 25, 9, 30, 0, 0, time.Local)

	path, err := Write(dir, sampleRecords(at), at)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if filepath.Base(path) != "amazon_prices_20260825_0930.csv" {
		t.Errorf("unexpected filename %q", filepath.Base(path))
	}

	records, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	got := records[0]
	if got.Title != "OnePlus 13R" || got.Price != "₹39,999" || got.MRP != "₹42,999.00" {
		t.Errorf("record fields did not survive round trip: %+v", got)
	}
	if !got.ScrapedAt.Equal(at) {
		t.Errorf("ScrapedAt = %v, want %v", got.ScrapedAt, at)
	}

	// The degraded record keeps its sentinels, title aside.
	deg := records[1]
	if deg.Title != models.TitleBlocked {
		t.Errorf("degraded title = %q", deg.Title)
	}
	if deg.Price != models.Sentinel || deg.Availability != models.Sentinel {
		t.Errorf("degraded fields should stay sentinel: %+v", deg)
	}
}

func TestLatestNoData(t *testing.T) {
	if _, err := Latest(t.TempDir()); !errors.Is(err, ErrNoData) {
		t.Fatalf("Latest on empty dir = %v, want ErrNoData", err)
	}

	if _, err := Latest(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, ErrNoData) {
		t.Fatalf("Latest on missing dir = %v, want ErrNoData", err)
	}
}

func TestLatestPrefersNewestCreation(t *testing.T) {
	dir := t.TempDir()

	// Lexically later name but older file.
	older := filepath.Join(dir, "amazon_prices_20991231_2359.csv")
	newer := filepath.Join(dir, "amazon_prices_20200101_0000.csv")

	for _, p := range []string{older, newer} {
		if err := os.WriteFile(p, []byte("URL\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}

	got, err := Latest(dir)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if got != newer {
		t.Errorf("Latest = %q, want %q (creation time beats lexical order)", got, newer)
	}
}

func TestLatestIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"notes.txt", "amazon_prices_.json", "history.db"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := Latest(dir); !errors.Is(err, ErrNoData) {
		t.Fatalf("Latest = %v, want ErrNoData when only unrelated files exist", err)
	}
}

func TestLoadLatestReturnsFilename(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 8, 25, 10, 15, 0, 0, time.Local)
	if _, err := Write(dir, sampleRecords(at), at); err != nil {
		t.Fatal(err)
	}

	records, filename, err := LoadLatest(dir)
	if err != nil {
		t.Fatalf("LoadLatest failed: %v", err)
	}
	if filename != "amazon_prices_20260825_1015.csv" {
		t.Errorf("filename = %q", filename)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
}
