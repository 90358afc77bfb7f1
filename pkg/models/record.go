package models

import "time"

const (
	// Sentinel marks a field whose extraction strategies all failed.
	Sentinel = "N/A"

	// TitleBlocked replaces the title when the page never rendered in time.
	// The record is still emitted so the operator can check it manually.
	TitleBlocked = "Blocked or Timeout - Manual check needed"

	// DefaultAvailability is assumed when a rendered page has no readable
	// availability block. Pages that never rendered keep the sentinel.
	DefaultAvailability = "In Stock"
)

// TimestampLayout is the collection-time format persisted in snapshots.
const TimestampLayout = "2006-01-02 15:04:05"

// ProductRecord is one scrape of one product page. Page-derived fields are
// kept as raw strings exactly as the page showed them; numeric
// interpretation happens in the dashboard, which must treat sentinels and
// malformed strings as missing, never as zero.
type ProductRecord struct {
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	Price        string    `json:"price"`
	MRP          string    `json:"mrp"`
	Discount     string    `json:"discount"`
	Rating       string    `json:"rating"`
	Reviews      string    `json:"reviews"`
	Availability string    `json:"availability"`
	ScrapedAt    time.Time `json:"scraped_at"`
}

// NewRecord returns a record for url with every field at its sentinel
// default. Extraction fills in whatever it can read; fields are independent.
func NewRecord(url string, at time.Time) ProductRecord {
	return ProductRecord{
		URL:          url,
		Title:        Sentinel,
		Price:        Sentinel,
		MRP:          Sentinel,
		Discount:     Sentinel,
		Rating:       Sentinel,
		Reviews:      Sentinel,
		Availability: Sentinel,
		ScrapedAt:    at,
	}
}
