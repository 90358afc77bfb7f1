package static

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pricewatch/pkg/models"
)

func newTestScraper() *Scraper {
	s := NewScraper()
	s.Delay = 0
	s.RandomDelay = 0
	return s
}

func TestScraper_Scrape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Logf("Received request for: %s", r.URL.Path)

		response := `
<!DOCTYPE html>
<html>
<body>
	<span id="productTitle"> OnePlus 13R (Astral Trail, 12GB RAM, 256GB Storage) </span>
	<span class="a-price"><span class="a-price-whole">39,999.</span><span class="a-price-fraction">00</span></span>
	<span class="a-price a-text-price"><span class="a-offscreen">₹42,999.00</span></span>
	<span id="acrPopover" title="4.3 out of 5 stars"></span>
	<span id="acrCustomerReviewText">1,204 ratings</span>
	<div id="availability"> In stock </div>
</body>
</html>
`
		fmt.Fprintln(w, response)
	}))
	defer ts.Close()

	record := newTestScraper().Scrape(ts.URL + "/dp/B0FCML66W9")

	if record.Title != "OnePlus 13R (Astral Trail, 12GB RAM, 256GB Storage)" {
		t.Errorf("Title = %q", record.Title)
	}
	if record.Price != "₹39,999.00" {
		t.Errorf("Price = %q, want ₹39,999.00", record.Price)
	}
	if record.MRP != "₹42,999.00" {
		t.Errorf("MRP = %q, want ₹42,999.00", record.MRP)
	}
	if record.Rating != "4.3 out of 5 stars" {
		t.Errorf("Rating = %q", record.Rating)
	}
	if record.Reviews != "1,204 ratings" {
		t.Errorf("Reviews = %q", record.Reviews)
	}
	if record.Availability != "In stock" {
		t.Errorf("Availability = %q", record.Availability)
	}
	if record.URL != ts.URL+"/dp/B0FCML66W9" {
		t.Errorf("URL = %q", record.URL)
	}
	if record.ScrapedAt.IsZero() {
		t.Error("ScrapedAt not set")
	}
}

func TestScraper_PriceFallback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No whole/fraction spans; only the apex deal price.
		fmt.Fprintln(w, `
<html><body>
	<span id="productTitle">iPhone 16 Plus 128 GB</span>
	<span class="a-price a-text-price a-size-medium apexPriceToPay">₹79,900</span>
</body></html>`)
	}))
	defer ts.Close()

	record := newTestScraper().Scrape(ts.URL)

	if record.Price != "₹79,900" {
		t.Errorf("Price = %q, want apex fallback ₹79,900", record.Price)
	}
	// Page rendered but has no availability block: assume in stock.
	if record.Availability != models.DefaultAvailability {
		t.Errorf("Availability = %q, want %q", record.Availability, models.DefaultAvailability)
	}
	// Fields with no matching strategy keep the sentinel independently.
	if record.MRP != models.Sentinel || record.Rating != models.Sentinel || record.Reviews != models.Sentinel {
		t.Errorf("missing fields should stay sentinel: %+v", record)
	}
}

func TestScraper_FetchFailureDegradesRecord(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "captcha", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	record := newTestScraper().Scrape(ts.URL)

	if record.Title != models.TitleBlocked {
		t.Errorf("Title = %q, want %q", record.Title, models.TitleBlocked)
	}
	// Everything else keeps its independent default.
	if record.Price != models.Sentinel {
		t.Errorf("Price = %q, want sentinel", record.Price)
	}
	if record.Availability != models.Sentinel {
		t.Errorf("Availability = %q, want sentinel (page never rendered)", record.Availability)
	}
	if record.ScrapedAt.IsZero() {
		t.Error("degraded record must still carry a timestamp")
	}
}
