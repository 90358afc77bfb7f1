// Package static is the non-browser engine: it fetches a product page over
// plain HTTP and runs the same field fallback chains against the
// server-rendered HTML. Useful when Chrome is unavailable and for tests;
// pages that only populate prices through JS will come back degraded.
package static

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"pricewatch/pkg/models"
)

const Source = "AMAZON-STATIC"

type Scraper struct {
	UserAgent   string
	Delay       time.Duration
	RandomDelay time.Duration
	// AllowedDomains restricts requests when non-empty. Tests leave it nil.
	AllowedDomains []string
}

func NewScraper() *Scraper {
	return &Scraper{
		UserAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
		Delay:       2 * time.Second,
		RandomDelay: 4 * time.Second,
	}
}

// strategy is one best-effort lookup over the parsed document; it returns ""
// when its selector finds nothing.
type strategy struct {
	name    string
	extract func(doc *goquery.Selection) string
}

var titleStrategies = []strategy{
	{"product-title", func(doc *goquery.Selection) string {
		return doc.Find("#productTitle").First().Text()
	}},
}

var priceStrategies = []strategy{
	{"price-whole-fraction", func(doc *goquery.Selection) string {
		whole := doc.Find(".a-price-whole").First()
		if whole.Length() == 0 {
			return ""
		}
		fraction := strings.TrimSpace(doc.Find(".a-price-fraction").First().Text())
		digits := strings.NewReplacer(".", "", "\n", "").Replace(strings.TrimSpace(whole.Text()))
		if fraction != "" {
			return "₹" + digits + "." + fraction
		}
		return "₹" + digits
	}},
	{"apex-price", func(doc *goquery.Selection) string {
		return doc.Find("span.a-price.a-text-price.a-size-medium.apexPriceToPay").First().Text()
	}},
}

var mrpStrategies = []strategy{
	{"struck-list-price", func(doc *goquery.Selection) string {
		return doc.Find("span.a-price.a-text-price span.a-offscreen").First().Text()
	}},
}

var ratingStrategies = []strategy{
	{"acr-popover", func(doc *goquery.Selection) string {
		return doc.Find("#acrPopover").AttrOr("title", "")
	}},
}

var reviewStrategies = []strategy{
	{"acr-review-count", func(doc *goquery.Selection) string {
		return doc.Find("#acrCustomerReviewText").First().Text()
	}},
}

var availabilityStrategies = []strategy{
	{"availability-block", func(doc *goquery.Selection) string {
		return doc.Find("#availability").First().Text()
	}},
}

// Scrape fetches one product page and returns its record. Like the Chrome
// engine it never returns an error; a page that cannot be fetched produces a
// degraded record.
func (s *Scraper) Scrape(productURL string) models.ProductRecord {
	record := models.NewRecord(productURL, time.Now())

	c := colly.NewCollector(
		colly.UserAgent(s.UserAgent),
	)
	if len(s.AllowedDomains) > 0 {
		c.AllowedDomains = s.AllowedDomains
	}
	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Delay:       s.Delay,
		RandomDelay: s.RandomDelay,
	})

	var loaded bool
	c.OnHTML("html", func(e *colly.HTMLElement) {
		loaded = true
		doc := e.DOM

		record.Title = extractField(doc, titleStrategies, models.Sentinel)
		record.Price = extractField(doc, priceStrategies, models.Sentinel)
		record.MRP = extractField(doc, mrpStrategies, models.Sentinel)
		record.Rating = extractField(doc, ratingStrategies, models.Sentinel)
		record.Reviews = extractField(doc, reviewStrategies, models.Sentinel)
		record.Availability = extractField(doc, availabilityStrategies, models.DefaultAvailability)
	})

	zap.S().Infof("[%s] fetching %s", Source, productURL)

	err := c.Visit(productURL)
	c.Wait()

	if !loaded {
		if err != nil {
			zap.S().Warnf("[%s] page fetch failed for %s: %v", Source, productURL, err)
		}
		record.Title = models.TitleBlocked
	}

	return record
}

func extractField(doc *goquery.Selection, strategies []strategy, fallback string) string {
	for _, st := range strategies {
		if out := strings.TrimSpace(st.extract(doc)); out != "" {
			return out
		}
	}
	return fallback
}
