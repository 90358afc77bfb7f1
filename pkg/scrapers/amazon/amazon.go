// Package amazon extracts price and availability fields from Amazon.in
// product pages through a headless Chrome session. Every field is read
// through an ordered chain of best-effort lookups; a field whose whole chain
// fails keeps its sentinel and the record is emitted regardless.
package amazon

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	cu "github.com/Davincible/chromedp-undetected"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"pricewatch/pkg/models"
)

const Source = "AMAZON"

const DefaultTimeout = 45 * time.Second

type Scraper struct {
	Timeout time.Duration
	// Stealth swaps the plain allocator for chromedp-undetected, which
	// hides more automation fingerprints than flags alone.
	Stealth bool
}

func NewScraper(timeout time.Duration, stealth bool) *Scraper {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Scraper{Timeout: timeout, Stealth: stealth}
}

// strategy is one best-effort lookup. The expression must evaluate to a
// string, "" when the element is missing.
type strategy struct {
	name string
	js   string
}

var titleStrategies = []strategy{
	{"product-title", `document.querySelector("#productTitle")?.innerText.trim() || ""`},
}

var priceStrategies = []strategy{
	// The deal price is split into whole and fraction spans; the whole part
	// carries a stray separator dot that has to go.
	{"price-whole-fraction", `
		(function() {
			const whole = document.querySelector(".a-price-whole");
			if (!whole) return "";
			const fraction = document.querySelector(".a-price-fraction");
			const digits = whole.innerText.replace(/[.\n]/g, "");
			return "₹" + digits + (fraction ? "." + fraction.innerText.trim() : "");
		})()
	`},
	{"apex-price", `document.querySelector("span.a-price.a-text-price.a-size-medium.apexPriceToPay")?.innerText || ""`},
}

var mrpStrategies = []strategy{
	{"struck-list-price", `document.querySelector("span.a-price.a-text-price span.a-offscreen")?.innerText || ""`},
}

var ratingStrategies = []strategy{
	{"acr-popover", `document.querySelector("#acrPopover")?.getAttribute("title") || ""`},
}

var reviewStrategies = []strategy{
	{"acr-review-count", `document.querySelector("#acrCustomerReviewText")?.innerText || ""`},
}

var availabilityStrategies = []strategy{
	{"availability-block", `document.querySelector("#availability")?.innerText.trim() || ""`},
}

// Scrape loads one product page and returns its record. It never returns an
// error: a page that times out produces a degraded record whose title says
// so, and the run moves on.
func (s *Scraper) Scrape(productURL string) models.ProductRecord {
	record := models.NewRecord(productURL, time.Now())

	ctx, cancel, err := s.newBrowserContext()
	if err != nil {
		zap.S().Errorf("[AMAZON] browser session failed for %s: %v", productURL, err)
		record.Title = models.TitleBlocked
		return record
	}
	defer cancel()

	scrapeCtx, cancelScrape := context.WithTimeout(ctx, s.Timeout)
	defer cancelScrape()

	zap.S().Infof("[AMAZON] navigating to %s", productURL)

	// Politeness only; never a timing contract.
	Delay(2*time.Second, 6*time.Second)

	err = chromedp.Run(scrapeCtx,
		chromedp.Navigate(productURL),
		chromedp.WaitReady(`#productTitle`, chromedp.ByQuery),
	)
	if err != nil {
		zap.S().Warnf("[AMAZON] page did not render for %s: %v", productURL, err)
		record.Title = models.TitleBlocked
		return record
	}

	Delay(4*time.Second, 8*time.Second)

	record.Title = extractField(scrapeCtx, titleStrategies, models.Sentinel)
	record.Price = extractField(scrapeCtx, priceStrategies, models.Sentinel)
	record.MRP = extractField(scrapeCtx, mrpStrategies, models.Sentinel)
	record.Rating = extractField(scrapeCtx, ratingStrategies, models.Sentinel)
	record.Reviews = extractField(scrapeCtx, reviewStrategies, models.Sentinel)
	record.Availability = extractField(scrapeCtx, availabilityStrategies, models.DefaultAvailability)

	return record
}

// extractField evaluates strategies in order; the first non-empty result
// wins. Evaluation errors fall through to the next strategy.
func extractField(ctx context.Context, strategies []strategy, fallback string) string {
	for _, st := range strategies {
		var out string
		if err := chromedp.Run(ctx, chromedp.Evaluate(st.js, &out)); err != nil {
			continue
		}
		if out = strings.TrimSpace(out); out != "" {
			return out
		}
	}
	return fallback
}

func (s *Scraper) newBrowserContext() (context.Context, context.CancelFunc, error) {
	if s.Stealth {
		return cu.New(cu.NewConfig(cu.WithHeadless()))
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(randomUserAgent()),
		chromedp.WindowSize(1920, 1080),
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx)
	cancel := func() {
		cancelCtx()
		cancelAlloc()
	}
	return ctx, cancel, nil
}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:127.0) Gecko/20100101 Firefox/127.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Safari/605.1.15",
}

func randomUserAgent() string {
	return userAgents[rand.IntN(len(userAgents))]
}

// Delay blocks for a random duration in [min, max].
func Delay(min, max time.Duration) {
	if max <= min {
		time.Sleep(min)
		return
	}
	time.Sleep(min + time.Duration(rand.Int64N(int64(max-min))))
}
