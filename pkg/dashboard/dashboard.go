// Package dashboard serves the human-facing price tracker page. It polls the
// snapshot directory (through a short-lived cache), derives numeric prices
// and discounts from the raw records, and renders metrics, a trend chart and
// a highlighted table.
package dashboard

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"pricewatch/pkg/api"
	"pricewatch/pkg/history"
	"pricewatch/pkg/logger"
	"pricewatch/pkg/models"
	"pricewatch/pkg/normalize"
	"pricewatch/pkg/snapshot"
)

type Options struct {
	DataDir string
	// History is optional; without it the trend chart is omitted.
	History      *history.Store
	RefreshTTL   time.Duration
	AlertPercent float64
	ChartDays    int
}

type Server struct {
	opts Options

	mu       sync.Mutex
	cached   *View
	cachedAt time.Time
}

func New(opts Options) *Server {
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = 5 * time.Minute
	}
	if opts.AlertPercent <= 0 {
		opts.AlertPercent = 8
	}
	if opts.ChartDays <= 0 {
		opts.ChartDays = 7
	}
	return &Server{opts: opts}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/download.csv", s.handleDownload)
	return mux
}

// Row is one product in the rendered table: the raw record plus the numeric
// values derived from it for this cycle. Derived values are never persisted.
type Row struct {
	models.ProductRecord
	CurrentPrice    *float64
	ListPrice       *float64
	DiscountPercent *float64
	Tier            string // "", "drop" or "deal" for table highlighting
}

// View is the immutable result of loading one snapshot.
type View struct {
	Rows        []Row
	SourceFile  string
	LastUpdated time.Time
	AvgPrice    *float64
	AvgDiscount *float64
	Chart       *Chart
}

type Chart struct {
	Width  int
	Height int
	Series []ChartSeries
	MinY   string
	MaxY   string
}

type ChartSeries struct {
	Label  string
	Color  string
	Points string // SVG polyline coordinates
}

// view returns the cached view unless it expired or force is set. The second
// return value is the whole number of seconds until the cache expires, which
// the page uses as its refresh countdown.
func (s *Server) view(force bool) (*View, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ttl := s.opts.RefreshTTL
	if !force && s.cached != nil && time.Since(s.cachedAt) < ttl {
		logger.Dedup("serving cached snapshot %s", s.cached.SourceFile)
		remaining := int((ttl - time.Since(s.cachedAt)).Seconds())
		if remaining < 1 {
			remaining = 1
		}
		return s.cached, remaining, nil
	}

	records, filename, err := snapshot.LoadLatest(s.opts.DataDir)
	if err != nil {
		return nil, 0, err
	}

	v := s.buildView(records, filename)
	s.cached = v
	s.cachedAt = time.Now()
	logger.Dedup("loaded snapshot %s (%d products)", filename, len(v.Rows))
	return v, int(ttl.Seconds()), nil
}

func (s *Server) buildView(records []models.ProductRecord, filename string) *View {
	v := &View{SourceFile: filename}

	var (
		priceSum, discountSum     float64
		priceCount, discountCount int
	)
	for _, r := range records {
		row := Row{
			ProductRecord: r,
			CurrentPrice:  normalize.Price(r.Price),
			ListPrice:     normalize.Price(r.MRP),
		}
		row.DiscountPercent = normalize.Discount(row.ListPrice, row.CurrentPrice)
		row.Tier = tier(row.DiscountPercent, s.opts.AlertPercent)

		if row.CurrentPrice != nil {
			priceSum += *row.CurrentPrice
			priceCount++
		}
		if row.DiscountPercent != nil {
			discountSum += *row.DiscountPercent
			discountCount++
		}
		if r.ScrapedAt.After(v.LastUpdated) {
			v.LastUpdated = r.ScrapedAt
		}
		v.Rows = append(v.Rows, row)
	}

	if priceCount > 0 {
		avg := priceSum / float64(priceCount)
		v.AvgPrice = &avg
	}
	if discountCount > 0 {
		avg := discountSum / float64(discountCount)
		v.AvgDiscount = &avg
	}

	v.Chart = s.buildChart(v.Rows)
	return v
}

// tier classifies a discount into the two highlight levels. A nil discount
// is never compared against the thresholds.
func tier(discount *float64, alertPercent float64) string {
	if discount == nil {
		return ""
	}
	switch {
	case *discount >= 2*alertPercent:
		return "deal"
	case *discount >= alertPercent:
		return "drop"
	default:
		return ""
	}
}

var chartPalette = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b"}

// buildChart assembles one SVG polyline per product from the history store.
// Products without at least one point are skipped; with fewer than two
// points overall there is nothing to draw.
func (s *Server) buildChart(rows []Row) *Chart {
	if s.opts.History == nil {
		return nil
	}

	const (
		width   = 840
		height  = 300
		padding = 10
	)

	since := time.Now().AddDate(0, 0, -s.opts.ChartDays)

	type series struct {
		label  string
		points []history.Point
	}
	var (
		all         []series
		totalPoints int
	)
	for _, row := range rows {
		points, err := s.opts.History.Series(row.URL, since)
		if err != nil {
			logger.Dedup("history lookup failed for %s: %v", row.URL, err)
			continue
		}
		if len(points) == 0 {
			continue
		}
		all = append(all, series{label: chartLabel(row), points: points})
		totalPoints += len(points)
	}
	if totalPoints < 2 {
		return nil
	}

	minT, maxT := all[0].points[0].At, all[0].points[0].At
	minP, maxP := all[0].points[0].Price, all[0].points[0].Price
	for _, sr := range all {
		for _, p := range sr.points {
			if p.At.Before(minT) {
				minT = p.At
			}
			if p.At.After(maxT) {
				maxT = p.At
			}
			if p.Price < minP {
				minP = p.Price
			}
			if p.Price > maxP {
				maxP = p.Price
			}
		}
	}

	timeSpan := maxT.Sub(minT).Seconds()
	if timeSpan == 0 {
		timeSpan = 1
	}
	priceSpan := maxP - minP
	if priceSpan == 0 {
		priceSpan = 1
	}

	chart := &Chart{
		Width:  width,
		Height: height,
		MinY:   money(minP),
		MaxY:   money(maxP),
	}
	for i, sr := range all {
		var b strings.Builder
		for j, p := range sr.points {
			x := padding + (p.At.Sub(minT).Seconds()/timeSpan)*(width-2*padding)
			y := height - padding - ((p.Price-minP)/priceSpan)*(height-2*padding)
			if j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%.1f,%.1f", x, y)
		}
		chart.Series = append(chart.Series, ChartSeries{
			Label:  sr.label,
			Color:  chartPalette[i%len(chartPalette)],
			Points: b.String(),
		})
	}
	return chart
}

func chartLabel(row Row) string {
	label := row.Title
	if label == models.Sentinel || label == models.TitleBlocked {
		label = row.URL
	}
	if len(label) > 40 {
		label = label[:40] + "…"
	}
	return label
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	force := r.URL.Query().Get("refresh") == "1"
	view, countdown, err := s.view(force)
	if errors.Is(err, snapshot.ErrNoData) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := noDataTemplate.Execute(w, nil); err != nil {
			logger.Dedup("render no-data page: %v", err)
		}
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := pageData{
		View:             view,
		CountdownSeconds: countdown,
		AlertPercent:     s.opts.AlertPercent,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTemplate.Execute(w, data); err != nil {
		logger.Dedup("render dashboard: %v", err)
	}
}

// handleDownload re-encodes the currently displayed table as a CSV
// attachment. It serves whatever the page shows, cache included.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	view, _, err := s.view(false)
	if errors.Is(err, snapshot.ErrNoData) {
		api.NotFound("No data found! Run the scraper first.", r.URL.Path).Write(w)
		return
	}
	if err != nil {
		api.InternalServerError(err, r.URL.Path).Write(w)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", view.SourceFile))

	cw := csv.NewWriter(w)
	cw.Write(snapshot.Header)
	for _, row := range view.Rows {
		cw.Write([]string{
			row.URL,
			row.Title,
			row.Price,
			row.MRP,
			row.Discount,
			row.Rating,
			row.Reviews,
			row.Availability,
			row.ScrapedAt.Format(models.TimestampLayout),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		logger.Dedup("write csv download: %v", err)
	}
}

type pageData struct {
	View             *View
	CountdownSeconds int
	AlertPercent     float64
}

var moneyPrinter = message.NewPrinter(language.English)

func money(v float64) string {
	return moneyPrinter.Sprintf("₹%.0f", v)
}

// Formatting helpers for the template. Missing values render as the sentinel
// so the table never shows a fake zero.

func (r Row) FormattedPrice() string {
	if r.CurrentPrice == nil {
		return models.Sentinel
	}
	return money(*r.CurrentPrice)
}

func (r Row) FormattedListPrice() string {
	if r.ListPrice == nil {
		return models.Sentinel
	}
	return money(*r.ListPrice)
}

func (r Row) FormattedDiscount() string {
	if r.DiscountPercent == nil {
		return models.Sentinel
	}
	return fmt.Sprintf("%.1f%%", *r.DiscountPercent)
}

func (v *View) FormattedAvgPrice() string {
	if v.AvgPrice == nil {
		return models.Sentinel
	}
	return money(*v.AvgPrice)
}

func (v *View) FormattedAvgDiscount() string {
	if v.AvgDiscount == nil {
		return models.Sentinel
	}
	return fmt.Sprintf("%.1f%%", *v.AvgDiscount)
}

func (v *View) FormattedLastUpdated() string {
	if v.LastUpdated.IsZero() {
		return models.Sentinel
	}
	return v.LastUpdated.Format("02 Jan 2006, 03:04 PM")
}
