// Package history keeps a local record of every scrape so the dashboard can
// chart price movement across runs. It is best-effort: the CSV snapshot is
// the primary durable artifact and never depends on this store.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"pricewatch/pkg/models"
	"pricewatch/pkg/normalize"
)

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS price_history (
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			price REAL,
			mrp REAL,
			scraped_at DATETIME NOT NULL,
			PRIMARY KEY (url, scraped_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Append stores the numeric view of each record. Unparsable prices are kept
// as NULL so a blocked run never shows up as a price of zero.
func (s *Store) Append(records []models.ProductRecord) error {
	for _, r := range records {
		_, err := s.db.Exec(
			`INSERT INTO price_history (url, title, price, mrp, scraped_at)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(url, scraped_at)
			 DO UPDATE SET title = excluded.title, price = excluded.price, mrp = excluded.mrp`,
			r.URL, r.Title, toNull(normalize.Price(r.Price)), toNull(normalize.Price(r.MRP)), r.ScrapedAt,
		)
		if err != nil {
			return fmt.Errorf("append history for %s: %w", r.URL, err)
		}
	}
	return nil
}

// Point is one charted observation of a product's price.
type Point struct {
	At    time.Time
	Price float64
}

// Series returns the price observations for url since the given time,
// oldest first. Rows with no parsable price are excluded.
func (s *Store) Series(url string, since time.Time) ([]Point, error) {
	rows, err := s.db.Query(
		`SELECT scraped_at, price FROM price_history
		 WHERE url = ? AND scraped_at >= ? AND price IS NOT NULL
		 ORDER BY scraped_at`,
		url, since,
	)
	if err != nil {
		return nil, fmt.Errorf("query history for %s: %w", url, err)
	}
	defer rows.Close()

	var points []Point
	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.At, &p.Price); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

func toNull(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
