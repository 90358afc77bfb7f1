// Package sheets mirrors the latest run into a Google Sheets worksheet.
// The sink is strictly optional: every failure here is reported to the
// caller to log and ignore, never to abort the run — the CSV snapshot is the
// primary durable artifact.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"pricewatch/pkg/models"
	"pricewatch/pkg/snapshot"
)

type Sink struct {
	srv           *gsheets.Service
	spreadsheetID string
	worksheet     string
}

// NewSink authenticates with a service-account credentials file.
func NewSink(ctx context.Context, credentialsFile, spreadsheetID, worksheet string) (*Sink, error) {
	srv, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Sink{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
	}, nil
}

// Replace clears the worksheet and rewrites the header plus one row per
// record, so the sheet always holds exactly the current table.
func (s *Sink) Replace(ctx context.Context, records []models.ProductRecord) error {
	clearRange := fmt.Sprintf("%s!A:I", s.worksheet)
	_, err := s.srv.Spreadsheets.Values.
		Clear(s.spreadsheetID, clearRange, &gsheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear worksheet %s: %w", s.worksheet, err)
	}

	values := make([][]interface{}, 0, len(records)+1)
	header := make([]interface{}, len(snapshot.Header))
	for i, h := range snapshot.Header {
		header[i] = h
	}
	values = append(values, header)
	for _, r := range records {
		values = append(values, []interface{}{
			r.URL,
			r.Title,
			r.Price,
			r.MRP,
			r.Discount,
			r.Rating,
			r.Reviews,
			r.Availability,
			r.ScrapedAt.Format(models.TimestampLayout),
		})
	}

	_, err = s.srv.Spreadsheets.Values.
		Update(s.spreadsheetID, fmt.Sprintf("%s!A1", s.worksheet), &gsheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update worksheet %s: %w", s.worksheet, err)
	}
	return nil
}
