// Package sheets exports weekly digest rows to a Google spreadsheet.
package sheets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/hivetool/internal/config"
)

// DigestSheet appends rows below the table of one spreadsheet.
type DigestSheet struct {
	values        *sheetsapi.SpreadsheetsValuesService
	spreadsheetID string
	logger        *zap.Logger
}

// NewDigestSheet authenticates with the service account credentials file in cfg.
func NewDigestSheet(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*DigestSheet, error) {
	return newDigestSheet(ctx, cfg.SpreadsheetID, logger,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsScope))
}

func newDigestSheet(ctx context.Context, spreadsheetID string, logger *zap.Logger, opts ...option.ClientOption) (*DigestSheet, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if spreadsheetID == "" {
		return nil, errors.New("sheets: spreadsheet id must not be empty")
	}

	service, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init sheets client: %w", err)
	}
	return &DigestSheet{values: service.Spreadsheets.Values, spreadsheetID: spreadsheetID, logger: logger}, nil
}

// WriteRow appends values as one new row. Cells are parsed as if typed by
// a user, so dates and numbers keep their sheet types.
func (s *DigestSheet) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return errors.New("sheets: range must not be empty")
	}

	body := &sheetsapi.ValueRange{MajorDimension: "ROWS", Values: [][]interface{}{values}}
	resp, err := s.values.Append(s.spreadsheetID, sheetRange, body).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row to %s: %w", sheetRange, err)
	}

	updated := sheetRange
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		updated = resp.Updates.UpdatedRange
	}
	s.logger.Debug("digest row appended", zap.String("range", updated))
	return nil
}
