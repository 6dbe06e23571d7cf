package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/loomworks/loomdesk/internal/config"
	"github.com/loomworks/loomdesk/internal/domain/models"
)

// Slips are appended below the header row of this tab.
const slipRange = "SalarySlips!A:H"

// Repository defines the export operations supported by the Google Sheets
// adapter.
type Repository interface {
	AppendSlipRow(ctx context.Context, slip models.SalarySlipArchive) error
}

// GoogleSheetRepository implements the Repository interface using the
// official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed export instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.ExportConfig, logger *zap.Logger) (Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendSlipRow appends one slip summary as a spreadsheet row.
func (r *GoogleSheetRepository) AppendSlipRow(ctx context.Context, slip models.SalarySlipArchive) error {
	values := []interface{}{
		slip.GeneratedAt.Format("2006-01-02 15:04"),
		slip.WorkerID,
		slip.WorkerName,
		slip.StartDate,
		slip.EndDate,
		slip.TotalMeters,
		slip.TotalSalary,
		slip.AvgRate,
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, slipRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append slip row into range %s: %w", slipRange, err)
	}

	r.logger.Debug("slip row appended to sheet", zap.String("worker_id", slip.WorkerID))
	return nil
}
