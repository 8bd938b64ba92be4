package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/yuchialin/tripledger/internal/common"
	"github.com/yuchialin/tripledger/internal/model"
	"github.com/yuchialin/tripledger/internal/service"
)

const (
	// defaultSourceRef is the tab holding transaction rows when a ledger
	// does not name one.
	defaultSourceRef = "Expenses"
	// ledgersRange is where the management sheet lists trip ledgers.
	ledgersRange = "Ledgers!A2:G"
	// recordColumns spans one transaction row, date through split detail.
	recordColumns = "A%d:L%d"
)

// Client implements service.SyncAdapter over the Google Sheets API.
type Client struct {
	svc    *sheetsapi.Service
	logger *slog.Logger
	config Config
}

// NewClient creates a Google Sheets sync client.
func NewClient(ctx context.Context, config Config, logger *slog.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	svc, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		config: config,
		svc:    svc,
		logger: logger,
	}, nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheetsapi.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheetsapi.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheetsapi.SpreadsheetsScope},
		}
		tokenSource = oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: config.RefreshToken})
	}

	svc, err := sheetsapi.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return svc, nil
}

// ListTransactions fetches every transaction row of one ledger. The caller
// owns the retry schedule; errors here wrap ErrTransport so they surface as
// a retryable, user-visible load failure.
func (c *Client) ListTransactions(ctx context.Context, ledger model.Ledger) ([]service.RawRecord, error) {
	rng := sourceRef(ledger) + "!A2:L"
	resp, err := c.svc.Spreadsheets.Values.Get(ledger.SpreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: listing transactions: %v", common.ErrTransport, err)
	}

	records := rowsToRecords(resp.Values)

	c.logger.Debug("fetched ledger rows",
		"ledger", ledger.Name,
		"rows", len(records))

	return records, nil
}

// CreateTransaction appends a record. Fire-and-forget: the record is handed
// to the transport on a background goroutine and no server acknowledgment
// is awaited or parsed.
func (c *Client) CreateTransaction(ctx context.Context, ledger model.Ledger, rec service.RawRecord) service.Dispatch {
	if ledger.SpreadsheetID == "" {
		return service.DispatchError(fmt.Errorf("ledger %q has no spreadsheet id", ledger.Name))
	}

	return c.dispatch(ctx, "create", ledger, func(ctx context.Context) error {
		vr := &sheetsapi.ValueRange{Values: [][]any{recordToRow(rec)}}
		_, err := c.svc.Spreadsheets.Values.Append(ledger.SpreadsheetID, sourceRef(ledger)+"!A:L", vr).
			ValueInputOption("USER_ENTERED").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).Do()
		return err
	})
}

// UpdateTransaction rewrites the row at a known position token.
// Fire-and-forget.
func (c *Client) UpdateTransaction(ctx context.Context, ledger model.Ledger, rowIndex int, rec service.RawRecord) service.Dispatch {
	if rowIndex <= 0 {
		return service.DispatchError(fmt.Errorf("update requires a persisted row index"))
	}

	return c.dispatch(ctx, "update", ledger, func(ctx context.Context) error {
		rng := fmt.Sprintf(sourceRef(ledger)+"!"+recordColumns, rowIndex, rowIndex)
		vr := &sheetsapi.ValueRange{Values: [][]any{recordToRow(rec)}}
		_, err := c.svc.Spreadsheets.Values.Update(ledger.SpreadsheetID, rng, vr).
			ValueInputOption("USER_ENTERED").
			Context(ctx).Do()
		return err
	})
}

// DeleteTransaction clears the row at a position token. Fire-and-forget.
func (c *Client) DeleteTransaction(ctx context.Context, ledger model.Ledger, rowIndex int) service.Dispatch {
	if rowIndex <= 0 {
		return service.DispatchError(fmt.Errorf("delete requires a persisted row index"))
	}

	return c.dispatch(ctx, "delete", ledger, func(ctx context.Context) error {
		rng := fmt.Sprintf(sourceRef(ledger)+"!"+recordColumns, rowIndex, rowIndex)
		_, err := c.svc.Spreadsheets.Values.Clear(ledger.SpreadsheetID, rng, &sheetsapi.ClearValuesRequest{}).
			Context(ctx).Do()
		return err
	})
}

// ListLedgers fetches ledger metadata from the management spreadsheet.
func (c *Client) ListLedgers(ctx context.Context, managementRef string) ([]model.Ledger, error) {
	if managementRef == "" {
		managementRef = c.config.ManagementSheetID
	}

	resp, err := c.svc.Spreadsheets.Values.Get(managementRef, ledgersRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: listing ledgers: %v", common.ErrTransport, err)
	}

	ledgers := make([]model.Ledger, 0, len(resp.Values))
	for _, row := range resp.Values {
		ledger := model.Ledger{
			ID:            cell(row, 0),
			Name:          cell(row, 1),
			SpreadsheetID: cell(row, 2),
			SourceRef:     cell(row, 3),
			Currency:      cell(row, 4),
			ExchangeRate:  model.ParseAmount(cell(row, 5)),
		}
		for _, name := range strings.Split(cell(row, 6), ",") {
			if name = strings.TrimSpace(name); name != "" {
				ledger.MemberNames = append(ledger.MemberNames, name)
			}
		}
		ledgers = append(ledgers, ledger)
	}

	return ledgers, nil
}

// dispatch runs one write attempt in the background. The attempt survives
// caller cancellation and runs to completion or failure; failures are
// logged, never returned.
func (c *Client) dispatch(ctx context.Context, op string, ledger model.Ledger, attempt func(context.Context) error) service.Dispatch {
	done := make(chan struct{})
	bg := context.WithoutCancel(ctx)

	go func() {
		defer close(done)
		if err := attempt(bg); err != nil {
			c.logger.Warn("write dispatch failed",
				"op", op,
				"ledger", ledger.Name,
				"error", err)
		}
	}()

	return service.Dispatch{Done: done}
}

func sourceRef(ledger model.Ledger) string {
	if ledger.SourceRef != "" {
		return ledger.SourceRef
	}
	return defaultSourceRef
}

// recordToRow serializes a record into the sheet's column order.
func recordToRow(rec service.RawRecord) []any {
	return []any{
		rec.Date,
		rec.Merchant,
		rec.Item,
		rec.Category,
		rec.Kind,
		rec.PayerName,
		rec.Currency,
		rec.OriginAmount,
		rec.HomeAmount,
		rec.IsSplit,
		rec.Participants,
		rec.SplitDetail,
	}
}

// rowsToRecords converts fetched sheet rows, preserving each row's sheet
// position. Rows left blank by a remote delete (Values.Clear empties the
// cells but keeps the row) are skipped, not resurrected as records.
func rowsToRecords(values [][]any) []service.RawRecord {
	records := make([]service.RawRecord, 0, len(values))
	for i, row := range values {
		if rowIsBlank(row) {
			continue
		}
		// Row 1 is the header; data rows start at sheet row 2.
		records = append(records, rowToRecord(row, i+2))
	}
	return records
}

func rowIsBlank(row []any) bool {
	for i := range row {
		if cell(row, i) != "" {
			return false
		}
	}
	return true
}

// rowToRecord parses one sheet row. Numeric cells that fail to parse become
// 0 so a single malformed row never discards the ledger load.
func rowToRecord(row []any, rowIndex int) service.RawRecord {
	return service.RawRecord{
		RowIndex:     rowIndex,
		Date:         cell(row, 0),
		Merchant:     cell(row, 1),
		Item:         cell(row, 2),
		Category:     cell(row, 3),
		Kind:         cell(row, 4),
		PayerName:    cell(row, 5),
		Currency:     cell(row, 6),
		OriginAmount: model.ParseAmount(cell(row, 7)),
		HomeAmount:   model.ParseAmount(cell(row, 8)),
		IsSplit:      parseBool(cell(row, 9)),
		Participants: cell(row, 10),
		SplitDetail:  cell(row, 11),
	}
}

func cell(row []any, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[i]))
}

func parseBool(s string) bool {
	return strings.EqualFold(s, "true") || s == "1"
}
