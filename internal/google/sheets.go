package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"guesthouse/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ErrRowNotFound means the ledger sheet has no row for the guest ID.
var ErrRowNotFound = errors.New("ledger row not found")

const (
	ledgerSheet = "Ledger"
	ledgerCols  = "O"
)

// SheetsService mirrors the guest ledger into a Google spreadsheet. The
// row cache maps guest IDs to sheet rows so upserts avoid a full column
// scan on every sync.
type SheetsService struct {
	service       *sheets.Service
	spreadsheetID string
	rowCache      map[int64]int
	cacheMu       sync.RWMutex
}

func NewSheetsService(credentialsFile, spreadsheetID string) (*SheetsService, error) {
	ctx := context.Background()

	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %v", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	client := config.Client(ctx)

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %v", err)
	}

	service := &SheetsService{
		service:       srv,
		spreadsheetID: spreadsheetID,
		rowCache:      make(map[int64]int),
	}

	// Warm up cache in background
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		service.WarmUpCache(ctx)
	}()

	// Periodic cache refresh every 1 hour
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			service.WarmUpCache(ctx)
			cancel()
		}
	}()

	return service, nil
}

// TestConnection reads the first ledger cell to verify access.
func (s *SheetsService) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, ledgerSheet+"!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %v", err)
	}
	return nil
}

// GetServiceAccountEmail extracts the account email from the credentials
// file, for sharing instructions in setup logs.
func (s *SheetsService) GetServiceAccountEmail(credentialsFile string) (string, error) {
	file, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", err
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}

	if err := json.Unmarshal(file, &creds); err != nil {
		return "", err
	}

	return creds.ClientEmail, nil
}

// WarmUpCache populates the row index cache by reading the entire ID column.
func (s *SheetsService) WarmUpCache(ctx context.Context) error {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, ledgerSheet+"!A:A").Context(ctx).Do()
	if err != nil {
		return err
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.rowCache = make(map[int64]int)

	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		var id int64
		switch v := row[0].(type) {
		case float64:
			id = int64(v)
		case string:
			fmt.Sscanf(v, "%d", &id)
		}
		if id > 0 {
			s.rowCache[id] = i + 1
		}
	}
	return nil
}

// AppendGuest adds a new ledger row.
func (s *SheetsService) AppendGuest(ctx context.Context, guest *models.Guest) error {
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{guestRowValues(guest)},
	}

	_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, ledgerSheet+"!A:A", valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()

	return err
}

// UpsertGuest updates the guest's ledger row, appending one if absent.
func (s *SheetsService) UpsertGuest(ctx context.Context, guest *models.Guest) error {
	if guest == nil {
		return fmt.Errorf("guest is nil")
	}

	rowIdx, err := s.FindGuestRow(ctx, guest.ID)
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return s.AppendGuest(ctx, guest)
		}
		return err
	}

	rangeData := fmt.Sprintf("%s!A%d:%s%d", ledgerSheet, rowIdx, ledgerCols, rowIdx)
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{guestRowValues(guest)},
	}

	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, rangeData, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

// DeleteGuestRow clears the row that corresponds to guestID.
func (s *SheetsService) DeleteGuestRow(ctx context.Context, guestID int64) error {
	rowIdx, err := s.FindGuestRow(ctx, guestID)
	if err != nil {
		return err
	}

	rangeData := fmt.Sprintf("%s!A%d:%s%d", ledgerSheet, rowIdx, ledgerCols, rowIdx)
	_, err = s.service.Spreadsheets.Values.Clear(s.spreadsheetID, rangeData, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err == nil {
		s.deleteCacheRow(guestID)
	}
	return err
}

// ReplaceLedger clears and rewrites the whole sheet from the given bookings.
func (s *SheetsService) ReplaceLedger(ctx context.Context, guests []*models.Guest) error {
	values := [][]interface{}{{
		"ID", "Name", "Phone", "ID Proof", "Room", "Check-In", "Check-Out",
		"Check-Out Time", "Total", "Paid", "Pending", "Frequent",
		"Payment Mode", "Pay To", "Checked Out",
	}}
	for _, guest := range guests {
		values = append(values, guestRowValues(guest))
	}

	_, err := s.service.Spreadsheets.Values.Clear(s.spreadsheetID, ledgerSheet+"!A:"+ledgerCols, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return err
	}

	rangeData := fmt.Sprintf("%s!A1:%s%d", ledgerSheet, ledgerCols, len(values))
	valueRange := &sheets.ValueRange{
		Values: values,
	}

	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, rangeData, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err == nil {
		s.ClearCache()
	}
	return err
}

// FindGuestRow resolves the 1-based sheet row for a guest ID.
func (s *SheetsService) FindGuestRow(ctx context.Context, guestID int64) (int, error) {
	if guestID == 0 {
		return 0, fmt.Errorf("guest id is required")
	}

	if row, ok := s.getCachedRow(guestID); ok {
		return row, nil
	}

	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, ledgerSheet+"!A:A").Context(ctx).Do()
	if err != nil {
		return 0, err
	}

	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		switch v := row[0].(type) {
		case float64:
			if int64(v) == guestID {
				rowIdx := i + 1 // Values are zero-based; sheet rows are 1-based
				s.setCachedRow(guestID, rowIdx)
				return rowIdx, nil
			}
		case string:
			if v == fmt.Sprintf("%d", guestID) {
				rowIdx := i + 1
				s.setCachedRow(guestID, rowIdx)
				return rowIdx, nil
			}
		}
	}

	return 0, ErrRowNotFound
}

func (s *SheetsService) getCachedRow(id int64) (int, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	row, ok := s.rowCache[id]
	return row, ok
}

func (s *SheetsService) setCachedRow(id int64, row int) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.rowCache[id] = row
}

func (s *SheetsService) deleteCacheRow(id int64) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	delete(s.rowCache, id)
}

// ClearCache drops the row index cache.
func (s *SheetsService) ClearCache() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.rowCache = make(map[int64]int)
}

func guestRowValues(guest *models.Guest) []interface{} {
	checkOut := ""
	if guest.CheckOut != nil {
		checkOut = guest.CheckOut.Format("2006-01-02")
	}
	return []interface{}{
		guest.ID,
		guest.Name,
		guest.Phone,
		guest.IDProof,
		guest.RoomNumber,
		guest.CheckIn.Format("2006-01-02"),
		checkOut,
		guest.CheckOutTime,
		guest.TotalAmount,
		guest.PaidAmount,
		guest.PendingAmount,
		guest.IsFrequent,
		guest.PaymentMode,
		guest.PayToWhom,
		guest.CheckedOut,
	}
}
