package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"guesthouse/internal/domain"
	"guesthouse/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// ExcelExporter writes the full ledger (guests, rooms, expenses) into one
// workbook under the configured exports directory.
type ExcelExporter struct {
	repo   domain.Repository
	path   string
	logger *zerolog.Logger
}

func NewExcelExporter(repo domain.Repository, path string, logger *zerolog.Logger) *ExcelExporter {
	return &ExcelExporter{
		repo:   repo,
		path:   path,
		logger: logger,
	}
}

var guestHeaders = []string{
	"ID", "Name", "Phone", "ID Proof", "Room", "Check-In", "Check-Out",
	"Check-Out Time", "Total", "Paid", "Pending", "Frequent", "Payment Mode",
	"Pay To", "Checked Out",
}

var roomHeaders = []string{"ID", "Room Number", "Type", "Status", "Price"}

var expenseHeaders = []string{"ID", "Description", "Category", "Amount", "Date"}

// Export builds the workbook and returns the saved file path.
func (e *ExcelExporter) Export(ctx context.Context) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	guests, err := e.repo.GetAllGuests(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting guests: %v", err)
	}
	rooms, err := e.repo.GetAllRooms(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting rooms: %v", err)
	}
	expenses, err := e.repo.GetAllExpenses(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting expenses: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeGuestsSheet(f, guests); err != nil {
		return "", err
	}
	if err := e.writeRoomsSheet(f, rooms); err != nil {
		return "", err
	}
	if err := e.writeExpensesSheet(f, expenses); err != nil {
		return "", err
	}

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("guesthouse_%s.xlsx", time.Now().Format("2006-01-02_150405"))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("Excel file created")
	return filePath, nil
}

func (e *ExcelExporter) writeGuestsSheet(f *excelize.File, guests []*models.Guest) error {
	const sheet = "Guests"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	writeHeaderRow(f, sheet, guestHeaders)

	for i, g := range guests {
		row := i + 2
		checkOut := ""
		if g.CheckOut != nil {
			checkOut = g.CheckOut.Format("02.01.2006")
		}
		values := []any{
			g.ID, g.Name, g.Phone, g.IDProof, g.RoomNumber,
			g.CheckIn.Format("02.01.2006"), checkOut, g.CheckOutTime,
			g.TotalAmount, g.PaidAmount, g.PendingAmount,
			yesNo(g.IsFrequent), g.PaymentMode, g.PayToWhom, yesNo(g.CheckedOut),
		}
		writeRow(f, sheet, row, values)
	}

	_ = f.SetColWidth(sheet, "B", "B", 25)
	_ = f.SetColWidth(sheet, "C", "H", 16)
	return nil
}

func (e *ExcelExporter) writeRoomsSheet(f *excelize.File, rooms []*models.Room) error {
	const sheet = "Rooms"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("error creating sheet: %v", err)
	}

	writeHeaderRow(f, sheet, roomHeaders)

	for i, r := range rooms {
		writeRow(f, sheet, i+2, []any{r.ID, r.RoomNumber, r.RoomType, r.Status, r.Price})
	}

	_ = f.SetColWidth(sheet, "B", "E", 15)
	return nil
}

func (e *ExcelExporter) writeExpensesSheet(f *excelize.File, expenses []*models.Expense) error {
	const sheet = "Expenses"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("error creating sheet: %v", err)
	}

	writeHeaderRow(f, sheet, expenseHeaders)

	for i, ex := range expenses {
		writeRow(f, sheet, i+2, []any{ex.ID, ex.Description, ex.Category, ex.Amount, ex.Date.Format("02.01.2006")})
	}

	_ = f.SetColWidth(sheet, "B", "B", 30)
	return nil
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) {
	style, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
		_ = f.SetCellStyle(sheet, cell, cell, style)
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []any) {
	for col, value := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		_ = f.SetCellValue(sheet, cell, value)
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
