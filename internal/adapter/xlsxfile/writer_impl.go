package xlsxfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/entity"
	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/repository"
)

// SheetName is the worksheet that holds the listings.
const SheetName = "Leads"

type listingWriter struct{}

// NewListingWriter creates a writer producing Excel workbooks.
func NewListingWriter() repository.ListingWriter {
	return &listingWriter{}
}

func (w *listingWriter) Write(ctx context.Context, path string, listings []entity.Listing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := setRow(f, 1, repository.ListingHeader); err != nil {
		return err
	}
	for i, l := range listings {
		row := repository.ListingRow(i, l)
		cells := make([]any, len(row))
		cells[0] = i
		for c := 1; c < len(row); c++ {
			cells[c] = row[c]
		}
		if err := setCells(f, i+2, cells); err != nil {
			return err
		}
	}

	for c := 2; c <= len(repository.ListingHeader); c++ {
		col, _ := excelize.ColumnNumberToName(c)
		_ = f.SetColWidth(SheetName, col, col, 32)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return setCells(f, row, cells)
}

func setCells(f *excelize.File, row int, cells []any) error {
	if err := f.SetSheetRow(SheetName, "A"+strconv.Itoa(row), &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
