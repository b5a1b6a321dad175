package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/entity"
	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/repository"
)

type listingWriter struct{}

// NewListingWriter creates a writer producing comma-separated files.
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

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file %s: %w", path, err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write(repository.ListingHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i, l := range listings {
		if err := cw.Write(repository.ListingRow(i, l)); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv file: %w", err)
	}
	return file.Close()
}
