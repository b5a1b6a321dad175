package repository

import (
	"context"
	"strconv"

	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/entity"
)

// ListingHeader is the column order of every tabular output. The leading
// empty cell heads the row-index column.
var ListingHeader = []string{"", "Business Name", "Address", "Website", "Phone"}

// ListingWriter defines the contract for persisting a result set to a flat file.
type ListingWriter interface {
	// Write replaces the file at path with the listings, creating parent directories.
	Write(ctx context.Context, path string, listings []entity.Listing) error
}

// ListingRow renders one listing as a row under ListingHeader.
func ListingRow(index int, l entity.Listing) []string {
	return []string{strconv.Itoa(index), l.Name, l.Address, l.Website, l.Phone}
}
