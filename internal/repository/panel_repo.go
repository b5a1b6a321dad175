package repository

import "github.com/CodexSoftwareDevelopment/LeadSweep/internal/entity"

// PanelParser reads listing fields out of a detail panel's markup.
// Each field is looked up independently; a field that is missing is left empty.
type PanelParser interface {
	Parse(html string) (entity.Listing, error)
}
