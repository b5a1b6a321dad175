package goquery_parser

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/entity"
	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/repository"
	"github.com/CodexSoftwareDevelopment/LeadSweep/pkg/config"
	"github.com/CodexSoftwareDevelopment/LeadSweep/pkg/utils"
)

type panelParser struct {
	fields config.FieldSelectors
	base   *url.URL
}

// NewPanelParser creates a parser for the given field selectors. Relative
// website links are resolved against base, which may be nil.
func NewPanelParser(fields config.FieldSelectors, base *url.URL) repository.PanelParser {
	return &panelParser{fields: fields, base: base}
}

// Parse extracts a listing from one snapshot of the detail panel.
func (p *panelParser) Parse(html string) (entity.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return entity.Listing{}, fmt.Errorf("failed to parse panel html: %w", err)
	}

	name, _ := Lookup(doc.Selection, p.fields.Name)
	address, _ := Lookup(doc.Selection, p.fields.Address)
	phone, _ := Lookup(doc.Selection, p.fields.Phone)
	website, _ := Lookup(doc.Selection, p.fields.Website)

	return entity.Listing{
		Name:    name,
		Address: address,
		Phone:   phone,
		Website: utils.NormalizeWebsite(p.base, website),
	}, nil
}

// Lookup reads a single field. It reports false when the selector matches
// nothing or the value is empty.
func Lookup(sel *goquery.Selection, field config.FieldSelector) (string, bool) {
	if field.CSS == "" {
		return "", false
	}
	node := sel.Find(field.CSS).First()
	if node.Length() == 0 {
		return "", false
	}

	if field.Attr != "" {
		value, ok := node.Attr(field.Attr)
		value = strings.TrimSpace(value)
		return value, ok && value != ""
	}

	text := utils.CleanText(node.Text())
	return text, text != ""
}
