package goquery_parser_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/adapter/goquery_parser"
	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/entity"
	"github.com/CodexSoftwareDevelopment/LeadSweep/pkg/config"
)

const fullPanel = `<div role="main">
  <h1 class="DUwDvf lfPIob"> Joe's Coffee </h1>
  <button data-item-id="address"><span class="icon">&#xe0c8;</span><div class="Io6YTe">12 Main St, Springfield</div></button>
  <a data-item-id="authority" href="/url?q=https://joes.example/&amp;sa=U">joes.example</a>
  <button data-item-id="phone:tel:+15550100199"><span>&#xe0b0;</span><div class="Io6YTe">(555) 010-0199</div></button>
</div>`

func defaultFields(t *testing.T) config.FieldSelectors {
	t.Helper()
	s, err := config.DefaultSelectors()
	if err != nil {
		t.Fatalf("DefaultSelectors() error = %v", err)
	}
	return s.Fields
}

func TestParse(t *testing.T) {
	base, _ := url.Parse("https://www.google.com/maps/search/")
	parser := goquery_parser.NewPanelParser(defaultFields(t), base)

	tests := []struct {
		name string
		html string
		want entity.Listing
	}{
		{
			name: "all fields",
			html: fullPanel,
			want: entity.Listing{
				Name:    "Joe's Coffee",
				Address: "12 Main St, Springfield",
				Phone:   "(555) 010-0199",
				Website: "https://joes.example/",
			},
		},
		{
			name: "phone missing",
			html: `<div role="main"><h1 class="DUwDvf">Quiet Books</h1>
				<button data-item-id="address"><div>4 Elm Rd</div></button></div>`,
			want: entity.Listing{Name: "Quiet Books", Address: "4 Elm Rd"},
		},
		{
			name: "empty panel",
			html: ``,
			want: entity.Listing{},
		},
		{
			name: "website without href",
			html: `<div><h1 class="DUwDvf">X</h1><a data-item-id="authority">x.example</a></div>`,
			want: entity.Listing{Name: "X"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.Parse(tt.html)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fullPanel))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		field  config.FieldSelector
		want   string
		wantOK bool
	}{
		{"text", config.FieldSelector{CSS: "h1.DUwDvf"}, "Joe's Coffee", true},
		{"attribute", config.FieldSelector{CSS: `button[data-item-id^="phone:tel"]`, Attr: "data-item-id"}, "phone:tel:+15550100199", true},
		{"missing element", config.FieldSelector{CSS: "span.rating"}, "", false},
		{"missing attribute", config.FieldSelector{CSS: "h1", Attr: "href"}, "", false},
		{"empty selector", config.FieldSelector{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := goquery_parser.Lookup(doc.Selection, tt.field)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Lookup() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
