package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed selectors.yaml
var defaultSelectors []byte

// FieldSelector locates one listing field inside the detail panel.
// An empty Attr means the element's text is used.
type FieldSelector struct {
	CSS  string `yaml:"css"`
	Attr string `yaml:"attr"`
}

type FieldSelectors struct {
	Name    FieldSelector `yaml:"name"`
	Address FieldSelector `yaml:"address"`
	Phone   FieldSelector `yaml:"phone"`
	Website FieldSelector `yaml:"website"`
}

// Selectors holds every DOM hook the scraper relies on.
type Selectors struct {
	Feed          string         `yaml:"feed"`
	Card          string         `yaml:"card"`
	Panel         string         `yaml:"panel"`
	PanelLabel    string         `yaml:"panel_label"`
	EndOfList     string         `yaml:"end_of_list"`
	EndOfListText string         `yaml:"end_of_list_text"`
	ConsentButton string         `yaml:"consent_button"`
	Fields        FieldSelectors `yaml:"fields"`
}

// DefaultSelectors returns the built-in selectors.
func DefaultSelectors() (*Selectors, error) {
	var s Selectors
	if err := yaml.NewDecoder(bytes.NewReader(defaultSelectors)).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse built-in selectors: %w", err)
	}
	return &s, nil
}

// LoadSelectors returns the built-in selectors with the keys present in the
// override file applied on top. An empty path returns the defaults.
func LoadSelectors(path string) (*Selectors, error) {
	s, err := DefaultSelectors()
	if err != nil {
		return nil, err
	}

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open selectors file: %w", err)
		}
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(s); err != nil {
			return nil, fmt.Errorf("failed to parse selectors file %s: %w", path, err)
		}
	}

	if err := validateSelectors(s); err != nil {
		return nil, err
	}
	return s, nil
}

func validateSelectors(s *Selectors) error {
	if s.Feed == "" {
		return fmt.Errorf("selectors: feed is required")
	}
	if s.Card == "" {
		return fmt.Errorf("selectors: card is required")
	}
	if s.PanelLabel == "" {
		return fmt.Errorf("selectors: panel_label is required")
	}
	if s.Panel == "" {
		return fmt.Errorf("selectors: panel is required")
	}
	return nil
}
