package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Source names where the active rule set came from.
type Source string

const (
	SourceAuthored Source = "authored"
	SourceDocument Source = "document"
	SourceDefaults Source = "defaults"
)

// Document is the exported rule payload written next to the workbook.
type Document struct {
	Workbook   string    `json:"workbook"`
	ExportedAt time.Time `json:"exported_at"`
	Rules      []Rule    `json:"rules"`
}

// Select picks the active rule set: the authored table if non-empty,
// else a previously exported document at documentPath, else the
// built-in defaults.
func Select(authored []Rule, documentPath string) ([]Rule, Source, error) {
	if len(authored) > 0 {
		return authored, SourceAuthored, nil
	}

	if documentPath != "" {
		if _, err := os.Stat(documentPath); err == nil {
			doc, err := LoadDocument(documentPath)
			if err != nil {
				return nil, SourceDocument, err
			}
			return doc.Rules, SourceDocument, nil
		}
	}

	return Defaults(), SourceDefaults, nil
}

func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule document %s: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rule document %s: %w", path, err)
	}
	return &doc, nil
}

// ExportDocument writes the rule table as a document usable as
// fallback source on later runs.
func ExportDocument(path, workbook string, table []Rule) error {
	doc := Document{
		Workbook:   workbook,
		ExportedAt: time.Now(),
		Rules:      table,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode rule document: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write rule document %s: %w", path, err)
	}
	return nil
}
