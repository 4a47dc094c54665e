package parsers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ersonp/family-core/internal/domain/entities"
)

// JSONParser reads and writes JSON save documents.
type JSONParser struct{}

// Parse reads a JSON document from the reader.
func (p *JSONParser) Parse(r io.Reader) (*entities.Document, error) {
	var doc entities.Document

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	numberRecords(&doc)
	return &doc, nil
}

// Encode writes doc as indented JSON.
func (p *JSONParser) Encode(w io.Writer, doc *entities.Document) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
