package parsers

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"

	"github.com/ersonp/family-core/internal/domain/entities"
)

// TOMLParser reads and writes TOML save documents.
type TOMLParser struct{}

// Parse reads a TOML document from the reader.
func (p *TOMLParser) Parse(r io.Reader) (*entities.Document, error) {
	var doc entities.Document

	if err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}

	numberRecords(&doc)
	return &doc, nil
}

// Encode writes doc as TOML.
func (p *TOMLParser) Encode(w io.Writer, doc *entities.Document) error {
	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("encoding TOML: %w", err)
	}
	return nil
}
