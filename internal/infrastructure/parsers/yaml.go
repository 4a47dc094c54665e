package parsers

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ersonp/family-core/internal/domain/entities"
)

// YAMLParser reads and writes YAML save documents.
type YAMLParser struct{}

// Parse reads a YAML document from the reader.
func (p *YAMLParser) Parse(r io.Reader) (*entities.Document, error) {
	var doc entities.Document

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	numberRecords(&doc)
	return &doc, nil
}

// Encode writes doc as YAML.
func (p *YAMLParser) Encode(w io.Writer, doc *entities.Document) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return encoder.Close()
}
