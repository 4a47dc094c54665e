// Package parsers reads and writes family save documents in various formats.
package parsers

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/ersonp/family-core/internal/domain/entities"
)

// Parser reads a save document.
type Parser interface {
	Parse(r io.Reader) (*entities.Document, error)
}

// Encoder writes a save document.
type Encoder interface {
	Encode(w io.Writer, doc *entities.Document) error
}

// Codec both reads and writes one format.
type Codec interface {
	Parser
	Encoder
}

// Formats lists the supported format names.
var Formats = []string{"json", "yaml", "toml", "csv"}

// ForFormat returns the codec for the given format name, or nil.
func ForFormat(format string) Codec {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "yaml", "yml":
		return &YAMLParser{}
	case "toml":
		return &TOMLParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the codec matching the file extension, or nil.
func ForFile(filename string) Codec {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return nil
	}
	return ForFormat(ext)
}

// numberRecords sets the 1-indexed position of every record.
func numberRecords(doc *entities.Document) {
	for i := range doc.Sims {
		doc.Sims[i].LineNum = i + 1
	}
	for i := range doc.Events {
		doc.Events[i].LineNum = i + 1
	}
}
