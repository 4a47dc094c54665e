package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ersonp/family-core/internal/domain/entities"
)

// csvColumns is the column order written by Encode.
var csvColumns = []string{"id", "name", "birthday", "deathday", "parent1", "parent2", "career", "place"}

// CSVParser reads and writes person rosters: one person per row, with the
// biological parents in the parent1 and parent2 columns. A roster carries no
// events; importing it derives a Birth event per person.
type CSVParser struct{}

// Parse reads a CSV roster from the reader.
// Required columns: id, name. Optional: birthday, deathday, parent1, parent2, career, place.
func (p *CSVParser) Parse(r io.Reader) (*entities.Document, error) {
	reader := csv.NewReader(r)

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	sims, err := p.readRecords(reader, colIndex)
	if err != nil {
		return nil, err
	}
	return &entities.Document{Sims: sims}, nil
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[col] = i
	}

	requiredCols := []string{"id", "name"}
	for _, col := range requiredCols {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	return colIndex, nil
}

// readRecords reads all data rows and converts them to person records.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]entities.PersonRecord, error) {
	var sims []entities.PersonRecord
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		sim, err := p.parseRecord(record, colIndex, lineNum)
		if err != nil {
			return nil, err
		}
		sims = append(sims, sim)
	}

	return sims, nil
}

// parseRecord converts a CSV record to a PersonRecord.
func (p *CSVParser) parseRecord(record []string, colIndex map[string]int, lineNum int) (entities.PersonRecord, error) {
	sim := entities.PersonRecord{
		ID:      getColumn(record, colIndex, "id"),
		Name:    getColumn(record, colIndex, "name"),
		Career:  getColumn(record, colIndex, "career"),
		Place:   getColumn(record, colIndex, "place"),
		LineNum: lineNum,
	}

	parent1 := getColumn(record, colIndex, "parent1")
	parent2 := getColumn(record, colIndex, "parent2")
	switch {
	case parent2 != "":
		sim.Parents = []string{parent1, parent2}
	case parent1 != "":
		sim.Parents = []string{parent1}
	}

	if s := getColumn(record, colIndex, "birthday"); s != "" {
		day, err := strconv.Atoi(s)
		if err != nil {
			return entities.PersonRecord{}, fmt.Errorf("line %d: invalid birthday value %q: %w", lineNum, s, err)
		}
		sim.Birthday = day
	}

	if s := getColumn(record, colIndex, "deathday"); s != "" {
		day, err := strconv.Atoi(s)
		if err != nil {
			return entities.PersonRecord{}, fmt.Errorf("line %d: invalid deathday value %q: %w", lineNum, s, err)
		}
		sim.Deathday = &day
	}

	return sim, nil
}

// Encode writes the people of doc as a CSV roster. Events are not written.
func (p *CSVParser) Encode(w io.Writer, doc *entities.Document) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for i := range doc.Sims {
		sim := &doc.Sims[i]
		deathday := ""
		if sim.Deathday != nil {
			deathday = strconv.Itoa(*sim.Deathday)
		}
		parents := [2]string{}
		copy(parents[:], sim.Parents)

		row := []string{
			sim.ID,
			sim.Name,
			strconv.Itoa(sim.Birthday),
			deathday,
			parents[0],
			parents[1],
			sim.Career,
			sim.Place,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return record[idx]
	}
	return ""
}
