package parser

import (
	"fmt"

	"github.com/ThiagoRGoveia/statement-reconciler/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// RosterReader loads every row of the external roster.
type RosterReader interface {
	ReadRoster() ([]models.RosterRecord, error)
}

type XLSXRosterReader struct {
	path string
}

func NewXLSXRosterReader(path string) *XLSXRosterReader {
	return &XLSXRosterReader{path: path}
}

// ReadRoster reads the first worksheet, using its first row as the header. Cells
// missing from a row come back as empty strings.
func (r *XLSXRosterReader) ReadRoster() ([]models.RosterRecord, error) {
	log.Info().Str("path", r.path).Msg("Reading roster")
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, &models.LookupError{Source: "roster", Err: fmt.Errorf("failed to open %s: %w", r.path, err)}
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Str("path", r.path).Msg("Failed to close roster")
		}
	}()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &models.LookupError{Source: "roster", Err: fmt.Errorf("failed to read sheet %q of %s: %w", sheet, r.path, err)}
	}

	records := RosterFromRows(rows)
	log.Info().Int("rows", len(records)).Msg("Roster loaded")
	return records, nil
}

// RosterFromRows maps raw sheet rows to records by header name.
func RosterFromRows(rows [][]string) []models.RosterRecord {
	if len(rows) == 0 {
		return nil
	}

	columns := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		if _, exists := columns[header]; !exists {
			columns[header] = i
		}
	}

	cell := func(row []string, header string) string {
		i, ok := columns[header]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	records := make([]models.RosterRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, models.RosterRecord{
			AccountID:    cell(row, models.RosterAccountID),
			ClientID:     cell(row, models.RosterClientID),
			EmailAddress: cell(row, models.RosterEmail),
			SpousePOAID:  cell(row, models.RosterSpousePOAID),
		})
	}
	return records
}
