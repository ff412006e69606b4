package parser

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ThiagoRGoveia/statement-reconciler/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeRoster(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &values))
	}

	path := filepath.Join(t.TempDir(), "roster.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestXLSXRosterReader_ReadRoster(t *testing.T) {
	t.Run("Expect: every row mapped by header name", func(t *testing.T) {
		path := writeRoster(t, [][]any{
			{"Client ID", "Account ID", "Email Address", "Spouse POA ID"},
			{"qid1", "100", "A@X.COM", "S1"},
			{"QID2", 200, "b@y.com"},
		})

		records, err := NewXLSXRosterReader(path).ReadRoster()
		require.NoError(t, err)
		assert.Equal(t, []models.RosterRecord{
			{AccountID: "100", ClientID: "qid1", EmailAddress: "A@X.COM", SpousePOAID: "S1"},
			{AccountID: "200", ClientID: "QID2", EmailAddress: "b@y.com"},
		}, records)
	})

	t.Run("Expect: LookupError when the workbook is missing", func(t *testing.T) {
		_, err := NewXLSXRosterReader(filepath.Join(t.TempDir(), "missing.xlsx")).ReadRoster()
		assert.True(t, errors.Is(err, models.ErrLookup))
	})
}

func TestRosterFromRows(t *testing.T) {
	t.Run("Expect: missing columns to read as empty", func(t *testing.T) {
		records := RosterFromRows([][]string{
			{"Account ID", "Email Address"},
			{"100"},
			{"200", "c@z.com"},
		})
		assert.Equal(t, []models.RosterRecord{
			{AccountID: "100"},
			{AccountID: "200", EmailAddress: "c@z.com"},
		}, records)
	})

	t.Run("Expect: no rows to give no records", func(t *testing.T) {
		assert.Nil(t, RosterFromRows(nil))
	})
}
