package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/ThiagoRGoveia/statement-reconciler/internal/models"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/pretty"
)

// Writer persists the outcome of a run.
type Writer interface {
	WriteDiscrepancies(path string, report *models.DiscrepancyReport) error
	WriteManifest(path string, rows []models.ManifestRow) error
	PrintDiscrepancies(report *models.DiscrepancyReport) error
}

type FileWriter struct {
	console io.Writer
}

// NewFileWriter writes reports to disk and echoes discrepancies to console.
func NewFileWriter(console io.Writer) *FileWriter {
	return &FileWriter{console: console}
}

// FormatDiscrepancies renders the report with the given indent, accounts in first-seen order.
func FormatDiscrepancies(report *models.DiscrepancyReport, indent string) ([]byte, error) {
	raw, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode discrepancies: %w", err)
	}
	return pretty.PrettyOptions(raw, &pretty.Options{Width: 80, Indent: indent, SortKeys: false}), nil
}

func (w *FileWriter) WriteDiscrepancies(path string, report *models.DiscrepancyReport) error {
	data, err := FormatDiscrepancies(report, "    ")
	if err != nil {
		return &models.IOError{Op: "encode report", Path: path, Err: err}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &models.IOError{Op: "write report", Path: path, Err: err}
	}

	log.Info().Str("path", path).Int("accounts", report.Len()).Msg("Discrepancy report written")
	return nil
}

func (w *FileWriter) WriteManifest(path string, rows []models.ManifestRow) error {
	file, err := os.Create(path)
	if err != nil {
		return &models.IOError{Op: "create manifest", Path: path, Err: err}
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(models.ManifestHeader); err != nil {
		return &models.IOError{Op: "write manifest", Path: path, Err: err}
	}
	for _, row := range rows {
		if err := writer.Write(row.Columns()); err != nil {
			return &models.IOError{Op: "write manifest", Path: path, Err: err}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return &models.IOError{Op: "write manifest", Path: path, Err: err}
	}

	if err := file.Close(); err != nil {
		return &models.IOError{Op: "close manifest", Path: path, Err: err}
	}

	log.Info().Str("path", path).Int("rows", len(rows)).Msg("Manifest written")
	return nil
}

func (w *FileWriter) PrintDiscrepancies(report *models.DiscrepancyReport) error {
	data, err := FormatDiscrepancies(report, "  ")
	if err != nil {
		return err
	}
	_, err = w.console.Write(data)
	return err
}
