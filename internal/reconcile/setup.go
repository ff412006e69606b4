package reconcile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ThiagoRGoveia/statement-reconciler/internal/models"
)

const DiscrepancyReportName = "things_that_are_bad.json"

type ISetup interface {
	build(workDir string) (models.RunLayout, error)
}

type Setup struct{}

// Lay out the run's output paths and create the output directory next to the
// statements. Kept apart so tests can swap it out.
func (h Setup) build(workDir string) (models.RunLayout, error) {
	layout := NewRunLayout(workDir)
	if err := os.MkdirAll(layout.OutputDir, 0o755); err != nil {
		return models.RunLayout{}, &models.IOError{Op: "create output directory", Path: layout.OutputDir, Err: err}
	}
	return layout, nil
}

// NewRunLayout derives output locations from the working directory name.
func NewRunLayout(workDir string) models.RunLayout {
	dirName := filepath.Base(workDir)
	outputDir := filepath.Join(workDir, dirName+"_output")
	return models.RunLayout{
		WorkDir:      workDir,
		DirName:      dirName,
		OutputDir:    outputDir,
		ReportPath:   filepath.Join(outputDir, DiscrepancyReportName),
		ManifestPath: filepath.Join(outputDir, fmt.Sprintf("files_in_%s.csv", dirName)),
	}
}
