package reconcile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ThiagoRGoveia/statement-reconciler/internal/models"
	"github.com/ThiagoRGoveia/statement-reconciler/pkg/checksum"
	"github.com/rs/zerolog/log"
)

// Processor copies statements to their reconciled names.
type Processor interface {
	CopyDocuments(layout models.RunLayout, jobs []models.CopyJob) error
}

// FileProcessor copies each statement independently; a failure stops the batch but
// leaves earlier copies in place.
type FileProcessor struct {
	verify bool
}

// NewFileProcessor creates a FileProcessor. With verify set every copy is checked
// against its source checksum.
func NewFileProcessor(verify bool) *FileProcessor {
	return &FileProcessor{verify: verify}
}

func (fp *FileProcessor) CopyDocuments(layout models.RunLayout, jobs []models.CopyJob) error {
	log.Info().Int("documents", len(jobs)).Str("output", layout.OutputDir).Msg("Copying documents")

	for _, job := range jobs {
		src := filepath.Join(layout.WorkDir, job.SourceName)
		dst := filepath.Join(layout.OutputDir, job.TargetName)

		if err := CopyFile(src, dst); err != nil {
			return err
		}

		if fp.verify {
			same, err := checksum.SameContent(src, dst)
			if err != nil {
				return &models.IOError{Op: "verify copy", Path: dst, Err: err}
			}
			if !same {
				return &models.IOError{Op: "verify copy", Path: dst, Err: errors.New("checksum does not match source")}
			}
		}

		log.Debug().Str("from", job.SourceName).Str("to", job.TargetName).Msg("Copied document")
	}

	return nil
}

// CopyFile copies src to dst, replacing dst if present, and keeps src's permissions.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return &models.IOError{Op: "open source", Path: src, Err: err}
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return &models.IOError{Op: "stat source", Path: src, Err: err}
	}
	if info.IsDir() {
		return &models.IOError{Op: "open source", Path: src, Err: fmt.Errorf("is a directory")}
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return &models.IOError{Op: "create destination", Path: dst, Err: err}
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return &models.IOError{Op: "copy", Path: dst, Err: err}
	}

	if err := out.Close(); err != nil {
		return &models.IOError{Op: "close destination", Path: dst, Err: err}
	}

	return nil
}
