package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ThiagoRGoveia/statement-reconciler/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// IndexLoader reads the batch index describing every statement to rename.
type IndexLoader interface {
	LoadIndex(dir string) ([]models.DocumentEntry, error)
}

type JSONIndexLoader struct{}

func NewJSONIndexLoader() *JSONIndexLoader {
	return &JSONIndexLoader{}
}

// FindIndexFile returns the only .json file directly inside dir. Zero or several
// candidates is an operator problem and is never guessed.
func FindIndexFile(dir string) (string, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return "", &models.ConfigurationError{Message: fmt.Sprintf("cannot list %s", dir), Err: err}
	}

	var candidates []string
	for _, entry := range dirEntries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		candidates = append(candidates, entry.Name())
	}

	if len(candidates) != 1 {
		sort.Strings(candidates)
		return "", &models.ConfigurationError{
			Message: fmt.Sprintf("there should be exactly one JSON file in %s, found %d %v", dir, len(candidates), candidates),
		}
	}

	return filepath.Join(dir, candidates[0]), nil
}

// LoadIndex finds and parses the batch index in dir, keeping the file's entry order.
func (l *JSONIndexLoader) LoadIndex(dir string) ([]models.DocumentEntry, error) {
	path, err := FindIndexFile(dir)
	if err != nil {
		return nil, err
	}

	log.Info().Str("path", path).Msg("Loading index")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.ConfigurationError{Message: fmt.Sprintf("cannot read index %s", path), Err: err}
	}

	entries, err := ParseIndex(data)
	if err != nil {
		return nil, err
	}

	log.Info().Int("documents", len(entries)).Msg("Index loaded")
	return entries, nil
}

// ParseIndex decodes a filename -> entry object. Scalar values of any JSON type are
// taken as their string form; missing or null fields are empty.
func ParseIndex(data []byte) ([]models.DocumentEntry, error) {
	if !gjson.ValidBytes(data) {
		return nil, &models.ConfigurationError{Message: "index is not valid JSON"}
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &models.ConfigurationError{Message: "index must be a JSON object keyed by file name"}
	}

	var entries []models.DocumentEntry
	root.ForEach(func(key, value gjson.Result) bool {
		entries = append(entries, entryFromJSON(key.String(), value))
		return true
	})

	return entries, nil
}

func entryFromJSON(fileName string, v gjson.Result) models.DocumentEntry {
	field := func(name string) string {
		return v.Get(name).String()
	}

	return models.DocumentEntry{
		FileName:    fileName,
		BkrID:       field("BKR_ID"),
		GroupOffset: field("GROUP_OFFSET"),
		GroupLength: field("GROUP_LENGTH"),
		CorCpyCde:   field("COR_CPY_CDE"),
		CpyNum:      field("CPY_NUM"),
		CorBkrID:    field("COR_BKR_ID"),
		RepID:       field("REP_ID"),
		BranchID:    field("BRANCH_ID"),
		CltID:       field("CLT_ID"),
		MainCltID:   field("MAIN_CLT_ID"),
		ActID:       field("ACT_ID"),
		StmtDte:     field("STMT_DTE"),
		NoPages:     field("NO_PAGES"),
		CorLngCde:   field("COR_LNG_CDE"),
		ReceiptNum:  field("RECEIPT_NUM"),
		SIN:         field("SIN"),
		ReplRunDte:  field("REPL_RUN_DTE"),
		IndDocTyp:   field("IND_DOC_TYP"),
		HdrDocTyp:   field("HDR_DOC_TYP"),
		DocCmt:      field("DOC_CMT"),
		FiID:        field("FI_ID"),
		RunDte:      field("RUN_DTE"),
		FirmID:      field("FIRM_ID"),
	}
}
