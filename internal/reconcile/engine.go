package reconcile

import (
	"fmt"
	"strings"

	"github.com/ThiagoRGoveia/statement-reconciler/internal/models"
	"github.com/rs/zerolog/log"
)

// Engine decides the identity of every statement in a batch. It has no side effects:
// the plan it returns is executed by the service afterwards.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// FindDatabaseRecord returns the first record for the account number.
func FindDatabaseRecord(records []models.DatabaseRecord, accountNumber string) models.Lookup[models.DatabaseRecord] {
	for _, record := range records {
		if record.AccountNumber == accountNumber {
			return models.Lookup[models.DatabaseRecord]{Found: true, Record: record}
		}
	}
	return models.Lookup[models.DatabaseRecord]{}
}

// FindRosterRecord returns the first roster row for the account number.
func FindRosterRecord(records []models.RosterRecord, accountNumber string) models.Lookup[models.RosterRecord] {
	for _, record := range records {
		if record.AccountID == accountNumber {
			return models.Lookup[models.RosterRecord]{Found: true, Record: record}
		}
	}
	return models.Lookup[models.RosterRecord]{}
}

// BuildFileName renders [qid][account]email[rep]_original. Brackets already in the
// original name are kept as they are.
func BuildFileName(identity models.ReconciledIdentity, accountNumber, repID, fileName string) string {
	return fmt.Sprintf("[%s][%s]%s[%s]_%s", identity.QID, accountNumber, identity.Email, repID, fileName)
}

// Reconcile processes entries in index order against both record sources.
func (e *Engine) Reconcile(entries []models.DocumentEntry, dbRecords []models.DatabaseRecord, rosterRecords []models.RosterRecord) models.ReconciliationPlan {
	plan := models.ReconciliationPlan{
		Identities:    make(map[string]models.ReconciledIdentity, len(entries)),
		Discrepancies: models.NewDiscrepancyReport(),
		Manifest:      make([]models.ManifestRow, 0, len(entries)),
		Copies:        make([]models.CopyJob, 0, len(entries)),
	}

	for _, entry := range entries {
		accountNumber := entry.ActID

		dbLookup := FindDatabaseRecord(dbRecords, accountNumber)
		rosterLookup := FindRosterRecord(rosterRecords, accountNumber)
		if !dbLookup.Found || !rosterLookup.Found {
			log.Debug().
				Str("account", accountNumber).
				Bool("in_database", dbLookup.Found).
				Bool("in_roster", rosterLookup.Found).
				Msg("Account missing from a source")
		}
		recordDB := dbLookup.OrEmpty()
		recordRoster := rosterLookup.OrEmpty()

		qidFromXLSX := strings.ToUpper(recordRoster.ClientID)
		qidFromSQL := strings.ToUpper(recordDB.OwnerQID)
		emailFromXLSX := strings.ToLower(recordRoster.EmailAddress)
		emailFromSQL := strings.ToLower(recordDB.Email)

		// An empty roster value is flagged even when the database is empty too.
		if qidFromXLSX != qidFromSQL || qidFromXLSX == "" {
			d := plan.Discrepancies.Reset(accountNumber)
			d.QIDFromXLSX = stringPtr(qidFromXLSX)
			d.QIDFromSQL = stringPtr(qidFromSQL)
		}
		if emailFromXLSX != emailFromSQL || emailFromXLSX == "" {
			d := plan.Discrepancies.Entry(accountNumber)
			d.EmailFromXLSX = stringPtr(emailFromXLSX)
			d.EmailFromSQL = stringPtr(emailFromSQL)
		}

		identity := models.ReconciledIdentity{
			QID:   firstNonEmpty(qidFromXLSX, qidFromSQL),
			Email: firstNonEmpty(emailFromXLSX, emailFromSQL),
		}
		newFileName := BuildFileName(identity, accountNumber, entry.RepID, entry.FileName)

		plan.Identities[entry.FileName] = identity
		plan.Manifest = append(plan.Manifest, models.ManifestRow{
			NewFileName:      newFileName,
			QID:              identity.QID,
			AccountNumber:    accountNumber,
			Email:            identity.Email,
			RepID:            entry.RepID,
			IncomingFileName: entry.FileName,
			QIDFromXLSX:      qidFromXLSX,
			QIDFromSQL:       qidFromSQL,
			EmailFromXLSX:    emailFromXLSX,
			EmailFromSQL:     emailFromSQL,
		})
		plan.Copies = append(plan.Copies, models.CopyJob{SourceName: entry.FileName, TargetName: newFileName})
	}

	return plan
}

func firstNonEmpty(preferred, fallback string) string {
	if preferred != "" {
		return preferred
	}
	return fallback
}

func stringPtr(s string) *string {
	return &s
}
