package models

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// DocumentEntry is one statement described by the batch index, keyed by its file name.
type DocumentEntry struct {
	FileName    string `json:"-"`
	BkrID       string `json:"BKR_ID"`
	GroupOffset string `json:"GROUP_OFFSET"`
	GroupLength string `json:"GROUP_LENGTH"`
	CorCpyCde   string `json:"COR_CPY_CDE"`
	CpyNum      string `json:"CPY_NUM"`
	CorBkrID    string `json:"COR_BKR_ID"`
	RepID       string `json:"REP_ID"`
	BranchID    string `json:"BRANCH_ID"`
	CltID       string `json:"CLT_ID"`
	MainCltID   string `json:"MAIN_CLT_ID"`
	ActID       string `json:"ACT_ID"`
	StmtDte     string `json:"STMT_DTE"`
	NoPages     string `json:"NO_PAGES"`
	CorLngCde   string `json:"COR_LNG_CDE"`
	ReceiptNum  string `json:"RECEIPT_NUM"`
	SIN         string `json:"SIN"`
	ReplRunDte  string `json:"REPL_RUN_DTE"`
	IndDocTyp   string `json:"IND_DOC_TYP"`
	HdrDocTyp   string `json:"HDR_DOC_TYP"`
	DocCmt      string `json:"DOC_CMT"`
	FiID        string `json:"FI_ID"`
	RunDte      string `json:"RUN_DTE"`
	FirmID      string `json:"FIRM_ID"`
}

// DatabaseRecord is one row of the account/users join.
type DatabaseRecord struct {
	AccountNumber string
	OwnerQID      string
	Email         string
}

// Roster column headers.
const (
	RosterAccountID   = "Account ID"
	RosterClientID    = "Client ID"
	RosterEmail       = "Email Address"
	RosterSpousePOAID = "Spouse POA ID"
)

type RosterRecord struct {
	AccountID    string
	ClientID     string
	EmailAddress string
	SpousePOAID  string
}

// Lookup is the result of a find-by-account-number scan. A miss keeps Found false
// and a zero Record, so OrEmpty always yields empty strings for missing fields.
type Lookup[T any] struct {
	Found  bool
	Record T
}

func (l Lookup[T]) OrEmpty() T {
	if !l.Found {
		var empty T
		return empty
	}
	return l.Record
}

type ReconciledIdentity struct {
	QID   string
	Email string
}

// Discrepancy holds both source values of every field that did not reconcile.
// A nil field was not flagged; a pointer to "" was flagged with an empty value.
type Discrepancy struct {
	QIDFromXLSX   *string `json:"qid_from_xlsx,omitempty"`
	QIDFromSQL    *string `json:"qid_from_sql,omitempty"`
	EmailFromXLSX *string `json:"email_from_xlsx,omitempty"`
	EmailFromSQL  *string `json:"email_from_sql,omitempty"`
}

// DiscrepancyReport keeps discrepancies per account in first-seen order.
type DiscrepancyReport struct {
	order   []string
	entries map[string]*Discrepancy
}

func NewDiscrepancyReport() *DiscrepancyReport {
	return &DiscrepancyReport{entries: make(map[string]*Discrepancy)}
}

// Entry returns the discrepancy for the account, creating it when absent.
func (r *DiscrepancyReport) Entry(accountNumber string) *Discrepancy {
	if d, ok := r.entries[accountNumber]; ok {
		return d
	}
	d := &Discrepancy{}
	r.entries[accountNumber] = d
	r.order = append(r.order, accountNumber)
	return d
}

// Reset replaces the account's discrepancy with an empty one, keeping its position.
func (r *DiscrepancyReport) Reset(accountNumber string) *Discrepancy {
	if _, ok := r.entries[accountNumber]; !ok {
		return r.Entry(accountNumber)
	}
	d := &Discrepancy{}
	r.entries[accountNumber] = d
	return d
}

func (r *DiscrepancyReport) Get(accountNumber string) (*Discrepancy, bool) {
	d, ok := r.entries[accountNumber]
	return d, ok
}

func (r *DiscrepancyReport) Accounts() []string {
	return append([]string(nil), r.order...)
}

func (r *DiscrepancyReport) Len() int {
	return len(r.order)
}

// MarshalJSON writes the report as an object whose keys follow insertion order.
func (r *DiscrepancyReport) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, account := range r.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(account)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.entries[account])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ManifestHeader is the first row of the manifest CSV.
var ManifestHeader = []string{
	"new filename", "qid", "account number", "email", "rep id", "incoming filename",
	"", "", "excel qid", "sql qid", "excel email", "excel sql",
}

type ManifestRow struct {
	NewFileName      string
	QID              string
	AccountNumber    string
	Email            string
	RepID            string
	IncomingFileName string
	QIDFromXLSX      string
	QIDFromSQL       string
	EmailFromXLSX    string
	EmailFromSQL     string
}

func (m ManifestRow) Columns() []string {
	return []string{
		m.NewFileName, m.QID, m.AccountNumber, m.Email, m.RepID, m.IncomingFileName,
		"", "", m.QIDFromXLSX, m.QIDFromSQL, m.EmailFromXLSX, m.EmailFromSQL,
	}
}

// CopyJob moves one incoming document to its reconciled name.
type CopyJob struct {
	SourceName string
	TargetName string
}

// ReconciliationPlan is everything the engine decided for a batch, before any side effect.
type ReconciliationPlan struct {
	Identities    map[string]ReconciledIdentity
	Discrepancies *DiscrepancyReport
	Manifest      []ManifestRow
	Copies        []CopyJob
}

// RunLayout describes where a run reads from and writes to.
type RunLayout struct {
	WorkDir      string
	DirName      string
	OutputDir    string
	ReportPath   string
	ManifestPath string
}
