package reconcile

import (
	"context"
	"time"

	"github.com/ThiagoRGoveia/statement-reconciler/internal/config"
	"github.com/ThiagoRGoveia/statement-reconciler/internal/database"
	"github.com/ThiagoRGoveia/statement-reconciler/internal/models"
	"github.com/ThiagoRGoveia/statement-reconciler/internal/parser"
	"github.com/ThiagoRGoveia/statement-reconciler/internal/report"
	"github.com/rs/zerolog/log"
)

type ReconciliationService struct {
	setupService  ISetup
	indexLoader   parser.IndexLoader
	accountStore  database.AccountStore
	rosterReader  parser.RosterReader
	engine        *Engine
	fileProcessor Processor
	reportWriter  report.Writer
	config        config.Config
}

func NewReconciliationService(
	setupService ISetup,
	indexLoader parser.IndexLoader,
	accountStore database.AccountStore,
	rosterReader parser.RosterReader,
	processor Processor,
	reportWriter report.Writer,
	cfg config.Config,
) *ReconciliationService {
	return &ReconciliationService{
		setupService:  setupService,
		indexLoader:   indexLoader,
		accountStore:  accountStore,
		rosterReader:  rosterReader,
		engine:        NewEngine(),
		fileProcessor: processor,
		reportWriter:  reportWriter,
		config:        cfg,
	}
}

// Execute reconciles and renames every statement of the batch in workDir.
func (s *ReconciliationService) Execute(ctx context.Context, workDir string) (*models.ReconciliationPlan, error) {
	// Step 0: Create the output directory and work out report paths.
	layout, err := s.setupService.build(workDir)
	if err != nil {
		return nil, err
	}

	// Step 1: Load the batch index.
	entries, err := s.indexLoader.LoadIndex(workDir)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load index")
		return nil, err
	}

	// Step 2: One bulk database query for every account in the index.
	accountNumbers := make([]string, 0, len(entries))
	for _, entry := range entries {
		accountNumbers = append(accountNumbers, entry.ActID)
	}
	dbRecords, err := s.fetchAccounts(ctx, accountNumbers)
	if err != nil {
		log.Error().Err(err).Msg("Failed to query accounts")
		return nil, err
	}
	log.Info().Int("records", len(dbRecords)).Msg("Database records loaded")

	// Step 3: Read the whole roster.
	rosterRecords, err := s.rosterReader.ReadRoster()
	if err != nil {
		log.Error().Err(err).Msg("Failed to read roster")
		return nil, err
	}

	// Step 4: Decide every identity and discrepancy before touching any file.
	plan := s.engine.Reconcile(entries, dbRecords, rosterRecords)
	log.Info().
		Int("documents", len(plan.Manifest)).
		Int("discrepancies", plan.Discrepancies.Len()).
		Msg("Reconciliation planned")

	// Step 5: Copy each statement under its new name.
	if err := s.fileProcessor.CopyDocuments(layout, plan.Copies); err != nil {
		log.Error().Err(err).Msg("Failed to copy documents")
		return nil, err
	}

	// Step 6: Flush the reports.
	if err := s.reportWriter.PrintDiscrepancies(plan.Discrepancies); err != nil {
		log.Warn().Err(err).Msg("Failed to print discrepancies")
	}
	if err := s.reportWriter.WriteDiscrepancies(layout.ReportPath, plan.Discrepancies); err != nil {
		return nil, err
	}
	if err := s.reportWriter.WriteManifest(layout.ManifestPath, plan.Manifest); err != nil {
		return nil, err
	}

	return &plan, nil
}

func (s *ReconciliationService) fetchAccounts(ctx context.Context, accountNumbers []string) ([]models.DatabaseRecord, error) {
	if s.config.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.QueryTimeout)
		defer cancel()
	}

	start := time.Now()
	records, err := s.accountStore.FetchAccounts(ctx, accountNumbers)
	log.Debug().Dur("elapsed", time.Since(start)).Msg("Account query finished")
	return records, err
}
