package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ThiagoRGoveia/statement-reconciler/internal/config"
	"github.com/ThiagoRGoveia/statement-reconciler/internal/database"
	"github.com/ThiagoRGoveia/statement-reconciler/internal/logging"
	"github.com/ThiagoRGoveia/statement-reconciler/internal/parser"
	"github.com/ThiagoRGoveia/statement-reconciler/internal/reconcile"
	"github.com/ThiagoRGoveia/statement-reconciler/internal/report"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func setup(ctx context.Context) (*reconcile.ReconciliationService, func(), error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logging.SetDefault(logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format))

	accountStore, err := database.NewAccountStore(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	service := reconcile.NewReconciliationService(
		reconcile.Setup{},
		parser.NewJSONIndexLoader(),
		accountStore,
		parser.NewXLSXRosterReader(cfg.RosterPath),
		reconcile.NewFileProcessor(true),
		report.NewFileWriter(os.Stdout),
		*cfg,
	)

	cleanupFunc := func() {
		accountStore.Close()
	}

	return service, cleanupFunc, nil
}

func execute(ctx context.Context, service *reconcile.ReconciliationService) error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}

	log.Info().Str("dir", workDir).Msg("Starting reconciliation")
	plan, err := service.Execute(ctx, workDir)
	if err != nil {
		return err
	}

	log.Info().
		Int("documents", len(plan.Manifest)).
		Int("discrepancies", plan.Discrepancies.Len()).
		Msg("Reconciliation finished")
	return nil
}

func cleanup(cleanupFunc func()) {
	log.Debug().Msg("Cleaning up resources...")
	cleanupFunc()
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "reconcile",
		Short:         "Reconcile statement identities and rename the batch in the current directory",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			startTime := time.Now()
			ctx := cmd.Context()

			service, cleanupFunc, err := setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup(cleanupFunc)

			if err := execute(ctx, service); err != nil {
				return fmt.Errorf("error during reconciliation: %w", err)
			}

			log.Info().Dur("elapsed", time.Since(startTime)).Msg("Execution time")
			return nil
		},
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
