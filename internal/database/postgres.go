package database

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ThiagoRGoveia/statement-reconciler/internal/config"
	"github.com/ThiagoRGoveia/statement-reconciler/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

func ConnectDB(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	dbpool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	return dbpool, nil
}

// BuildPostgresURL renders the connection URL, escaping the credentials.
func BuildPostgresURL(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   cfg.Host() + ":" + strconv.Itoa(cfg.Port),
		Path:   "/" + cfg.Schema,
	}
	return u.String()
}

type PostgresAccountStore struct {
	dbpool *pgxpool.Pool
}

func NewPostgresAccountStore(pool *pgxpool.Pool) *PostgresAccountStore {
	return &PostgresAccountStore{dbpool: pool}
}

func (s *PostgresAccountStore) FetchAccounts(ctx context.Context, accountNumbers []string) ([]models.DatabaseRecord, error) {
	unique := UniqueAccountNumbers(accountNumbers)
	if len(unique) == 0 {
		log.Warn().Msg("No account numbers to look up, skipping database query")
		return nil, nil
	}

	log.Info().Int("accounts", len(unique)).Msg("Querying accounts database")
	rows, err := s.dbpool.Query(ctx, postgresAccountsQuery(), unique)
	if err != nil {
		return nil, &models.LookupError{Source: "database", Err: fmt.Errorf("error querying accounts: %w", err)}
	}
	defer rows.Close()

	records, err := collectRecords(rows)
	if err != nil {
		return nil, &models.LookupError{Source: "database", Err: err}
	}
	return records, nil
}

func (s *PostgresAccountStore) Close() {
	s.dbpool.Close()
}
