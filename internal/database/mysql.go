package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"

	"github.com/ThiagoRGoveia/statement-reconciler/internal/config"
	"github.com/ThiagoRGoveia/statement-reconciler/internal/models"
	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
)

// BuildMySQLDSN renders the driver DSN for the configured instance.
func BuildMySQLDSN(cfg config.DatabaseConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host(), strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Schema
	return mc.FormatDSN()
}

func OpenMySQL(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", BuildMySQLDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}
	return db, nil
}

type MySQLAccountStore struct {
	db *sql.DB
}

func NewMySQLAccountStore(db *sql.DB) *MySQLAccountStore {
	return &MySQLAccountStore{db: db}
}

func (s *MySQLAccountStore) FetchAccounts(ctx context.Context, accountNumbers []string) ([]models.DatabaseRecord, error) {
	unique := UniqueAccountNumbers(accountNumbers)
	if len(unique) == 0 {
		log.Warn().Msg("No account numbers to look up, skipping database query")
		return nil, nil
	}

	args := make([]any, len(unique))
	for i, accountNumber := range unique {
		args[i] = accountNumber
	}

	log.Info().Int("accounts", len(unique)).Msg("Querying accounts database")
	rows, err := s.db.QueryContext(ctx, mysqlAccountsQuery(len(unique)), args...)
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

func (s *MySQLAccountStore) Close() {
	if err := s.db.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close database")
	}
}
