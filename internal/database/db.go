package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ThiagoRGoveia/statement-reconciler/internal/config"
	"github.com/ThiagoRGoveia/statement-reconciler/internal/models"
)

// AccountStore returns the active owner and email for a batch of account numbers.
type AccountStore interface {
	FetchAccounts(ctx context.Context, accountNumbers []string) ([]models.DatabaseRecord, error)
	Close()
}

// accountsQuery joins active accounts to their active owner. %s is the driver specific
// account number filter.
const accountsQuery = `
	SELECT
		a.accountNumber,
		a.accountOwnersQID,
		u.email
	FROM
		account AS a
	LEFT JOIN
		users AS u
	ON
		a.accountOwnersQID = u.QID
		AND u.currentFlag = 1
		AND u.deletedFlag = 0
	WHERE
		a.accountNumber %s
		AND a.currentFlag = 1
		AND a.deletedFlag = 0`

// NewAccountStore opens the store for the configured driver.
func NewAccountStore(ctx context.Context, cfg config.DatabaseConfig) (AccountStore, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := ConnectDB(ctx, BuildPostgresURL(cfg))
		if err != nil {
			return nil, &models.LookupError{Source: "database", Err: err}
		}
		return NewPostgresAccountStore(pool), nil
	case config.DriverMySQL:
		db, err := OpenMySQL(cfg)
		if err != nil {
			return nil, &models.LookupError{Source: "database", Err: err}
		}
		return NewMySQLAccountStore(db), nil
	default:
		return nil, &models.ConfigurationError{Message: fmt.Sprintf("unsupported database driver '%s'", cfg.Driver)}
	}
}

// UniqueAccountNumbers drops repeated and blank account numbers, keeping first-seen order.
func UniqueAccountNumbers(accountNumbers []string) []string {
	seen := make(map[string]bool, len(accountNumbers))
	unique := make([]string, 0, len(accountNumbers))
	for _, accountNumber := range accountNumbers {
		if accountNumber == "" || seen[accountNumber] {
			continue
		}
		seen[accountNumber] = true
		unique = append(unique, accountNumber)
	}
	return unique
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// collectRecords reads every row; NULL columns from the outer join become empty strings.
func collectRecords(rows rowScanner) ([]models.DatabaseRecord, error) {
	var records []models.DatabaseRecord
	for rows.Next() {
		var accountNumber, ownerQID, email sql.NullString
		if err := rows.Scan(&accountNumber, &ownerQID, &email); err != nil {
			return nil, fmt.Errorf("error scanning account row: %w", err)
		}
		records = append(records, models.DatabaseRecord{
			AccountNumber: accountNumber.String,
			OwnerQID:      ownerQID.String,
			Email:         email.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return records, nil
}

func mysqlAccountsQuery(count int) string {
	placeholders := make([]string, count)
	for i := range placeholders {
		placeholders[i] = "?"
	}
	return fmt.Sprintf(accountsQuery, "IN ("+strings.Join(placeholders, ", ")+")")
}

func postgresAccountsQuery() string {
	return fmt.Sprintf(accountsQuery, "= ANY($1)")
}
