package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stocker-hr/payroll-backend-go/internal/pkg/database"
)

// TestDatabaseSetup wraps a connection to the integration test database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to the database named by TEST_DATABASE_URL and
// applies the schema migrations. Tests calling this must skip when the
// variable is unset so the suite stays runnable without Postgres.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	if err := database.RunMigrations(dsn); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	return &TestDatabaseSetup{DB: db}
}

// TruncateAllTables clears every application table between tests.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"payslip_items",
		"payslips",
		"payroll_items",
		"payrolls",
		"cumulative_states",
		"bracket_tables",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// Close closes the database connection.
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
