package postgresql_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// newTestDB connects to TEST_DATABASE_URL and rebuilds the schema from the
// migration file. Tests are skipped when the variable is unset.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, file, _, _ := runtime.Caller(0)
	schema, err := os.ReadFile(filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations", "000001_init.sql"))
	require.NoError(t, err)

	_, err = db.Exec(ctx, "DROP SCHEMA public CASCADE; CREATE SCHEMA public;")
	require.NoError(t, err)
	_, err = db.Exec(ctx, string(schema))
	require.NoError(t, err)

	return db
}

type fixture struct {
	CompanyID  string
	UserID     string
	EmployeeID string
	BranchID   string
}

// seed inserts one company with a branch, a user and the user's employee.
func seed(t *testing.T, db *database.DB) fixture {
	t.Helper()
	ctx := context.Background()

	var f fixture
	require.NoError(t, db.QueryRow(ctx,
		`INSERT INTO companies (name) VALUES ('Acme') RETURNING id`).Scan(&f.CompanyID))
	require.NoError(t, db.QueryRow(ctx, `
		INSERT INTO branches (company_id, name, timezone, latitude, longitude, radius_meters)
		VALUES ($1, 'Pune', 'Asia/Kolkata', 18.52, 73.85, 200) RETURNING id`, f.CompanyID).Scan(&f.BranchID))
	require.NoError(t, db.QueryRow(ctx, `
		INSERT INTO users (company_id, email, password_hash, role)
		VALUES ($1, 'asha@example.com', 'hash', 'employee') RETURNING id`, f.CompanyID).Scan(&f.UserID))
	require.NoError(t, db.QueryRow(ctx, `
		INSERT INTO employees (company_id, user_id, employee_code, full_name, branch_id)
		VALUES ($1, $2, 'E-001', 'Asha Rao', $3) RETURNING id`, f.CompanyID, f.UserID, f.BranchID).Scan(&f.EmployeeID))

	return f
}
