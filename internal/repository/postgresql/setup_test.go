package postgresql_test

import (
	"context"
	"os"
	"testing"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// seed holds the ids created by newTestDB.
type seed struct {
	ManagerUserID     string
	ManagerEmployeeID string
	EmployeeID        string
	LoneEmployeeID    string
}

// newTestDB connects to TEST_DATABASE_URL, migrates and resets the schema.
// Tests are skipped when the variable is not set.
func newTestDB(t *testing.T) (*database.DB, seed) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(dsn, 10, 0)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, database.Migrate(ctx, db))

	_, err = db.Exec(ctx, `TRUNCATE TABLE payslips, attendance_timestamps, attendances, leave_requests, compensations, employees, users CASCADE`)
	require.NoError(t, err)

	s := seed{
		ManagerUserID:     "0190f1d2-0000-7000-8000-0000000000aa",
		ManagerEmployeeID: "0190f1d2-0000-7000-8000-0000000000a1",
		EmployeeID:        "0190f1d2-0000-7000-8000-000000000001",
		LoneEmployeeID:    "0190f1d2-0000-7000-8000-000000000002",
	}

	_, err = db.Exec(ctx, `INSERT INTO users (id, email, role) VALUES ($1, 'meera@example.com', 'manager')`, s.ManagerUserID)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `
		INSERT INTO employees (id, user_id, employee_code, full_name) VALUES ($1, $2, 'MGR001', 'Meera Iyer')
	`, s.ManagerEmployeeID, s.ManagerUserID)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `
		INSERT INTO employees (id, employee_code, full_name, manager_id) VALUES
			($1, 'EMP001', 'Asha Rao', $3),
			($2, 'EMP002', 'Vikram Shah', NULL)
	`, s.EmployeeID, s.LoneEmployeeID, s.ManagerEmployeeID)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `
		INSERT INTO compensations (employee_id, basic_salary, house_rent_allowance, special_allowance, employee_pf)
		VALUES ($1, 50000, 15000, 20000, 1800)
	`, s.EmployeeID)
	require.NoError(t, err)

	return db, s
}
