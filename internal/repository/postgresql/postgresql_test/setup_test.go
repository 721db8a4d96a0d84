package postgresql_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	testDB     *database.DB
	testDBErr  error
	testDBOnce sync.Once
)

// openTestDB connects to TEST_DATABASE_URL and applies the schema once.
// Tests are skipped when the variable is unset.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping PostgreSQL repository tests")
	}

	testDBOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		testDB, testDBErr = database.NewPostgreSQLDB(ctx, dsn, database.PoolConfig{MaxConns: 5, MinConns: 1})
		if testDBErr != nil {
			return
		}

		var schema []byte
		schema, testDBErr = os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "0001_payroll.sql"))
		if testDBErr != nil {
			return
		}
		_, testDBErr = testDB.Exec(ctx, string(schema))
	})
	require.NoError(t, testDBErr, "failed to prepare test database")

	truncateTables(t)
	return testDB
}

func truncateTables(t *testing.T) {
	t.Helper()
	_, err := testDB.Exec(context.Background(),
		"TRUNCATE TABLE payroll_records, attendances, employees, departments CASCADE")
	require.NoError(t, err)
}

func newID(t *testing.T) string {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id.String()
}

func createDepartment(t *testing.T, name string) string {
	t.Helper()
	id := newID(t)
	_, err := testDB.Exec(context.Background(),
		`INSERT INTO departments (id, name) VALUES ($1, $2)`, id, name)
	require.NoError(t, err)
	return id
}

type employeeSeed struct {
	code         string
	name         string
	departmentID *string
	salary       int64
	status       string
	deleted      bool
}

func createEmployee(t *testing.T, seed employeeSeed) string {
	t.Helper()
	if seed.status == "" {
		seed.status = "active"
	}
	id := newID(t)

	var deletedAt *time.Time
	if seed.deleted {
		now := time.Now()
		deletedAt = &now
	}

	_, err := testDB.Exec(context.Background(), `
		INSERT INTO employees (id, employee_code, full_name, department_id, base_salary, employment_status, hire_date, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, '2023-01-02', $7)
	`, id, seed.code, seed.name, seed.departmentID, decimal.NewFromInt(seed.salary), seed.status, deletedAt)
	require.NoError(t, err)
	return id
}

func createAttendance(t *testing.T, employeeID string, date string, minutes int, status string) {
	t.Helper()
	_, err := testDB.Exec(context.Background(), `
		INSERT INTO attendances (id, employee_id, date, work_hours_in_minutes, status)
		VALUES ($1, $2, $3, $4, $5)
	`, newID(t), employeeID, date, minutes, status)
	require.NoError(t, err)
}
