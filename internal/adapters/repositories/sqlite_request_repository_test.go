package repositories

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, InitSchema(db))
	return db
}

func TestListRequestsRowOrder(t *testing.T) {
	db := openTestDB(t)

	insert := `INSERT INTO delivery_requests (row, recipient, postcode, deadline, notes) VALUES (?, ?, ?, ?, ?)`
	_, err := db.Exec(insert, 3, "Bob", "EF3 4GH", "2026-09-03", "")
	require.NoError(t, err)
	_, err = db.Exec(insert, 2, "Alice", "AB1 2CD", "2026-09-01", "leave at door")
	require.NoError(t, err)

	repo := NewSqliteRequestRepository(db)
	requests, err := repo.ListRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, requests, 2)

	assert.Equal(t, 2, requests[0].Row)
	assert.Equal(t, "Alice", requests[0].Recipient)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), requests[0].Deadline)
	assert.Equal(t, "leave at door", requests[0].Notes)
	assert.Equal(t, 3, requests[1].Row)
}

func TestListRequestsEmpty(t *testing.T) {
	repo := NewSqliteRequestRepository(openTestDB(t))
	requests, err := repo.ListRequests(context.Background())
	require.NoError(t, err)
	assert.Empty(t, requests)
}

func TestListRequestsBadDeadline(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(
		`INSERT INTO delivery_requests (row, recipient, postcode, deadline, notes) VALUES (2, 'A', 'AB1', 'whenever', '')`,
	)
	require.NoError(t, err)

	_, err = NewSqliteRequestRepository(db).ListRequests(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestSeedFromCSV(t *testing.T) {
	db := openTestDB(t)

	path := filepath.Join(t.TempDir(), "requests.csv")
	data := "recipient,postcode,deadline,notes\n" +
		"Alice,AB1 2CD,2026-09-01,fragile\n" +
		"Bob,EF3 4GH,03/09/2026,\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	require.NoError(t, SeedFromCSV(db, path))

	requests, err := NewSqliteRequestRepository(db).ListRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, "fragile", requests[0].Notes)
	assert.Equal(t, time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC), requests[1].Deadline)

	// Re-seeding the same file replaces rows instead of failing.
	require.NoError(t, SeedFromCSV(db, path))
	requests, err = NewSqliteRequestRepository(db).ListRequests(context.Background())
	require.NoError(t, err)
	assert.Len(t, requests, 2)
}
