//go:build integration

// Package testdb provides helpers for integration tests that need a real
// PostgreSQL database.
//
// Each test runs inside its own transaction which is rolled back when the test
// finishes, so tests can call t.Parallel() and share the same schema:
//
//	func TestHeadlines(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        headlines := postgres.NewPostgresHeadlineStore(tx, nil)
//	        ...
//	    })
//	}
//
// Tests are skipped when neither DATABASE_URL nor NEWSDESK_TEST_DB_URL is set.
package testdb
