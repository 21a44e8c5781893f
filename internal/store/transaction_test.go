package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInTransaction(t *testing.T) {
	t.Parallel()

	errFn := errors.New("insert article: constraint violated")
	errDB := errors.New("connection reset")

	tests := []struct {
		name        string
		expect      func(mock sqlmock.Sqlmock)
		fn          TxFn
		wantErrIs   error
		wantErrText string
	}{
		{
			name: "commits on success",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE headlines").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			fn: func(ctx context.Context, tx *sql.Tx) error {
				_, err := tx.ExecContext(ctx, "UPDATE headlines SET status = 'completed'")
				return err
			},
		},
		{
			name: "rolls back and returns fn error unchanged",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fn:        func(context.Context, *sql.Tx) error { return errFn },
			wantErrIs: errFn,
		},
		{
			name: "begin failure",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errDB)
			},
			fn:          func(context.Context, *sql.Tx) error { return nil },
			wantErrIs:   errDB,
			wantErrText: "failed to begin transaction",
		},
		{
			name: "commit failure",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(errDB)
			},
			fn:          func(context.Context, *sql.Tx) error { return nil },
			wantErrIs:   errDB,
			wantErrText: "failed to commit transaction",
		},
		{
			name: "rollback failure keeps original error",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback().WillReturnError(errDB)
			},
			fn:          func(context.Context, *sql.Tx) error { return errFn },
			wantErrIs:   errFn,
			wantErrText: "error rolling back transaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()
			tt.expect(mock)

			err = RunInTransaction(context.Background(), db, tt.fn)

			if tt.wantErrIs == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErrIs)
			}
			if tt.wantErrText != "" {
				assert.Contains(t, err.Error(), tt.wantErrText)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRunInTransaction_PanicRollsBackAndRepanics(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "claim lost", func() {
		_ = RunInTransaction(context.Background(), db, func(context.Context, *sql.Tx) error {
			panic("claim lost")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBTxManager(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectCommit()

	var manager TxManager = NewTxManager(db)
	called := false
	err = manager.RunInTransaction(context.Background(), func(_ context.Context, tx *sql.Tx) error {
		called = tx != nil
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}
