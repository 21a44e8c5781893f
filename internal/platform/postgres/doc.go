// Package postgres provides the PostgreSQL implementations of the store
// interfaces (tasks, headlines, articles) together with the embedded schema
// migrations. Stores accept a store.DBTX so they run unchanged against a
// *sql.DB or inside a *sql.Tx.
package postgres
