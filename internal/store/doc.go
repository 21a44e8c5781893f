// Package store defines the persistence boundary of the news pipeline:
// search tasks, headlines and articles. Implementations live in
// internal/platform/postgres; in-memory versions for tests live in
// internal/mocks.
//
// Headline status changes are conditional on the current status so that two
// workers can never both claim the same headline.
package store
