// Package task runs the pipeline's background work: a sweeper that fails
// headlines left in processing by a crashed rewrite, and an optional
// scheduler that starts a manual run for every task whose daily schedule
// comes due. Scheduled runs go through a job queue drained by a worker pool
// so a slow run never blocks the next schedule check.
package task
