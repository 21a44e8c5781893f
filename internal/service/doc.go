// Package service contains the headline pipeline: the ingestion stage that
// turns a search task into fresh headlines, the rewrite stage that turns a
// fresh headline into a multi-language article, and the orchestrator that
// drives batches of either through the shared generation client.
//
// Services depend on the store interfaces and on generation.Client, never on
// a concrete database or backend. Every outbound model call goes through the
// client handed in by the caller, which in production is queued so calls
// from all services share one rate limit.
package service
