// Package api exposes the headline pipeline over HTTP: the cron endpoints
// that fetch and process headlines, per-headline rewrite and re-queue, and
// health reports. Handlers translate service errors to status codes in one
// place (MapErrorToStatusCode) and never echo internal error text.
package api
