// Package config handles configuration loading, parsing, and validation
// from environment variables, an optional .env file and an optional
// config.yaml. Environment variables use the NEWSDESK_ prefix, with nested
// keys joined by underscores (NEWSDESK_QUEUE_DELAY_MS).
package config
