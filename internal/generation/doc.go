// Package generation defines the boundary between the news pipeline and the
// external chat/completion service that discovers and rewrites headlines.
//
// The Client interface covers the three calls the pipeline makes: a health
// probe, profile discovery and a chat exchange. Backends live under
// internal/platform/gemini; NewQueuedClient routes every call of any backend
// through one shared call queue so the upstream sees a bounded request rate.
package generation
