// Package gemini provides generation.Client backends for Gemini.
//
// ProxyClient speaks to an HTTP chat gateway that fronts Gemini "gems"
// (GET /health, GET /profiles, POST /chat). DirectClient calls the Gemini API
// through the google.golang.org/genai SDK and maps profile references to
// system instructions from configuration.
//
// Neither client throttles itself. Wrap them with generation.NewQueuedClient.
package gemini
