package generation

import "context"

// Health is the readiness report of the generation service.
type Health struct {
	Ready          bool `json:"ready"`
	ActiveSessions int  `json:"active_sessions"`
}

// Profile is a named configuration that steers the model, such as a
// "headline finder" or "article rewriter" persona.
type Profile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ChatRequest is one message to the chat endpoint. ProfileRef selects the
// persona; AccountRef optionally selects the upstream account.
type ChatRequest struct {
	Message    string `json:"message"`
	ProfileRef string `json:"profile_ref"`
	AccountRef string `json:"account_ref,omitempty"`
}

// Client is the pipeline's view of the generation service.
type Client interface {
	// Health probes readiness. Non-success statuses yield *UpstreamError.
	Health(ctx context.Context) (*Health, error)

	// ListProfiles returns the profiles offered by the service as-is.
	ListProfiles(ctx context.Context) ([]Profile, error)

	// Chat sends a message and returns the raw response text. The text is
	// natural language that may embed JSON; callers extract what they need.
	Chat(ctx context.Context, req ChatRequest) (string, error)
}
