package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/phrazzld/newsdesk/internal/config"
	"github.com/phrazzld/newsdesk/internal/generation"
	"github.com/phrazzld/newsdesk/internal/platform/logger"
	"google.golang.org/genai"
)

// modelsAPI is the subset of *genai.Models used by DirectClient.
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	Get(ctx context.Context, model string, config *genai.GetModelConfig) (*genai.Model, error)
}

// DirectClient implements generation.Client on the Gemini API. Profile
// references resolve to system instructions.
type DirectClient struct {
	models   modelsAPI
	model    string
	profiles map[string]string
	logger   *slog.Logger
}

var _ generation.Client = (*DirectClient)(nil)

// NewDirectClient creates a Gemini API client. profiles maps a profile
// reference to the system instruction used for chats under that reference.
func NewDirectClient(ctx context.Context, cfg config.LLMConfig, profiles map[string]string, log *slog.Logger) (*DirectClient, error) {
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if err := validateDirectConfig(cfg, profiles); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newDirectClient(client.Models, cfg.ModelName, profiles, log), nil
}

func newDirectClient(models modelsAPI, model string, profiles map[string]string, log *slog.Logger) *DirectClient {
	copied := make(map[string]string, len(profiles))
	for ref, instruction := range profiles {
		copied[ref] = instruction
	}
	return &DirectClient{
		models:   models,
		model:    model,
		profiles: copied,
		logger:   log.With("component", "generation_direct", "model", model),
	}
}

// Health implements generation.Client by looking up the configured model.
// The API is stateless, so ActiveSessions is always zero.
func (c *DirectClient) Health(ctx context.Context) (*generation.Health, error) {
	if _, err := c.models.Get(ctx, c.model, nil); err != nil {
		return nil, classifyAPIError("health", err)
	}
	return &generation.Health{Ready: true}, nil
}

// ListProfiles implements generation.Client, returning configured profiles
// ordered by reference.
func (c *DirectClient) ListProfiles(ctx context.Context) ([]generation.Profile, error) {
	profiles := make([]generation.Profile, 0, len(c.profiles))
	for ref, instruction := range c.profiles {
		profiles = append(profiles, generation.Profile{
			ID:          ref,
			Name:        profileName(ref),
			Description: summarizeInstruction(instruction),
		})
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].ID < profiles[j].ID })
	return profiles, nil
}

// Chat implements generation.Client.
func (c *DirectClient) Chat(ctx context.Context, req generation.ChatRequest) (string, error) {
	if req.Message == "" {
		return "", generation.ErrEmptyMessage
	}
	log := logger.FromContextOrDefault(ctx, c.logger)

	genConfig := &genai.GenerateContentConfig{}
	if req.ProfileRef != "" {
		instruction, ok := c.profiles[req.ProfileRef]
		if !ok {
			return "", fmt.Errorf("%w: %s", generation.ErrUnknownProfile, req.ProfileRef)
		}
		genConfig.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: instruction}}}
	}
	if req.AccountRef != "" {
		log.DebugContext(ctx, "account reference ignored by direct backend", "account_ref", req.AccountRef)
	}

	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(req.Message), genConfig)
	if err != nil {
		log.WarnContext(ctx, "Gemini API call failed", "error", err)
		return "", classifyAPIError("chat", err)
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: %w", generation.ErrInvalidResponse, ErrEmptyCompletion)
	}
	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("%w: %w", generation.ErrInvalidResponse, ErrEmptyCompletion)
	}
	return sb.String(), nil
}

func classifyAPIError(op string, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return generation.NewUpstreamError(op, apiErr.Code, apiErr.Message, err)
	}
	return generation.NewUpstreamError(op, 0, "", err)
}

func profileName(ref string) string {
	ref = strings.TrimRight(ref, "/")
	if i := strings.LastIndex(ref, "/"); i >= 0 && i < len(ref)-1 {
		return ref[i+1:]
	}
	return ref
}

func summarizeInstruction(instruction string) string {
	line := strings.TrimSpace(instruction)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if r := []rune(line); len(r) > 120 {
		return string(r[:120]) + "..."
	}
	return line
}
