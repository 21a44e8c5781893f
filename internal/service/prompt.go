package service

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"text/template"

	"github.com/phrazzld/newsdesk/internal/domain"
)

// RecentDateMarker stands in for a headline date the model did not report.
const RecentDateMarker = "Recent"

//go:embed templates/rewrite_prompt.tmpl
var templateFS embed.FS

// promptData is the data the rewrite template is executed with.
type promptData struct {
	Headline    string
	Date        string
	SearchQuery string
}

// PromptBuilder renders the rewrite prompt for a headline.
type PromptBuilder struct {
	tmpl *template.Template
}

// NewPromptBuilder parses the rewrite template from path, or the embedded
// default when path is empty.
func NewPromptBuilder(path string) (*PromptBuilder, error) {
	var (
		body []byte
		err  error
	)
	if path == "" {
		body, err = templateFS.ReadFile("templates/rewrite_prompt.tmpl")
	} else {
		body, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt template: %w", err)
	}

	tmpl, err := template.New("rewrite").Option("missingkey=error").Parse(string(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}
	return &PromptBuilder{tmpl: tmpl}, nil
}

// Build renders the prompt for h.
func (b *PromptBuilder) Build(h *domain.Headline) (string, error) {
	var buf bytes.Buffer
	err := b.tmpl.Execute(&buf, promptData{
		Headline:    h.Text,
		Date:        h.DateOr(RecentDateMarker),
		SearchQuery: h.SearchQuery,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return buf.String(), nil
}
