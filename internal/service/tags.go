package service

import (
	"strings"

	"github.com/phrazzld/newsdesk/internal/config"
)

// BusinessTag is added when the model lists affected stakeholders.
const BusinessTag = "business"

// Tagger derives article tags from headline text with case-insensitive
// keyword matching.
type Tagger struct {
	rules      []config.TagRule
	defaultTag string
}

// NewTagger creates a Tagger. Rules are applied in order; defaultTag is used
// when nothing matches.
func NewTagger(rules []config.TagRule, defaultTag string) *Tagger {
	normalized := make([]config.TagRule, 0, len(rules))
	for _, r := range rules {
		keyword := strings.ToLower(strings.TrimSpace(r.Keyword))
		tag := strings.TrimSpace(r.Tag)
		if keyword == "" || tag == "" {
			continue
		}
		normalized = append(normalized, config.TagRule{Keyword: keyword, Tag: tag})
	}
	if defaultTag == "" {
		defaultTag = "news"
	}
	return &Tagger{rules: normalized, defaultTag: defaultTag}
}

// Tags returns the tags for headline. The result is never empty and holds
// no duplicates.
func (t *Tagger) Tags(headline string, stakeholders bool) []string {
	lower := strings.ToLower(headline)

	var tags []string
	seen := make(map[string]bool)
	add := func(tag string) {
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	for _, r := range t.rules {
		if strings.Contains(lower, r.Keyword) {
			add(r.Tag)
		}
	}
	if stakeholders {
		add(BusinessTag)
	}

	if len(tags) == 0 {
		return []string{t.defaultTag}
	}
	return tags
}
