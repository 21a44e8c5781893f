package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Language is a storage language code for an article bundle.
type Language string

// Supported article languages.
const (
	LanguageEnglish Language = "en"
	LanguageChinese Language = "zh"
	LanguageMalay   Language = "ms"
)

// Languages lists every language an Article must carry, in storage order.
var Languages = []Language{LanguageEnglish, LanguageChinese, LanguageMalay}

// LanguageBundle is the title, body and summary of an article in one language.
type LanguageBundle struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Summary string `json:"summary"`
}

// IsEmpty reports whether the bundle has no content.
func (b LanguageBundle) IsEmpty() bool {
	return b.Content == ""
}

// Article is the multi-language rewrite of a single headline.
type Article struct {
	ID         uuid.UUID                   `json:"id"`
	HeadlineID uuid.UUID                   `json:"headline_id"`
	Bundles    map[Language]LanguageBundle `json:"translations"`
	Tags       []string                    `json:"tags"`
	CreatedAt  time.Time                   `json:"created_at"`
}

// NewArticle creates an article for headlineID from per-language bundles.
func NewArticle(headlineID uuid.UUID, bundles map[Language]LanguageBundle, tags []string) (*Article, error) {
	a := &Article{
		ID:         uuid.New(),
		HeadlineID: headlineID,
		Bundles:    bundles,
		Tags:       tags,
		CreatedAt:  time.Now().UTC(),
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Bundle returns the bundle for lang, or a zero bundle.
func (a *Article) Bundle(lang Language) LanguageBundle {
	return a.Bundles[lang]
}

// Validate checks if the Article has valid data. Every language must have a
// title; content may be empty when the model returned nothing for a language.
func (a *Article) Validate() error {
	if a.ID == uuid.Nil {
		return fmt.Errorf("%w: article ID cannot be empty", ErrInvalidID)
	}
	if a.HeadlineID == uuid.Nil {
		return fmt.Errorf("%w: article headline ID cannot be empty", ErrInvalidID)
	}
	for _, lang := range Languages {
		if a.Bundles[lang].Title == "" {
			return fmt.Errorf("%w: missing %s title", ErrValidation, lang)
		}
	}
	if len(a.Tags) == 0 {
		return fmt.Errorf("%w: article needs at least one tag", ErrValidation)
	}
	return nil
}
