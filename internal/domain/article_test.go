package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func validBundles() map[Language]LanguageBundle {
	return map[Language]LanguageBundle{
		LanguageEnglish: {Title: "Headline", Content: "Body", Summary: "Lead"},
		LanguageChinese: {Title: "Headline", Content: "正文", Summary: "导语"},
		LanguageMalay:   {Title: "Headline", Content: "Isi", Summary: "Pendahuluan"},
	}
}

func TestNewArticle(t *testing.T) {
	t.Parallel()
	headlineID := uuid.New()

	a, err := NewArticle(headlineID, validBundles(), []string{"solar"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if a.HeadlineID != headlineID {
		t.Errorf("Expected headline ID %s, got %s", headlineID, a.HeadlineID)
	}
	if a.Bundle(LanguageChinese).Content != "正文" {
		t.Errorf("Unexpected zh bundle: %+v", a.Bundle(LanguageChinese))
	}

	if _, err := NewArticle(uuid.Nil, validBundles(), []string{"news"}); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Expected ErrInvalidID, got %v", err)
	}

	missing := validBundles()
	delete(missing, LanguageMalay)
	if _, err := NewArticle(headlineID, missing, []string{"news"}); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for missing language, got %v", err)
	}

	if _, err := NewArticle(headlineID, validBundles(), nil); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for missing tags, got %v", err)
	}
}
