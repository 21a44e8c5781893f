package service

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/phrazzld/newsdesk/internal/domain"
	"github.com/phrazzld/newsdesk/internal/sanitize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeResponse(t *testing.T, text string) *rewritePayload {
	t.Helper()
	raw, err := ExtractJSONObject(text)
	require.NoError(t, err)
	payload, err := decodeRewritePayload(raw)
	require.NoError(t, err)
	return payload
}

func TestBuildBundles(t *testing.T) {
	t.Parallel()
	clean := sanitize.New()
	const headline = "Solar tariff cut in Malaysia"

	t.Run("full payload", func(t *testing.T) {
		t.Parallel()
		payload := decodeResponse(t, rewriteResponse(headline))

		bundles, err := buildBundles(payload, headline, clean)
		require.NoError(t, err)
		require.Len(t, bundles, 3)

		en := bundles[domain.LanguageEnglish]
		assert.Equal(t, headline, en.Title)
		assert.Equal(t, "[en] Context for "+headline+".", en.Summary)
		assert.Equal(t, strings.Join([]string{
			"[en] Context for " + headline + ".",
			"**Key Points:**\n1. en point one\n2. en point two",
			"**Analysis:**\nen impact",
			"**Background:**\nen background",
		}, "\n\n"), en.Content)

		zh := bundles[domain.LanguageChinese]
		assert.Contains(t, zh.Content, "**要点：**\n1. zh point one")
		assert.Contains(t, zh.Content, "**分析：**\nzh impact")
		assert.Contains(t, zh.Content, "**背景：**\nzh background")

		ms := bundles[domain.LanguageMalay]
		assert.Contains(t, ms.Content, "**Perkara Utama:**")
		assert.Contains(t, ms.Content, "**Analisis:**")
		assert.Contains(t, ms.Content, "**Latar Belakang:**")
	})

	t.Run("missing language keeps the title", func(t *testing.T) {
		t.Parallel()
		payload := decodeResponse(t, `{"data": {"en": {"context_warming": "Lead."}}}`)

		bundles, err := buildBundles(payload, headline, clean)
		require.NoError(t, err)
		assert.Equal(t, "Lead.", bundles[domain.LanguageEnglish].Content)
		assert.True(t, bundles[domain.LanguageChinese].IsEmpty())
		assert.Equal(t, headline, bundles[domain.LanguageChinese].Title)
	})

	t.Run("alternate language keys and no data wrapper", func(t *testing.T) {
		t.Parallel()
		payload := decodeResponse(t, `{"en_us": {"background_context": "Old news."}, "zh": {"main_points": ["一"]}}`)

		bundles, err := buildBundles(payload, headline, clean)
		require.NoError(t, err)
		assert.Equal(t, "**Background:**\nOld news.", bundles[domain.LanguageEnglish].Content)
		assert.Equal(t, "**要点：**\n1. 一", bundles[domain.LanguageChinese].Content)
	})

	t.Run("summary falls back to truncated content", func(t *testing.T) {
		t.Parallel()
		long := strings.Repeat("é", 300)
		payload := decodeResponse(t, `{"data": {"en": {"background_context": "`+long+`"}}}`)

		bundles, err := buildBundles(payload, headline, clean)
		require.NoError(t, err)
		summary := bundles[domain.LanguageEnglish].Summary
		assert.Equal(t, summaryFallbackRunes, len([]rune(summary)))
		assert.True(t, strings.HasPrefix(summary, "**Background:**"))
	})

	t.Run("markup is stripped", func(t *testing.T) {
		t.Parallel()
		payload := decodeResponse(t,
			`{"data": {"en": {"context_warming": "<p>Rates &amp; <b>tariffs</b></p>", "main_points": ["<script>x()</script>Safe"]}}}`)

		bundles, err := buildBundles(payload, headline, clean)
		require.NoError(t, err)
		en := bundles[domain.LanguageEnglish]
		assert.Equal(t, "Rates & tariffs", en.Summary)
		assert.NotContains(t, en.Content, "<")
		assert.Contains(t, en.Content, "1. Safe")
	})

	t.Run("no content anywhere is a parse error", func(t *testing.T) {
		t.Parallel()
		payload := decodeResponse(t, `{"data": {"en": {"main_points": []}}}`)

		_, err := buildBundles(payload, headline, clean)
		assert.ErrorIs(t, err, ErrParse)
	})
}

func TestDecodeRewritePayload_Invalid(t *testing.T) {
	t.Parallel()

	_, err := decodeRewritePayload(json.RawMessage(`{"data": ["not", "a", "map"]}`))
	assert.ErrorIs(t, err, ErrParse)
}

func TestAnalysisHasStakeholders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want bool
	}{
		{raw: ``, want: false},
		{raw: `null`, want: false},
		{raw: `""`, want: false},
		{raw: `["farmers"]`, want: true},
		{raw: `"utilities"`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			a := analysis{AffectedStakeholders: json.RawMessage(tt.raw)}
			assert.Equal(t, tt.want, a.hasStakeholders())
		})
	}
}
