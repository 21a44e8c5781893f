package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/phrazzld/newsdesk/internal/domain"
	"github.com/phrazzld/newsdesk/internal/sanitize"
)

// summaryFallbackRunes bounds the summary derived from article content when
// the model gave no lead paragraph.
const summaryFallbackRunes = 200

// rewritePayload is the JSON the rewrite profile returns.
type rewritePayload struct {
	Data map[string]languageSection `json:"data"`
}

type languageSection struct {
	ContextWarming    looseString   `json:"context_warming"`
	MainPoints        []looseString `json:"main_points"`
	Analysis          analysis      `json:"analysis"`
	BackgroundContext looseString   `json:"background_context"`
}

type analysis struct {
	ImpactSummary        looseString     `json:"impact_summary"`
	AffectedStakeholders json.RawMessage `json:"affected_stakeholders"`
}

// hasStakeholders reports whether the model named affected stakeholders.
func (a analysis) hasStakeholders() bool {
	raw := strings.TrimSpace(string(a.AffectedStakeholders))
	return raw != "" && raw != "null" && raw != `""`
}

// sectionLabels are the localized headings used when assembling content.
type sectionLabels struct {
	keyPoints  string
	analysis   string
	background string
}

// languageLayout binds a storage language to the payload keys the model uses
// for it and the headings its content is assembled with.
type languageLayout struct {
	lang   domain.Language
	keys   []string
	labels sectionLabels
}

var languageLayouts = []languageLayout{
	{
		lang:   domain.LanguageEnglish,
		keys:   []string{"en", "en_us"},
		labels: sectionLabels{keyPoints: "**Key Points:**", analysis: "**Analysis:**", background: "**Background:**"},
	},
	{
		lang:   domain.LanguageChinese,
		keys:   []string{"zh_cn", "zh"},
		labels: sectionLabels{keyPoints: "**要点：**", analysis: "**分析：**", background: "**背景：**"},
	},
	{
		lang:   domain.LanguageMalay,
		keys:   []string{"ms_my", "ms"},
		labels: sectionLabels{keyPoints: "**Perkara Utama:**", analysis: "**Analisis:**", background: "**Latar Belakang:**"},
	},
}

// decodeRewritePayload parses the extracted JSON object. A payload without a
// "data" wrapper is accepted when the language sections sit at the top level.
func decodeRewritePayload(raw json.RawMessage) (*rewritePayload, error) {
	var payload rewritePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &ParseError{Reason: "invalid article payload", Err: err}
	}

	if len(payload.Data) == 0 {
		var sections map[string]json.RawMessage
		if err := json.Unmarshal(raw, &sections); err == nil {
			payload.Data = map[string]languageSection{}
			for key, body := range sections {
				var section languageSection
				if json.Unmarshal(body, &section) == nil {
					payload.Data[key] = section
				}
			}
		}
	}
	return &payload, nil
}

// section returns the payload section for layout, trying each known key.
func (p *rewritePayload) section(layout languageLayout) languageSection {
	for _, key := range layout.keys {
		if s, ok := p.Data[key]; ok {
			return s
		}
	}
	return languageSection{}
}

// buildBundles turns the payload into one bundle per language. Every title
// is the original headline text. It fails when no language has content.
func buildBundles(
	payload *rewritePayload,
	headline string,
	clean *sanitize.Sanitizer,
) (map[domain.Language]domain.LanguageBundle, error) {
	bundles := make(map[domain.Language]domain.LanguageBundle, len(languageLayouts))
	empty := true
	for _, layout := range languageLayouts {
		bundle := buildBundle(payload.section(layout), layout.labels, headline, clean)
		if !bundle.IsEmpty() {
			empty = false
		}
		bundles[layout.lang] = bundle
	}

	if empty {
		return nil, &ParseError{Reason: "article payload has no content in any language"}
	}
	return bundles, nil
}

func buildBundle(
	s languageSection,
	labels sectionLabels,
	headline string,
	clean *sanitize.Sanitizer,
) domain.LanguageBundle {
	lead := clean.Block(s.ContextWarming.String())

	var points []string
	for _, p := range s.MainPoints {
		if text := clean.Line(p.String()); text != "" {
			points = append(points, fmt.Sprintf("%d. %s", len(points)+1, text))
		}
	}

	parts := []string{lead}
	if len(points) > 0 {
		parts = append(parts, labels.keyPoints+"\n"+strings.Join(points, "\n"))
	}
	if impact := clean.Block(s.Analysis.ImpactSummary.String()); impact != "" {
		parts = append(parts, labels.analysis+"\n"+impact)
	}
	if background := clean.Block(s.BackgroundContext.String()); background != "" {
		parts = append(parts, labels.background+"\n"+background)
	}

	content := joinNonEmpty(parts, "\n\n")
	summary := lead
	if summary == "" {
		summary = truncateRunes(content, summaryFallbackRunes)
	}

	return domain.LanguageBundle{
		Title:   headline,
		Content: content,
		Summary: summary,
	}
}

func joinNonEmpty(parts []string, sep string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
