package service

import (
	"testing"

	"github.com/phrazzld/newsdesk/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestTagger(t *testing.T) {
	t.Parallel()
	tagger := NewTagger(config.DefaultTagRules, "news")

	tests := []struct {
		name         string
		headline     string
		stakeholders bool
		want         []string
	}{
		{
			name:     "all keywords in rule order",
			headline: "Malaysia launches Solar Energy auction",
			want:     []string{"solar", "malaysia", "energy"},
		},
		{
			name:         "stakeholders add business",
			headline:     "Solar panel prices fall",
			stakeholders: true,
			want:         []string{"solar", BusinessTag},
		},
		{
			name:     "fallback tag",
			headline: "Central bank holds rates",
			want:     []string{"news"},
		},
		{
			name:         "business alone suppresses fallback",
			headline:     "Central bank holds rates",
			stakeholders: true,
			want:         []string{BusinessTag},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tagger.Tags(tt.headline, tt.stakeholders))
		})
	}
}

func TestNewTagger_Normalizes(t *testing.T) {
	t.Parallel()

	tagger := NewTagger([]config.TagRule{
		{Keyword: "  EV ", Tag: "mobility"},
		{Keyword: "battery", Tag: "mobility"},
		{Keyword: "", Tag: "ignored"},
	}, "")

	assert.Equal(t, []string{"mobility"}, tagger.Tags("EV battery plant approved", false))
	assert.Equal(t, []string{"news"}, tagger.Tags("nothing matches", false))
}
