package prompt

import (
	"testing"

	"item-appraiser/internal/appraisal"
	"item-appraiser/internal/locale"

	"github.com/stretchr/testify/assert"
)

func TestAnalysisSystem_UsesLocale(t *testing.T) {
	loc := locale.Resolve("ja", "", "")
	p := AnalysisSystem(loc)

	assert.Contains(t, p, "Japan")
	assert.Contains(t, p, "JPY")
	assert.Contains(t, p, "Rakuten")
	assert.Contains(t, p, "Japanese")
	assert.Contains(t, p, `"relatedItems"`)

	assert.Contains(t, AnalysisUser(loc), "JPY")
}

func TestChatSystem_FillsDefaults(t *testing.T) {
	item := appraisal.Estimate{
		Name:  "Ceramic Mug",
		Price: "NT$250",
		Tips:  []string{"check glaze", "look for chips"},
		RelatedItems: []appraisal.RelatedItem{
			{Name: "Coaster"},
			{Name: "Teapot"},
		},
	}

	p := ChatSystem(item, locale.Resolve("", "", ""))

	assert.Contains(t, p, `"Ceramic Mug"`)
	assert.Contains(t, p, "- Price: NT$250")
	assert.Contains(t, p, "- Brand: unknown")
	assert.Contains(t, p, "- Material: judge from appearance")
	assert.Contains(t, p, "check glaze; look for chips")
	assert.Contains(t, p, "Coaster, Teapot")
	assert.Contains(t, p, "Traditional Chinese")
}

func TestChatSystem_EmptyListsUseFallbacks(t *testing.T) {
	p := ChatSystem(appraisal.Estimate{Name: "Chair"}, locale.Resolve("en", "", ""))

	assert.Contains(t, p, "Buying tips: compare prices before buying")
	assert.Contains(t, p, "Related items: none")
	assert.Contains(t, p, "English")
}

func TestRevisitText(t *testing.T) {
	assert.Equal(t, RevisitMarker+" what color is it?", RevisitText("what color is it?"))
}

func TestWantsImage(t *testing.T) {
	for msg, want := range map[string]bool{
		"What COLOR is the handle?": true,
		"這個的顏色是什麼？":                 true,
		"能再看看照片嗎":                   true,
		"Is there a scratch on it?": true,
		"How much should I pay?":    false,
		"多少錢？":                      false,
	} {
		assert.Equal(t, want, WantsImage(msg), msg)
	}
}
