package appraisal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEstimate(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		est, err := ParseEstimate(`{"name":"Ceramic Mug","price":"NT$250","popularityScore":8,"tips":["check glaze"]}`)
		require.NoError(t, err)

		assert.Equal(t, "Ceramic Mug", est.Name)
		assert.Equal(t, Text("NT$250"), est.Price)
		assert.Equal(t, Text("8"), est.PopularityScore)
		assert.Equal(t, []string{"check glaze"}, est.Tips)
	})

	t.Run("fenced json with prose", func(t *testing.T) {
		reply := "Here you go:\n```json\n{\"name\":\"Desk Lamp\",\"relatedItems\":[{\"name\":\"Bulb\",\"price\":120}]}\n```"

		est, err := ParseEstimate(reply)
		require.NoError(t, err)

		assert.Equal(t, "Desk Lamp", est.Name)
		require.Len(t, est.RelatedItems, 1)
		assert.Equal(t, RelatedItem{Name: "Bulb", Price: "120"}, est.RelatedItems[0])
	})

	t.Run("no json", func(t *testing.T) {
		_, err := ParseEstimate("I cannot identify this item.")
		assert.ErrorIs(t, err, ErrNoJSON)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := ParseEstimate(`{"name":"  ","price":"$5"}`)
		assert.ErrorIs(t, err, ErrMissingName)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := ParseEstimate(`{"name": "Broken",}`)
		assert.Error(t, err)
	})

	t.Run("null and bool scalars", func(t *testing.T) {
		est, err := ParseEstimate(`{"name":"Bag","ecoScore":null,"durability":true}`)
		require.NoError(t, err)
		assert.Equal(t, Text(""), est.EcoScore)
		assert.Equal(t, Text("true"), est.Durability)
	})

	t.Run("object in scalar field", func(t *testing.T) {
		_, err := ParseEstimate(`{"name":"Bag","price":{"min":1}}`)
		assert.Error(t, err)
	})
}

func TestDecodeItem(t *testing.T) {
	est, err := DecodeItem([]byte(`{"name":"Sneakers","brand":"Acme"}`))
	require.NoError(t, err)
	assert.Equal(t, "Acme", est.Brand)

	_, err = DecodeItem([]byte(`{"brand":"Acme"}`))
	assert.ErrorIs(t, err, ErrMissingName)

	_, err = DecodeItem([]byte(`not json`))
	assert.Error(t, err)
}

func TestDecodeHistory(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		h, err := DecodeHistory("")
		require.NoError(t, err)
		assert.Empty(t, h)
	})

	t.Run("filters roles and blanks", func(t *testing.T) {
		h, err := DecodeHistory(`[
			{"role":"system","content":"ignore me"},
			{"role":"user","content":"How old is it?"},
			{"role":"assistant","content":""},
			{"role":"assistant","content":"About two years."}
		]`)
		require.NoError(t, err)
		assert.Equal(t, []ChatMessage{
			{Role: "user", Content: "How old is it?"},
			{Role: "assistant", Content: "About two years."},
		}, h)
	})

	t.Run("keeps most recent", func(t *testing.T) {
		raw := "["
		for i := 0; i < 30; i++ {
			if i > 0 {
				raw += ","
			}
			raw += `{"role":"user","content":"m` + string(rune('a'+i%26)) + `"}`
		}
		raw += "]"

		h, err := DecodeHistory(raw)
		require.NoError(t, err)
		require.Len(t, h, MaxHistory)
		assert.Equal(t, "mk", h[0].Content)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := DecodeHistory(`{"role":"user"}`)
		assert.Error(t, err)
	})

	t.Run("content parts and unreadable turns", func(t *testing.T) {
		h, err := DecodeHistory(`[
			{"role":"user","content":[
				{"type":"text","text":"[User asked to look at the photo again] Any scratches?"},
				{"type":"image_url","image_url":{"url":"data:image/png;base64,AAAA"}}
			]},
			{"role":"assistant","content":42},
			"not a turn",
			{"role":"assistant","content":{"text":"object content"}},
			{"role":"assistant","content":"Only a light scuff on the base."}
		]`)
		require.NoError(t, err)
		assert.Equal(t, []ChatMessage{
			{Role: "user", Content: "[User asked to look at the photo again] Any scratches?"},
			{Role: "assistant", Content: "Only a light scuff on the base."},
		}, h)
	})
}
