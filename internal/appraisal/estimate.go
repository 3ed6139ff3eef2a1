package appraisal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoJSON means the model reply did not contain a JSON object.
	ErrNoJSON = errors.New("appraisal: reply contains no JSON object")

	// ErrMissingName means the estimate has no item name.
	ErrMissingName = errors.New("appraisal: estimate has no name")
)

// Text is a string field that also accepts JSON numbers and booleans.
// Models are inconsistent about quoting scores and prices.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	if len(data) > 0 && (data[0] == '{' || data[0] == '[') {
		return fmt.Errorf("appraisal: expected scalar, got %s", data[:1])
	}
	*t = Text(data)
	return nil
}

func (t Text) String() string { return string(t) }

// RelatedItem is a similar or complementary product suggestion.
type RelatedItem struct {
	Name  string `json:"name"`
	Price Text   `json:"price,omitempty"`
}

// Estimate is the structured result of analyzing a photographed item.
type Estimate struct {
	Name            string        `json:"name"`
	Description     string        `json:"description,omitempty"`
	Price           Text          `json:"price,omitempty"`
	PriceNote       string        `json:"priceNote,omitempty"`
	Material        string        `json:"material,omitempty"`
	Usage           string        `json:"usage,omitempty"`
	Category        string        `json:"category,omitempty"`
	Brand           string        `json:"brand,omitempty"`
	Size            string        `json:"size,omitempty"`
	Weight          string        `json:"weight,omitempty"`
	Availability    string        `json:"availability,omitempty"`
	PopularityScore Text          `json:"popularityScore,omitempty"`
	EcoScore        Text          `json:"ecoScore,omitempty"`
	Durability      Text          `json:"durability,omitempty"`
	Maintenance     string        `json:"maintenance,omitempty"`
	Tips            []string      `json:"tips,omitempty"`
	RelatedItems    []RelatedItem `json:"relatedItems,omitempty"`
	Platforms       []string      `json:"platforms,omitempty"`

	Currency string `json:"currency,omitempty"`
	Language string `json:"language,omitempty"`
	Region   string `json:"region,omitempty"`
}

// ParseEstimate extracts an Estimate from a raw model reply. Markdown
// code fences and any prose around the outermost JSON object are ignored.
func ParseEstimate(reply string) (Estimate, error) {
	raw, err := extractObject(reply)
	if err != nil {
		return Estimate{}, err
	}

	var est Estimate
	if err := json.Unmarshal([]byte(raw), &est); err != nil {
		return Estimate{}, fmt.Errorf("appraisal: decode estimate: %w", err)
	}

	est.Name = strings.TrimSpace(est.Name)
	if est.Name == "" {
		return Estimate{}, ErrMissingName
	}
	return est, nil
}

// DecodeItem reads an estimate supplied by a client, e.g. the itemInfo
// field of a chat request. Only the name is required.
func DecodeItem(data []byte) (Estimate, error) {
	var est Estimate
	if err := json.Unmarshal(data, &est); err != nil {
		return Estimate{}, fmt.Errorf("appraisal: decode item: %w", err)
	}
	est.Name = strings.TrimSpace(est.Name)
	if est.Name == "" {
		return Estimate{}, ErrMissingName
	}
	return est, nil
}

func extractObject(reply string) (string, error) {
	s := strings.TrimSpace(reply)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return "", ErrNoJSON
	}
	return s[start : end+1], nil
}
