// Package prompt builds the instructions sent to the model.
package prompt

import (
	"fmt"
	"strings"

	"item-appraiser/internal/locale"
)

// AnalysisSystem instructs the model to identify the pictured item and
// answer with a single JSON estimate written for loc.
func AnalysisSystem(loc locale.Locale) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an experienced retail appraiser for the %s market.\n", loc.Region.Name)
	b.WriteString("Identify the main item in the photo and estimate what it costs to buy new.\n\n")

	b.WriteString("Reply with ONE JSON object and nothing else. Fields:\n")
	b.WriteString(`{
  "name": string,            // short product name
  "description": string,     // what it looks like and what it is
  "price": string,           // typical price or range with currency symbol
  "priceNote": string,       // what drives the price
  "material": string,
  "usage": string,
  "category": string,
  "brand": string,           // "unknown" when not visible
  "size": string,
  "weight": string,
  "availability": string,    // where it is usually sold
  "popularityScore": number, // 1-10
  "ecoScore": number,        // 1-10
  "durability": string,
  "maintenance": string,
  "tips": [string],          // 2-4 buying tips
  "relatedItems": [{"name": string, "price": string}],
  "platforms": [string]      // where to buy online
}
`)

	fmt.Fprintf(&b, "\nQuote prices in %s using the symbol %q.\n", loc.Currency.Code, loc.Currency.Symbol)
	if len(loc.Region.Platforms) > 0 {
		fmt.Fprintf(&b, "Prefer shopping platforms common in %s, such as %s.\n",
			loc.Region.Name, strings.Join(loc.Region.Platforms, ", "))
	}
	fmt.Fprintf(&b, "Write every text value in %s.\n", loc.Language.Name)
	b.WriteString("If the photo shows no recognizable item, still answer in this format and say so in description.\n")

	return b.String()
}

// AnalysisUser is the text that accompanies the uploaded photo.
func AnalysisUser(loc locale.Locale) string {
	return fmt.Sprintf("Please analyze this item and estimate its price in %s.", loc.Currency.Code)
}
