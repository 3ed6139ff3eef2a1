package prompt

import (
	"fmt"
	"strings"

	"item-appraiser/internal/appraisal"
	"item-appraiser/internal/locale"
)

// RevisitMarker prefixes a user turn that re-attaches the photo.
const RevisitMarker = "[User asked to look at the photo again]"

// ChatSystem restates what is already known about the item so follow-up
// questions are answered from the earlier analysis.
func ChatSystem(item appraisal.Estimate, loc locale.Locale) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a helpful shopping assistant answering questions about %q.\n", item.Name)
	b.WriteString("You already analyzed a photo of this item. What you found:\n\n")

	facts := []struct {
		label string
		value string
		dflt  string
	}{
		{"Name", item.Name, ""},
		{"Description", item.Description, ""},
		{"Price", item.Price.String(), ""},
		{"Price note", item.PriceNote, ""},
		{"Material", item.Material, "judge from appearance"},
		{"Usage", item.Usage, "everyday use"},
		{"Category", item.Category, "general merchandise"},
		{"Brand", item.Brand, "unknown"},
		{"Size", item.Size, "standard"},
		{"Weight", item.Weight, "light"},
		{"Where to buy", item.Availability, ""},
		{"Popularity", item.PopularityScore.String(), "medium"},
		{"Eco score", item.EcoScore.String(), "average"},
		{"Durability", item.Durability.String(), "normal"},
		{"Care", item.Maintenance, "regular care"},
	}
	for _, f := range facts {
		v := strings.TrimSpace(f.value)
		if v == "" {
			v = f.dflt
		}
		fmt.Fprintf(&b, "- %s: %s\n", f.label, v)
	}

	tips := "compare prices before buying"
	if len(item.Tips) > 0 {
		tips = strings.Join(item.Tips, "; ")
	}
	fmt.Fprintf(&b, "\nBuying tips: %s\n", tips)

	related := "none"
	if len(item.RelatedItems) > 0 {
		names := make([]string, 0, len(item.RelatedItems))
		for _, r := range item.RelatedItems {
			names = append(names, r.Name)
		}
		related = strings.Join(names, ", ")
	}
	fmt.Fprintf(&b, "Related items: %s\n", related)

	b.WriteString("\nRules:\n")
	b.WriteString("1. Answer from the analysis above; you have seen the item.\n")
	b.WriteString("2. Never claim you cannot see or identify the item.\n")
	b.WriteString("3. Be specific, practical and friendly.\n")
	b.WriteString("4. If asked something the analysis does not cover, give your best estimate and say it is an estimate.\n")
	fmt.Fprintf(&b, "5. Reply in %s. Quote prices in %s.\n", loc.Language.Name, loc.Currency.Code)

	return b.String()
}

// RevisitText is the user turn text sent together with the photo.
func RevisitText(message string) string {
	return RevisitMarker + " " + message
}
