// Package locale resolves the language, region and currency an estimate
// is written for.
package locale

import "strings"

const (
	DefaultLanguage = "zh-TW"
	DefaultRegion   = "TW"
)

// Language is a reply language the model can be asked to use.
type Language struct {
	Code          string
	Name          string
	DefaultRegion string
}

// Currency is an ISO 4217 code and its display symbol.
type Currency struct {
	Code   string
	Symbol string
}

// Region is a market with its local currency and common shopping platforms.
type Region struct {
	Code      string
	Name      string
	Currency  string
	Platforms []string
}

// Locale is the resolved context for one request.
type Locale struct {
	Language Language
	Region   Region
	Currency Currency
}

var languages = map[string]Language{
	"zh-TW": {Code: "zh-TW", Name: "Traditional Chinese", DefaultRegion: "TW"},
	"zh-HK": {Code: "zh-HK", Name: "Traditional Chinese", DefaultRegion: "HK"},
	"zh-CN": {Code: "zh-CN", Name: "Simplified Chinese", DefaultRegion: "CN"},
	"en":    {Code: "en", Name: "English", DefaultRegion: "US"},
	"ja":    {Code: "ja", Name: "Japanese", DefaultRegion: "JP"},
	"ko":    {Code: "ko", Name: "Korean", DefaultRegion: "KR"},
	"th":    {Code: "th", Name: "Thai", DefaultRegion: "TH"},
	"vi":    {Code: "vi", Name: "Vietnamese", DefaultRegion: "VN"},
	"id":    {Code: "id", Name: "Indonesian", DefaultRegion: "ID"},
	"ms":    {Code: "ms", Name: "Malay", DefaultRegion: "MY"},
	"es":    {Code: "es", Name: "Spanish", DefaultRegion: "ES"},
	"fr":    {Code: "fr", Name: "French", DefaultRegion: "FR"},
	"de":    {Code: "de", Name: "German", DefaultRegion: "DE"},
}

var currencies = map[string]Currency{
	"TWD": {Code: "TWD", Symbol: "NT$"},
	"HKD": {Code: "HKD", Symbol: "HK$"},
	"CNY": {Code: "CNY", Symbol: "¥"},
	"USD": {Code: "USD", Symbol: "$"},
	"JPY": {Code: "JPY", Symbol: "¥"},
	"KRW": {Code: "KRW", Symbol: "₩"},
	"THB": {Code: "THB", Symbol: "฿"},
	"VND": {Code: "VND", Symbol: "₫"},
	"IDR": {Code: "IDR", Symbol: "Rp"},
	"MYR": {Code: "MYR", Symbol: "RM"},
	"SGD": {Code: "SGD", Symbol: "S$"},
	"EUR": {Code: "EUR", Symbol: "€"},
	"GBP": {Code: "GBP", Symbol: "£"},
	"AUD": {Code: "AUD", Symbol: "A$"},
	"CAD": {Code: "CAD", Symbol: "C$"},
}

var regions = map[string]Region{
	"TW": {Code: "TW", Name: "Taiwan", Currency: "TWD", Platforms: []string{"Shopee", "momo", "PChome 24h", "Yahoo Shopping"}},
	"HK": {Code: "HK", Name: "Hong Kong", Currency: "HKD", Platforms: []string{"HKTVmall", "Taobao", "Carousell"}},
	"CN": {Code: "CN", Name: "China", Currency: "CNY", Platforms: []string{"Taobao", "JD.com", "Pinduoduo", "Tmall"}},
	"US": {Code: "US", Name: "United States", Currency: "USD", Platforms: []string{"Amazon", "Walmart", "eBay", "Target"}},
	"JP": {Code: "JP", Name: "Japan", Currency: "JPY", Platforms: []string{"Amazon Japan", "Rakuten", "Mercari", "Yahoo! Shopping"}},
	"KR": {Code: "KR", Name: "South Korea", Currency: "KRW", Platforms: []string{"Coupang", "Gmarket", "Naver Shopping", "11st"}},
	"TH": {Code: "TH", Name: "Thailand", Currency: "THB", Platforms: []string{"Shopee", "Lazada"}},
	"VN": {Code: "VN", Name: "Vietnam", Currency: "VND", Platforms: []string{"Shopee", "Lazada", "Tiki"}},
	"ID": {Code: "ID", Name: "Indonesia", Currency: "IDR", Platforms: []string{"Tokopedia", "Shopee", "Lazada"}},
	"MY": {Code: "MY", Name: "Malaysia", Currency: "MYR", Platforms: []string{"Shopee", "Lazada"}},
	"SG": {Code: "SG", Name: "Singapore", Currency: "SGD", Platforms: []string{"Shopee", "Lazada", "Amazon.sg"}},
	"GB": {Code: "GB", Name: "United Kingdom", Currency: "GBP", Platforms: []string{"Amazon UK", "Argos", "eBay UK"}},
	"DE": {Code: "DE", Name: "Germany", Currency: "EUR", Platforms: []string{"Amazon.de", "Otto", "eBay.de"}},
	"FR": {Code: "FR", Name: "France", Currency: "EUR", Platforms: []string{"Amazon.fr", "Cdiscount", "Fnac"}},
	"ES": {Code: "ES", Name: "Spain", Currency: "EUR", Platforms: []string{"Amazon.es", "El Corte Inglés", "AliExpress"}},
	"AU": {Code: "AU", Name: "Australia", Currency: "AUD", Platforms: []string{"Amazon AU", "eBay AU", "Catch"}},
	"CA": {Code: "CA", Name: "Canada", Currency: "CAD", Platforms: []string{"Amazon.ca", "Walmart Canada", "Best Buy"}},
}

// Resolve fills in whatever the caller left empty or got wrong.
//
// Unknown language codes fall back to DefaultLanguage. Region defaults to
// the language's home market and currency to the region's currency.
func Resolve(language, currency, region string) Locale {
	lang := LookupLanguage(language)

	reg, ok := regions[strings.ToUpper(strings.TrimSpace(region))]
	if !ok {
		reg = regions[lang.DefaultRegion]
	}

	cur, ok := currencies[strings.ToUpper(strings.TrimSpace(currency))]
	if !ok {
		cur = currencies[reg.Currency]
	}

	return Locale{Language: lang, Region: reg, Currency: cur}
}

// LookupLanguage matches a code case-insensitively, then by its base
// language ("en-GB" → "en", "zh-Hant" → "zh-TW").
func LookupLanguage(code string) Language {
	code = strings.TrimSpace(code)
	if code == "" {
		return languages[DefaultLanguage]
	}

	for key, lang := range languages {
		if strings.EqualFold(key, code) {
			return lang
		}
	}

	lower := strings.ToLower(code)
	switch {
	case strings.HasPrefix(lower, "zh-hans"), lower == "zh-sg":
		return languages["zh-CN"]
	case strings.HasPrefix(lower, "zh"):
		return languages["zh-TW"]
	}

	base, _, _ := strings.Cut(lower, "-")
	if lang, ok := languages[base]; ok {
		return lang
	}
	return languages[DefaultLanguage]
}
