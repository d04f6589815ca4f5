package config

// Market is a Bing regional market. Bing serves a different image of the
// day per market.
type Market struct {
	Code string
	Name string
}

// Markets lists the supported Bing markets, sorted by display name.
var Markets = []Market{
	{Code: "en-AU", Name: "Australia"},
	{Code: "pt-BR", Name: "Brazil"},
	{Code: "en-CA", Name: "Canada"},
	{Code: "zh-CN", Name: "China"},
	{Code: "da-DK", Name: "Denmark"},
	{Code: "fi-FI", Name: "Finland"},
	{Code: "fr-FR", Name: "France"},
	{Code: "de-DE", Name: "Germany"},
	{Code: "en-IN", Name: "India"},
	{Code: "it-IT", Name: "Italy"},
	{Code: "ja-JP", Name: "Japan"},
	{Code: "nl-NL", Name: "Netherlands"},
	{Code: "en-NZ", Name: "New Zealand"},
	{Code: "nb-NO", Name: "Norway"},
	{Code: "pl-PL", Name: "Poland"},
	{Code: "ru-RU", Name: "Russia"},
	{Code: "ko-KR", Name: "South Korea"},
	{Code: "es-ES", Name: "Spain"},
	{Code: "sv-SE", Name: "Sweden"},
	{Code: "en-GB", Name: "United Kingdom"},
	{Code: "en-US", Name: "United States"},
}

// ValidMarket reports whether code is a known market code.
func ValidMarket(code string) bool {
	for _, m := range Markets {
		if m.Code == code {
			return true
		}
	}
	return false
}

// MarketName returns the display name for a market code, or the code
// itself when unknown.
func MarketName(code string) string {
	for _, m := range Markets {
		if m.Code == code {
			return m.Name
		}
	}
	return code
}
