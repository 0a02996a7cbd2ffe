package config

// DefaultSkipSchemes returns URL schemes that never name a navigable page:
// browser-internal views, inline documents, and script URLs.
func DefaultSkipSchemes() []string {
	return []string{
		"about",
		"blob",
		"chrome",
		"chrome-extension",
		"data",
		"file",
		"javascript",
		"moz-extension",
		"view-source",
	}
}
