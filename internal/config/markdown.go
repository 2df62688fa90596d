package config

import "regexp"

const (
	// FrontMatterDelimiter fences the TOML title block of an mmark document.
	FrontMatterDelimiter = "%%%"
)

var (
	RegexCallout = regexp.MustCompile(`//\s*<<(\d+)>>`)
)
