package config

const (
	DefaultSyntaxTheme string = "gruvbox"
	FallbackLanguage   string = "en"
)
