package config

const (
	HCType        = "Content-Type"
	HETag         = "ETag"
	HCacheControl = "Cache-Control"

	CTypeCSS      = "text/css"
	CTypeHTML     = "text/html; charset=utf-8"
	CTypeJSON     = "application/json"
	CTypeMarkdown = "text/markdown; charset=utf-8"
	CTypeSSE      = "text/event-stream"
)

const (
	HTTPErrMethodNotAllowed = "Method not allowed"
)

const (
	CookieSyntaxTheme = "syntax-theme"
	CookieProfileID   = "profile-id"
)
