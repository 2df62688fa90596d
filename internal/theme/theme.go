// Package theme resolves the syntax highlighting theme of previews and
// generates its CSS.
package theme

import (
	"net/http"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/debemdeboas/inkdraft/internal/cache"
	"github.com/debemdeboas/inkdraft/internal/config"
)

// DefaultSyntaxTheme is the configured theme, or the built-in default before
// configuration is loaded.
func DefaultSyntaxTheme() string {
	if config.AppConfig != nil && config.AppConfig.Theme.SyntaxTheme != "" {
		return config.AppConfig.Theme.SyntaxTheme
	}
	return config.DefaultSyntaxTheme
}

// IsSyntaxTheme reports whether name is a registered chroma style.
func IsSyntaxTheme(name string) bool {
	_, ok := styles.Registry[name]
	return ok
}

// GetSyntaxThemeFromRequest picks the theme from the "theme" query
// parameter, then the syntax theme cookie, then the default. Unknown names
// are ignored.
func GetSyntaxThemeFromRequest(r *http.Request) string {
	if name := r.URL.Query().Get("theme"); IsSyntaxTheme(name) {
		return name
	}
	if cookie, err := r.Cookie(config.CookieSyntaxTheme); err == nil && IsSyntaxTheme(cookie.Value) {
		return cookie.Value
	}
	return DefaultSyntaxTheme()
}

func GetSyntaxThemes() []string {
	styleNames := styles.Names()
	slices.Sort(styleNames)
	return styleNames
}

func GetFormatter() *html.Formatter {
	formatter := html.New(
		html.WithClasses(true),
		html.TabWidth(4),
		html.WithLineNumbers(true),
		html.WrapLongLines(true),
	)
	return formatter
}

func GenerateSyntaxCSS(theme string) string {
	if css, ok := cache.GetSyntaxCSS(theme); ok {
		return css
	}

	var buf strings.Builder
	formatter := GetFormatter()
	style := styles.Get(theme)

	bg := style.Get(chroma.Background)
	if !bg.Colour.IsSet() {
		// Calculate the color of highlighted text given the background color
		// for when the Chroma theme doesn't supply a default
		luminance := (0.299*float64(bg.Background.Red()) +
			0.587*float64(bg.Background.Green()) +
			0.114*float64(bg.Background.Blue())) / 255
		if luminance > 0.5 {
			buf.WriteString(".chroma { color: #181818; }\n")
		}
	}

	formatter.WriteCSS(&buf, style)
	css := buf.String()
	cache.SetSyntaxCSS(theme, css)
	return css
}
