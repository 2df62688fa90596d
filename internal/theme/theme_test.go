package theme

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/debemdeboas/inkdraft/internal/cache"
	"github.com/debemdeboas/inkdraft/internal/config"
)

func TestGenerateSyntaxCSS(t *testing.T) {
	testCases := []struct {
		name  string
		theme string
	}{
		{"Valid Theme - Monokai", "monokai"},
		{"Valid Theme - Github", "github"},
		{"Valid Theme - Gruvbox", "gruvbox"},
		{"Non-existent Theme - Fallback", "nonexistent-theme-12345"},
		{"Empty Theme Name", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			css1 := GenerateSyntaxCSS(tc.theme)
			if css1 == "" {
				t.Error("Expected non-empty CSS, falling back to the default style")
			}
			if !strings.Contains(css1, ".chroma") {
				t.Errorf("Expected CSS to target .chroma, got %q", css1[:min(len(css1), 80)])
			}

			cached, ok := cache.GetSyntaxCSS(tc.theme)
			if !ok || cached != css1 {
				t.Error("Expected generated CSS to be cached")
			}
			if css2 := GenerateSyntaxCSS(tc.theme); css2 != css1 {
				t.Error("Expected second call to return the cached CSS")
			}
		})
	}
}

func TestDefaultSyntaxTheme(t *testing.T) {
	prev := config.AppConfig
	t.Cleanup(func() { config.AppConfig = prev })

	config.AppConfig = nil
	if got := DefaultSyntaxTheme(); got != config.DefaultSyntaxTheme {
		t.Errorf("Expected built-in default, got %q", got)
	}

	cfg := config.Default()
	cfg.Theme.SyntaxTheme = "monokai"
	config.AppConfig = cfg
	if got := DefaultSyntaxTheme(); got != "monokai" {
		t.Errorf("Expected configured theme, got %q", got)
	}
}

func TestGetSyntaxThemeFromRequest(t *testing.T) {
	prev := config.AppConfig
	t.Cleanup(func() { config.AppConfig = prev })
	config.AppConfig = config.Default()

	tests := []struct {
		name   string
		query  string
		cookie string
		want   string
	}{
		{"default", "", "", config.DefaultSyntaxTheme},
		{"cookie", "", "monokai", "monokai"},
		{"query wins", "?theme=github", "monokai", "github"},
		{"unknown query falls back to cookie", "?theme=nope", "monokai", "monokai"},
		{"unknown cookie falls back to default", "", "nope", config.DefaultSyntaxTheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/preview"+tt.query, nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: config.CookieSyntaxTheme, Value: tt.cookie})
			}
			if got := GetSyntaxThemeFromRequest(r); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestGetSyntaxThemes(t *testing.T) {
	themes := GetSyntaxThemes()
	if !slices.IsSorted(themes) {
		t.Error("Expected sorted theme names")
	}
	if !slices.Contains(themes, "gruvbox") || !IsSyntaxTheme("gruvbox") {
		t.Error("Expected gruvbox to be available")
	}
	if IsSyntaxTheme("nope") {
		t.Error("Expected unknown theme to be rejected")
	}
}
