package cache

var syntaxCache = NewCache[string, string]()

func GetSyntaxCSS(theme string) (string, bool) {
	return syntaxCache.Get(theme)
}

func SetSyntaxCSS(theme string, css string) {
	syntaxCache.Set(theme, css)
}
