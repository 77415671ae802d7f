// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lacra/agritrace-backend/internal/i18n"
)

// I18nMiddleware picks the response language from Accept-Language among the
// loaded catalogs, falling back to defaultLang.
func I18nMiddleware(defaultLang string) gin.HandlerFunc {
	if defaultLang == "" {
		defaultLang = "en"
	}
	return func(c *gin.Context) {
		c.Set("lang", resolveLanguage(c.GetHeader("Accept-Language"), defaultLang, i18n.GetSupportedLanguages()))
		c.Next()
	}
}

func resolveLanguage(header, defaultLang string, supported []string) string {
	if header == "" {
		return defaultLang
	}

	// Handle cases like "fr-LR,fr;q=0.9,en;q=0.8"
	first := strings.TrimSpace(strings.Split(strings.Split(header, ",")[0], ";")[0])
	primary := strings.ToLower(first)
	if i := strings.IndexAny(primary, "-_"); i >= 0 {
		primary = primary[:i]
	}
	for _, lang := range supported {
		if lang == primary {
			return lang
		}
	}
	return defaultLang
}
