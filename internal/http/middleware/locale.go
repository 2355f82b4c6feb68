package middleware

import (
	"net/http"
	"strings"

	"ukrbus/internal/domain"

	"github.com/gin-gonic/gin"
)

const localeKey = "locale"

// Locale resolves the request locale: ?locale= when given (400 when
// unsupported), else the first supported Accept-Language tag, else def.
func Locale(def domain.Locale) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := c.GetQuery("locale"); ok {
			l, err := domain.ParseLocale(raw)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"error":      err.Error(),
					"code":       "invalid_argument",
					"message":    err.Error(),
					"request_id": GetRequestID(c),
				})
				return
			}
			c.Set(localeKey, l)
			c.Next()
			return
		}
		c.Set(localeKey, fromAcceptLanguage(c.GetHeader("Accept-Language"), def))
		c.Next()
	}
}

// GetLocale returns the locale resolved by Locale.
func GetLocale(c *gin.Context, def domain.Locale) domain.Locale {
	if v, ok := c.Get(localeKey); ok {
		if l, ok := v.(domain.Locale); ok {
			return l
		}
	}
	return def
}

func fromAcceptLanguage(header string, def domain.Locale) domain.Locale {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		primary := strings.SplitN(tag, "-", 2)[0]
		if l, err := domain.ParseLocale(primary); err == nil {
			return l
		}
	}
	return def
}
