package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/znsio/specmatic-product-admin-go/internal/i18n"
	"github.com/znsio/specmatic-product-admin-go/pkg/utils"
)

const (
	CtxKeyToken  = "token"
	CtxKeyLocale = "locale"
)

// RequireToken is the session gate: requests without the token cookie are
// rejected before any upstream call is made.
func RequireToken(cookieName, loginURL string, fallback language.Tag) gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := i18n.ResolveTag(c.Request, fallback)
		c.Set(CtxKeyLocale, locale)

		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			printer := i18n.Printer(locale)
			utils.ErrorResponseWith(c, http.StatusUnauthorized, printer.Sprintf(i18n.KeyLoginRequired), gin.H{
				"redirect": loginURL,
			})
			c.Abort()
			return
		}

		c.Set(CtxKeyToken, token)
		c.Next()
	}
}

func GetToken(c *gin.Context) string {
	return c.GetString(CtxKeyToken)
}

func GetLocale(c *gin.Context) language.Tag {
	if v, ok := c.Get(CtxKeyLocale); ok {
		if tag, ok := v.(language.Tag); ok {
			return tag
		}
	}
	return i18n.Default()
}
