package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/plantdx-backend/internal/platform/ctxutil"
	"github.com/yungbote/plantdx-backend/internal/platform/i18n"
)

const langCookieMaxAge = 365 * 24 * 60 * 60

// AttachRequestContext negotiates the response language and stores it on the
// request context. An explicit ?lang= is remembered in the lang cookie.
func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(i18n.CookieName)
		lang, fromQuery := i18n.Negotiate(
			c.Query(i18n.QueryParam),
			cookie,
			c.GetHeader("Accept-Language"),
		)
		if fromQuery {
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     i18n.CookieName,
				Value:    lang.String(),
				Path:     "/",
				MaxAge:   langCookieMaxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx, rd := ctxutil.EnsureRequestData(c.Request.Context())
		rd.Lang = lang.String()
		c.Request = c.Request.WithContext(ctx)
		c.Set("lang", lang.String())
		c.Next()
	}
}

// Lang reads the language chosen by AttachRequestContext.
func Lang(c *gin.Context) i18n.Lang {
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		if l, ok := i18n.Parse(rd.Lang); ok {
			return l
		}
	}
	if l, ok := i18n.Parse(strings.TrimSpace(c.GetString("lang"))); ok {
		return l
	}
	return i18n.Default
}
