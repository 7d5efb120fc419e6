package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the name of the cookie carrying the session token.
const SessionCookieName = "token"

// sessionCookieMaxAge matches the session token lifetime of one day.
const sessionCookieMaxAge = 60 * 60 * 24

// SetSessionCookie delivers the session token to the client. The cookie is
// HTTP-only and secure, and SameSite=None so the frontend can send it
// cross-site.
func SetSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(SessionCookieName, token, sessionCookieMaxAge, "/", "", true, true)
}

// ClearSessionCookie logs the client out by overwriting the session cookie
// with an empty value and an already-past expiry.
func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", true, true)
}
