package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieConfig is the transport-level cookie policy
type CookieConfig struct {
	Domain     string
	Secure     bool // set in production only, cookies then require HTTPS
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

const (
	// AccessCookie is the name of the access token cookie
	AccessCookie = "accessToken"

	// RefreshCookie is the name of the refresh token cookie
	RefreshCookie = "refreshToken"
)

// cookiePolicy describes the attributes of one auth cookie
type cookiePolicy struct {
	name   string
	maxAge func(CookieConfig) time.Duration
}

// Both cookies are httpOnly and SameSite=Strict; only the lifetime differs
// per token kind.
var cookiePolicies = []cookiePolicy{
	{name: AccessCookie, maxAge: func(c CookieConfig) time.Duration { return c.AccessTTL }},
	{name: RefreshCookie, maxAge: func(c CookieConfig) time.Duration { return c.RefreshTTL }},
}

func setTokenCookie(c *gin.Context, cfg CookieConfig, name, value string) {
	for _, p := range cookiePolicies {
		if p.name != name {
			continue
		}
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(p.name, value, int(p.maxAge(cfg).Seconds()), "/", cfg.Domain, cfg.Secure, true)
		return
	}
}

// setAuthCookies attaches both token cookies to the response
func setAuthCookies(c *gin.Context, cfg CookieConfig, access, refresh string) {
	setTokenCookie(c, cfg, AccessCookie, access)
	setTokenCookie(c, cfg, RefreshCookie, refresh)
}

// clearAuthCookies expires both token cookies
func clearAuthCookies(c *gin.Context, cfg CookieConfig) {
	c.SetSameSite(http.SameSiteStrictMode)
	for _, p := range cookiePolicies {
		c.SetCookie(p.name, "", -1, "/", cfg.Domain, cfg.Secure, true)
	}
}
