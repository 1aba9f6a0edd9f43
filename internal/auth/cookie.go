package auth

import (
	"net/http"
	"time"
)

// Session cookie names.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// CookieConfig controls session cookie attributes.
type CookieConfig struct {
	// Secure marks cookies Secure and SameSite=Strict. Otherwise SameSite=Lax.
	Secure bool
	Path   string
}

// NewCookie builds an http-only session cookie that lives for ttl.
func (c CookieConfig) NewCookie(name, value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     c.path(),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if c.Secure {
		cookie.SameSite = http.SameSiteStrictMode
	}
	return cookie
}

// ExpiredCookie builds a cookie that makes the browser drop name.
func (c CookieConfig) ExpiredCookie(name string) *http.Cookie {
	cookie := c.NewCookie(name, "", 0)
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	return cookie
}

func (c CookieConfig) path() string {
	if c.Path == "" {
		return "/"
	}
	return c.Path
}
