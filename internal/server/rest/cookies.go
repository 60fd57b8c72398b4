package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/backoffice/internal/common"
	"github.com/dmitrijs2005/backoffice/internal/cryptox"
	"github.com/dmitrijs2005/backoffice/internal/server/services"
)

// CookieJar writes and reads the session cookies. Values are sealed with the
// cookie cipher; a cookie that does not open reads as absent.
type CookieJar struct {
	cipher        *cryptox.CookieCipher
	secure        bool
	sameSite      http.SameSite
	accessMaxAge  time.Duration
	refreshMaxAge time.Duration
}

// NewCookieJar builds the jar. Production cookies are Secure and
// SameSite=Strict; development cookies are SameSite=Lax.
func NewCookieJar(c *cryptox.CookieCipher, production bool, accessMaxAge, refreshMaxAge time.Duration) *CookieJar {
	j := &CookieJar{
		cipher:        c,
		sameSite:      http.SameSiteLaxMode,
		accessMaxAge:  accessMaxAge,
		refreshMaxAge: refreshMaxAge,
	}
	if production {
		j.secure = true
		j.sameSite = http.SameSiteStrictMode
	}
	return j
}

// SetSession attaches both tokens of the pair.
func (j *CookieJar) SetSession(w http.ResponseWriter, pair *services.TokenPair) error {
	access, err := j.cipher.Seal(pair.AccessToken)
	if err != nil {
		return err
	}
	refresh, err := j.cipher.Seal(pair.RefreshToken)
	if err != nil {
		return err
	}

	http.SetCookie(w, j.cookie(common.AccessTokenCookieName, access, "/", j.accessMaxAge))
	http.SetCookie(w, j.cookie(common.RefreshTokenCookieName, refresh, common.RefreshTokenPath, j.refreshMaxAge))
	return nil
}

// Clear expires both session cookies on their own paths.
func (j *CookieJar) Clear(w http.ResponseWriter) {
	access := j.cookie(common.AccessTokenCookieName, "", "/", 0)
	access.MaxAge = -1
	refresh := j.cookie(common.RefreshTokenCookieName, "", common.RefreshTokenPath, 0)
	refresh.MaxAge = -1

	http.SetCookie(w, access)
	http.SetCookie(w, refresh)
}

// AccessToken returns the opened access token or "".
func (j *CookieJar) AccessToken(r *http.Request) string {
	return j.read(r, common.AccessTokenCookieName)
}

// RefreshToken returns the opened refresh token or "".
func (j *CookieJar) RefreshToken(r *http.Request) string {
	return j.read(r, common.RefreshTokenCookieName)
}

func (j *CookieJar) read(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return ""
	}
	return j.cipher.Open(c.Value)
}

func (j *CookieJar) cookie(name, value, path string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: j.sameSite,
	}
}
