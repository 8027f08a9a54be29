package admin

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionCookieName = "concierge_admin_session"
	csrfCookieName    = "concierge_admin_csrf"
	sessionTTL        = 30 * 24 * time.Hour
)

// sessionClaims is the JWT payload carried by the 30-day remember cookie.
type sessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func (s *Server) issueSession(c echo.Context, username string) error {
	claims := &sessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.AdminSecretKey))
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    signed,
		Path:     "/",
		Expires:  time.Now().Add(sessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s.issueCSRFCookie(c)
}

func (s *Server) clearSession(c echo.Context) {
	c.SetCookie(&http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1})
	c.SetCookie(&http.Cookie{Name: csrfCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1})
}

func (s *Server) verifyCredentials(username, password string) bool {
	if username != s.cfg.AdminUsername {
		return false
	}
	if s.cfg.AdminPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)) == nil
	}
	return password == s.cfg.AdminPassword && password != ""
}

// requireSession is the auth middleware guarding every route but /login.
func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(sessionCookieName)
		if err != nil {
			return c.Redirect(http.StatusFound, "/login")
		}
		claims := &sessionClaims{}
		token, err := jwt.ParseWithClaims(cookie.Value, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(s.cfg.AdminSecretKey), nil
		})
		if err != nil || !token.Valid {
			return c.Redirect(http.StatusFound, "/login")
		}
		c.Set("admin_username", claims.Username)
		return next(c)
	}
}

func (s *Server) issueCSRFCookie(c echo.Context) error {
	token, err := randomToken()
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(sessionTTL),
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// csrfToken returns the token the current request's forms must echo back,
// minting one if the request arrived without it (e.g. the login page).
func (s *Server) csrfToken(c echo.Context) string {
	cookie, err := c.Cookie(csrfCookieName)
	if err != nil || cookie.Value == "" {
		token, genErr := randomToken()
		if genErr != nil {
			return ""
		}
		c.SetCookie(&http.Cookie{Name: csrfCookieName, Value: token, Path: "/", Expires: time.Now().Add(sessionTTL)})
		return token
	}
	return cookie.Value
}

// requireCSRF rejects a state-changing POST whose csrf_token field doesn't
// match the cookie minted for this session.
func (s *Server) requireCSRF(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(csrfCookieName)
		if err != nil || cookie.Value == "" || cookie.Value != c.FormValue("csrf_token") {
			return echo.NewHTTPError(http.StatusForbidden, "invalid csrf token")
		}
		return next(c)
	}
}

func randomToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashPassword bcrypt-hashes a password for use as ADMIN_PASSWORD_HASH,
// exposed for the concierge hash-password CLI subcommand.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hashed), err
}
