package config

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// A token is split over two cookies: "auth" holds the readable header and
// payload, the HttpOnly "sign" cookie holds the signature.
const (
	authCookie = "auth"
	signCookie = "sign"
)

type Cookies struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
	jwt      *JWT
}

type PlayerClaims struct {
	PlayerId int64  `json:"player_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewPlayerClaims(playerId int64, username string) *PlayerClaims {
	return &PlayerClaims{
		PlayerId: playerId,
		Username: username,
	}
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToUpper(s) {
	case "DEFAULT":
		return http.SameSiteDefaultMode
	case "LAX":
		return http.SameSiteLaxMode
	case "NONE":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}

func NewCookies(j *JWT) (*Cookies, error) {
	domain, ok := os.LookupEnv("COOKIES_DOMAIN")
	if !ok {
		return nil, fmt.Errorf("COOKIES_DOMAIN env variable is not set")
	}

	secureStr, ok := os.LookupEnv("COOKIES_SECURE")
	if !ok {
		return nil, fmt.Errorf("COOKIES_SECURE env variable is not set")
	}

	sameSiteStr, ok := os.LookupEnv("COOKIES_SAMESITE")
	if !ok {
		return nil, fmt.Errorf("COOKIES_SAMESITE env variable is not set")
	}

	cookies := &Cookies{
		Domain:   domain,
		Secure:   secureStr != "0",
		SameSite: parseSameSite(sameSiteStr),
		jwt:      j,
	}

	return cookies, nil
}

func (c *Cookies) set(w http.ResponseWriter, name, value string, httpOnly bool, expires time.Time) {
	cookie := &http.Cookie{
		Name:     name,
		Path:     "/",
		Value:    value,
		HttpOnly: httpOnly,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	}
	if expires.IsZero() {
		cookie.Value = "delete"
		cookie.MaxAge = -1
	} else {
		cookie.Expires = expires
	}
	http.SetCookie(w, cookie)
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	c.set(w, authCookie, "", false, time.Time{})
	c.set(w, signCookie, "", true, time.Time{})
}

// Refresh signs claims anew and stores the token in the cookie pair.
func (c *Cookies) Refresh(w http.ResponseWriter, claims *PlayerClaims) error {
	token, err := c.jwt.Sign(claims)
	if err != nil {
		return fmt.Errorf("unable to sign claims: %w", err)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return fmt.Errorf("malformed JWT token generated")
	}
	header, payload, signature := parts[0], parts[1], parts[2]

	expires := time.Now().Add(c.jwt.tokenLifetime)
	c.set(w, authCookie, header+"."+payload, false, expires)
	c.set(w, signCookie, signature, true, expires)
	return nil
}

func (c *Cookies) ParsePlayerClaims(r *http.Request) (*PlayerClaims, error) {
	auth, err := r.Cookie(authCookie)
	if err != nil {
		return nil, err
	}
	sign, err := r.Cookie(signCookie)
	if err != nil {
		return nil, err
	}
	token, err := c.jwt.ParseWithClaims(
		auth.Value+"."+sign.Value, &PlayerClaims{},
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*PlayerClaims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}
