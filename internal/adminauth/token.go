package adminauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Admin sessions use a compact HMAC-signed token:
// base64url(payload).base64url(signature). The format is shared with the
// edge-side verifier, so it must not change shape.

const SessionMaxAge = 12 * time.Hour

const devCookieName = "cf_admin_session"
const prodCookieName = "__Host-cf_admin_session"

type sessionPayload struct {
	Role string `json:"role"`
	Exp  int64  `json:"exp"`
}

func sign(secret, payloadPart string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payloadPart))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// CreateSessionToken returns a signed admin session token valid for
// SessionMaxAge.
func CreateSessionToken(secret string) string {
	payload, _ := json.Marshal(sessionPayload{
		Role: "admin",
		Exp:  time.Now().Add(SessionMaxAge).Unix(),
	})
	payloadPart := base64.RawURLEncoding.EncodeToString(payload)
	return payloadPart + "." + sign(secret, payloadPart)
}

// VerifySessionToken checks signature, role and expiry.
func VerifySessionToken(secret, token string) bool {
	dot := -1
	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			dot = i
			break
		}
	}
	if dot <= 0 || dot == len(token)-1 {
		return false
	}
	payloadPart, signature := token[:dot], token[dot+1:]

	expected := sign(secret, payloadPart)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return false
	}

	raw, err := base64.RawURLEncoding.DecodeString(payloadPart)
	if err != nil {
		return false
	}
	var payload sessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return false
	}
	return payload.Role == "admin" && payload.Exp > time.Now().Unix()
}

// CookieName returns the session cookie name; production uses the __Host-
// prefix so the cookie is bound to the origin.
func CookieName(isProduction bool) string {
	if isProduction {
		return prodCookieName
	}
	return devCookieName
}

// CookieNames lists all names a session token may arrive under (the legacy
// unprefixed cookie is still honored).
func CookieNames(isProduction bool) []string {
	if isProduction {
		return []string{prodCookieName, devCookieName}
	}
	return []string{devCookieName}
}

// SessionCookie builds the admin session cookie for the given token. An
// empty token produces an expired cookie (logout).
func SessionCookie(isProduction bool, token string) fiber.Cookie {
	cookie := fiber.Cookie{
		Name:     CookieName(isProduction),
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionMaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   isProduction,
		SameSite: "Strict",
	}
	if token == "" {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	}
	return cookie
}

// TokenFromRequest returns the first admin session token present on the
// request, or empty string.
func TokenFromRequest(c *fiber.Ctx, isProduction bool) string {
	for _, name := range CookieNames(isProduction) {
		if v := c.Cookies(name); v != "" {
			return v
		}
	}
	return ""
}
