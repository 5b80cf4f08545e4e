package adminauth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestSessionToken_RoundTrip(t *testing.T) {
	token := CreateSessionToken(testSecret)
	assert.True(t, VerifySessionToken(testSecret, token))
}

func TestSessionToken_WrongSecret(t *testing.T) {
	token := CreateSessionToken(testSecret)
	assert.False(t, VerifySessionToken("another-secret-another-secret-xx", token))
}

func TestSessionToken_Tampered(t *testing.T) {
	token := CreateSessionToken(testSecret)

	parts := strings.SplitN(token, ".", 2)
	require.Len(t, parts, 2)

	// Swap the role inside the payload, keep the original signature.
	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	forged := strings.Replace(string(raw), "admin", "super", 1)
	forgedToken := base64.RawURLEncoding.EncodeToString([]byte(forged)) + "." + parts[1]
	assert.False(t, VerifySessionToken(testSecret, forgedToken))
}

func TestSessionToken_Expired(t *testing.T) {
	payload, _ := json.Marshal(sessionPayload{
		Role: "admin",
		Exp:  time.Now().Add(-time.Minute).Unix(),
	})
	payloadPart := base64.RawURLEncoding.EncodeToString(payload)
	token := payloadPart + "." + sign(testSecret, payloadPart)
	assert.False(t, VerifySessionToken(testSecret, token))
}

func TestSessionToken_Garbage(t *testing.T) {
	assert.False(t, VerifySessionToken(testSecret, ""))
	assert.False(t, VerifySessionToken(testSecret, "no-dot-here"))
	assert.False(t, VerifySessionToken(testSecret, ".leading-dot"))
	assert.False(t, VerifySessionToken(testSecret, "trailing-dot."))
	assert.False(t, VerifySessionToken(testSecret, "!!!.!!!"))
}

func TestSessionCookie(t *testing.T) {
	cookie := SessionCookie(false, "tok")
	assert.Equal(t, "cf_admin_session", cookie.Name)
	assert.False(t, cookie.Secure)
	assert.True(t, cookie.HTTPOnly)

	prod := SessionCookie(true, "tok")
	assert.Equal(t, "__Host-cf_admin_session", prod.Name)
	assert.True(t, prod.Secure)

	logout := SessionCookie(true, "")
	assert.Less(t, logout.MaxAge, 0)
}

func TestCookieNames_ProductionHonorsLegacy(t *testing.T) {
	assert.Equal(t, []string{"cf_admin_session"}, CookieNames(false))
	assert.Equal(t, []string{"__Host-cf_admin_session", "cf_admin_session"}, CookieNames(true))
}
