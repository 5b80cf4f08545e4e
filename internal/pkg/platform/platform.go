package platform

import (
	"crypto/rand"
	"net/url"
	"strings"
)

// Platform names the video service a URL points to.
type Platform string

const (
	YouTube   Platform = "youtube"
	TikTok    Platform = "tiktok"
	Instagram Platform = "instagram"
	Other     Platform = "other"
)

// Audition submissions only accept links on these hosts (and their
// subdomains).
var allowedDomains = []string{
	"youtube.com",
	"youtu.be",
	"tiktok.com",
	"instagram.com",
}

// IsValidURL reports whether the value parses as an absolute http(s) URL.
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func hostnameAllowed(hostname string) bool {
	lower := strings.ToLower(hostname)
	for _, domain := range allowedDomains {
		if lower == domain || strings.HasSuffix(lower, "."+domain) {
			return true
		}
	}
	return false
}

// IsAllowedAuditionURL reports whether the URL is http(s) and on an
// allow-listed video/SNS host.
func IsAllowedAuditionURL(raw string) bool {
	if !IsValidURL(raw) {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return hostnameAllowed(u.Hostname())
}

// FromURL detects the platform of a URL. Unparseable URLs are Other.
func FromURL(raw string) Platform {
	u, err := url.Parse(raw)
	if err != nil {
		return Other
	}
	host := strings.ToLower(u.Hostname())
	switch {
	case strings.Contains(host, "youtube.com") || strings.Contains(host, "youtu.be"):
		return YouTube
	case strings.Contains(host, "tiktok.com"):
		return TikTok
	case strings.Contains(host, "instagram.com"):
		return Instagram
	default:
		return Other
	}
}

// HasSamePlatformSNS reports whether any SNS URL is on the same platform as
// the video URL. Unknown video platforms always match.
func HasSamePlatformSNS(videoURL string, snsURLs []string) bool {
	p := FromURL(videoURL)
	if p == Other {
		return true
	}
	for _, u := range snsURLs {
		if FromURL(u) == p {
			return true
		}
	}
	return false
}

// codeAlphabet excludes confusable characters (0/O, 1/I/L lookalikes).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// MakeApplicationCode returns a 12-character human-shareable code. The
// alphabet has 32 characters, so the modulo mapping is unbiased.
func MakeApplicationCode() string {
	b := make([]byte, 12)
	rand.Read(b)
	out := make([]byte, 12)
	for i, v := range b {
		out[i] = codeAlphabet[int(v)%len(codeAlphabet)]
	}
	return string(out)
}
