package platform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAllowedAuditionURL(t *testing.T) {
	allowed := []string{
		"https://www.youtube.com/watch?v=abc",
		"https://youtu.be/abc",
		"http://tiktok.com/@a/video/1",
		"https://m.tiktok.com/@a",
		"https://instagram.com/a",
	}
	for _, u := range allowed {
		assert.True(t, IsAllowedAuditionURL(u), u)
	}

	blocked := []string{
		"https://vimeo.com/1",
		"https://eviltiktok.com/@a",
		"https://tiktok.com.evil.org/@a",
		"ftp://youtube.com/x",
		"not a url",
		"",
	}
	for _, u := range blocked {
		assert.False(t, IsAllowedAuditionURL(u), u)
	}
}

func TestFromURL(t *testing.T) {
	assert.Equal(t, YouTube, FromURL("https://youtu.be/abc"))
	assert.Equal(t, YouTube, FromURL("https://music.youtube.com/x"))
	assert.Equal(t, TikTok, FromURL("https://www.tiktok.com/@a"))
	assert.Equal(t, Instagram, FromURL("https://instagram.com/a"))
	assert.Equal(t, Other, FromURL("https://example.com"))
}

func TestHasSamePlatformSNS(t *testing.T) {
	assert.True(t, HasSamePlatformSNS("https://youtu.be/v", []string{"https://youtube.com/@a"}))
	assert.False(t, HasSamePlatformSNS("https://youtu.be/v", []string{"https://instagram.com/a"}))
	assert.False(t, HasSamePlatformSNS("https://youtu.be/v", nil))
	// An off-platform video never triggers the recommendation.
	assert.True(t, HasSamePlatformSNS("https://example.com/v", nil))
}

func TestMakeApplicationCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code := MakeApplicationCode()
		assert.Len(t, code, 12)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, r), code)
		}
		seen[code] = true
	}
	assert.Len(t, seen, 50)
}
