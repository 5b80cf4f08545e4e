package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeText(t *testing.T) {
	assert.Equal(t, "hello", SafeText("  hello  ", 1, 10))
	assert.Equal(t, "", SafeText("   ", 1, 10))
	assert.Equal(t, "", SafeText("toolongvalue", 1, 5))
	assert.Equal(t, "", SafeText("ab", 3, 10))
	assert.Equal(t, "ok", SafeText("ok", 0, 10))
}

func TestSafeStringArray(t *testing.T) {
	out := SafeStringArray([]string{" a ", "", "b", "c", "d"}, 3)
	assert.Equal(t, []string{"a", "b", "c"}, out)
	assert.Empty(t, SafeStringArray(nil, 3))
}

func TestIsValidDeviceID(t *testing.T) {
	assert.True(t, IsValidDeviceID("device_ABC-123"))
	assert.False(t, IsValidDeviceID("short"))
	assert.False(t, IsValidDeviceID("has spaces here"))
	assert.False(t, IsValidDeviceID(""))
}

func TestIsValidApplicationCode(t *testing.T) {
	assert.True(t, IsValidApplicationCode("ABCD2345EFGH"))
	assert.False(t, IsValidApplicationCode("abcd2345efgh"))
	assert.False(t, IsValidApplicationCode("SHORT"))
	assert.False(t, IsValidApplicationCode("WAY-TOO-LONG-FOR-A-CODE"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("a@example.com"))
	assert.False(t, IsValidEmail("a@example"))
	assert.False(t, IsValidEmail("not an email"))
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("hunter2024!"))
	assert.False(t, IsValidPassword("sh0rt!"))
	assert.False(t, IsValidPassword("lettersonly!"))
	assert.False(t, IsValidPassword("12345678!"))
	assert.False(t, IsValidPassword("letters123"))
}

func TestClampFocus(t *testing.T) {
	assert.Equal(t, 50, ClampFocus(nil))
	n := -5
	assert.Equal(t, 0, ClampFocus(&n))
	n = 150
	assert.Equal(t, 100, ClampFocus(&n))
	n = 42
	assert.Equal(t, 42, ClampFocus(&n))
}
