package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrigin = "https://chronoflow.example.com"

func newSameOriginApp() *fiber.App {
	app := fiber.New()
	app.Post("/x", SameOrigin(testOrigin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestSameOrigin(t *testing.T) {
	app := newSameOriginApp()

	cases := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"matching origin", map[string]string{"Origin": testOrigin}, fiber.StatusOK},
		{"foreign origin", map[string]string{"Origin": "https://evil.example.org"}, fiber.StatusForbidden},
		{"matching referer", map[string]string{"Referer": testOrigin + "/apply"}, fiber.StatusOK},
		{"foreign referer", map[string]string{"Referer": "https://evil.example.org/x"}, fiber.StatusForbidden},
		{"sec-fetch-site same-origin", map[string]string{"Sec-Fetch-Site": "same-origin"}, fiber.StatusOK},
		{"sec-fetch-site cross-site", map[string]string{"Sec-Fetch-Site": "cross-site"}, fiber.StatusForbidden},
		{"no hints at all", nil, fiber.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/x", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

// Origin wins over Referer when both are present.
func TestSameOrigin_OriginTakesPrecedence(t *testing.T) {
	app := newSameOriginApp()
	req := httptest.NewRequest("POST", "/x", nil)
	req.Header.Set("Origin", "https://evil.example.org")
	req.Header.Set("Referer", testOrigin+"/apply")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
