package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/postflow/configs"
	"github.com/maheshrc27/postflow/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func newAuthApp() *fiber.App {
	cfg := config.Config{SecretKey: testSecret, CookieName: "postflow_session"}
	app := fiber.New()
	app.Use(NewAuthMiddleware(cfg).AuthMiddleware())
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user_id").(string))
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	token, err := utils.GenerateToken(testSecret, "42", time.Hour)
	require.NoError(t, err)
	expired, err := utils.GenerateToken(testSecret, "42", -time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
		wantBody   string
	}{
		{name: "no credentials", setup: func(r *http.Request) {}, wantStatus: fiber.StatusUnauthorized},
		{name: "cookie", setup: func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "postflow_session", Value: token})
		}, wantStatus: fiber.StatusOK, wantBody: "42"},
		{name: "bearer", setup: func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+token)
		}, wantStatus: fiber.StatusOK, wantBody: "42"},
		{name: "expired", setup: func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+expired)
		}, wantStatus: fiber.StatusUnauthorized},
		{name: "garbage", setup: func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer nope")
		}, wantStatus: fiber.StatusUnauthorized},
	}

	app := newAuthApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			tt.setup(req)

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, tt.wantBody, string(body))
			}
		})
	}
}

func TestCronSecret(t *testing.T) {
	app := fiber.New()
	app.Post("/cron", CronSecret("s3cret"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
	}{
		{name: "missing", wantStatus: fiber.StatusUnauthorized},
		{name: "wrong", header: "Authorization", value: "Bearer nope", wantStatus: fiber.StatusUnauthorized},
		{name: "bearer", header: "Authorization", value: "Bearer s3cret", wantStatus: fiber.StatusOK},
		{name: "header", header: "X-Cron-Secret", value: "s3cret", wantStatus: fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/cron", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestCronSecret_Disabled(t *testing.T) {
	app := fiber.New()
	app.Get("/cron", CronSecret(""), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/cron", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
