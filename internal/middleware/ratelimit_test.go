package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/library-service/internal/config"
	"github.com/library-service/internal/model"
)

func rateCtx(u *model.User) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/books?isbn=9780134190440", nil)
	req.RemoteAddr = "203.0.113.7:4242"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/books")
	if u != nil {
		c.Set("current_user", *u)
	}
	return c
}

func TestBuildRateKeyDefaultIgnoresUser(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}

	// the limiter sits ahead of authentication; the default key must be
	// stable whether or not a user was resolved
	key := buildRateKey(cfg, rateCtx(nil))
	assert.Equal(t, "rl:ip:203.0.113.7:route:GET /v1/books", key)
	assert.NotContains(t, key, "anon")

	u := model.User{CardNumber: "LB-AB-12345678"}
	assert.Equal(t, key, buildRateKey(cfg, rateCtx(&u)))
}

func TestBuildRateKeyUserStrategies(t *testing.T) {
	u := model.User{CardNumber: "LB-AB-12345678"}

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user_route"}
	key := buildRateKey(cfg, rateCtx(&u))
	assert.Equal(t, "rl:user:LB-AB-12345678:route:GET /v1/books", key)

	cfg.KeyStrategy = "ip_user_route"
	key = buildRateKey(cfg, rateCtx(&u))
	assert.True(t, strings.Contains(key, "ip:203.0.113.7"))
	assert.True(t, strings.Contains(key, "user:LB-AB-12345678"))
}
