package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"trip-expense/backend/config"
	"trip-expense/backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: 15 * time.Minute,
	})
}

type fakeBlacklist struct {
	revoked map[string]bool
	err     error
}

func (f *fakeBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], f.err
}

type fakeLimiter struct {
	calls int
	limit int
	err   error
}

func (f *fakeLimiter) CheckRateLimit(_ context.Context, _ string, limit int, _ time.Duration) (bool, error) {
	f.calls++
	f.limit = limit
	if f.err != nil {
		return false, f.err
	}
	return f.calls <= limit, nil
}

func serve(r *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

// ── JWTAuth ──

func TestJWTAuth(t *testing.T) {
	mgr := newTestJWT()
	token, _ := mgr.GenerateAccessToken("user-1", "alice")
	claims, _ := mgr.ParseToken(token)

	var gotUser, gotJTI string
	handler := func(c *gin.Context) {
		gotUser = c.GetString("user_id")
		gotJTI = c.GetString("token_jti")
		c.Status(http.StatusOK)
	}

	cases := []struct {
		name      string
		header    string
		blacklist TokenBlacklist
		want      int
	}{
		{"缺少认证头", "", nil, http.StatusUnauthorized},
		{"格式错误", "Token " + token, nil, http.StatusUnauthorized},
		{"非法 token", "Bearer not-a-token", nil, http.StatusUnauthorized},
		{"有效 token", "Bearer " + token, nil, http.StatusOK},
		{"已注销", "Bearer " + token, &fakeBlacklist{revoked: map[string]bool{claims.ID: true}}, http.StatusUnauthorized},
		{"黑名单查询失败放行", "Bearer " + token, &fakeBlacklist{err: errors.New("redis down")}, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotUser, gotJTI = "", ""
			r := gin.New()
			r.GET("/p", JWTAuth(mgr, tc.blacklist), handler)
			w := serve(r, "GET", "/p", map[string]string{"Authorization": tc.header})
			if w.Code != tc.want {
				t.Fatalf("期望 %d，实际 %d", tc.want, w.Code)
			}
			if tc.want == http.StatusOK {
				if gotUser != "user-1" {
					t.Errorf("期望 user_id=user-1，实际=%q", gotUser)
				}
				if gotJTI != claims.ID {
					t.Errorf("期望 token_jti=%s，实际=%q", claims.ID, gotJTI)
				}
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	mgr := newTestJWT()
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	r := gin.New()
	r.POST("/open", OptionalAuth(true, JWTAuth(mgr, nil)), ok)
	r.POST("/closed", OptionalAuth(false, JWTAuth(mgr, nil)), ok)

	if w := serve(r, "POST", "/open", nil); w.Code != http.StatusOK {
		t.Errorf("开放注册时匿名请求应放行，实际 %d", w.Code)
	}
	if w := serve(r, "POST", "/closed", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("关闭注册时匿名请求应 401，实际 %d", w.Code)
	}
	if w := serve(r, "POST", "/open", map[string]string{"Authorization": "Bearer bad"}); w.Code != http.StatusUnauthorized {
		t.Errorf("携带无效 token 时应 401，实际 %d", w.Code)
	}
}

// ── RateLimit ──

func TestRateLimit(t *testing.T) {
	limiter := &fakeLimiter{}
	r := gin.New()
	r.POST("/login", RateLimit(limiter, 2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if w := serve(r, "POST", "/login", nil); w.Code != http.StatusOK {
			t.Fatalf("第 %d 次请求期望 200，实际 %d", i+1, w.Code)
		}
	}
	if w := serve(r, "POST", "/login", nil); w.Code != http.StatusTooManyRequests {
		t.Errorf("超限期望 429，实际 %d", w.Code)
	}
}

func TestRateLimit_Degrades(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	r := gin.New()
	r.POST("/nil", RateLimit(nil, 1, time.Minute), ok)
	r.POST("/err", RateLimit(&fakeLimiter{err: errors.New("redis down")}, 1, time.Minute), ok)

	for i := 0; i < 3; i++ {
		if w := serve(r, "POST", "/nil", nil); w.Code != http.StatusOK {
			t.Errorf("limiter 为 nil 时应放行，实际 %d", w.Code)
		}
		if w := serve(r, "POST", "/err", nil); w.Code != http.StatusOK {
			t.Errorf("limiter 出错时应放行，实际 %d", w.Code)
		}
	}
}

// ── 其他 ──

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/p", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := serve(r, "GET", "/p", map[string]string{"X-Request-ID": "abc-123"})
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("应沿用传入的 Request-ID，实际=%q", got)
	}

	w = serve(r, "GET", "/p", map[string]string{"X-Request-ID": strings.Repeat("x", 100)})
	if got := w.Header().Get("X-Request-ID"); len(got) != 36 {
		t.Errorf("过长的 Request-ID 应被替换为 UUID，实际=%q", got)
	}
	if w.Body.String() != w.Header().Get("X-Request-ID") {
		t.Error("上下文中的 request_id 与响应头不一致")
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173/"}))
	r.GET("/p", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, "OPTIONS", "/p", map[string]string{"Origin": "http://localhost:5173"})
	if w.Code != http.StatusNoContent {
		t.Errorf("预检期望 204，实际 %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Error("白名单 Origin 应回写 Allow-Origin")
	}

	w = serve(r, "GET", "/p", map[string]string{"Origin": "http://evil.example"})
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("非白名单 Origin 不应回写 Allow-Origin")
	}
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.POST("/p", BodyLimit(8), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/p", strings.NewReader(`{"k":"0123456789"}`))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("超限期望 413，实际 %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/p", strings.NewReader(`{}`))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("未超限期望 200，实际 %d", w.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/p", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, "GET", "/p", nil)
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("缺少 X-Content-Type-Options")
	}
	if w.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("缺少 X-Frame-Options")
	}
}
