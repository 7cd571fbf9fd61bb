package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"trip-expense/backend/config"
	"trip-expense/backend/internal/api/handler"
	"trip-expense/backend/internal/service"
	"trip-expense/backend/pkg/jwt"
)

func newTestEngine(openRegistration bool) http.Handler {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      "test-secret-key-for-unit-testing-2026",
			AccessTokenTTL: 15 * time.Minute,
		},
		Feature: config.FeatureConfig{OpenRegistration: openRegistration},
	}
	h := handler.NewHandler(&service.Service{})
	return Setup(cfg, h, jwt.NewManager(&cfg.Auth), nil, nil, zap.NewNop())
}

// 未携带 token 时已注册的受保护路由返回 401，未注册路由返回 404
func TestSetup_RoutesRegistered(t *testing.T) {
	r := newTestEngine(false)

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/health", http.StatusOK},
		{"GET", "/api/v1/auth/me", http.StatusUnauthorized},
		{"GET", "/api/v1/users", http.StatusUnauthorized},
		{"POST", "/api/v1/users", http.StatusUnauthorized},
		{"GET", "/api/v1/trips", http.StatusUnauthorized},
		{"GET", "/api/v1/trips/calendar.ics", http.StatusUnauthorized},
		{"GET", "/api/v1/expenses/export", http.StatusUnauthorized},
		{"GET", "/api/v1/reports", http.StatusUnauthorized},
		{"POST", "/api/v1/reports", http.StatusUnauthorized},
		{"PUT", "/api/v1/reports/5f0c2a7e-8d1b-4c3a-9e6f-1a2b3c4d5e6f", http.StatusUnauthorized},
		{"PATCH", "/api/v1/reports/5f0c2a7e-8d1b-4c3a-9e6f-1a2b3c4d5e6f", http.StatusUnauthorized},
		{"GET", "/api/v1/weekly-reports", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			if w.Code != tc.want {
				t.Errorf("期望 %d，实际 %d", tc.want, w.Code)
			}
		})
	}
}

func TestSetup_OpenRegistration(t *testing.T) {
	r := newTestEngine(true)

	// 开放注册时匿名 POST /users 通过认证层，进入参数绑定
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/users", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400（参数校验），实际 %d", w.Code)
	}

	// 其余用户接口仍需认证
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/users", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际 %d", w.Code)
	}
}
