package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/flowcraft/backend/internal/infrastructure/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// serve runs a single request through a router using only the given
// middleware and returns the recorder.
func serve(mw gin.HandlerFunc, method, origin string) *httptest.ResponseRecorder {
	router := gin.New()
	router.Use(mw)
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(method, "/test", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	t.Run("default empty whitelist rejects cross-origin", func(t *testing.T) {
		w := serve(CORS(), "GET", "http://somewhere.example.com")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("same-origin request passes through", func(t *testing.T) {
		w := serve(CORS(), "GET", "")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("preflight answered without CORS headers", func(t *testing.T) {
		w := serve(CORS(), "OPTIONS", "http://somewhere.example.com")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestCORSWithConfig(t *testing.T) {
	allowed := CORSConfig{
		AllowOrigins:     []string{"http://localhost:3000", "http://app.example.com"},
		AllowMethods:     []string{"GET", "POST", "PUT"},
		AllowHeaders:     []string{"Content-Type", "X-User-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	t.Run("whitelisted origin gets full headers", func(t *testing.T) {
		w := serve(CORSWithConfig(allowed), "GET", "http://localhost:3000")

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "X-Request-ID", w.Header().Get("Access-Control-Expose-Headers"))
		assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("each whitelisted origin is echoed back", func(t *testing.T) {
		w := serve(CORSWithConfig(allowed), "GET", "http://app.example.com")

		assert.Equal(t, "http://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unlisted origin gets no headers", func(t *testing.T) {
		w := serve(CORSWithConfig(allowed), "GET", "http://evil.example.com")

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight for whitelisted origin lists methods and headers", func(t *testing.T) {
		w := serve(CORSWithConfig(allowed), "OPTIONS", "http://localhost:3000")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "GET, POST, PUT", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, X-User-ID", w.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("preflight for unlisted origin carries no headers", func(t *testing.T) {
		w := serve(CORSWithConfig(allowed), "OPTIONS", "http://evil.example.com")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard origin disables credentials", func(t *testing.T) {
		cfg := allowed
		cfg.AllowOrigins = []string{"*"}
		w := serve(CORSWithConfig(cfg), "GET", "http://anywhere.example.com")

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})
}

func TestDefaultCORSConfig(t *testing.T) {
	cfg := DefaultCORSConfig()

	assert.Empty(t, cfg.AllowOrigins, "origins must be configured explicitly")
	assert.Contains(t, cfg.AllowMethods, "GET")
	assert.Contains(t, cfg.AllowMethods, "PATCH")
	assert.Contains(t, cfg.AllowHeaders, "Content-Type")
	assert.Contains(t, cfg.AllowHeaders, "X-User-ID")
	assert.True(t, cfg.AllowCredentials)
	assert.Equal(t, 12*time.Hour, cfg.MaxAge)
}

func TestRequestID(t *testing.T) {
	newRouter := func(handler gin.HandlerFunc) *gin.Engine {
		r := gin.New()
		r.Use(RequestID())
		r.GET("/test", handler)
		return r
	}
	echo := func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	}

	t.Run("generates an id when none supplied", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(echo).ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		assert.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())
	})

	t.Run("echoes a caller-supplied id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Request-ID", "caller-id")
		w := httptest.NewRecorder()
		newRouter(echo).ServeHTTP(w, req)

		assert.Equal(t, "caller-id", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "caller-id", w.Body.String())
	})

	t.Run("propagates the id on the request context", func(t *testing.T) {
		var fromCtx string
		router := newRouter(func(c *gin.Context) {
			fromCtx = logger.GetRequestID(c.Request.Context())
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Request-ID", "ctx-id")
		router.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "ctx-id", fromCtx)
	})
}

func TestGenerateRequestID(t *testing.T) {
	id1 := generateRequestID()
	id2 := generateRequestID()

	assert.NotEmpty(t, id1)
	assert.NotEqual(t, id1, id2)
	assert.Len(t, id1, 32)
}

func TestSecure(t *testing.T) {
	w := serve(Secure(), "GET", "")

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'self'")
	assert.Contains(t, w.Header().Get("Permissions-Policy"), "camera=()")
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"), "HSTS requires explicit opt-in")
}

func TestSecureWithConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SecurityConfig
		header  string
		want    string
		absent  []string
	}{
		{
			name: "custom CSP only",
			cfg: SecurityConfig{
				CSPEnabled:   true,
				CSPDirective: "default-src 'none'; script-src 'self'",
			},
			header: "Content-Security-Policy",
			want:   "default-src 'none'; script-src 'self'",
			absent: []string{"Strict-Transport-Security", "Permissions-Policy"},
		},
		{
			name: "HSTS with subdomains and preload",
			cfg: SecurityConfig{
				HSTSEnabled:           true,
				HSTSMaxAge:            63072000,
				HSTSIncludeSubdomains: true,
				HSTSPreload:           true,
			},
			header: "Strict-Transport-Security",
			want:   "max-age=63072000; includeSubDomains; preload",
		},
		{
			name: "HSTS bare max-age",
			cfg: SecurityConfig{
				HSTSEnabled: true,
				HSTSMaxAge:  31536000,
			},
			header: "Strict-Transport-Security",
			want:   "max-age=31536000",
		},
		{
			name: "custom permissions policy",
			cfg: SecurityConfig{
				PermissionsPolicyEnabled:   true,
				PermissionsPolicyDirective: "geolocation=(self), microphone=()",
			},
			header: "Permissions-Policy",
			want:   "geolocation=(self), microphone=()",
		},
		{
			name:   "everything optional disabled",
			cfg:    SecurityConfig{},
			header: "X-Frame-Options",
			want:   "DENY",
			absent: []string{"Content-Security-Policy", "Strict-Transport-Security", "Permissions-Policy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(SecureWithConfig(tt.cfg), "GET", "")

			assert.Equal(t, tt.want, w.Header().Get(tt.header))
			for _, h := range tt.absent {
				assert.Empty(t, w.Header().Get(h))
			}
		})
	}
}

func TestDefaultSecurityConfig(t *testing.T) {
	cfg := DefaultSecurityConfig()

	assert.False(t, cfg.HSTSEnabled)
	assert.Equal(t, 31536000, cfg.HSTSMaxAge)
	assert.True(t, cfg.CSPEnabled)
	assert.Contains(t, cfg.CSPDirective, "frame-ancestors 'none'")
	assert.True(t, cfg.PermissionsPolicyEnabled)
	assert.Contains(t, cfg.PermissionsPolicyDirective, "camera=()")
}

func TestTimeout(t *testing.T) {
	var deadlineSet bool
	router := gin.New()
	router.Use(Timeout(30 * time.Second))
	router.GET("/test", func(c *gin.Context) {
		_, deadlineSet = c.Request.Context().Deadline()
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, deadlineSet, "request context should carry a deadline")
}
