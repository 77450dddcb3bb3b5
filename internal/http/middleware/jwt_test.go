package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kanban_api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jwtRouter(tokens TokenParser) *gin.Engine {
	r := gin.New()
	r.GET("/me", JWT(tokens), func(c *gin.Context) {
		c.JSON(200, gin.H{"id": UserID(c), "email": Email(c)})
	})
	return r
}

func TestJWT(t *testing.T) {
	tm := service.NewTokenManager("secret", time.Hour)
	good, err := tm.Generate("u-1", "ada@example.com")
	require.NoError(t, err)
	other, err := service.NewTokenManager("other", time.Hour).Generate("u-1", "ada@example.com")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing", "", 401, `{"error":"No token provided"}`},
		{"wrong scheme", "Basic " + good, 401, `{"error":"No token provided"}`},
		{"bad signature", "Bearer " + other, 401, `{"error":"Invalid token"}`},
		{"ok", "Bearer " + good, 200, `{"id":"u-1","email":"ada@example.com"}`},
	}

	r := jwtRouter(tm)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			assert.JSONEq(t, tc.body, w.Body.String())
		})
	}
}

type expiredTokens struct{}

func (expiredTokens) Parse(string) (*service.Claims, error) {
	return nil, service.ErrTokenExpired
}

func TestJWTExpired(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	jwtRouter(expiredTokens{}).ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
	assert.JSONEq(t, `{"error":"Token expired"}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.PATCH("/api/boards/:id", func(c *gin.Context) { c.Status(200) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/boards/1", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	req.Header.Set("Access-Control-Request-Headers", "authorization,content-type")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, "/api/boards/1", nil)
	req.Header.Set("Origin", "https://evil.example")
	r.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
