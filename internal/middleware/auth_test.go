package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diezagency/internal/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(svc *jwt.Service, roles ...string) *gin.Engine {
	router := gin.New()
	router.Use(AdminAuth(svc))
	if len(roles) > 0 {
		router.Use(RequireRole(roles...))
	}
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"admin_id": c.GetString("admin_id"),
			"role":     c.GetString("role"),
		})
	})
	return router
}

func TestAdminAuth_ValidToken(t *testing.T) {
	svc := jwt.New("test-secret-123", time.Hour)
	token, err := svc.GenerateToken("admin-42", "admin")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	protectedRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin-42")
}

func TestAdminAuth_QueryToken(t *testing.T) {
	svc := jwt.New("test-secret-123", time.Hour)
	token, err := svc.GenerateToken("admin-42", "admin")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	protectedRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminAuth_Rejects(t *testing.T) {
	svc := jwt.New("right", time.Hour)
	foreign, err := jwt.New("wrong", time.Hour).GenerateToken("x", "admin")
	require.NoError(t, err)

	cases := map[string]string{
		"missing":      "",
		"wrong scheme": "Basic abc",
		"empty bearer": "Bearer ",
		"garbage":      "Bearer not-a-token",
		"other secret": "Bearer " + foreign,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			protectedRouter(svc).ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestRequireRole(t *testing.T) {
	svc := jwt.New("s", time.Hour)
	editor, err := svc.GenerateToken("e", "editor")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+editor)
	protectedRouter(svc, "admin").ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+editor)
	protectedRouter(svc, "admin", "editor").ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
