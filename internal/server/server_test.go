package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"diezagency/internal/config"
	"diezagency/internal/database"
	"diezagency/internal/domain/admin"
	"diezagency/internal/domain/upload"
	"diezagency/internal/pkg/jwt"
	"diezagency/internal/pkg/mailer"
	"diezagency/internal/pkg/ratelimit"
)

const testPassword = "correct-horse-battery"

type fixture struct {
	app    *App
	admins *admin.Service
	dir    string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	return setupWith(t, nil)
}

func setupWith(t *testing.T, overrides map[string]string) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	vars := map[string]string{
		"JWT_SECRET":          "server-test-secret",
		"FUNNEL_TRANSITION":   "0s",
		"STORAGE_LOCAL_DIR":   dir,
		"APP_BASE_URL":        "https://diez.test",
		"RATE_LIMIT_REQUESTS": "1000",
	}
	for k, v := range overrides {
		vars[k] = v
	}
	cfg, err := config.Parse(env.Options{Environment: vars})
	require.NoError(t, err)

	db, err := database.Connect(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()), zap.NewNop(), true)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, Models()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	app, err := New(cfg, Deps{
		DB:        db,
		Storage:   upload.NewLocalStorage(dir, cfg.Storage.PublicBase),
		Mailer:    mailer.Noop{},
		RateStore: ratelimit.NewMemoryStore(),
		Log:       zap.NewNop(),
	})
	require.NoError(t, err)
	t.Cleanup(app.Close)

	admins := admin.NewService(admin.NewAdminRepository(db), jwt.New(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL), admin.Counters{}, zap.NewNop())
	return &fixture{app: app, admins: admins, dir: dir}
}

func (f *fixture) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.app.Engine.ServeHTTP(w, req)
	return w
}

func (f *fixture) login(t *testing.T, email, role string) string {
	t.Helper()
	_, err := f.admins.CreateAdmin(context.Background(), email, "Test", testPassword, role)
	require.NoError(t, err)

	w := f.do(http.MethodPost, "/api/admin/auth/login", admin.LoginRequest{Email: email, Password: testPassword}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Data admin.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data.AccessToken
}

func TestRootRedirectsToResolvedLocale(t *testing.T) {
	f := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")
	w := httptest.NewRecorder()
	f.app.Engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/fr", w.Header().Get("Location"))

	w = f.do(http.MethodGet, "/fr", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestNotFound(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"NOT_FOUND"`)

	w = f.do(http.MethodGet, "/en/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `<html lang="en">`)
}

func TestContactReachesOwnerInbox(t *testing.T) {
	f := setup(t)

	lead := map[string]string{
		"submission_id": "server-test-1",
		"lang":          "fr",
		"first_name":    "Alice",
		"need":          "website",
		"description":   "A brand new showcase website",
		"budget":        "5k-10k",
		"timeline":      "within-3-months",
		"email":         "alice@example.com",
	}
	w := f.do(http.MethodPost, "/api/contacts", lead, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = f.do(http.MethodPost, "/api/contacts", lead, "")
	require.Equal(t, http.StatusOK, w.Code, "duplicate submission is acknowledged")

	owner := f.login(t, "owner@diez.agency", admin.RoleOwner)
	editor := f.login(t, "editor@diez.agency", admin.RoleEditor)

	w = f.do(http.MethodGet, "/api/admin/contacts", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(http.MethodGet, "/api/admin/contacts", nil, editor)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodGet, "/api/admin/contacts", nil, owner)
	require.Equal(t, http.StatusOK, w.Code)
	var inbox struct {
		Data struct {
			Total int64 `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inbox))
	assert.EqualValues(t, 1, inbox.Data.Total)

	w = f.do(http.MethodGet, "/api/admin/stats", nil, editor)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEditorPublishesArticle(t *testing.T) {
	f := setup(t)
	editor := f.login(t, "editor@diez.agency", admin.RoleEditor)

	w := f.do(http.MethodPost, "/api/admin/articles", map[string]any{
		"title":     "Automatiser ses devis",
		"excerpt":   "Gagner du temps",
		"content":   "# Devis\n\nMoins de saisie.",
		"category":  "Automatisation",
		"published": true,
	}, editor)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(http.MethodGet, "/api/articles/automatiser-ses-devis", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/en/blog/automatiser-ses-devis", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Moins de saisie.")

	w = f.do(http.MethodGet, "/sitemap.xml", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://diez.test/fr/blog/automatiser-ses-devis")
}

func TestFunnelSessionThroughRouter(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodPost, "/api/contact/funnel", map[string]string{"lang": "en"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data struct {
			ID   string `json:"id"`
			Lang string `json:"lang"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "en", created.Data.Lang)
	assert.Equal(t, 1, f.app.Sessions.Len())

	w = f.do(http.MethodDelete, "/api/contact/funnel/"+created.Data.ID, nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, f.app.Sessions.Len())
}

func (f *fixture) createSession(remoteAddr, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/contact/funnel", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	w := httptest.NewRecorder()
	f.app.Engine.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit_IgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	f := setupWith(t, map[string]string{"RATE_LIMIT_REQUESTS": "2"})

	var created, limited int
	for i := range 20 {
		switch f.createSession("203.0.113.7:4321", fmt.Sprintf("198.51.100.%d", i+1)) {
		case http.StatusCreated:
			created++
		case http.StatusTooManyRequests:
			limited++
		}
	}
	assert.Equal(t, 2, created)
	assert.Equal(t, 18, limited)
	assert.Equal(t, 2, f.app.Sessions.Len())
}

func TestRateLimit_TrustedProxyForwardsClientIP(t *testing.T) {
	f := setupWith(t, map[string]string{
		"RATE_LIMIT_REQUESTS": "1",
		"APP_TRUSTED_PROXIES": "192.0.2.1",
	})

	assert.Equal(t, http.StatusCreated, f.createSession("192.0.2.1:8000", "198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, f.createSession("192.0.2.1:8000", "198.51.100.1"))
	assert.Equal(t, http.StatusCreated, f.createSession("192.0.2.1:8000", "198.51.100.2"))
}

func TestUploadsServedSandboxed(t *testing.T) {
	f := setup(t)
	require.NoError(t, os.MkdirAll(filepath.Join(f.dir, "articles"), 0o755))
	svg := `<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "articles", "logo.svg"), []byte(svg), 0o644))

	w := f.do(http.MethodGet, "/static/uploads/articles/logo.svg", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "sandbox")
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
