package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"diezagency/internal/funnel"
	"diezagency/internal/i18n"
	"diezagency/internal/locale"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type testEnv struct {
	router   *gin.Engine
	service  *Service
	notifier *MockNotifier
}

func setupHandler(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, n := newTestService(t)
	n.On("LeadCreated", mock.Anything, mock.Anything).Return().Maybe()
	n.On("StatusChanged", mock.Anything, mock.Anything).Return().Maybe()
	catalog := i18n.MustLoad()

	sessions := NewSessionStore(time.Hour, func(lang locale.Locale) *funnel.Wizard {
		return funnel.New(svc, lang,
			funnel.WithTransition(0),
			funnel.WithFailureMessage(func(l locale.Locale) string { return catalog.T(l, "contact.error.generic") }),
		)
	})
	h := NewHandler(svc, sessions, catalog, zap.NewNop())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if l, ok := locale.Parse(c.GetHeader("X-Test-Locale")); ok {
			c.Request = c.Request.WithContext(locale.WithLocale(c.Request.Context(), l))
		}
		c.Next()
	})
	RegisterPublicRoutes(r.Group("/api"), h)
	RegisterAdminRoutes(r.Group("/api/admin"), h)
	return &testEnv{router: r, service: svc, notifier: n}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func decodeSession(t *testing.T, env envelope) SessionResponse {
	t.Helper()
	var s SessionResponse
	require.NoError(t, json.Unmarshal(env.Data, &s))
	return s
}

func TestHandler_FunnelFlow(t *testing.T) {
	e := setupHandler(t)

	w, env := e.do(t, http.MethodPost, "/api/contact/funnel", map[string]string{"lang": "fr"})
	require.Equal(t, http.StatusCreated, w.Code)
	s := decodeSession(t, env)
	assert.Equal(t, locale.French, s.Lang)
	assert.Equal(t, funnel.StepIdentity, s.State.CurrentStep)
	assert.Equal(t, funnel.TotalSteps, s.TotalSteps)
	assert.Equal(t, "identity", s.Step.Name)
	assert.NotEmpty(t, s.Step.Title)
	assert.False(t, s.CanAdvance)
	base := "/api/contact/funnel/" + s.ID

	_, env = e.do(t, http.MethodPost, base+"/advance", nil)
	s = decodeSession(t, env)
	require.NotNil(t, s.Applied)
	assert.False(t, *s.Applied)
	assert.Equal(t, funnel.StepIdentity, s.State.CurrentStep)

	answers := []map[string]string{
		{"first_name": "Alice"},
		{"need": "website"},
		{"description": "A brand new showcase website"},
		{"budget": "5k-10k"},
		{"timeline": "asap"},
		{"email": "alice@example.com"},
	}
	for i, a := range answers {
		_, env = e.do(t, http.MethodPatch, base+"/form", a)
		s = decodeSession(t, env)
		require.True(t, s.CanAdvance, "step %d", i+1)
		if i < len(answers)-1 {
			_, env = e.do(t, http.MethodPost, base+"/advance", nil)
			s = decodeSession(t, env)
			require.True(t, *s.Applied)
		}
	}
	assert.Equal(t, funnel.StepContact, s.State.CurrentStep)

	_, env = e.do(t, http.MethodPost, base+"/submit", nil)
	s = decodeSession(t, env)
	assert.True(t, *s.Applied)
	assert.True(t, s.State.Submitted)

	stored, _, err := e.service.List(context.Background(), nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, s.SubmissionID, stored[0].SubmissionID)
	assert.Equal(t, funnel.TimelineASAP, stored[0].Timeline)

	_, env = e.do(t, http.MethodPost, base+"/retreat", nil)
	s = decodeSession(t, env)
	assert.False(t, *s.Applied)
	assert.Equal(t, funnel.StepContact, s.State.CurrentStep)
}

func TestHandler_CreateSession_UsesRequestLocale(t *testing.T) {
	e := setupHandler(t)

	w, env := e.do(t, http.MethodPost, "/api/contact/funnel", nil, "X-Test-Locale", "fr")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, locale.French, decodeSession(t, env).Lang)

	_, env = e.do(t, http.MethodPost, "/api/contact/funnel", nil)
	assert.Equal(t, locale.Secondary, decodeSession(t, env).Lang)

	w, env = e.do(t, http.MethodPost, "/api/contact/funnel", map[string]string{"lang": "de"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestHandler_UnknownSession(t *testing.T) {
	e := setupHandler(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/contact/funnel/nope"},
		{http.MethodPost, "/api/contact/funnel/nope/advance"},
		{http.MethodPost, "/api/contact/funnel/nope/submit"},
		{http.MethodDelete, "/api/contact/funnel/nope"},
	} {
		w, env := e.do(t, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, tc.path)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	}
}

func TestHandler_DeleteSession(t *testing.T) {
	e := setupHandler(t)
	_, env := e.do(t, http.MethodPost, "/api/contact/funnel", nil)
	id := decodeSession(t, env).ID

	w, _ := e.do(t, http.MethodDelete, "/api/contact/funnel/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, _ = e.do(t, http.MethodGet, "/api/contact/funnel/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_SubmitContact(t *testing.T) {
	e := setupHandler(t)
	body := map[string]string{
		"submission_id": "one-shot",
		"lang":          "en",
		"first_name":    "Bob",
		"need":          "automation",
		"description":   "Automate our weekly reporting",
		"budget":        "2k-5k",
		"timeline":      "flexible",
		"email":         "bob@example.com",
	}

	w, env := e.do(t, http.MethodPost, "/api/contacts", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)

	w, _ = e.do(t, http.MethodPost, "/api/contacts", body)
	assert.Equal(t, http.StatusOK, w.Code)
	e.notifier.AssertNumberOfCalls(t, "LeadCreated", 1)

	body["submission_id"] = "short"
	body["description"] = "too short"
	w, env = e.do(t, http.MethodPost, "/api/contacts", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "description", env.Error.Details["name"])
}

func TestHandler_Options(t *testing.T) {
	e := setupHandler(t)

	w, env := e.do(t, http.MethodGet, "/api/contact/options?lang=fr", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var opts OptionsResponse
	require.NoError(t, json.Unmarshal(env.Data, &opts))
	assert.Equal(t, locale.French, opts.Lang)
	assert.Len(t, opts.Steps, funnel.TotalSteps)
	require.Len(t, opts.Needs, len(funnel.NeedOptions()))
	assert.Equal(t, Option{Value: "website", Label: "Site web"}, opts.Needs[2])
	assert.Len(t, opts.Budgets, len(funnel.BudgetOptions()))
	assert.Len(t, opts.Timelines, len(funnel.TimelineOptions()))
}

func TestHandler_AdminInbox(t *testing.T) {
	e := setupHandler(t)
	c, _, err := e.service.Submit(context.Background(), testLead("inbox"))
	require.NoError(t, err)
	path := "/api/admin/contacts/" + strconv.FormatInt(c.ID, 10)

	w, env := e.do(t, http.MethodGet, "/api/admin/contacts?status=new", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list ListResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.EqualValues(t, 1, list.Total)

	w, _ = e.do(t, http.MethodGet, "/api/admin/contacts?status=archived", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = e.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = e.do(t, http.MethodPatch, path+"/status", map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, env = e.do(t, http.MethodPatch, path+"/status", map[string]string{"status": "read"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated Contact
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, StatusRead, updated.Status)

	w, env = e.do(t, http.MethodGet, "/api/admin/contacts/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats map[Status]int64
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.EqualValues(t, 1, stats[StatusRead])

	w, _ = e.do(t, http.MethodGet, "/api/admin/contacts/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = e.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, _ = e.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
