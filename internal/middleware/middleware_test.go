package middleware_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"team-timelog/internal/identity"
	"team-timelog/internal/middleware"
	"team-timelog/internal/models"
	"team-timelog/internal/profile"
	"team-timelog/internal/store/storetest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type harness struct {
	router *gin.Engine
	mem    *storetest.Memory
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := quietLogger()
	mem := storetest.New()

	store, err := identity.NewSessionStore(strings.Repeat("k", 32), false)
	require.NoError(t, err)

	r := gin.New()
	r.Use(middleware.RequestID(log))
	r.Use(sessions.Sessions(identity.SessionName, store))
	r.Use(middleware.LoadProfile(profile.NewResolver(mem, log), log))

	r.GET("/signin/:id", func(c *gin.Context) {
		id := uuid.MustParse(c.Param("id"))
		require.NoError(t, identity.SignIn(c, identity.User{ID: id, Email: c.Query("email")}))
		c.Status(http.StatusOK)
	})
	r.GET("/", middleware.RedirectAuthenticated(), func(c *gin.Context) {
		c.String(http.StatusOK, "landing "+middleware.ProfileError(c))
	})

	auth := r.Group("/", middleware.RequireAuth())
	auth.GET("/logger", func(c *gin.Context) {
		p, _ := middleware.CurrentProfile(c)
		c.String(http.StatusOK, "logger "+p.Email)
	})
	admin := auth.Group("/", middleware.RequireAdmin())
	admin.GET("/dashboard", func(c *gin.Context) { c.String(http.StatusOK, "dashboard") })

	return &harness{router: r, mem: mem}
}

func (h *harness) get(path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) signIn(t *testing.T, id uuid.UUID, email string) []*http.Cookie {
	t.Helper()
	w := h.get("/signin/"+id.String()+"?email="+email, nil)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Result().Cookies()
}

func TestAnonymousIsSentToLanding(t *testing.T) {
	h := newHarness(t)
	for _, path := range []string{"/logger", "/dashboard"} {
		w := h.get(path, nil)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/", w.Header().Get("Location"), path)
	}

	w := h.get("/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMemberGuards(t *testing.T) {
	h := newHarness(t)
	cookies := h.signIn(t, uuid.New(), "alice@example.com")

	w := h.get("/logger", cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "logger alice@example.com", w.Body.String())

	w = h.get("/dashboard", cookies)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/logger", w.Header().Get("Location"))

	w = h.get("/", cookies)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/logger", w.Header().Get("Location"))
}

func TestAdminGuards(t *testing.T) {
	h := newHarness(t)
	boss := h.mem.AddProfile("boss@example.com", models.RoleAdmin)
	cookies := h.signIn(t, boss.ID, boss.Email)

	w := h.get("/dashboard", cookies)
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.get("/", cookies)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestProfileCreationFailureDoesNotLoop(t *testing.T) {
	h := newHarness(t)
	h.mem.Fail("create profile", errors.New("unique violation"))
	cookies := h.signIn(t, uuid.New(), "alice@example.com")

	w := h.get("/logger", cookies)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/?error="+middleware.ErrorProfileCreation, w.Header().Get("Location"))

	w = h.get("/?error="+middleware.ErrorProfileCreation, cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "landing "+middleware.ErrorProfileCreation, w.Body.String())
}

func TestRequestIDHeader(t *testing.T) {
	h := newHarness(t)
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set(middleware.RequestIDHeader, "client-id")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	id := w.Header().Get(middleware.RequestIDHeader)
	require.NotEmpty(t, id)
	assert.NotEqual(t, "client-id", id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestActor(t *testing.T) {
	r := gin.New()
	var got models.Actor
	r.GET("/", func(c *gin.Context) {
		got = middleware.Actor(c)
	})
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.RemoteAddr = "192.0.2.10:5555"
	req.Header.Set("User-Agent", "curl/8")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "192.0.2.10", got.IP)
	assert.Equal(t, "curl/8", got.UserAgent)
	assert.Equal(t, uuid.Nil, got.UserID)
}

func TestPrometheusAndLogger(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Logger(quietLogger()), middleware.Prometheus())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))
	assert.Equal(t, "pong", w.Body.String())
}
