package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/intentified/web/internal/pkg/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProvider struct {
	session    *identity.Session
	sessionErr error
	role       string
	roleErr    error
	roleCalls  int
}

func (f *fakeProvider) Session(*http.Request) (*identity.Session, error) {
	return f.session, f.sessionErr
}

func (f *fakeProvider) Role(context.Context, string) (string, error) {
	f.roleCalls++
	return f.role, f.roleErr
}

func TestIsPublicRoute(t *testing.T) {
	for _, p := range []string{"/", "/sign-in", "/sign-in/factor-one", "/sign-up", "/sign-up/verify"} {
		assert.True(t, IsPublicRoute(p), p)
	}
	for _, p := range []string{"/dashboard", "/lead-targeting", "/api/x", "/about"} {
		assert.False(t, IsPublicRoute(p), p)
	}
}

func TestIntercepts(t *testing.T) {
	assert.True(t, Intercepts("/dashboard"))
	assert.True(t, Intercepts("/api/report.csv"))
	assert.False(t, Intercepts("/static/app.css"))
	assert.False(t, Intercepts("/favicon.ico"))
	assert.False(t, Intercepts("/images/logo.png"))
}

func TestDecide(t *testing.T) {
	sess := &identity.Session{UserID: "user_1"}
	boom := errors.New("provider down")

	cases := []struct {
		name    string
		path    string
		sess    *identity.Session
		role    string
		roleErr error
		want    Decision
	}{
		{"public root without session", "/", nil, "", nil, Allow},
		{"public sign-in subpath", "/sign-in/sso-callback", nil, "", nil, Allow},
		{"dashboard without session", "/dashboard", nil, "", nil, RedirectSignIn},
		{"other protected without session", "/lead-targeting", nil, "", nil, RedirectSignIn},
		{"dashboard as member", "/dashboard/documents", sess, "member", nil, RedirectHome},
		{"dashboard without role", "/dashboard", sess, "", nil, RedirectHome},
		{"dashboard as admin", "/dashboard", sess, identity.RoleAdmin, nil, Allow},
		{"protected non-dashboard as member", "/lead-targeting", sess, "member", nil, Allow},
		{"role error fails closed", "/lead-targeting", sess, "", boom, RedirectHome},
		{"role error on dashboard", "/dashboard", sess, identity.RoleAdmin, boom, RedirectHome},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Decide(tc.path, tc.sess, tc.role, tc.roleErr))
		})
	}
}

func newGateEngine(p identity.Provider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Gate(p, "/sign-in", zap.NewNop()))
	ok := func(c *gin.Context) { c.String(http.StatusOK, "user=%s role=%s", CurrentUserID(c), CurrentRole(c)) }
	r.GET("/", ok)
	r.GET("/dashboard", ok)
	r.GET("/lead-targeting", ok)
	r.GET("/static/app.css", ok)
	return r
}

func TestGateRedirectsToSignInWithReturnURL(t *testing.T) {
	p := &fakeProvider{}
	r := newGateEngine(p)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "http://app.example.com/dashboard?documentId=abc", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/sign-in", loc.Path)
	assert.Equal(t, "http://app.example.com/dashboard?documentId=abc", loc.Query().Get(ReturnURLParam))
	assert.Zero(t, p.roleCalls)
}

func TestGateSessionErrorTreatedAsSignedOut(t *testing.T) {
	r := newGateEngine(&fakeProvider{sessionErr: errors.New("bad cookie")})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/lead-targeting", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/sign-in?")
}

func TestGateNonAdminRedirectedHome(t *testing.T) {
	r := newGateEngine(&fakeProvider{session: &identity.Session{UserID: "u1"}, role: "member"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestGateRoleErrorRedirectedHome(t *testing.T) {
	r := newGateEngine(&fakeProvider{session: &identity.Session{UserID: "u1"}, roleErr: errors.New("timeout")})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/lead-targeting", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestGateAdminAllowed(t *testing.T) {
	p := &fakeProvider{session: &identity.Session{UserID: "u1"}, role: identity.RoleAdmin}
	r := newGateEngine(p)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user=u1 role=admin", w.Body.String())
	assert.Equal(t, 1, p.roleCalls)
}

func TestGateEveryRequestResolvesRole(t *testing.T) {
	p := &fakeProvider{session: &identity.Session{UserID: "u1"}, role: identity.RoleAdmin}
	r := newGateEngine(p)

	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	}
	assert.Equal(t, 3, p.roleCalls)
}

func TestGateSkipsPublicAndStatic(t *testing.T) {
	p := &fakeProvider{}
	r := newGateEngine(p)

	for _, path := range []string{"/", "/static/app.css"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
	assert.Zero(t, p.roleCalls)
}

func TestRequestURLHonoursForwardedHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://internal:3000/dashboard?x=1", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	req.Header.Set("X-Forwarded-Host", "app.example.com")
	assert.Equal(t, "https://app.example.com/dashboard?x=1", RequestURL(req))
}

func TestSignInRedirectKeepsExistingQuery(t *testing.T) {
	got := SignInRedirect("https://accounts.example.com/sign-in?lang=en", "http://app/dashboard")
	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "en", u.Query().Get("lang"))
	assert.Equal(t, "http://app/dashboard", u.Query().Get(ReturnURLParam))
}
