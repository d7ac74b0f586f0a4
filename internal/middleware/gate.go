package middleware

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/intentified/web/internal/pkg/identity"
	"go.uber.org/zap"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "user_role"

	// DashboardPrefix guards every admin-only route.
	DashboardPrefix = "/dashboard"
	// ReturnURLParam carries the originally requested URL to the sign-in page.
	ReturnURLParam = "redirect_url"
)

// Decision is the terminal outcome of the gate for one request.
type Decision int

const (
	Allow Decision = iota
	RedirectSignIn
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectSignIn:
		return "redirect-to-sign-in"
	case RedirectHome:
		return "redirect-to-home"
	}
	return "unknown"
}

var (
	publicRoutes = []*regexp.Regexp{
		regexp.MustCompile(`^/$`),
		regexp.MustCompile(`^/sign-in(.*)$`),
		regexp.MustCompile(`^/sign-up(.*)$`),
	}
	fileExtension = regexp.MustCompile(`\.\w+$`)
)

// IsPublicRoute reports whether path is reachable without a session.
func IsPublicRoute(path string) bool {
	for _, re := range publicRoutes {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// IsDashboardRoute reports whether path requires the admin role.
func IsDashboardRoute(path string) bool {
	return strings.HasPrefix(path, DashboardPrefix)
}

// Intercepts reports whether the gate looks at path at all. Static assets
// and file-like paths pass straight through, API paths never do.
func Intercepts(path string) bool {
	if strings.HasPrefix(path, "/api") {
		return true
	}
	if strings.HasPrefix(path, "/static/") {
		return false
	}
	return !fileExtension.MatchString(path)
}

// Decide classifies a request. role and roleErr are only consulted when a
// session is present; a role lookup failure fails closed.
func Decide(path string, sess *identity.Session, role string, roleErr error) Decision {
	if IsPublicRoute(path) {
		return Allow
	}
	if sess == nil || sess.UserID == "" {
		return RedirectSignIn
	}
	if roleErr != nil {
		return RedirectHome
	}
	if IsDashboardRoute(path) && role != identity.RoleAdmin {
		return RedirectHome
	}
	return Allow
}

// Gate enforces Decide on every intercepted request. Each protected request
// costs one provider round trip for the role.
func Gate(provider identity.Provider, signInURL string, log *zap.Logger) gin.HandlerFunc {
	log = log.Named("AuthGate")
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !Intercepts(path) || IsPublicRoute(path) {
			c.Next()
			return
		}

		sess, err := provider.Session(c.Request)
		if err != nil {
			log.Warn("session lookup failed", zap.Error(err))
			sess = nil
		}

		var (
			role    string
			roleErr error
		)
		if sess != nil && sess.UserID != "" {
			role, roleErr = provider.Role(c.Request.Context(), sess.UserID)
			if roleErr != nil {
				log.Error("role lookup failed", zap.String("user_id", sess.UserID), zap.Error(roleErr))
			}
		}

		decision := Decide(path, sess, role, roleErr)
		switch decision {
		case RedirectSignIn:
			c.Redirect(http.StatusFound, SignInRedirect(signInURL, RequestURL(c.Request)))
			c.Abort()
			return
		case RedirectHome:
			log.Debug("redirecting to home", zap.String("user_id", sess.UserID), zap.String("path", path))
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, sess.UserID)
		c.Set(ContextKeyRole, role)
		c.Next()
	}
}

// SignInRedirect appends returnURL to the sign-in location.
func SignInRedirect(signInURL, returnURL string) string {
	u, err := url.Parse(signInURL)
	if err != nil {
		return signInURL
	}
	q := u.Query()
	q.Set(ReturnURLParam, returnURL)
	u.RawQuery = q.Encode()
	return u.String()
}

// RequestURL rebuilds the absolute URL the browser asked for.
func RequestURL(r *http.Request) string {
	return SiteURL(r) + r.URL.RequestURI()
}

// SiteURL returns the scheme and host the client used to reach r.
func SiteURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return scheme + "://" + host
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

// CurrentRole extracts the caller's role from context.
func CurrentRole(c *gin.Context) string {
	v, _ := c.Get(ContextKeyRole)
	role, _ := v.(string)
	return role
}
