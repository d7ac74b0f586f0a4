package landing

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/intentified/web/internal/config"
	"github.com/intentified/web/internal/middleware"
	"github.com/intentified/web/internal/pkg/identity"
	"github.com/intentified/web/internal/pkg/mail"
	"go.uber.org/zap"
)

const (
	landingTemplate = "landing.html"
	authTemplate    = "auth.html"
	leadTemplate    = "lead_targeting.html"

	submitFailedMessage = "We could not submit your request. Please try again."
)

// LeadNotifier delivers accepted targeting requests.
type LeadNotifier interface {
	SendLeadTargeting(to []string, data mail.LeadTargetingData) error
}

type Handler struct {
	cfg      *config.AppConfig
	provider identity.Provider
	notifier LeadNotifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewHandler(cfg *config.AppConfig, provider identity.Provider, notifier LeadNotifier, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		cfg:      cfg,
		provider: provider,
		notifier: notifier,
		logger:   logger.Named("LandingHandler"),
		now:      time.Now,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.home)

	r.GET("/sign-in", h.signIn)
	r.GET("/sign-in/*path", h.signIn)
	r.GET("/sign-up", h.signUp)
	r.GET("/sign-up/*path", h.signUp)

	r.GET("/lead-targeting", h.leadForm)
	r.POST("/lead-targeting", h.submitLeads)
}

func (h *Handler) home(c *gin.Context) {
	signedIn := false
	if h.provider != nil {
		sess, err := h.provider.Session(c.Request)
		if err != nil {
			h.logger.Debug("session lookup failed", zap.Error(err))
		}
		signedIn = sess != nil && sess.UserID != ""
	}
	c.HTML(http.StatusOK, landingTemplate, NewPage(signedIn, h.cfg.SignUpURL()))
}

func (h *Handler) signIn(c *gin.Context) {
	c.HTML(http.StatusOK, authTemplate, gin.H{
		"Title":     "Sign in",
		"Heading":   "Sign in to Intentified",
		"Action":    "sign-in",
		"HostedURL": h.cfg.HostedPage("sign-in", returnURL(c)),
		"AltPrompt": "Don't have an account?",
		"AltHref":   h.cfg.SignUpURL(),
		"AltLabel":  "Sign up",
	})
}

func (h *Handler) signUp(c *gin.Context) {
	c.HTML(http.StatusOK, authTemplate, gin.H{
		"Title":     "Sign up",
		"Heading":   "Create your Intentified account",
		"Action":    "sign-up",
		"HostedURL": h.cfg.HostedPage("sign-up", returnURL(c)),
		"AltPrompt": "Already have an account?",
		"AltHref":   h.cfg.SignInURL(),
		"AltLabel":  "Sign in",
	})
}

// returnURL is where the provider sends the user back to: the gate's
// redirect_url when present, otherwise the site root.
func returnURL(c *gin.Context) string {
	if v := c.Query(middleware.ReturnURLParam); v != "" {
		return v
	}
	return middleware.SiteURL(c.Request) + "/"
}

func (h *Handler) leadForm(c *gin.Context) {
	form := ParseForm(nil)
	c.HTML(http.StatusOK, leadTemplate, gin.H{
		"Title":    "Lead Targeting",
		"Sections": form.Sections,
	})
}

func (h *Handler) submitLeads(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.HTML(http.StatusBadRequest, leadTemplate, gin.H{
			"Title":    "Lead Targeting",
			"Error":    submitFailedMessage,
			"Sections": ParseForm(nil).Sections,
		})
		return
	}

	form := ParseForm(c.Request.PostForm)
	if !form.Validate() {
		c.HTML(http.StatusUnprocessableEntity, leadTemplate, gin.H{
			"Title":    "Lead Targeting",
			"Error":    missingFieldsMessage,
			"Sections": form.Sections,
		})
		return
	}

	userID := middleware.CurrentUserID(c)
	if h.notifier != nil {
		err := h.notifier.SendLeadTargeting(h.cfg.Mail.LeadRecipients, mail.LeadTargetingData{
			UserID:      userID,
			SubmittedAt: h.now(),
			Sections:    form.LeadSections(),
		})
		if err != nil {
			h.logger.Error("lead targeting notification failed", zap.String("user_id", userID), zap.Error(err))
			c.HTML(http.StatusBadGateway, leadTemplate, gin.H{
				"Title":    "Lead Targeting",
				"Error":    submitFailedMessage,
				"Sections": form.Sections,
			})
			return
		}
	}

	h.logger.Info("lead targeting request accepted", zap.String("user_id", userID))
	c.HTML(http.StatusOK, leadTemplate, gin.H{
		"Title":     "Lead Targeting",
		"Submitted": true,
	})
}
