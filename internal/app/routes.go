package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/intentified/web/internal/middleware"
	"github.com/intentified/web/internal/modules/documents"
	"github.com/intentified/web/internal/modules/health"
	"github.com/intentified/web/internal/modules/landing"
	"github.com/intentified/web/internal/modules/search"
	"github.com/intentified/web/internal/pkg/mail"
	"github.com/intentified/web/internal/pkg/response"
	"github.com/intentified/web/internal/web"
)

func (a *App) registerRoutes() {
	r := a.router
	cfg := a.cfg
	log := a.logger

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.Abort(c, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Registered ahead of the gate so probes never need a session.
	health.RegisterRoutes(r, a.db, a.redis, a.started)
	r.StaticFS("/static", web.Static())

	r.Use(newCORS(cfg))
	r.Use(middleware.Gate(a.identity, cfg.SignInURL(), log))

	debounce := cfg.Search.Debounce

	docSvc := documents.NewService(documents.NewRepository(a.db), log)

	searchOpts := []search.ServiceOption{search.WithLogger(log)}
	if cfg.Search.Remote {
		searchOpts = append(searchOpts, search.WithRemote(search.NewRemoteClient(cfg.Store)))
	}
	searchSvc := search.NewService(a.db, cfg.Store.SearchMatchCount, searchOpts...)

	mailer := mail.New(mail.BuildMailConfig(cfg.Mail))
	if !mailer.Enabled() {
		log.Info("mail disabled, lead targeting requests are only logged")
	}

	landing.NewHandler(cfg, a.identity, mailer, log).RegisterRoutes(r)

	dashboard := r.Group(middleware.DashboardPrefix)
	api := dashboard.Group("/api")
	documents.NewHandler(docSvc, a.presigner, debounce, log).RegisterRoutes(dashboard, api)
	search.NewHandler(searchSvc, debounce, log).RegisterRoutes(dashboard, api, middleware.RateLimit(a.redis.Raw(), log))
}
