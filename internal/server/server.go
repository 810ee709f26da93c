// Package server assembles the HTTP application from its domain modules.
package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"diezagency/internal/config"
	"diezagency/internal/domain/admin"
	"diezagency/internal/domain/article"
	"diezagency/internal/domain/contact"
	"diezagency/internal/domain/realisation"
	"diezagency/internal/domain/upload"
	"diezagency/internal/funnel"
	"diezagency/internal/i18n"
	"diezagency/internal/locale"
	"diezagency/internal/middleware"
	"diezagency/internal/pkg/jwt"
	"diezagency/internal/pkg/mailer"
	"diezagency/internal/pkg/markdown"
	"diezagency/internal/pkg/ratelimit"
	"diezagency/internal/realtime"
	"diezagency/internal/site"
)

// Models lists every table the application owns.
func Models() []any {
	return []any{
		&contact.Contact{},
		&article.Article{},
		&realisation.Realisation{},
		&upload.Upload{},
		&admin.AdminUser{},
	}
}

// Deps are the external resources the application runs on.
type Deps struct {
	DB        *gorm.DB
	Storage   upload.Storage
	Mailer    mailer.Sender
	RateStore ratelimit.Store
	Log       *zap.Logger
}

// App is the wired application.
type App struct {
	Engine   *gin.Engine
	Sessions *contact.SessionStore
	Hub      *realtime.Hub

	notifier *contact.LeadNotifier
}

// New wires repositories, services and handlers and registers every route.
func New(cfg *config.Config, deps Deps) (*App, error) {
	log := deps.Log

	catalog, err := i18n.Load()
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}

	limiter, err := ratelimit.New(deps.RateStore, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	if err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	jwtService := jwt.New(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	hub := realtime.NewHub(log)

	// Contacts
	notifier := contact.NewLeadNotifier(deps.Mailer, cfg.SMTP.NotifyTo, catalog, hub, log)
	contactService := contact.NewService(contact.NewRepository(deps.DB), notifier, log)
	sessions := contact.NewSessionStore(cfg.Funnel.SessionTTL, func(l locale.Locale) *funnel.Wizard {
		return funnel.New(contactService, l,
			funnel.WithTransition(cfg.Funnel.Transition),
			funnel.WithFailureMessage(func(l locale.Locale) string {
				return catalog.T(l, "contact.error.generic")
			}),
			funnel.WithErrorHook(func(err error) {
				log.Error("funnel submit failed", zap.Error(err))
			}),
		)
	})
	contactHandler := contact.NewHandler(contactService, sessions, catalog, log)

	// Content
	articleService := article.NewService(article.NewRepository(deps.DB), markdown.New(), log)
	articleHandler := article.NewHandler(articleService, log)
	realisationService := realisation.NewService(realisation.NewRepository(deps.DB), log)
	realisationHandler := realisation.NewHandler(realisationService, log)
	uploadHandler := upload.NewHandler(upload.NewService(upload.NewRepository(deps.DB), deps.Storage, log), log)

	// Admin
	adminService := admin.NewService(admin.NewAdminRepository(deps.DB), jwtService, admin.Counters{
		Articles:     articleService,
		Realisations: realisationService,
		Contacts:     contactService,
	}, log)
	authHandler := admin.NewAuthHandler(adminService, log)
	adminHandler := admin.NewHandler(adminService, log)
	wsHandler := realtime.NewHandler(hub, realtime.NewUpgrader(cfg.CORS.AllowedOrigins), log)

	siteHandler, err := site.NewHandler(articleService, realisationService, catalog, site.Options{
		BaseURL:      cfg.App.BaseURL,
		CookieMaxAge: cfg.Locale.CookieMaxAge,
		CookieSecure: cfg.Locale.CookieSecure,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("site templates: %w", err)
	}

	r := gin.New()
	var proxies []string
	if len(cfg.App.TrustedProxies) > 0 {
		proxies = cfg.App.TrustedProxies
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.RequestLogger(log),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Locale(cfg.Locale.GeoHeader),
	)
	r.NoRoute(siteHandler.NotFound)

	if cfg.Storage.Driver == config.StorageLocal {
		uploads := r.Group(cfg.Storage.PublicBase, middleware.UploadHeaders())
		uploads.Static("", cfg.Storage.LocalDir)
	}

	api := r.Group("/api")
	{
		public := api.Group("")
		public.Use(middleware.RateLimit(limiter, log))
		contact.RegisterPublicRoutes(public, contactHandler)

		article.RegisterPublicRoutes(api, articleHandler)
		realisation.RegisterPublicRoutes(api, realisationHandler)

		adm := api.Group("/admin")
		protected := adm.Group("")
		protected.Use(middleware.AdminAuth(jwtService))
		owners := protected.Group("")
		owners.Use(middleware.RequireRole(admin.RoleOwner))

		loginGroup := adm.Group("")
		loginGroup.Use(middleware.RateLimit(limiter, log))
		admin.RegisterAuthRoutes(loginGroup, protected, authHandler)
		admin.RegisterRoutes(protected, owners, adminHandler)
		article.RegisterAdminRoutes(protected, articleHandler)
		realisation.RegisterAdminRoutes(protected, realisationHandler)
		upload.RegisterRoutes(protected, uploadHandler)
		contact.RegisterAdminRoutes(owners, contactHandler)
		protected.GET("/ws", wsHandler.Connect)
	}

	site.RegisterRoutes(r, siteHandler)

	return &App{
		Engine:   r,
		Sessions: sessions,
		Hub:      hub,
		notifier: notifier,
	}, nil
}

// Close waits for pending notifications and disconnects admin clients.
func (a *App) Close() {
	a.notifier.Wait()
	a.Hub.Close()
}
